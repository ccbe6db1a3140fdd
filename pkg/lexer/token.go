package lexer

import "github.com/circuitlab/gatesim/pkg/names"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	Keyword Kind = iota
	Name
	Number
	Equals
	Comma
	Semicolon
	Arrow
	Dot
	LBrace
	RBrace
	LParen
	RParen
	EOF
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Keyword:
		return "keyword"
	case Name:
		return "name"
	case Number:
		return "number"
	case Equals:
		return "'='"
	case Comma:
		return "','"
	case Semicolon:
		return "';'"
	case Arrow:
		return "'>'"
	case Dot:
		return "'.'"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case EOF:
		return "end of file"
	default:
		return "invalid character"
	}
}

// Token is a single lexical unit together with its source position.
// NameHandle is valid when Kind is Name or Keyword; Number is valid
// when Kind is Number; Lexeme carries the raw invalid character when
// Kind is Invalid.
type Token struct {
	Kind       Kind
	NameHandle names.Handle
	KeywordKind names.Keyword
	Number     int
	Lexeme     string

	Line   int
	Col    int
	Offset int
}
