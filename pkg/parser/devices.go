package parser

import (
	"github.com/circuitlab/gatesim/pkg/lexer"
	"github.com/circuitlab/gatesim/pkg/names"
	"github.com/circuitlab/gatesim/pkg/network"
)

// parseDevices recognises:
//
//	devices = "DEVICES" "{" device { device } "}"
func (p *parser) parseDevices() {
	if _, ok := p.expectKeyword(names.KwDevices); !ok {
		p.skipTo(lexer.RBrace)
		return
	}
	if _, ok := p.expect(lexer.LBrace); !ok {
		p.skipTo(lexer.RBrace)
		return
	}
	for {
		tok := p.scan.Peek()
		if tok.Kind == lexer.RBrace {
			break
		}
		if tok.Kind == lexer.EOF {
			p.errorf(tok, "unexpected end of file in DEVICES block")
			return
		}
		p.parseDevice()
	}
	p.expect(lexer.RBrace)
}

// parseDevice recognises:
//
//	device = name { "," name } "=" devspec ";"
//
// and, on success, allocates one device per name in the list — all
// sharing the kind and parameter produced by devspec.
func (p *parser) parseDevice() {
	first, ok := p.expect(lexer.Name)
	if !ok {
		p.skipTo(lexer.Semicolon)
		return
	}
	nameToks := []lexer.Token{first}
	for p.scan.Peek().Kind == lexer.Comma {
		p.scan.Next()
		nt, ok := p.expect(lexer.Name)
		if !ok {
			p.skipTo(lexer.Semicolon)
			return
		}
		nameToks = append(nameToks, nt)
	}

	if _, ok := p.expect(lexer.Equals); !ok {
		p.skipTo(lexer.Semicolon)
		return
	}

	kind, param, ok := p.parseDevspec()
	if !ok {
		p.skipTo(lexer.Semicolon)
		return
	}

	if _, ok := p.expect(lexer.Semicolon); !ok {
		p.skipTo(lexer.Semicolon)
	}

	for _, nt := range nameToks {
		if _, exists := p.net.DeviceByName(nt.NameHandle); exists {
			p.semanticf(nt, "duplicate device name %q", nt.Lexeme)
			continue
		}
		if _, isKeyword := p.table.Keyword(nt.NameHandle); isKeyword {
			p.semanticf(nt, "keyword %q cannot be used as a device name", nt.Lexeme)
			continue
		}
		p.net.AddDevice(nt.Lexeme, nt.NameHandle, kind, param)
	}
}

// parseDevspec recognises:
//
//	devspec = "SWITCH" "(" ("0"|"1") ")"
//	        | "CLOCK"  "(" number ")"
//	        | ("AND"|"NAND"|"OR"|"NOR") "(" number ")"
//	        | "XOR" | "DTYPE" | "NOT"
//
// It reports its own diagnostics but leaves recovery to the caller,
// since parseDevice always synchronises on ';' regardless of which
// part of the devspec failed.
func (p *parser) parseDevspec() (network.Kind, int, bool) {
	tok := p.scan.Peek()
	if tok.Kind != lexer.Keyword {
		p.errorf(tok, "expected a device kind, found %s", tok.Kind)
		return 0, 0, false
	}

	switch tok.KeywordKind {
	case names.KwSwitch:
		p.scan.Next()
		n, ok := p.parseSwitchArg()
		return network.SwitchKind, n, ok
	case names.KwClock:
		p.scan.Next()
		n, ok := p.parseArityArg(1, -1, "CLOCK period")
		return network.ClockKind, n, ok
	case names.KwAnd:
		p.scan.Next()
		n, ok := p.parseArityArg(1, 16, "AND arity")
		return network.AndKind, n, ok
	case names.KwNand:
		p.scan.Next()
		n, ok := p.parseArityArg(1, 16, "NAND arity")
		return network.NandKind, n, ok
	case names.KwOr:
		p.scan.Next()
		n, ok := p.parseArityArg(1, 16, "OR arity")
		return network.OrKind, n, ok
	case names.KwNor:
		p.scan.Next()
		n, ok := p.parseArityArg(1, 16, "NOR arity")
		return network.NorKind, n, ok
	case names.KwXor:
		p.scan.Next()
		return network.XorKind, 0, true
	case names.KwDtype:
		p.scan.Next()
		return network.DTypeKind, 0, true
	case names.KwNot:
		p.scan.Next()
		return network.NotKind, 0, true
	default:
		p.errorf(tok, "expected a device kind, found %s", tok.KeywordKind)
		return 0, 0, false
	}
}

// parseSwitchArg recognises "(" ("0"|"1"|"ON"|"OFF") ")", returning the
// resolved initial level (0 or 1).
func (p *parser) parseSwitchArg() (int, bool) {
	if _, ok := p.expect(lexer.LParen); !ok {
		return 0, false
	}
	tok := p.scan.Peek()
	var val int
	switch {
	case tok.Kind == lexer.Number:
		p.scan.Next()
		if tok.Number != 0 && tok.Number != 1 {
			p.semanticf(tok, "switch initial value must be 0 or 1, found %d", tok.Number)
			return 0, false
		}
		val = tok.Number
	case tok.Kind == lexer.Keyword && tok.KeywordKind == names.KwOn:
		p.scan.Next()
		val = 1
	case tok.Kind == lexer.Keyword && tok.KeywordKind == names.KwOff:
		p.scan.Next()
		val = 0
	default:
		p.errorf(tok, "expected 0, 1, ON, or OFF, found %s", tok.Kind)
		return 0, false
	}
	if _, ok := p.expect(lexer.RParen); !ok {
		return 0, false
	}
	return val, true
}

// parseArityArg recognises "(" number ")", validating the number lies
// in [min,max]. max < 0 means no upper bound (used for CLOCK's period).
func (p *parser) parseArityArg(min, max int, label string) (int, bool) {
	if _, ok := p.expect(lexer.LParen); !ok {
		return 0, false
	}
	tok, ok := p.expect(lexer.Number)
	if !ok {
		return 0, false
	}
	if tok.Number < min {
		p.semanticf(tok, "%s must be at least %d, found %d", label, min, tok.Number)
		return 0, false
	}
	if max >= 0 && tok.Number > max {
		p.semanticf(tok, "%s must be at most %d, found %d", label, max, tok.Number)
		return 0, false
	}
	if _, ok := p.expect(lexer.RParen); !ok {
		return 0, false
	}
	return tok.Number, true
}
