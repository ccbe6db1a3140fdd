// Package netfile is a second, optional ingestion path for circuit
// networks: a flattened, declarative interchange format ("netfile",
// conventionally given a ".gnet" extension) parsed with participle
// instead of pkg/parser's hand-rolled scanner. It exists for golden
// fixtures and regression tests, where a network needs to be written
// down and diffed without round-tripping the full circuit-definition
// grammar. It is not a replacement for pkg/parser.
package netfile

import "github.com/alecthomas/participle/v2/lexer"

// gnetLexer defines the lexical structure of the netfile format.
var gnetLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	{Name: "KwNetwork", Pattern: `(?i)\bNETWORK\b`},
	{Name: "KwDevices", Pattern: `(?i)\bDEVICES\b`},
	{Name: "KwDevice", Pattern: `(?i)\bDEVICE\b`},
	{Name: "KwKind", Pattern: `(?i)\bKIND\b`},
	{Name: "KwParam", Pattern: `(?i)\bPARAM\b`},
	{Name: "KwConnections", Pattern: `(?i)\bCONNECTIONS\b`},
	{Name: "KwLink", Pattern: `(?i)\bLINK\b`},
	{Name: "KwMonitors", Pattern: `(?i)\bMONITORS\b`},
	{Name: "KwWatch", Pattern: `(?i)\bWATCH\b`},

	{Name: "Arrow", Pattern: `->`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Semicolon", Pattern: `;`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},

	{Name: "Integer", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z][a-zA-Z0-9_]*`},
})
