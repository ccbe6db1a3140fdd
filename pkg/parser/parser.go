// Package parser recognises the circuit-definition-language grammar
// and builds a *network.Network as it goes: on a successful device or
// connection production, the device or connection is installed into
// the network immediately, there is no separate AST stage.
//
// Parsing never fails outright. Every production that can go wrong
// records a diagnostic and skips to the stopping symbol appropriate to
// its non-terminal — ';' for an item within a section, '}' for a
// section itself — so a single run surfaces every error in the file,
// not just the first.
package parser

import (
	"github.com/circuitlab/gatesim/pkg/diag"
	"github.com/circuitlab/gatesim/pkg/lexer"
	"github.com/circuitlab/gatesim/pkg/names"
	"github.com/circuitlab/gatesim/pkg/network"
)

// Parse scans and parses source, building a network.Network as it
// recognises the grammar. It always returns a non-nil network and a
// non-nil diagnostics list; callers must check diags.HasErrors()
// before simulating, since a network built from erroneous source may
// be incomplete or have unconnected inputs.
func Parse(source []byte) (*network.Network, *diag.Diagnostics) {
	table := names.NewTable()
	diags := diag.NewDiagnostics(source)
	scan := lexer.New(source, table, diags)
	net := network.New(table)

	p := &parser{scan: scan, table: table, diags: diags, net: net}
	p.parseNetwork()

	for _, pin := range net.UnconnectedInputs() {
		dev := pin.Owner
		diags.Add(diag.Semantic, 0, 0, "unconnected input: %s.%s", dev.Name, table.Lookup(pin.Name))
	}
	return net, diags
}

// parser holds the mutable state threaded through every parse*
// routine: the token scanner, the shared name table, the diagnostics
// sink, and the network under construction.
type parser struct {
	scan  *lexer.Scanner
	table *names.Table
	diags *diag.Diagnostics
	net   *network.Network
}

func (p *parser) errorf(tok lexer.Token, format string, args ...any) {
	p.diags.Add(diag.Syntax, tok.Line, tok.Col, format, args...)
}

func (p *parser) semanticf(tok lexer.Token, format string, args ...any) {
	p.diags.Add(diag.Semantic, tok.Line, tok.Col, format, args...)
}

// skipTo consumes tokens up to and including the next token of kind
// stop (or up to EOF, whichever comes first), synchronising the parser
// after an error.
func (p *parser) skipTo(stop lexer.Kind) {
	for {
		tok := p.scan.Peek()
		if tok.Kind == stop {
			p.scan.Next()
			return
		}
		if tok.Kind == lexer.EOF {
			return
		}
		p.scan.Next()
	}
}

// expect consumes the next token if it has kind k, recording a syntax
// diagnostic and leaving the token unconsumed otherwise. It reports
// whether the token matched.
func (p *parser) expect(k lexer.Kind) (lexer.Token, bool) {
	tok := p.scan.Peek()
	if tok.Kind != k {
		p.errorf(tok, "expected %s, found %s", k, tok.Kind)
		return tok, false
	}
	return p.scan.Next(), true
}

// expectKeyword consumes the next token if it is the keyword kw.
func (p *parser) expectKeyword(kw names.Keyword) (lexer.Token, bool) {
	tok := p.scan.Peek()
	if tok.Kind != lexer.Keyword || tok.KeywordKind != kw {
		p.errorf(tok, "expected %s, found %s", kw, tok.Kind)
		return tok, false
	}
	return p.scan.Next(), true
}

// parseNetwork recognises:
//
//	network = "CIRCUIT" "{" devices connections monitors "}" "END"
func (p *parser) parseNetwork() {
	if _, ok := p.expectKeyword(names.KwCircuit); !ok {
		p.skipTo(lexer.EOF)
		return
	}
	if _, ok := p.expect(lexer.LBrace); !ok {
		p.skipTo(lexer.RBrace)
	}
	p.parseDevices()
	p.parseConnections()
	p.parseMonitors()
	if _, ok := p.expect(lexer.RBrace); !ok {
		p.skipTo(lexer.RBrace)
	}
	p.expectKeyword(names.KwEnd)
}
