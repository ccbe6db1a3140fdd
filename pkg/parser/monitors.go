package parser

import (
	"github.com/circuitlab/gatesim/pkg/lexer"
	"github.com/circuitlab/gatesim/pkg/names"
	"github.com/circuitlab/gatesim/pkg/network"
)

// parseMonitors recognises:
//
//	monitors = "MONITOR" "{" mon { mon } "}"
//
// An absent or empty MONITOR block is itself a syntax error: the
// language requires at least one monitor point.
func (p *parser) parseMonitors() {
	kwTok, ok := p.expectKeyword(names.KwMonitor)
	if !ok {
		p.skipTo(lexer.RBrace)
		return
	}
	if _, ok := p.expect(lexer.LBrace); !ok {
		p.skipTo(lexer.RBrace)
		return
	}
	count := 0
	for {
		tok := p.scan.Peek()
		if tok.Kind == lexer.RBrace {
			break
		}
		if tok.Kind == lexer.EOF {
			p.errorf(tok, "unexpected end of file in MONITOR block")
			break
		}
		p.parseMon()
		count++
	}
	if count == 0 {
		p.errorf(kwTok, "MONITOR block must name at least one monitor point")
	}
	p.expect(lexer.RBrace)
}

// parseMon recognises:
//
//	mon = point ";"
func (p *parser) parseMon() {
	pt, ok := p.parsePoint()
	if !ok {
		p.skipTo(lexer.Semicolon)
		return
	}
	if _, ok := p.expect(lexer.Semicolon); !ok {
		p.skipTo(lexer.Semicolon)
	}

	dev, exists := p.net.DeviceByName(pt.dev.NameHandle)
	if !exists {
		p.semanticf(pt.dev, "unknown device %q", pt.dev.Lexeme)
		return
	}
	pin := network.DefaultPin
	if pt.hasPin {
		pin = pt.pin.NameHandle
		if !dev.HasOutput(pin) {
			p.semanticf(pt.pin, "device %q has no output pin %q", pt.dev.Lexeme, pt.pin.Lexeme)
			return
		}
	} else if !dev.HasOutput(network.DefaultPin) {
		p.semanticf(pt.dev, "device %q has no default pin; name one explicitly", pt.dev.Lexeme)
		return
	}
	p.net.AddMonitor(pointText(pt), dev, pin)
}
