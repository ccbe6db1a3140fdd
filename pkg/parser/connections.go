package parser

import (
	"github.com/circuitlab/gatesim/pkg/lexer"
	"github.com/circuitlab/gatesim/pkg/names"
	"github.com/circuitlab/gatesim/pkg/network"
)

// parseConnections recognises:
//
//	connections = "CONNECT" "{" con { con } "}"
func (p *parser) parseConnections() {
	if _, ok := p.expectKeyword(names.KwConnect); !ok {
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
			p.errorf(tok, "unexpected end of file in CONNECT block")
			return
		}
		p.parseCon()
	}
	p.expect(lexer.RBrace)
}

// pointTokens is the syntactic result of parsePoint: a device name
// token and, if present, a pin name token.
type pointTokens struct {
	dev    lexer.Token
	pin    lexer.Token
	hasPin bool
}

// parsePoint recognises:
//
//	point = name [ "." name ]
func (p *parser) parsePoint() (pointTokens, bool) {
	dev, ok := p.expect(lexer.Name)
	if !ok {
		return pointTokens{}, false
	}
	pt := pointTokens{dev: dev}
	if p.scan.Peek().Kind == lexer.Dot {
		p.scan.Next()
		pin, ok := p.expect(lexer.Name)
		if !ok {
			return pointTokens{}, false
		}
		pt.pin = pin
		pt.hasPin = true
	}
	return pt, true
}

func pointText(pt pointTokens) string {
	if pt.hasPin {
		return pt.dev.Lexeme + "." + pt.pin.Lexeme
	}
	return pt.dev.Lexeme
}

// resolvedPoint is a point once its device and pin have been looked up
// in the network under construction.
type resolvedPoint struct {
	dev      *network.Device
	pin      names.Handle
	isOutput bool
}

// resolvePoint looks up the device named by pt and, if a pin is named,
// classifies it as one of that device's input or output pins. A bare
// point with no pin suffix can only resolve to a device's default
// output, since every input pin in this language is named.
func (p *parser) resolvePoint(pt pointTokens) (resolvedPoint, bool) {
	dev, ok := p.net.DeviceByName(pt.dev.NameHandle)
	if !ok {
		p.semanticf(pt.dev, "unknown device %q", pt.dev.Lexeme)
		return resolvedPoint{}, false
	}
	if !pt.hasPin {
		if dev.HasOutput(network.DefaultPin) {
			return resolvedPoint{dev: dev, pin: network.DefaultPin, isOutput: true}, true
		}
		p.semanticf(pt.dev, "device %q has no default pin; name one explicitly", pt.dev.Lexeme)
		return resolvedPoint{}, false
	}
	if dev.HasOutput(pt.pin.NameHandle) {
		return resolvedPoint{dev: dev, pin: pt.pin.NameHandle, isOutput: true}, true
	}
	if _, ok := dev.InputPin(pt.pin.NameHandle); ok {
		return resolvedPoint{dev: dev, pin: pt.pin.NameHandle, isOutput: false}, true
	}
	p.semanticf(pt.pin, "device %q has no pin %q", pt.dev.Lexeme, pt.pin.Lexeme)
	return resolvedPoint{}, false
}

// parseCon recognises:
//
//	con = point ">" point { "," point } ";"
//
// The left point must resolve to an output pin; every right point
// must resolve to an input pin not already driven. A failure to
// resolve the source aborts the whole connection; a failure on one
// destination in the list does not stop the others from being wired.
func (p *parser) parseCon() {
	src, ok := p.parsePoint()
	if !ok {
		p.skipTo(lexer.Semicolon)
		return
	}
	if _, ok := p.expect(lexer.Arrow); !ok {
		p.skipTo(lexer.Semicolon)
		return
	}

	first, ok := p.parsePoint()
	if !ok {
		p.skipTo(lexer.Semicolon)
		return
	}
	targets := []pointTokens{first}
	for p.scan.Peek().Kind == lexer.Comma {
		p.scan.Next()
		t, ok := p.parsePoint()
		if !ok {
			p.skipTo(lexer.Semicolon)
			return
		}
		targets = append(targets, t)
	}
	if _, ok := p.expect(lexer.Semicolon); !ok {
		p.skipTo(lexer.Semicolon)
	}

	srcResolved, ok := p.resolvePoint(src)
	if !ok {
		return
	}
	if !srcResolved.isOutput {
		p.semanticf(src.dev, "%q must be an output pin, found an input", pointText(src))
		return
	}

	for _, t := range targets {
		dst, ok := p.resolvePoint(t)
		if !ok {
			continue
		}
		if dst.isOutput {
			p.semanticf(t.dev, "%q must be an input pin, found an output", pointText(t))
			continue
		}
		if err := p.net.SetDriver(dst.dev, dst.pin, srcResolved.dev, srcResolved.pin); err != nil {
			p.semanticf(t.dev, "%s: %s", pointText(t), err)
		}
	}
}
