package cmd

import (
	"os"

	"github.com/circuitlab/gatesim/pkg/network"
	"github.com/circuitlab/gatesim/pkg/parser"
)

// loadAndParse reads path and runs it through the scanner/parser
// pipeline, returning the built network only if it carries no
// diagnostics.
func loadAndParse(path string) (*network.Network, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, newUsageErr("reading %s: %w", path, err)
	}
	net, diags := parser.Parse(src)
	if diags.HasErrors() {
		return nil, newParseErr(diags.String())
	}
	return net, nil
}
