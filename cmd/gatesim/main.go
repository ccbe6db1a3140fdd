// Command gatesim is the circuit simulator's CLI front end: parse,
// validate, and run circuit-definition-language source files, and
// render diagnostics or monitor traces to the terminal.
package main

import "github.com/circuitlab/gatesim/cmd/gatesim/cmd"

func main() {
	cmd.Execute()
}
