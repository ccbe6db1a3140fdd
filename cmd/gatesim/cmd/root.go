package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/circuitlab/gatesim/pkg/network"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "gatesim",
	Short: "gatesim - a digital-logic circuit simulator",
	Long: `gatesim reads a textual circuit description (devices, connections,
and monitor points) and simulates it step by step.

Examples:
  gatesim validate circuit.gs          # parse-check only
  gatesim parse circuit.gs             # print the parsed network
  gatesim run circuit.gs --steps 10    # run and print monitor traces`,
	Version: "0.1.0",
}

// parseErr is returned by a subcommand when the source file contains
// lexical, syntax, or semantic diagnostics; Execute maps it to exit
// code 1.
type parseErr struct{ msg string }

func (e *parseErr) Error() string { return e.msg }

// newParseErr wraps rendered diagnostic text as a parseErr.
func newParseErr(rendered string) error { return &parseErr{msg: rendered} }

// usageErr is returned for malformed flags or arguments that cobra's
// own Args/flag validation did not already catch; Execute maps it to
// exit code 64, the sysexits.h EX_USAGE convention.
type usageErr struct{ err error }

func (e *usageErr) Error() string { return e.err.Error() }
func (e *usageErr) Unwrap() error { return e.err }

func newUsageErr(format string, args ...any) error {
	return &usageErr{err: fmt.Errorf(format, args...)}
}

// Execute runs the root command and translates the returned error, if
// any, into the process exit code: 0 success, 1 parse diagnostics,
// 2 a runtime oscillation, 64 a usage error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var pe *parseErr
		var ue *usageErr
		var oe *network.OscillationError
		switch {
		case errors.As(err, &pe):
			os.Exit(1)
		case errors.As(err, &oe):
			os.Exit(2)
		case errors.As(err, &ue):
			os.Exit(64)
		default:
			os.Exit(1)
		}
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
