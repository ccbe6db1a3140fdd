package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <circuit-file>",
	Short: "Parse-check a circuit file without running it",
	Long: `validate runs the scanner and parser over a circuit file and
reports every lexical, syntax, and semantic diagnostic found, without
simulating any steps. It exits 0 if the file is clean and 1 if any
diagnostic was reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	net, err := loadAndParse(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "OK: %d device(s), %d connection(s), %d monitor(s)\n",
		len(net.Devices()), len(net.Connections()), len(net.Monitors()))
	return nil
}
