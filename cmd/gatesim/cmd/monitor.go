package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	monitorSteps  int
	monitorSwitch []string
)

var monitorCmd = &cobra.Command{
	Use:     "monitor <circuit-file>",
	Aliases: []string{"trace"},
	Short:   "Step a circuit and print each monitor's value after every step",
	Long: `monitor is run's step-by-step sibling: instead of printing the
whole accumulated waveform at the end, it prints one line per step as
the simulation proceeds, which is convenient for watching a circuit
with a clock tick by tick.`,
	Args: cobra.ExactArgs(1),
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().IntVar(&monitorSteps, "steps", 1, "number of simulation steps to run")
	monitorCmd.Flags().StringArrayVar(&monitorSwitch, "switch", nil, "NAME=0|1 switch override, repeatable")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	net, err := loadAndParse(args[0])
	if err != nil {
		return err
	}

	for _, spec := range monitorSwitch {
		name, level, err := parseSwitchFlag(spec)
		if err != nil {
			return err
		}
		if err := net.SetSwitch(name, level); err != nil {
			return newUsageErr("--switch %s: %w", spec, err)
		}
	}

	if monitorSteps < 0 {
		return newUsageErr("--steps must be non-negative, got %d", monitorSteps)
	}

	out := cmd.OutOrStdout()
	for i := 0; i < monitorSteps; i++ {
		if err := net.Step(); err != nil {
			return err
		}
		fmt.Fprintf(out, "step %d:", i+1)
		for _, mt := range net.MonitorTraces() {
			last := mt.Trace[len(mt.Trace)-1]
			fmt.Fprintf(out, " %s=%s", mt.Name, last)
		}
		fmt.Fprintln(out)
	}
	return nil
}
