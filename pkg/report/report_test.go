package report

import (
	"strings"
	"testing"

	"github.com/circuitlab/gatesim/pkg/diag"
	"github.com/circuitlab/gatesim/pkg/names"
	"github.com/circuitlab/gatesim/pkg/network"
)

func buildXORNetwork(t *testing.T) *network.Network {
	t.Helper()
	table := names.NewTable()
	net := network.New(table)
	a := net.AddDevice("A", table.Intern("A"), network.SwitchKind, 0)
	b := net.AddDevice("B", table.Intern("B"), network.SwitchKind, 1)
	x := net.AddDevice("X", table.Intern("X"), network.XorKind, 2)
	if err := net.SetDriver(x, network.GateInputHandle(1), a, network.DefaultPin); err != nil {
		t.Fatal(err)
	}
	if err := net.SetDriver(x, network.GateInputHandle(2), b, network.DefaultPin); err != nil {
		t.Fatal(err)
	}
	net.AddMonitor("X", x, network.DefaultPin)
	return net
}

func TestWaveformRendersSignalLetters(t *testing.T) {
	net := buildXORNetwork(t)
	for i := 0; i < 3; i++ {
		if err := net.Step(); err != nil {
			t.Fatal(err)
		}
	}
	out := Waveforms(net.MonitorTraces())
	if !strings.Contains(out, "X") {
		t.Fatalf("waveform missing monitor name: %q", out)
	}
	if !strings.Contains(out, "111") {
		t.Fatalf("waveform missing expected 1-1-1 trace for steady A=0 B=1: %q", out)
	}
}

func TestDeviceTableSortedAndAligned(t *testing.T) {
	net := buildXORNetwork(t)
	out := DeviceTable(net)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "A") || !strings.HasPrefix(lines[1], "B") || !strings.HasPrefix(lines[2], "X") {
		t.Fatalf("device table not sorted alphabetically: %v", lines)
	}
	for i, want := range []string{"A  SWITCH", "B  SWITCH", "X  XOR"} {
		if lines[i] != want {
			t.Errorf("line %d = %q, want %q (kind column not aligned)", i, lines[i], want)
		}
	}
}

func TestDiagnosticsDelegatesToDiagString(t *testing.T) {
	// An empty diagnostics collector renders as the empty string both
	// directly and through pkg/report.
	d := diag.NewDiagnostics(nil)
	if got := Diagnostics(d); got != "" {
		t.Fatalf("Diagnostics(empty) = %q, want empty", got)
	}
}
