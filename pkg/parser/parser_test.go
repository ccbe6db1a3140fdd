package parser

import (
	"strings"
	"testing"

	"github.com/circuitlab/gatesim/pkg/network"
)

func TestParseXORNetwork(t *testing.T) {
	src := `CIRCUIT {
		DEVICES { A,B = SWITCH(0); X = XOR; }
		CONNECT { A > X.I1; B > X.I2; }
		MONITOR { X; }
	} END`

	net, diags := Parse([]byte(src))
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.String())
	}
	if len(net.Devices()) != 3 {
		t.Fatalf("len(Devices()) = %d, want 3", len(net.Devices()))
	}
	if err := net.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	traces := net.MonitorTraces()
	if len(traces) != 1 || traces[0].Name != "X" {
		t.Fatalf("monitors = %+v, want one named X", traces)
	}
	if traces[0].Trace[0] != network.Low {
		t.Fatalf("X after step with A=B=0 = %v, want Low", traces[0].Trace[0])
	}
}

func TestParseUnknownDeviceLeavesOtherConnectionsInstalled(t *testing.T) {
	// Scenario 4: FOO is never declared; A > G.I1 is otherwise valid
	// and should still be installed.
	src := `CIRCUIT {
		DEVICES { A,B = SWITCH(0); G = AND(1); }
		CONNECT { FOO.I1 > G.I1; A > G.I1; }
		MONITOR { G; }
	} END`

	net, diags := Parse([]byte(src))
	found := false
	for _, d := range diags.Items() {
		if strings.Contains(d.Message, "unknown device") && strings.Contains(d.Message, "FOO") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an unknown-device diagnostic for FOO, got: %s", diags.String())
	}

	g, ok := net.DeviceByName(net.Table.Intern("G"))
	if !ok {
		t.Fatal("device G missing")
	}
	if src, _, ok := net.DriverOf(g, network.GateInputHandle(1)); !ok || src.Name != "A" {
		t.Fatalf("G.I1 driver = %v (ok=%v), want A", src, ok)
	}
}

func TestParseMultipleDriversReportsOnlySecondOccurrence(t *testing.T) {
	// Scenario 5: two '>' lines target G.I1; exactly one diagnostic
	// names the conflict, at the second occurrence.
	src := `CIRCUIT {
		DEVICES { A,B = SWITCH(0); G = AND(1); }
		CONNECT { A > G.I1; B > G.I1; }
		MONITOR { G; }
	} END`

	_, diags := Parse([]byte(src))
	count := 0
	for _, d := range diags.Items() {
		if strings.Contains(d.Message, "driver") {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("driver-conflict diagnostics = %d, want 1 (diags: %s)", count, diags.String())
	}
}

func TestParseEmptyMonitorBlockIsAnError(t *testing.T) {
	src := `CIRCUIT {
		DEVICES { A = SWITCH(0); }
		CONNECT { }
		MONITOR { }
	} END`

	_, diags := Parse([]byte(src))
	if !diags.HasErrors() {
		t.Fatal("expected an error for an empty MONITOR block")
	}
}

func TestParseDuplicateDeviceName(t *testing.T) {
	src := `CIRCUIT {
		DEVICES { A = SWITCH(0); A = SWITCH(1); }
		CONNECT { }
		MONITOR { A; }
	} END`

	_, diags := Parse([]byte(src))
	found := false
	for _, d := range diags.Items() {
		if strings.Contains(d.Message, "duplicate device") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a duplicate-device diagnostic, got: %s", diags.String())
	}
}

func TestParseArityOutOfRange(t *testing.T) {
	src := `CIRCUIT {
		DEVICES { G = AND(17); }
		CONNECT { }
		MONITOR { G; }
	} END`

	_, diags := Parse([]byte(src))
	if !diags.HasErrors() {
		t.Fatal("expected an arity-range diagnostic for AND(17)")
	}
}

func TestParseUnconnectedInputDetected(t *testing.T) {
	src := `CIRCUIT {
		DEVICES { A = SWITCH(0); G = AND(2); }
		CONNECT { A > G.I1; }
		MONITOR { G; }
	} END`

	_, diags := Parse([]byte(src))
	found := false
	for _, d := range diags.Items() {
		if strings.Contains(d.Message, "unconnected input") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an unconnected-input diagnostic, got: %s", diags.String())
	}
}

func TestParseSwitchOnOffSynonyms(t *testing.T) {
	src := `CIRCUIT {
		DEVICES { A = SWITCH(ON); B = SWITCH(OFF); }
		CONNECT { }
		MONITOR { A; B; }
	} END`

	net, diags := Parse([]byte(src))
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.String())
	}
	if err := net.Step(); err != nil {
		t.Fatal(err)
	}
	traces := net.MonitorTraces()
	if traces[0].Trace[0] != network.High {
		t.Fatalf("A (SWITCH(ON)) = %v, want High", traces[0].Trace[0])
	}
	if traces[1].Trace[0] != network.Low {
		t.Fatalf("B (SWITCH(OFF)) = %v, want Low", traces[1].Trace[0])
	}
}

func TestParseTotalityOnGarbageInput(t *testing.T) {
	// Parse must terminate and return a non-nil diagnostics list for
	// any finite input, however malformed.
	inputs := []string{
		"",
		"CIRCUIT",
		"{{{{{{",
		";;;;;;",
		"CIRCUIT { DEVICES { A = SWITCH(0) CONNECT { } MONITOR { A } } END",
		"CIRCUIT { } END",
		"\x01\x02\x03 CIRCUIT",
	}
	for _, in := range inputs {
		net, diags := Parse([]byte(in))
		if net == nil || diags == nil {
			t.Fatalf("Parse(%q) returned nil", in)
		}
	}
}

func TestParseDTypeConnections(t *testing.T) {
	src := `CIRCUIT {
		DEVICES { D = SWITCH(1); Z = SWITCH(0); CLK1 = CLOCK(1); dt1 = DTYPE; }
		CONNECT { D > dt1.DATA; CLK1 > dt1.CLK; Z > dt1.SET, dt1.CLEAR; }
		MONITOR { dt1.Q; }
	} END`

	net, diags := Parse([]byte(src))
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.String())
	}
	for i := 0; i < 2; i++ {
		if err := net.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	trace := net.MonitorTraces()[0].Trace
	if trace[1] != network.High {
		t.Fatalf("dt1.Q after the rising edge = %v, want High", trace[1])
	}
}
