package network

import (
	"testing"

	"github.com/circuitlab/gatesim/pkg/names"
)

func TestXORTruthTable(t *testing.T) {
	// Scenario 1 from the spec: A,B = SWITCH(0); X = XOR; A>X.I1; B>X.I2.
	cases := []struct {
		a, b int
		want Signal
	}{
		{0, 0, Low},
		{1, 0, High},
		{0, 1, High},
		{1, 1, Low},
	}
	for _, c := range cases {
		table := names.NewTable()
		n := New(table)
		a := n.AddDevice("A", table.Intern("A"), SwitchKind, c.a)
		b := n.AddDevice("B", table.Intern("B"), SwitchKind, c.b)
		x := n.AddDevice("X", table.Intern("X"), XorKind, 0)
		mustDrive(t, n, x, GateInputHandle(1), a, DefaultPin)
		mustDrive(t, n, x, GateInputHandle(2), b, DefaultPin)
		mp := n.AddMonitor("X", x, DefaultPin)

		if err := n.Step(); err != nil {
			t.Fatalf("a=%d b=%d: Step: %v", c.a, c.b, err)
		}
		if got := mp.Trace[0]; got != c.want {
			t.Errorf("a=%d b=%d: X = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestClockPeriodLaw(t *testing.T) {
	// Scenario 2: CL1 = CLOCK(2), stepped 6 times, starting Low.
	table := names.NewTable()
	n := New(table)
	cl := n.AddDevice("CL1", table.Intern("CL1"), ClockKind, 2)
	mp := n.AddMonitor("CL1", cl, DefaultPin)

	for i := 0; i < 6; i++ {
		if err := n.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	want := []Signal{Low, Low, High, High, Low, Low}
	for i, w := range want {
		if mp.Trace[i] != w {
			t.Errorf("trace[%d] = %v, want %v (full trace %v)", i, mp.Trace[i], w, mp.Trace)
		}
	}
}

func TestClockPeriodLawGeneral(t *testing.T) {
	for _, p := range []int{1, 3, 5} {
		table := names.NewTable()
		n := New(table)
		cl := n.AddDevice("CL", table.Intern("CL"), ClockKind, p)
		mp := n.AddMonitor("CL", cl, DefaultPin)
		for i := 0; i < 2*p; i++ {
			if err := n.Step(); err != nil {
				t.Fatalf("period %d step %d: %v", p, i, err)
			}
		}
		for i := 0; i < p; i++ {
			if mp.Trace[i] != Low {
				t.Errorf("period %d: trace[%d] = %v, want Low", p, i, mp.Trace[i])
			}
		}
		for i := p; i < 2*p; i++ {
			if mp.Trace[i] != High {
				t.Errorf("period %d: trace[%d] = %v, want High", p, i, mp.Trace[i])
			}
		}
	}
}

func TestDTypeLatchesOnRisingEdge(t *testing.T) {
	// Scenario 3: dt1.DATA <- D=SWITCH(1), dt1.CLK <- CLOCK(1).
	table := names.NewTable()
	n := New(table)
	d := n.AddDevice("D", table.Intern("D"), SwitchKind, 1)
	clk := n.AddDevice("CLK1", table.Intern("CLK1"), ClockKind, 1)
	dt := n.AddDevice("dt1", table.Intern("dt1"), DTypeKind, 0)
	mustDriveNamed(t, n, dt, "DATA", d, DefaultPin)
	mustDriveNamed(t, n, dt, "CLK", clk, DefaultPin)
	qHandle := table.Intern("Q")
	mp := n.AddMonitor("dt1.Q", dt, qHandle)

	// CLOCK(1) holds Low for step 1, then rises on step 2 (see
	// TestClockPeriodLawGeneral): the D-type only latches on that
	// rising step.
	if err := n.Step(); err != nil {
		t.Fatal(err)
	}
	if mp.Trace[0] != Low {
		t.Fatalf("Q before any rising edge = %v, want Low (its reset value)", mp.Trace[0])
	}

	if err := n.Step(); err != nil {
		t.Fatal(err)
	}
	if mp.Trace[1] != High {
		t.Fatalf("Q after the rising edge = %v, want High", mp.Trace[1])
	}

	if err := n.SetSwitch("D", Low); err != nil {
		t.Fatal(err)
	}
	if err := n.Step(); err != nil {
		t.Fatal(err)
	}
	// CLK falls on step 3: no rising edge, Q holds High even though D
	// has already been set back to Low.
	if mp.Trace[2] != High {
		t.Fatalf("Q should hold across a non-rising step, got %v", mp.Trace[2])
	}

	if err := n.Step(); err != nil {
		t.Fatal(err)
	}
	// CLK rises again on step 4: Q now follows the new DATA value.
	if mp.Trace[3] != Low {
		t.Fatalf("Q after the next rising edge = %v, want Low", mp.Trace[3])
	}
}

func TestOscillationDetected(t *testing.T) {
	// Scenario 6: a NAND fed back into itself with no D-type breaking
	// the loop.
	table := names.NewTable()
	n := New(table)
	g := n.AddDevice("G", table.Intern("G"), NandKind, 1)
	if err := n.SetDriver(g, GateInputHandle(1), g, DefaultPin); err != nil {
		t.Fatal(err)
	}
	n.AddMonitor("G", g, DefaultPin)

	err := n.Step()
	if err == nil {
		t.Fatal("expected an OscillationError, got nil")
	}
	if _, ok := err.(*OscillationError); !ok {
		t.Fatalf("err = %T, want *OscillationError", err)
	}
}

func TestOscillationLeavesTracesUnchanged(t *testing.T) {
	table := names.NewTable()
	n := New(table)
	g := n.AddDevice("G", table.Intern("G"), NandKind, 1)
	_ = n.SetDriver(g, GateInputHandle(1), g, DefaultPin)
	mp := n.AddMonitor("G", g, DefaultPin)

	if err := n.Step(); err == nil {
		t.Fatal("expected oscillation")
	}
	if len(mp.Trace) != 0 {
		t.Fatalf("trace mutated despite oscillation: %v", mp.Trace)
	}
}

func TestGatePurity(t *testing.T) {
	table := names.NewTable()
	n := New(table)
	a := n.AddDevice("A", table.Intern("A"), SwitchKind, 1)
	b := n.AddDevice("B", table.Intern("B"), SwitchKind, 0)
	g := n.AddDevice("G", table.Intern("G"), AndKind, 2)
	mustDrive(t, n, g, GateInputHandle(1), a, DefaultPin)
	mustDrive(t, n, g, GateInputHandle(2), b, DefaultPin)

	first := evaluateGate(g)
	second := evaluateGate(g)
	if first != second {
		t.Fatalf("evaluateGate not pure: %v vs %v", first, second)
	}
}

func TestDeterminismAcrossIdenticalRuns(t *testing.T) {
	build := func() (*Network, *MonitorPoint) {
		table := names.NewTable()
		n := New(table)
		a := n.AddDevice("A", table.Intern("A"), SwitchKind, 1)
		nt := n.AddDevice("N", table.Intern("N"), NotKind, 0)
		mustDrive(t, n, nt, GateInputHandle(1), a, DefaultPin)
		mp := n.AddMonitor("N", nt, DefaultPin)
		return n, mp
	}

	n1, mp1 := build()
	n2, mp2 := build()
	for i := 0; i < 4; i++ {
		if err := n1.Step(); err != nil {
			t.Fatal(err)
		}
		if err := n2.Step(); err != nil {
			t.Fatal(err)
		}
	}
	for i := range mp1.Trace {
		if mp1.Trace[i] != mp2.Trace[i] {
			t.Fatalf("runs diverged at step %d: %v vs %v", i, mp1.Trace[i], mp2.Trace[i])
		}
	}
}

func mustDrive(t *testing.T, n *Network, dst *Device, dstPin names.Handle, src *Device, srcPin names.Handle) {
	t.Helper()
	if err := n.SetDriver(dst, dstPin, src, srcPin); err != nil {
		t.Fatalf("SetDriver: %v", err)
	}
}

func mustDriveNamed(t *testing.T, n *Network, dst *Device, pinName string, src *Device, srcPin names.Handle) {
	t.Helper()
	h := n.Table.Intern(pinName)
	mustDrive(t, n, dst, h, src, srcPin)
}
