package network

import (
	"fmt"

	"golang.org/x/exp/maps"

	"github.com/circuitlab/gatesim/pkg/names"
)

// OscillationError is returned by Step when propagation does not
// reach a fixed point within len(devices)+1 passes — almost always a
// combinational loop with no D-type breaking it.
type OscillationError struct {
	Passes int
}

func (e *OscillationError) Error() string {
	return fmt.Sprintf("oscillation: no stable state after %d propagation passes", e.Passes)
}

// Step advances the network by one abstract cycle: clocks advance,
// combinational devices propagate to a fixed point, the D-type
// samples on a rising CLK edge, transient signals demote, and every
// monitor point samples the signal it watches. On OscillationError,
// every device output, clock counter and D-type latch is restored to
// its value from before the call, and traces remain exactly as they
// were; input pins' cached signals and the gates' first-evaluation
// flags are not restored.
func (n *Network) Step() error {
	snapshot := n.snapshotOutputs()

	n.advanceClocks()
	if err := n.propagate(); err != nil {
		n.restoreOutputs(snapshot)
		return err
	}
	n.updateDTypes()
	n.demoteTransients()
	n.sampleMonitors()
	return nil
}

// advanceClocks runs kernel phase 1 for every Clock device.
func (n *Network) advanceClocks() {
	for _, d := range n.devices {
		if d.Kind != ClockKind {
			continue
		}
		period := d.Param
		if d.clockCounter == period {
			cur := d.Outputs[DefaultPin].Steady()
			var next Signal
			if cur == Low {
				next = Rising
			} else {
				next = Falling
			}
			d.Outputs[DefaultPin] = next
			d.clockCounter = 0
		}
		d.clockCounter++
	}
}

// refreshInputs copies each input pin's current value from its
// driver's output, so gate evaluation always reads a fresh snapshot.
func (n *Network) refreshInputs() {
	for _, d := range n.devices {
		for _, p := range d.Inputs {
			if p.Driven {
				p.Current = p.DrvDev.Outputs[p.DrvPin]
			}
		}
	}
}

// propagate runs kernel phase 2: repeat evaluation of every
// combinational gate until no output changes, bounded by
// len(devices)+1 passes.
func (n *Network) propagate() error {
	bound := len(n.devices) + 1
	for pass := 0; pass < bound; pass++ {
		n.refreshInputs()
		changed := false
		for _, d := range n.devices {
			if !d.Kind.IsGate() {
				continue
			}
			out := evaluateGate(d)
			d.everEvaluated = true
			if out != d.Outputs[DefaultPin] {
				d.Outputs[DefaultPin] = out
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
	return &OscillationError{Passes: bound}
}

// resolveInput folds a pin's current signal for gate evaluation: a
// transient Rising/Falling always counts as its steady level. An
// Undefined input only counts as Low on d's own first-ever evaluation
// (d.everEvaluated false) — that bootstrap Low is what lets a
// combinational loop with no external seed and no D-type to break it
// — e.g. a NAND wired back into its own input — actually oscillate
// instead of sitting forever at a stable "Undefined" fixed point. On
// every evaluation after that first one, an Undefined input is
// reported as genuinely Undefined, so a gate whose upstream input
// simply hasn't been computed yet this pass propagates Undefined per
// the gate's own three-valued truth table, rather than silently
// reading it as Low.
func (d *Device) resolveInput(s Signal) Signal {
	s = s.Steady()
	if s == Undefined && !d.everEvaluated {
		return Low
	}
	return s
}

// evaluateGate computes a combinational gate's single output from its
// current input signals. Evaluating the same inputs twice always
// yields the same output (gate purity): the result depends only on
// d.Inputs, never on evaluation order across devices.
func evaluateGate(d *Device) Signal {
	switch d.Kind {
	case AndKind:
		return andOf(d)
	case NandKind:
		return negate(andOf(d))
	case OrKind:
		return orOf(d)
	case NorKind:
		return negate(orOf(d))
	case XorKind:
		a := d.resolveInput(d.Inputs[GateInputHandle(1)].Current)
		b := d.resolveInput(d.Inputs[GateInputHandle(2)].Current)
		if a == Undefined || b == Undefined {
			return Undefined
		}
		if a != b {
			return High
		}
		return Low
	case NotKind:
		return negate(d.resolveInput(d.Inputs[GateInputHandle(1)].Current))
	default:
		return Undefined
	}
}

// andOf implements AND's truth table: Low if any input is Low,
// otherwise Undefined if any input is still Undefined, otherwise High.
func andOf(d *Device) Signal {
	sawUndefined := false
	for i := 1; i <= d.Param; i++ {
		switch d.resolveInput(d.Inputs[GateInputHandle(i)].Current) {
		case Low:
			return Low
		case Undefined:
			sawUndefined = true
		}
	}
	if sawUndefined {
		return Undefined
	}
	return High
}

// orOf implements OR's truth table: High if any input is High,
// otherwise Undefined if any input is still Undefined, otherwise Low.
func orOf(d *Device) Signal {
	sawUndefined := false
	for i := 1; i <= d.Param; i++ {
		switch d.resolveInput(d.Inputs[GateInputHandle(i)].Current) {
		case High:
			return High
		case Undefined:
			sawUndefined = true
		}
	}
	if sawUndefined {
		return Undefined
	}
	return Low
}

// negate inverts an already-resolved Low/High signal; an Undefined
// input passes through unchanged, since the negation of an unknown
// value is itself unknown.
func negate(s Signal) Signal {
	switch s {
	case Low:
		return High
	case High:
		return Low
	default:
		return s
	}
}

// updateDTypes runs kernel phase 3. SET/CLEAR are checked against
// their steady level since they are driven by combinational logic,
// never directly by a clock; CLEAR wins when both are High. Outside
// those, Q latches DATA's steady value on the step CLK carries a
// Rising transient (read before demoteTransients runs), and otherwise
// holds its previous value.
func (n *Network) updateDTypes() {
	for _, d := range n.devices {
		if d.Kind != DTypeKind {
			continue
		}
		// Re-read driver outputs in case the last propagate pass
		// exited before a fixed point on DType's own inputs specifically.
		for _, p := range d.Inputs {
			if p.Driven {
				p.Current = p.DrvDev.Outputs[p.DrvPin]
			}
		}

		set := d.Inputs[setHandle].Current.Steady()
		clear := d.Inputs[clearHandle].Current.Steady()
		clk := d.Inputs[clkHandle].Current
		data := d.Inputs[dataHandle].Current.Steady()

		switch {
		case clear == High:
			d.dQ, d.dQBar = Low, High
		case set == High:
			d.dQ, d.dQBar = High, Low
		case clk == Rising:
			d.dQ = data
			d.dQBar = negate(data)
		}
		d.Outputs[qHandle] = d.dQ
		d.Outputs[qBarHandle] = d.dQBar
	}
}

// demoteTransients runs kernel phase 4: every Rising output becomes
// High and every Falling output becomes Low, so the next step starts
// from a steady level.
func (n *Network) demoteTransients() {
	for _, d := range n.devices {
		for h, sig := range d.Outputs {
			d.Outputs[h] = sig.Steady()
		}
	}
}

// sampleMonitors runs kernel phase 5: append the current signal at
// each monitor point to its trace.
func (n *Network) sampleMonitors() {
	for _, m := range n.monitors {
		m.Trace = append(m.Trace, m.Device.Outputs[m.Pin])
	}
}

// MonitorTrace is a read-only view of one monitor point's recorded
// samples, returned by Network.MonitorTraces.
type MonitorTrace struct {
	Name  string
	Trace []Signal
}

// MonitorTraces returns every monitor's name and accumulated trace.
func (n *Network) MonitorTraces() []MonitorTrace {
	out := make([]MonitorTrace, len(n.monitors))
	for i, m := range n.monitors {
		out[i] = MonitorTrace{Name: m.Name, Trace: append([]Signal(nil), m.Trace...)}
	}
	return out
}

type outputsBackup struct {
	devOutputs []map[names.Handle]Signal
	clockCounters []int
	dQ, dQBar []Signal
}

func (n *Network) snapshotOutputs() outputsBackup {
	b := outputsBackup{
		devOutputs:    make([]map[names.Handle]Signal, len(n.devices)),
		clockCounters: make([]int, len(n.devices)),
		dQ:            make([]Signal, len(n.devices)),
		dQBar:         make([]Signal, len(n.devices)),
	}
	for i, d := range n.devices {
		b.devOutputs[i] = maps.Clone(d.Outputs)
		b.clockCounters[i] = d.clockCounter
		b.dQ[i] = d.dQ
		b.dQBar[i] = d.dQBar
	}
	return b
}

func (n *Network) restoreOutputs(b outputsBackup) {
	for i, d := range n.devices {
		for h, s := range b.devOutputs[i] {
			d.Outputs[h] = s
		}
		d.clockCounter = b.clockCounters[i]
		d.dQ = b.dQ[i]
		d.dQBar = b.dQBar[i]
	}
}
