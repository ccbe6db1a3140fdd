// Package network is the circuit simulator's network model and
// simulation kernel. It holds devices and pins in flat, integer-
// addressed slices and maps rather than a nested object graph, so
// that connections — which may run from any output to any input,
// anywhere in the network — never require cyclic ownership.
package network

import "github.com/circuitlab/gatesim/pkg/names"

// Signal is the five-valued type carried by every pin. Rising and
// Falling are transient, one-cycle values produced by a Clock on the
// step it toggles; DType inspects them during that same step to
// detect an edge, and they are demoted to High/Low before the next
// step begins.
type Signal int

const (
	Low Signal = iota
	High
	Rising
	Falling
	Undefined
)

func (s Signal) String() string {
	switch s {
	case Low:
		return "0"
	case High:
		return "1"
	case Rising:
		return "R"
	case Falling:
		return "F"
	default:
		return "X"
	}
}

// Steady collapses a transient signal to the level it represents
// (Rising -> High, Falling -> Low); any other value passes through
// unchanged. Used both for D-type latching and for demoting transient
// outputs at the end of a step.
func (s Signal) Steady() Signal {
	switch s {
	case Rising:
		return High
	case Falling:
		return Low
	default:
		return s
	}
}

// Kind tags the variant of a Device. Evaluation dispatches on Kind
// rather than on a subclass hierarchy.
type Kind int

const (
	SwitchKind Kind = iota
	ClockKind
	AndKind
	NandKind
	OrKind
	NorKind
	XorKind
	NotKind
	DTypeKind
)

func (k Kind) String() string {
	switch k {
	case SwitchKind:
		return "SWITCH"
	case ClockKind:
		return "CLOCK"
	case AndKind:
		return "AND"
	case NandKind:
		return "NAND"
	case OrKind:
		return "OR"
	case NorKind:
		return "NOR"
	case XorKind:
		return "XOR"
	case NotKind:
		return "NOT"
	case DTypeKind:
		return "DTYPE"
	default:
		return "?"
	}
}

// IsGate reports whether k is a combinational gate evaluated by the
// fixed-point propagation loop (as opposed to a source device or the
// D-type, which are handled in their own kernel phases).
func (k Kind) IsGate() bool {
	switch k {
	case AndKind, NandKind, OrKind, NorKind, XorKind, NotKind:
		return true
	default:
		return false
	}
}

// DefaultPin is the reserved pin handle denoting a device's single
// unnamed output slot (a Switch or Clock's output, or a gate's output
// when referenced without a ".Q"-style suffix). It is never returned
// by names.Table.Intern, since that always yields a non-negative
// handle.
const DefaultPin names.Handle = -1

// Well-known pin name text for DType and for the gate input-pin
// naming convention "I1".."In". These are interned into the shared
// name table the first time a Network is built so that lookups by
// handle are as cheap as any user identifier.
const (
	PinData  = "DATA"
	PinClk   = "CLK"
	PinSet   = "SET"
	PinClear = "CLEAR"
	PinQ     = "Q"
	PinQBar  = "QBAR"
)

// Pin is an input port on a device: the driver supplying its value,
// and the value it currently carries (a cached copy of the driver's
// current output signal, refreshed every propagation pass).
type Pin struct {
	Owner   *Device
	Name    names.Handle
	Driven  bool
	DrvDev  *Device
	DrvPin  names.Handle
	Current Signal
}

// Device is a named instance of a circuit element. Input pins are
// addressed by name handle; output pins are addressed by name handle
// too, with DefaultPin standing in for devices (Switch, Clock, and
// single-output gates) that only expose one, unnamed output.
type Device struct {
	ID         int
	Name       string
	NameHandle names.Handle
	Kind       Kind

	// Param is the kind-specific configuration value: the initial
	// level (0 or 1) for a Switch, the half-period for a Clock, or
	// the input arity for AND/NAND/OR/NOR.
	Param int

	Inputs  map[names.Handle]*Pin
	Outputs map[names.Handle]Signal

	// clockCounter counts the steps the clock has held its current
	// level; it resets to 0 every time Param steps have elapsed.
	clockCounter int

	// dQ/dQBar hold the D-type's latched state across steps.
	dQ, dQBar Signal

	// everEvaluated marks whether this gate has completed at least one
	// evaluation since the device was created (or since the last
	// Reset). Only its very first evaluation treats an Undefined input
	// as Low; every evaluation after that reports a genuinely
	// Undefined input as Undefined. See resolveInput in kernel.go.
	everEvaluated bool
}

// OutputHandles returns the name handles of every output pin this
// device exposes, in a stable order.
func (d *Device) OutputHandles() []names.Handle {
	switch d.Kind {
	case DTypeKind:
		return []names.Handle{qHandle, qBarHandle}
	default:
		return []names.Handle{DefaultPin}
	}
}

// package-level handles for the fixed DType/gate pin names. Every
// names.Table interns its keywords and then these pin names in the
// same fixed order (NewTable followed immediately by New's call to
// internPinNames), so the handle values these vars hold are the same
// numeric constants on every Table built in the process: Intern is
// idempotent per table, so re-interning on a later Table is cheap and
// yields the identical values rather than allocating new ones tied to
// whichever Table happened to be first.
//
// These vars are deliberately not cached behind a "first table wins"
// guard: a process that builds more than one Table — every test binary
// in this module does — needs internPinNames to run again for each one,
// or the handles baked into gateInputHandles would only ever be valid
// on the first Table, while AddDevice keys every later Network's
// Inputs map with them regardless.
var (
	dataHandle, clkHandle, setHandle, clearHandle names.Handle
	qHandle, qBarHandle                           names.Handle
	gateInputHandles                              [16]names.Handle
)

func internPinNames(table *names.Table) {
	dataHandle = table.Intern(PinData)
	clkHandle = table.Intern(PinClk)
	setHandle = table.Intern(PinSet)
	clearHandle = table.Intern(PinClear)
	qHandle = table.Intern(PinQ)
	qBarHandle = table.Intern(PinQBar)
	for i := 0; i < 16; i++ {
		gateInputHandles[i] = table.Intern(gateInputName(i + 1))
	}
}

func gateInputName(n int) string {
	// "I1".."I16"
	digits := [2]byte{}
	if n < 10 {
		return "I" + string(rune('0'+n))
	}
	digits[0] = byte('0' + n/10)
	digits[1] = byte('0' + n%10)
	return "I" + string(digits[:])
}

// GateInputHandle returns the name handle for the i'th (1-based) gate
// input pin, e.g. GateInputHandle(1) is "I1".
func GateInputHandle(i int) names.Handle {
	return gateInputHandles[i-1]
}

// Connection is a directed edge recorded for diagnostics and for
// pkg/netfile's round-trip dump; the authoritative driver assignment
// lives on the destination Pin itself.
type Connection struct {
	SrcDevice *Device
	SrcPin    names.Handle
	DstDevice *Device
	DstPin    names.Handle
}

// MonitorPoint is one sampled point in the network; Trace grows by
// exactly one Signal every successful Step.
type MonitorPoint struct {
	Name    string
	Device  *Device
	Pin     names.Handle
	Trace   []Signal
}
