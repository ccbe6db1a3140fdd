package network

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/circuitlab/gatesim/pkg/names"
)

// Network is the built, verified circuit: a flat list of devices,
// the connections between their pins, and the monitor points sampled
// on every step. Topology is fixed once parsing succeeds; only signal
// state and monitor traces mutate afterwards.
type Network struct {
	Table *names.Table

	devices   []*Device
	byName    map[names.Handle]*Device
	connections []Connection
	monitors  []*MonitorPoint

	// initialSwitch records each switch's SWITCH(init) level as
	// declared in source, so Reset can restore it regardless of how
	// many times SetSwitch has been called since.
	initialSwitch map[*Device]Signal
}

// New returns an empty Network ready to be populated by pkg/parser.
func New(table *names.Table) *Network {
	internPinNames(table)
	return &Network{
		Table:         table,
		byName:        make(map[names.Handle]*Device),
		initialSwitch: make(map[*Device]Signal),
	}
}

// AddDevice allocates a new device of the given kind and registers it
// under name. It does not check for duplicate names; pkg/parser does
// that before calling AddDevice, since the diagnostic needs the
// original token's position.
func (n *Network) AddDevice(name string, handle names.Handle, kind Kind, param int) *Device {
	d := &Device{
		ID:         len(n.devices),
		Name:       name,
		NameHandle: handle,
		Kind:       kind,
		Param:      param,
		Inputs:     make(map[names.Handle]*Pin),
		Outputs:    make(map[names.Handle]Signal),
	}
	switch kind {
	case AndKind, NandKind, OrKind, NorKind:
		for i := 1; i <= param; i++ {
			h := GateInputHandle(i)
			d.Inputs[h] = &Pin{Owner: d, Name: h}
		}
		d.Outputs[DefaultPin] = Undefined
	case XorKind:
		d.Inputs[GateInputHandle(1)] = &Pin{Owner: d, Name: GateInputHandle(1)}
		d.Inputs[GateInputHandle(2)] = &Pin{Owner: d, Name: GateInputHandle(2)}
		d.Outputs[DefaultPin] = Undefined
	case NotKind:
		d.Inputs[GateInputHandle(1)] = &Pin{Owner: d, Name: GateInputHandle(1)}
		d.Outputs[DefaultPin] = Undefined
	case DTypeKind:
		d.Inputs[dataHandle] = &Pin{Owner: d, Name: dataHandle}
		d.Inputs[clkHandle] = &Pin{Owner: d, Name: clkHandle}
		d.Inputs[setHandle] = &Pin{Owner: d, Name: setHandle}
		d.Inputs[clearHandle] = &Pin{Owner: d, Name: clearHandle}
		d.dQ, d.dQBar = Low, High
		d.Outputs[qHandle] = d.dQ
		d.Outputs[qBarHandle] = d.dQBar
	case SwitchKind:
		lvl := Low
		if param != 0 {
			lvl = High
		}
		d.Outputs[DefaultPin] = lvl
		n.initialSwitch[d] = lvl
	case ClockKind:
		d.Outputs[DefaultPin] = Low
	}
	n.devices = append(n.devices, d)
	n.byName[handle] = d
	return d
}

// DeviceByID returns the device allocated with the given id.
func (n *Network) DeviceByID(id int) *Device {
	return n.devices[id]
}

// DeviceByName returns the device registered under handle, if any.
func (n *Network) DeviceByName(handle names.Handle) (*Device, bool) {
	d, ok := n.byName[handle]
	return d, ok
}

// Devices returns every device in the order it was added.
func (n *Network) Devices() []*Device {
	return n.devices
}

// DeviceNames returns the name of every device, in build order.
func (n *Network) DeviceNames() []string {
	out := make([]string, len(n.devices))
	for i, d := range n.devices {
		out[i] = d.Name
	}
	return out
}

// SortedDeviceNames returns every device name in alphabetical order,
// independent of declaration order, for front ends that want a stable
// listing regardless of how devices were ordered in source.
func (n *Network) SortedDeviceNames() []string {
	out := n.DeviceNames()
	slices.Sort(out)
	return out
}

// MonitorNames returns the rendered name of every monitor point, in
// declaration order.
func (n *Network) MonitorNames() []string {
	out := make([]string, len(n.monitors))
	for i, m := range n.monitors {
		out[i] = m.Name
	}
	return out
}

// InputPin looks up an input pin of d by name handle.
func (d *Device) InputPin(pin names.Handle) (*Pin, bool) {
	p, ok := d.Inputs[pin]
	return p, ok
}

// HasOutput reports whether d exposes an output pin named pin
// (DefaultPin for the unnamed default output).
func (d *Device) HasOutput(pin names.Handle) bool {
	_, ok := d.Outputs[pin]
	return ok
}

var errAlreadyDriven = fmt.Errorf("input pin already has a driver")

// SetDriver assigns src as the driver of dst's input pin. It fails if
// dst already has a driver (invariant: at most one driver per input),
// preserving the existing assignment so the caller can report the
// second connection as the offending one.
func (n *Network) SetDriver(dst *Device, dstPin names.Handle, src *Device, srcPin names.Handle) error {
	p, ok := dst.InputPin(dstPin)
	if !ok {
		return fmt.Errorf("device %q has no input pin %q", dst.Name, n.Table.Lookup(dstPin))
	}
	if p.Driven {
		return errAlreadyDriven
	}
	p.Driven = true
	p.DrvDev = src
	p.DrvPin = srcPin
	n.connections = append(n.connections, Connection{SrcDevice: src, SrcPin: srcPin, DstDevice: dst, DstPin: dstPin})
	return nil
}

// DriverOf returns the (device, pin) driving dst's input pin named
// dstPin, if one has been assigned.
func (n *Network) DriverOf(dst *Device, dstPin names.Handle) (src *Device, srcPin names.Handle, ok bool) {
	p, exists := dst.InputPin(dstPin)
	if !exists || !p.Driven {
		return nil, 0, false
	}
	return p.DrvDev, p.DrvPin, true
}

// SignalAt returns the current signal on d's output pin named pin
// (DefaultPin for the default output).
func (n *Network) SignalAt(d *Device, pin names.Handle) Signal {
	return d.Outputs[pin]
}

// SetSignal sets d's output pin named pin to sig.
func (n *Network) SetSignal(d *Device, pin names.Handle, sig Signal) {
	d.Outputs[pin] = sig
}

// UnconnectedInputs returns every input pin across the whole network
// that has no driver, for the global post-parse check required by
// invariant 9 in the grammar's semantic checks.
func (n *Network) UnconnectedInputs() []*Pin {
	var out []*Pin
	for _, d := range n.devices {
		for _, h := range inputOrder(d) {
			p := d.Inputs[h]
			if !p.Driven {
				out = append(out, p)
			}
		}
	}
	return out
}

// inputOrder returns a device's input pin handles in a stable,
// declaration-like order (I1..In, or DATA/CLK/SET/CLEAR) rather than
// Go's randomized map order, so diagnostics and dumps are
// deterministic.
func inputOrder(d *Device) []names.Handle {
	switch d.Kind {
	case DTypeKind:
		return []names.Handle{dataHandle, clkHandle, setHandle, clearHandle}
	default:
		out := make([]names.Handle, 0, len(d.Inputs))
		for i := 1; i <= len(d.Inputs); i++ {
			out = append(out, GateInputHandle(i))
		}
		return out
	}
}

// AddMonitor registers a monitor point on d's output pin. name is the
// rendered point text ("dev" or "dev.pin") used for reporting.
func (n *Network) AddMonitor(name string, d *Device, pin names.Handle) *MonitorPoint {
	mp := &MonitorPoint{Name: name, Device: d, Pin: pin}
	n.monitors = append(n.monitors, mp)
	return mp
}

// Monitors returns every monitor point, in declaration order.
func (n *Network) Monitors() []*MonitorPoint {
	return n.monitors
}

// Connections returns every installed connection, in the order the
// parser installed them.
func (n *Network) Connections() []Connection {
	return n.connections
}

// SetSwitch sets the named switch device's output level. It returns
// an error if name does not denote a Switch device.
func (n *Network) SetSwitch(name string, level Signal) error {
	for _, d := range n.devices {
		if d.Name == name {
			if d.Kind != SwitchKind {
				return fmt.Errorf("device %q is not a switch", name)
			}
			if level != Low && level != High {
				return fmt.Errorf("switch level must be 0 or 1")
			}
			d.Outputs[DefaultPin] = level
			return nil
		}
	}
	return fmt.Errorf("no such device %q", name)
}

// Reset restores every device to its initial state (switches to their
// source-declared SWITCH(init) level, clocks to Low with a zero counter, gate
// outputs to Undefined, the D-type to Q=Low/QBAR=High) and clears
// every monitor trace.
func (n *Network) Reset() {
	for _, d := range n.devices {
		switch d.Kind {
		case SwitchKind:
			d.Outputs[DefaultPin] = n.initialSwitch[d]
		case ClockKind:
			d.Outputs[DefaultPin] = Low
			d.clockCounter = 0
		case DTypeKind:
			d.dQ, d.dQBar = Low, High
			d.Outputs[qHandle] = d.dQ
			d.Outputs[qBarHandle] = d.dQBar
		default:
			for h := range d.Outputs {
				d.Outputs[h] = Undefined
			}
			d.everEvaluated = false
		}
		for _, p := range d.Inputs {
			p.Current = Undefined
		}
	}
	for _, m := range n.monitors {
		m.Trace = nil
	}
}
