// Package report renders a Network's diagnostics and monitor traces
// for the CLI, in the spirit of the teacher's own text-table listings
// (cmd/otj/cmd/pcb.go's net table, cmd/otj/cmd/jtag listings): plain
// fmt.Fprintf columns, column widths measured with golang.org/x/text
// so a device name containing a full-width rune still lines up with
// its neighbours.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"

	"github.com/circuitlab/gatesim/pkg/diag"
	"github.com/circuitlab/gatesim/pkg/network"
)

// Diagnostics renders d exactly as diag.Diagnostics.String() does; it
// exists so callers depend on pkg/report for every piece of user-facing
// text instead of reaching into pkg/diag directly.
func Diagnostics(d *diag.Diagnostics) string {
	return d.String()
}

// visualWidth measures s the way a terminal would: East Asian wide and
// fullwidth runes count for two columns, everything else for one.
func visualWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// padRight pads s with spaces up to w visual columns.
func padRight(s string, w int) string {
	if pad := w - visualWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// Waveform renders one monitor's trace as a name column followed by a
// compact 01XRF row, one character per step, matching Signal.String().
func Waveform(nameWidth int, mp network.MonitorTrace) string {
	var b strings.Builder
	b.WriteString(padRight(mp.Name, nameWidth))
	b.WriteString("  ")
	for _, s := range mp.Trace {
		b.WriteString(s.String())
	}
	return b.String()
}

// Waveforms renders every monitor trace in traces, names aligned to the
// widest one.
func Waveforms(traces []network.MonitorTrace) string {
	widest := 0
	for _, mp := range traces {
		if w := visualWidth(mp.Name); w > widest {
			widest = w
		}
	}
	var b strings.Builder
	for _, mp := range traces {
		b.WriteString(Waveform(widest, mp))
		b.WriteByte('\n')
	}
	return b.String()
}

// DeviceTable lists every device in net, one per line, kind and name
// columns aligned, sorted alphabetically by name via
// Network.SortedDeviceNames so the listing does not depend on
// declaration order.
func DeviceTable(net *network.Network) string {
	names := net.SortedDeviceNames()
	byName := make(map[string]*network.Device, len(names))
	for _, d := range net.Devices() {
		byName[d.Name] = d
	}

	widest := 0
	for _, name := range names {
		if w := visualWidth(name); w > widest {
			widest = w
		}
	}

	var b strings.Builder
	for _, name := range names {
		d := byName[name]
		fmt.Fprintf(&b, "%s  %s\n", padRight(name, widest), d.Kind)
	}
	return b.String()
}
