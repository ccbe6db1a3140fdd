package netfile

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"

	"golang.org/x/exp/slices"

	"github.com/circuitlab/gatesim/pkg/names"
	"github.com/circuitlab/gatesim/pkg/network"
)

func buildParser() (*participle.Parser[GnetFile], error) {
	return participle.Build[GnetFile](
		participle.Lexer(gnetLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(2),
	)
}

// Parse reads a netfile from r and builds the network.Network it
// describes.
func Parse(r io.Reader) (*network.Network, error) {
	p, err := buildParser()
	if err != nil {
		return nil, fmt.Errorf("netfile: building grammar: %w", err)
	}
	gf, err := p.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("netfile: parse: %w", err)
	}
	return Build(gf)
}

// ParseString reads a netfile from a string.
func ParseString(input string) (*network.Network, error) {
	return Parse(strings.NewReader(input))
}

var kindByText = map[string]network.Kind{
	"SWITCH": network.SwitchKind,
	"CLOCK":  network.ClockKind,
	"AND":    network.AndKind,
	"NAND":   network.NandKind,
	"OR":     network.OrKind,
	"NOR":    network.NorKind,
	"XOR":    network.XorKind,
	"NOT":    network.NotKind,
	"DTYPE":  network.DTypeKind,
}

// Build converts a parsed *GnetFile into a live network.Network,
// allocating a fresh name table and replaying devices, connections,
// and monitors in file order — the same incremental, build-as-you-go
// discipline pkg/parser uses for the hand-rolled grammar.
func Build(gf *GnetFile) (*network.Network, error) {
	table := names.NewTable()
	net := network.New(table)

	for _, d := range gf.Network.Devices.Devices {
		kind, ok := kindByText[strings.ToUpper(d.Kind)]
		if !ok {
			return nil, fmt.Errorf("netfile: device %q: unknown kind %q", d.Name, d.Kind)
		}
		handle := table.Intern(d.Name)
		if _, exists := net.DeviceByName(handle); exists {
			return nil, fmt.Errorf("netfile: duplicate device name %q", d.Name)
		}
		param := 0
		if d.Param != nil {
			param = *d.Param
		}
		net.AddDevice(d.Name, handle, kind, param)
	}

	for _, l := range gf.Network.Connections.Links {
		srcDev, ok := net.DeviceByName(table.Intern(l.SrcDevice))
		if !ok {
			return nil, fmt.Errorf("netfile: connection references unknown device %q", l.SrcDevice)
		}
		dstDev, ok := net.DeviceByName(table.Intern(l.DstDevice))
		if !ok {
			return nil, fmt.Errorf("netfile: connection references unknown device %q", l.DstDevice)
		}
		srcPin := network.DefaultPin
		if l.SrcPin != nil {
			srcPin = table.Intern(*l.SrcPin)
		}
		if l.DstPin == nil {
			return nil, fmt.Errorf("netfile: connection to %q is missing a destination pin", l.DstDevice)
		}
		dstPin := table.Intern(*l.DstPin)
		if err := net.SetDriver(dstDev, dstPin, srcDev, srcPin); err != nil {
			return nil, fmt.Errorf("netfile: wiring %s -> %s.%s: %w", l.SrcDevice, l.DstDevice, *l.DstPin, err)
		}
	}

	for _, w := range gf.Network.Monitors.Watches {
		dev, ok := net.DeviceByName(table.Intern(w.Device))
		if !ok {
			return nil, fmt.Errorf("netfile: monitor references unknown device %q", w.Device)
		}
		pin := network.DefaultPin
		name := w.Device
		if w.Pin != nil {
			pin = table.Intern(*w.Pin)
			name = w.Device + "." + *w.Pin
		}
		net.AddMonitor(name, dev, pin)
	}

	return net, nil
}

// Dump renders net as netfile text, devices and monitors sorted
// alphabetically by name so the output is stable across runs that
// built logically identical networks in a different declaration
// order — the format is meant for diffable golden files, where
// declaration-order churn should not show up as a diff.
func Dump(net *network.Network) string {
	var b strings.Builder
	b.WriteString("NETWORK {\n  DEVICES {\n")

	devices := append([]*network.Device(nil), net.Devices()...)
	slices.SortFunc(devices, func(a, b *network.Device) int {
		return strings.Compare(a.Name, b.Name)
	})
	for _, d := range devices {
		switch d.Kind {
		case network.SwitchKind, network.ClockKind,
			network.AndKind, network.NandKind, network.OrKind, network.NorKind:
			fmt.Fprintf(&b, "    DEVICE %s KIND=%s PARAM=%d;\n", d.Name, d.Kind, d.Param)
		default:
			fmt.Fprintf(&b, "    DEVICE %s KIND=%s;\n", d.Name, d.Kind)
		}
	}
	b.WriteString("  }\n  CONNECTIONS {\n")

	conns := append([]network.Connection(nil), net.Connections()...)
	slices.SortFunc(conns, func(a, c network.Connection) int {
		if n := strings.Compare(a.SrcDevice.Name, c.SrcDevice.Name); n != 0 {
			return n
		}
		if n := strings.Compare(a.DstDevice.Name, c.DstDevice.Name); n != 0 {
			return n
		}
		return strings.Compare(pinSuffix(net, a.DstPin), pinSuffix(net, c.DstPin))
	})
	for _, c := range conns {
		fmt.Fprintf(&b, "    LINK %s%s -> %s%s;\n",
			c.SrcDevice.Name, pinSuffix(net, c.SrcPin),
			c.DstDevice.Name, pinSuffix(net, c.DstPin))
	}
	b.WriteString("  }\n  MONITORS {\n")

	monitors := append([]*network.MonitorPoint(nil), net.Monitors()...)
	slices.SortFunc(monitors, func(a, c *network.MonitorPoint) int {
		return strings.Compare(a.Name, c.Name)
	})
	for _, m := range monitors {
		fmt.Fprintf(&b, "    WATCH %s%s;\n", m.Device.Name, pinSuffix(net, m.Pin))
	}
	b.WriteString("  }\n}\n")
	return b.String()
}

func pinSuffix(net *network.Network, pin names.Handle) string {
	if pin == network.DefaultPin {
		return ""
	}
	return "." + net.Table.Lookup(pin)
}
