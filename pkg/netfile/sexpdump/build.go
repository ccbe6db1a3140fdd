package sexpdump

import (
	"fmt"

	"github.com/circuitlab/gatesim/pkg/names"
	"github.com/circuitlab/gatesim/pkg/network"
)

// build walks a parsed (gatesim-network (devices ...) (connections
// ...) (monitors ...)) tree and replays it into a fresh
// network.Network, the same incremental discipline as
// pkg/netfile.Build uses for its own parsed form.
func build(root *node) (*network.Network, error) {
	if h, ok := root.head(); !ok || h != "gatesim-network" {
		return nil, fmt.Errorf("expected (gatesim-network ...), got %v", root)
	}

	devicesNode, ok := firstClause(root, "devices")
	if !ok {
		return nil, fmt.Errorf("missing (devices ...) section")
	}
	connectionsNode, ok := firstClause(root, "connections")
	if !ok {
		return nil, fmt.Errorf("missing (connections ...) section")
	}
	monitorsNode, ok := firstClause(root, "monitors")
	if !ok {
		return nil, fmt.Errorf("missing (monitors ...) section")
	}

	table := names.NewTable()
	net := network.New(table)

	for _, dn := range devicesNode.clauses("device") {
		name, ok := dn.clauseValue("name")
		if !ok {
			return nil, fmt.Errorf("device clause missing (name ...)")
		}
		kindText, ok := dn.clauseValue("kind")
		if !ok {
			return nil, fmt.Errorf("device %q missing (kind ...)", name)
		}
		kind, ok := kindByText[kindText]
		if !ok {
			return nil, fmt.Errorf("device %q: unknown kind %q", name, kindText)
		}
		handle := table.Intern(name)
		if _, exists := net.DeviceByName(handle); exists {
			return nil, fmt.Errorf("duplicate device name %q", name)
		}
		param := 0
		if paramText, ok := dn.clauseValue("param"); ok {
			n, err := fmt.Sscanf(paramText, "%d", &param)
			if n != 1 || err != nil {
				return nil, fmt.Errorf("device %q: malformed (param %s)", name, paramText)
			}
		}
		net.AddDevice(name, handle, kind, param)
	}

	for _, cn := range connectionsNode.clauses("connection") {
		srcName, ok := cn.clauseValue("src")
		if !ok {
			return nil, fmt.Errorf("connection missing (src ...)")
		}
		dstName, ok := cn.clauseValue("dst")
		if !ok {
			return nil, fmt.Errorf("connection missing (dst ...)")
		}
		srcDev, ok := net.DeviceByName(table.Intern(srcName))
		if !ok {
			return nil, fmt.Errorf("connection references unknown device %q", srcName)
		}
		dstDev, ok := net.DeviceByName(table.Intern(dstName))
		if !ok {
			return nil, fmt.Errorf("connection references unknown device %q", dstName)
		}
		srcPin := network.DefaultPin
		if srcPinText, ok := cn.clauseValue("src-pin"); ok {
			srcPin = table.Intern(srcPinText)
		}
		dstPin := network.DefaultPin
		if dstPinText, ok := cn.clauseValue("dst-pin"); ok {
			dstPin = table.Intern(dstPinText)
		}
		if err := net.SetDriver(dstDev, dstPin, srcDev, srcPin); err != nil {
			return nil, fmt.Errorf("wiring %s -> %s: %w", srcName, dstName, err)
		}
	}

	for _, mn := range monitorsNode.clauses("monitor") {
		devName, ok := mn.clauseValue("name")
		if !ok {
			return nil, fmt.Errorf("monitor clause missing (name ...)")
		}
		dev, ok := net.DeviceByName(table.Intern(devName))
		if !ok {
			return nil, fmt.Errorf("monitor references unknown device %q", devName)
		}
		pin := network.DefaultPin
		label := devName
		if pinText, ok := mn.clauseValue("pin"); ok {
			pin = table.Intern(pinText)
			label = devName + "." + pinText
		}
		net.AddMonitor(label, dev, pin)
	}

	return net, nil
}

func firstClause(n *node, key string) (*node, bool) {
	cs := n.clauses(key)
	if len(cs) == 0 {
		return nil, false
	}
	return cs[0], true
}
