package netfile

import (
	"strings"
	"testing"

	"github.com/circuitlab/gatesim/pkg/network"
)

const xorNetfile = `
NETWORK {
  DEVICES {
    DEVICE A KIND=SWITCH PARAM=0;
    DEVICE B KIND=SWITCH PARAM=1;
    DEVICE X KIND=XOR;
  }
  CONNECTIONS {
    LINK A -> X.I1;
    LINK B -> X.I2;
  }
  MONITORS {
    WATCH X;
  }
}
`

func TestParseStringBuildsSteppableNetwork(t *testing.T) {
	net, err := ParseString(xorNetfile)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if err := net.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	trace := net.MonitorTraces()[0].Trace
	if trace[0] != network.High {
		t.Fatalf("X = %v, want High (A=0 XOR B=1)", trace[0])
	}
}

func TestParseStringRejectsUnknownDevice(t *testing.T) {
	src := `NETWORK {
		DEVICES { DEVICE A KIND=SWITCH PARAM=0; }
		CONNECTIONS { LINK A -> MISSING.I1; }
		MONITORS { WATCH A; }
	}`
	if _, err := ParseString(src); err == nil {
		t.Fatal("expected an error for a connection to an undeclared device")
	}
}

func TestDumpThenParseStringRoundTrips(t *testing.T) {
	net1, err := ParseString(xorNetfile)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	dumped := Dump(net1)
	if !strings.Contains(dumped, "KIND=XOR") {
		t.Fatalf("dump missing XOR device: %s", dumped)
	}

	net2, err := ParseString(dumped)
	if err != nil {
		t.Fatalf("ParseString(Dump(...)): %v\n%s", err, dumped)
	}
	if err := net2.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	trace := net2.MonitorTraces()[0].Trace
	if trace[0] != network.High {
		t.Fatalf("round-tripped network: X = %v, want High", trace[0])
	}
}

func TestDumpIsStableAcrossDeclarationOrder(t *testing.T) {
	reordered := `
	NETWORK {
	  DEVICES {
	    DEVICE X KIND=XOR;
	    DEVICE B KIND=SWITCH PARAM=1;
	    DEVICE A KIND=SWITCH PARAM=0;
	  }
	  CONNECTIONS {
	    LINK B -> X.I2;
	    LINK A -> X.I1;
	  }
	  MONITORS {
	    WATCH X;
	  }
	}
	`
	net1, err := ParseString(xorNetfile)
	if err != nil {
		t.Fatal(err)
	}
	net2, err := ParseString(reordered)
	if err != nil {
		t.Fatal(err)
	}
	if Dump(net1) != Dump(net2) {
		t.Fatalf("dumps differ by declaration order alone:\n%s\n---\n%s", Dump(net1), Dump(net2))
	}
}
