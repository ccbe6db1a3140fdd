package diag

import "testing"

func TestAddRecordsExcerpt(t *testing.T) {
	src := []byte("CIRCUIT {\nDEVICES { FOO.I1 }\n}")
	d := NewDiagnostics(src)
	d.Add(Semantic, 2, 11, "unknown device %q", "FOO")

	if !d.HasErrors() {
		t.Fatal("expected HasErrors to be true after Add")
	}
	items := d.Items()
	if len(items) != 1 {
		t.Fatalf("len(Items()) = %d, want 1", len(items))
	}
	if items[0].SourceExcerpt != "DEVICES { FOO.I1 }" {
		t.Errorf("SourceExcerpt = %q", items[0].SourceExcerpt)
	}
}

func TestEmptyDiagnosticsHasNoErrors(t *testing.T) {
	d := NewDiagnostics([]byte("CIRCUIT { } END"))
	if d.HasErrors() {
		t.Fatal("fresh Diagnostics reports errors")
	}
	if d.String() != "" {
		t.Errorf("String() = %q, want empty", d.String())
	}
}

func TestStringIncludesCaretAndCount(t *testing.T) {
	d := NewDiagnostics([]byte("A = SWITCH(9);"))
	d.Add(Semantic, 1, 12, "switch initial level out of range")
	out := d.String()
	if out == "" {
		t.Fatal("expected non-empty rendering")
	}
	if want := "1 error(s)\n"; len(out) < len(want) || out[len(out)-len(want):] != want {
		t.Errorf("String() does not end with %q: %q", want, out)
	}
}

func TestSourceOrderPreserved(t *testing.T) {
	d := NewDiagnostics([]byte("line1\nline2\nline3"))
	d.Add(Syntax, 1, 1, "first")
	d.Add(Semantic, 3, 1, "second")
	items := d.Items()
	if items[0].Message != "first" || items[1].Message != "second" {
		t.Errorf("diagnostics not preserved in insertion order: %+v", items)
	}
}
