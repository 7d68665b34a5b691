package blif

import (
	"strings"
	"testing"
)

func TestReadLines(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("a\nb\nc\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 3 || lines[0] != "a" || lines[1] != "b" || lines[2] != "c" {
		t.Errorf("expected [a b c]; got %v", lines)
	}
}

func TestParseReader(t *testing.T) {
	src := ".model r\n.inputs a b\n.outputs c\n.names a b c\n11 1\n.end\n"
	b, err := ParseReader("r.blif", strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Models) != 1 || b.Models[0].Meta.Name != "r" {
		t.Errorf("expected one model named %q; got %+v", "r", b.Models)
	}
}
