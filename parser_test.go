package blif

import "testing"

func mustParse(t *testing.T, fileName, source string) *Blif {
	t.Helper()
	b, err := ParseString(fileName, source)
	if err != nil {
		t.Fatalf("ParseString(%q): unexpected error: %v", fileName, err)
	}
	return b
}

func TestParseImplicitModelName(t *testing.T) {
	b := mustParse(t, "adder.blif", ".inputs a b\n.outputs c\n.names a b c\n11 1\n.end\n")
	if len(b.Models) != 1 {
		t.Fatalf("expected 1 model; got %d", len(b.Models))
	}
	if got := b.Models[0].Meta.Name; got != "adder.blif" {
		t.Errorf("expected implicit model name %q; got %q", "adder.blif", got)
	}
}

func TestParseZeroInputConstantGate(t *testing.T) {
	b := mustParse(t, "const.blif", ".model const\n.outputs z\n.names z\n1\n.end\n")
	cmds := b.Models[0].Commands
	if len(cmds) != 1 || cmds[0].Kind != CmdGate {
		t.Fatalf("expected a single gate command; got %+v", cmds)
	}
	lut := cmds[0].LUT
	if len(lut) != 1 {
		t.Fatalf("expected 1 LUT row; got %d", len(lut))
	}
	if len(lut[0].Pattern) != 0 {
		t.Errorf("expected empty pattern for zero-input gate; got %v", lut[0].Pattern)
	}
	if !lut[0].Output {
		t.Errorf("expected output bit true; got false")
	}
}

func TestParseExdcSticky(t *testing.T) {
	b := mustParse(t, "x.blif", ".model x\n.exdc\n.names a b\n1 1\n.names c d\n1 1\n.end\n")
	cmds := b.Models[0].Commands
	if len(cmds) != 2 {
		t.Fatalf("expected 2 gates; got %d", len(cmds))
	}
	if !cmds[0].Gate.ExternalDC {
		t.Errorf("expected first gate to carry ExternalDC; it didn't")
	}
	if cmds[1].Gate.ExternalDC {
		t.Errorf(".exdc is not expected to be sticky across directives; second gate carried it")
	}
}

func TestParseLatchNilClock(t *testing.T) {
	b := mustParse(t, "l.blif", ".model l\n.latch a b re NIL 3\n.end\n")
	cmd := b.Models[0].Commands[0]
	if cmd.Kind != CmdFlipFlop {
		t.Fatalf("expected a flip-flop command; got %v", cmd.Kind)
	}
	ff := cmd.FlipFlop
	if ff.HasClock {
		t.Errorf("expected NIL to decode to HasClock == false; got true with clock %q", ff.Clock)
	}
	if !ff.HasType || ff.Type != RisingEdge {
		t.Errorf("expected rising-edge type; got HasType=%v Type=%v", ff.HasType, ff.Type)
	}
	if ff.Init != InitUnknown {
		t.Errorf("expected init code 3 to decode to InitUnknown; got %v", ff.Init)
	}
}

func TestParseLatchNamedClock(t *testing.T) {
	b := mustParse(t, "l.blif", ".model l\n.latch a b re clk 1\n.end\n")
	ff := b.Models[0].Commands[0].FlipFlop
	if !ff.HasClock || ff.Clock != "clk" {
		t.Errorf("expected clock %q; got HasClock=%v Clock=%q", "clk", ff.HasClock, ff.Clock)
	}
	if ff.Init != InitOne {
		t.Errorf("expected InitOne; got %v", ff.Init)
	}
}

func TestParseLatchBareMinimum(t *testing.T) {
	b := mustParse(t, "l.blif", ".model l\n.latch a b\n.end\n")
	ff := b.Models[0].Commands[0].FlipFlop
	if ff.HasType || ff.HasClock || ff.Init != InitUnknown {
		t.Errorf("expected all-default flip-flop; got %+v", ff)
	}
}

func TestParseTwoModelsWithSubckt(t *testing.T) {
	src := ".model top\n" +
		".inputs a b\n" +
		".outputs y\n" +
		".subckt sub in1=a in2=b out=y\n" +
		".end\n" +
		".model sub\n" +
		".inputs in1 in2\n" +
		".outputs out\n" +
		".names in1 in2 out\n" +
		"11 1\n" +
		".end\n"
	b := mustParse(t, "multi.blif", src)
	if len(b.Models) != 2 {
		t.Fatalf("expected 2 models; got %d", len(b.Models))
	}
	if b.Models[0].Meta.Name != "top" || b.Models[1].Meta.Name != "sub" {
		t.Errorf("expected models in source order [top sub]; got [%s %s]", b.Models[0].Meta.Name, b.Models[1].Meta.Name)
	}
	cmd := b.Models[0].Commands[0]
	if cmd.Kind != CmdSubModel || cmd.SubModelName != "sub" {
		t.Fatalf("expected a subckt command naming %q; got %+v", "sub", cmd)
	}
	if len(cmd.SubModelMap) != 3 {
		t.Errorf("expected 3 port maps; got %d", len(cmd.SubModelMap))
	}
}

func TestParseAttrBeforeCellIsError(t *testing.T) {
	_, err := ParseString("x.blif", ".model x\n.attr foo bar\n.end\n")
	if err == nil {
		t.Fatal("expected error for .attr before any cell; got nil")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError; got %T", err)
	}
	if pe.Kind != Invalid {
		t.Errorf("expected Invalid; got %v", pe.Kind)
	}
}

func TestParseAttrJoinsWithoutSeparator(t *testing.T) {
	b := mustParse(t, "x.blif", ".model x\n.names a b\n1 1\n.attr src /path/to file.v:12\n.end\n")
	attrs := b.Models[0].Commands[0].Attrs
	if len(attrs) != 1 {
		t.Fatalf("expected 1 attribute; got %d", len(attrs))
	}
	if attrs[0].Key != "src" {
		t.Errorf("expected key %q; got %q", "src", attrs[0].Key)
	}
	if want := "/path/tofile.v:12"; attrs[0].Value != want {
		t.Errorf("expected joined-without-separator value %q; got %q", want, attrs[0].Value)
	}
}

func TestParseCnameAttachesToLastCell(t *testing.T) {
	b := mustParse(t, "x.blif", ".model x\n.names a b\n1 1\n.cname g1\n.end\n")
	attrs := b.Models[0].Commands[0].Attrs
	if len(attrs) != 1 || attrs[0].Kind != AttrCellName || attrs[0].Value != "g1" {
		t.Errorf("expected a cell-name attribute %q; got %+v", "g1", attrs)
	}
}

func TestParseUnknownKeyword(t *testing.T) {
	_, err := ParseString("x.blif", ".model x\n.frobnicate a b\n.end\n")
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError; got %T (%v)", err, err)
	}
	if pe.Kind != UnknownKw || pe.Keyword != ".frobnicate" {
		t.Errorf("expected UnknownKw %q; got Kind=%v Keyword=%q", ".frobnicate", pe.Kind, pe.Keyword)
	}
}

func TestParseSearchAtTopLevelRequiresModelKeyword(t *testing.T) {
	// The first top-level statement is an implicit model body: a bare
	// .search is treated as a body directive of that implicit model, not
	// rejected, and still reaches Search.
	// Parse drives the ASTBuilder directly: ParseString would reject the
	// non-empty search queue (see TestParseStringRejectsPendingSearch).
	ast := NewASTBuilder()
	lines := Lines{".search more.blif", ".end"}
	if err := Parse("top.blif", &lines, ast); err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	b := ast.Blif()
	pending := b.Pending()
	if len(pending) != 1 || pending[0] != "more.blif" {
		t.Errorf("expected pending [%q]; got %v", "more.blif", pending)
	}
	if len(b.Models) != 1 || b.Models[0].Meta.Name != "top.blif" {
		t.Errorf("expected one implicitly-named model %q; got %+v", "top.blif", b.Models)
	}
}

func TestParseSearchAfterModelTopLevel(t *testing.T) {
	ast := NewASTBuilder()
	lines := Lines{".model top", ".end", ".search more.blif"}
	if err := Parse("top.blif", &lines, ast); err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	pending := ast.Blif().Pending()
	if len(pending) != 1 || pending[0] != "more.blif" {
		t.Errorf("expected pending [%q]; got %v", "more.blif", pending)
	}
}

func TestParseStringRejectsPendingSearch(t *testing.T) {
	_, err := ParseString("top.blif", ".search more.blif\n.end\n")
	de, ok := err.(*DriverError)
	if !ok {
		t.Fatalf("expected *DriverError; got %T (%v)", err, err)
	}
	if de.Kind != DriverErrSearchPathsNotSupported {
		t.Errorf("expected DriverErrSearchPathsNotSupported; got %v", de.Kind)
	}
}

func TestParseLibGateAndMLatch(t *testing.T) {
	b := mustParse(t, "x.blif", ".model x\n.gate DFF in=a out=b\n.mlatch DFFR d=a q=b clk 2\n.end\n")
	cmds := b.Models[0].Commands
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands; got %d", len(cmds))
	}
	if cmds[0].Kind != CmdLibGate || cmds[0].LibGate.Name != "DFF" {
		t.Errorf("expected a DFF lib gate; got %+v", cmds[0])
	}
	ff := cmds[1].LibFF
	if cmds[1].Kind != CmdLibFlipFlop || ff.Name != "DFFR" {
		t.Errorf("expected a DFFR lib flip-flop; got %+v", cmds[1])
	}
	if !ff.HasClock || ff.Clock != "clk" || ff.Init != InitDontCare {
		t.Errorf("expected clock %q and InitDontCare; got %+v", "clk", ff)
	}
}

func TestParseConnect(t *testing.T) {
	for _, kw := range []string{".barbuff", ".conn"} {
		b := mustParse(t, "x.blif", ".model x\n"+kw+" a b\n.end\n")
		cmd := b.Models[0].Commands[0]
		if cmd.Kind != CmdConnect || cmd.ConnectFrom != "a" || cmd.ConnectTo != "b" {
			t.Errorf("%s: expected a connect a->b; got %+v", kw, cmd)
		}
	}
}

func TestParseMissingArgs(t *testing.T) {
	_, err := ParseString("x.blif", ".model x\n.latch a\n.end\n")
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != MissingArgs {
		t.Errorf("expected MissingArgs; got %v (%T)", err, err)
	}
}

func TestParseBadTristatePattern(t *testing.T) {
	_, err := ParseString("x.blif", ".model x\n.names a b\n1x 1\n.end\n")
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != Invalid {
		t.Errorf("expected Invalid; got %v (%T)", err, err)
	}
}
