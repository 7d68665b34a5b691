package blif

// GateBuilder receives the rows of a .names truth table in source
// order. A gate builder is created at .names and driven until the
// next statement that starts with '.', per spec.md §4.3.1.
type GateBuilder interface {
	// Entry appends one LUT row. pattern has length equal to the
	// enclosing gate's input count, or is empty for a zero-input
	// constant gate; the parser does not validate this against the
	// gate's declared input count (spec.md §4.3.1) — a consumer that
	// cares may do so itself.
	Entry(pattern []Tristate, output bool)
}

// FSMBuilder receives the transition rows of a KISS2 block in source
// order.
type FSMBuilder interface {
	AddTransition(t FSMTransition)
}

// CommandConsumer is the per-model visitor the parser drives for
// every directive inside a .model ... .end block. Attributes
// (.cname/.attr/.param) always attach to whichever cell was most
// recently emitted through Gate/FSM/FlipFlop/LibGate/LibFF/SubModel.
// Attr returns an error when no cell has been emitted yet, and the
// parser aborts with that error; ASTBuilder reports it as a
// *ParseError of kind Invalid.
type CommandConsumer interface {
	// BeginGate is called at a .names directive with the gate's fully
	// parsed header; it returns a builder to stream LUT rows into.
	BeginGate(meta GateMeta) GateBuilder
	// EndGate finalizes a gate once its LUT rows (if any) have been
	// streamed into the builder returned by BeginGate.
	EndGate(b GateBuilder)

	// BeginFSM is called at .start_kiss once the header (.i/.o/.r) has
	// been parsed; it returns a builder to stream transitions into.
	BeginFSM(inputs, outputs int, hasReset bool, reset string) FSMBuilder
	// EndFSM finalizes a KISS block once its transitions, and any
	// trailing .latch_order/.code directives, have been parsed.
	// encoding is nil (not just empty) when no .code directives were
	// present, per spec.md §4.4.
	EndFSM(b FSMBuilder, latchOrder []string, encoding []StateCode)

	FlipFlop(ff FlipFlop)
	LibGate(g LibGate)
	LibFlipFlop(ff LibFlipFlop)
	SubModel(name string, maps []PortMap)
	Connect(from, to string)

	// Attr attaches an annotation to the most recently emitted cell.
	Attr(a CellAttr) error
}

// ModelConsumer is the top-level visitor the parser drives once per
// model, plus once per .search directive encountered anywhere in the
// file (top level or inside a model body — see spec.md §4.6 and
// SPEC_FULL.md §4 for why both positions reach the same callback).
type ModelConsumer interface {
	// BeginModel is called once a model's preamble (.inputs/.outputs/
	// .clock, each optional) has been parsed; it returns a builder for
	// the model's body.
	BeginModel(meta ModelMeta) CommandConsumer
	// EndModel finalizes a model at .end or EOF.
	EndModel(b CommandConsumer)
	// Search records a path referenced by a .search directive.
	Search(path string)
}
