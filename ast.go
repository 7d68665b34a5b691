package blif

import "github.com/kho/word"

// intern is a small string-deduplication table built on
// github.com/kho/word's Vocab, the same compact-identifier structure
// the teacher uses for its n-gram vocabulary. BLIF signal and state
// names repeat constantly (a wire fans out to many gate inputs, a
// state recurs across many KISS transitions); routing every name
// through intern.str before it is stored in the AST keeps the dense,
// inline-small-buffer-friendly representation spec.md §9 asks for
// without changing the public (string-based) data model.
type intern struct {
	vocab *word.Vocab
}

func newIntern() *intern {
	return &intern{vocab: word.NewVocab(nil)}
}

func (in *intern) str(s string) string {
	if s == "" {
		return s
	}
	return in.vocab.StringOf(in.vocab.IdOrAdd(s))
}

func (in *intern) strs(ss []string) []string {
	if ss == nil {
		return nil
	}
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = in.str(s)
	}
	return out
}

// ASTBuilder is the reference Consumer implementation: it materializes
// a complete Blif AST, the way the teacher's Model/Hashed/Sorted types
// materialize a language model from the same Builder-driven interface
// the parser pushes n-grams through.
type ASTBuilder struct {
	blif   Blif
	intern *intern
}

// NewASTBuilder constructs an empty ASTBuilder ready to be handed to
// Parse/ParseReader/ParseMulti.
func NewASTBuilder() *ASTBuilder {
	return &ASTBuilder{intern: newIntern()}
}

// Blif returns the AST accumulated so far. Safe to call after parsing
// completes; the result aliases internal storage, so mutate carefully
// if parsing is later resumed (it isn't, by design — see spec.md §5).
func (a *ASTBuilder) Blif() *Blif { return &a.blif }

// BeginModel implements ModelConsumer.
func (a *ASTBuilder) BeginModel(meta ModelMeta) CommandConsumer {
	meta.Name = a.intern.str(meta.Name)
	meta.Inputs = a.intern.strs(meta.Inputs)
	meta.Outputs = a.intern.strs(meta.Outputs)
	meta.Clocks = a.intern.strs(meta.Clocks)
	return &modelBuilder{intern: a.intern, model: Model{Meta: meta}}
}

// EndModel implements ModelConsumer.
func (a *ASTBuilder) EndModel(b CommandConsumer) {
	mb := b.(*modelBuilder)
	a.blif.Models = append(a.blif.Models, mb.model)
}

// Search implements ModelConsumer.
func (a *ASTBuilder) Search(path string) {
	a.blif.pending = append(a.blif.pending, path)
}

// modelBuilder is the CommandConsumer behind ASTBuilder; it appends
// ModelCmds to a Model in source order and tracks the most recently
// emitted one for attribute attachment.
type modelBuilder struct {
	intern *intern
	model  Model
}

func (m *modelBuilder) lastCmd() *ModelCmd {
	if len(m.model.Commands) == 0 {
		return nil
	}
	return &m.model.Commands[len(m.model.Commands)-1]
}

// astGateBuilder accumulates LUT rows for one .names directive.
type astGateBuilder struct {
	meta GateMeta
	lut  []LUTEntry
}

func (g *astGateBuilder) Entry(pattern []Tristate, output bool) {
	g.lut = append(g.lut, LUTEntry{Pattern: pattern, Output: output})
}

func (m *modelBuilder) BeginGate(meta GateMeta) GateBuilder {
	meta.Inputs = m.intern.strs(meta.Inputs)
	meta.Output = m.intern.str(meta.Output)
	return &astGateBuilder{meta: meta}
}

func (m *modelBuilder) EndGate(b GateBuilder) {
	g := b.(*astGateBuilder)
	m.model.Commands = append(m.model.Commands, ModelCmd{
		Kind: CmdGate,
		Gate: g.meta,
		LUT:  g.lut,
	})
}

// astFSMBuilder accumulates transitions for one KISS2 block.
type astFSMBuilder struct {
	intern      *intern
	fsm         FSM
	transitions []FSMTransition
}

func (f *astFSMBuilder) AddTransition(t FSMTransition) {
	t.CurrentState = f.intern.str(t.CurrentState)
	t.NextState = f.intern.str(t.NextState)
	f.transitions = append(f.transitions, t)
}

func (m *modelBuilder) BeginFSM(inputs, outputs int, hasReset bool, reset string) FSMBuilder {
	return &astFSMBuilder{
		intern: m.intern,
		fsm: FSM{
			Inputs:   inputs,
			Outputs:  outputs,
			HasReset: hasReset,
			Reset:    m.intern.str(reset),
		},
	}
}

func (m *modelBuilder) EndFSM(b FSMBuilder, latchOrder []string, encoding []StateCode) {
	f := b.(*astFSMBuilder)
	f.fsm.Transitions = f.transitions
	f.fsm.LatchOrder = m.intern.strs(latchOrder)
	if encoding != nil {
		for i := range encoding {
			encoding[i].State = m.intern.str(encoding[i].State)
		}
	}
	f.fsm.Encoding = encoding
	m.model.Commands = append(m.model.Commands, ModelCmd{Kind: CmdFSM, FSM: f.fsm})
}

func (m *modelBuilder) FlipFlop(ff FlipFlop) {
	ff.Input = m.intern.str(ff.Input)
	ff.Output = m.intern.str(ff.Output)
	ff.Clock = m.intern.str(ff.Clock)
	m.model.Commands = append(m.model.Commands, ModelCmd{Kind: CmdFlipFlop, FlipFlop: ff})
}

func (m *modelBuilder) internMaps(maps []PortMap) []PortMap {
	if maps == nil {
		return nil
	}
	out := make([]PortMap, len(maps))
	for i, mp := range maps {
		out[i] = PortMap{Formal: m.intern.str(mp.Formal), Actual: m.intern.str(mp.Actual)}
	}
	return out
}

func (m *modelBuilder) LibGate(g LibGate) {
	g.Name = m.intern.str(g.Name)
	g.Maps = m.internMaps(g.Maps)
	m.model.Commands = append(m.model.Commands, ModelCmd{Kind: CmdLibGate, LibGate: g})
}

func (m *modelBuilder) LibFlipFlop(ff LibFlipFlop) {
	ff.Name = m.intern.str(ff.Name)
	ff.Maps = m.internMaps(ff.Maps)
	ff.Clock = m.intern.str(ff.Clock)
	m.model.Commands = append(m.model.Commands, ModelCmd{Kind: CmdLibFlipFlop, LibFF: ff})
}

func (m *modelBuilder) SubModel(name string, maps []PortMap) {
	m.model.Commands = append(m.model.Commands, ModelCmd{
		Kind:         CmdSubModel,
		SubModelName: m.intern.str(name),
		SubModelMap:  m.internMaps(maps),
	})
}

func (m *modelBuilder) Connect(from, to string) {
	m.model.Commands = append(m.model.Commands, ModelCmd{
		Kind:        CmdConnect,
		ConnectFrom: m.intern.str(from),
		ConnectTo:   m.intern.str(to),
	})
}

func (m *modelBuilder) Attr(a CellAttr) error {
	last := m.lastCmd()
	if last == nil {
		return errInvalid()
	}
	last.Attrs = append(last.Attrs, a)
	return nil
}
