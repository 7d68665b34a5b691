package blif

import "strings"

// Parse runs the core single-file parser: fileName supplies the
// implicit model name when the file never declares one with .model
// (spec.md §3 invariant 3), lines is the physical-line source, and
// consumer is driven in source order. Any error aborts immediately;
// no partial model is ever finalized through consumer (spec.md §5).
func Parse(fileName string, lines LineSource, consumer ModelConsumer) error {
	p := &parser{fileName: fileName, lines: newPeekableLines(lines), consumer: consumer}
	return p.run()
}

// ParseString is a convenience wrapper around Parse for an in-memory
// source, splitting on '\n' the way spec.md §6 describes as a typical
// caller-side adaptation.
func ParseString(fileName, source string) (*Blif, error) {
	ast := NewASTBuilder()
	lines := Lines(strings.Split(source, "\n"))
	if err := Parse(fileName, &lines, ast); err != nil {
		return nil, err
	}
	return singleFileResult(ast)
}

// singleFileResult enforces spec.md §4.6's single-file rule: an
// in-memory source with no lookup callback can't resolve .search, so
// a non-empty queue after a clean parse is itself an error.
func singleFileResult(ast *ASTBuilder) (*Blif, error) {
	b := ast.Blif()
	if len(b.pending) > 0 {
		return nil, &DriverError{Kind: DriverErrSearchPathsNotSupported}
	}
	return b, nil
}

type parser struct {
	fileName string
	lines    *peekableLines
	consumer ModelConsumer
}

// run implements the top-level Directive Dispatcher, spec.md §4.2.
func (p *parser) run() error {
	first := true
	for {
		p.lines.skipPadding()
		peek, ok := p.lines.peek()
		if !ok {
			return nil
		}

		if firstKeyword(peek) == ".model" || !first {
			stmt, ok, err := p.lines.nextStatement()
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			kw, rest := splitDirective(strings.TrimSpace(stmt))
			switch kw {
			case ".search":
				fields := splitFields(rest)
				if len(fields) == 0 {
					return errMissingArgs()
				}
				if len(fields) > 1 {
					return errTooManyArgs()
				}
				p.consumer.Search(fields[0])
			case ".model":
				fields := splitFields(rest)
				name := p.fileName
				if len(fields) > 0 {
					name = fields[0]
				}
				if len(fields) > 1 {
					return errTooManyArgs()
				}
				if err := p.parseModelBody(name); err != nil {
					return err
				}
			default:
				return errUnknownKw(kw)
			}
		} else {
			if err := p.parseModelBody(p.fileName); err != nil {
				return err
			}
		}
		first = false
	}
}

// parseModelBody implements the Model Body Parser, spec.md §4.3: the
// optional preamble, then the directive-dispatch body loop.
func (p *parser) parseModelBody(name string) error {
	meta := ModelMeta{Name: name}

	if fields, found, err := p.optionalHeader(".inputs", ".input"); err != nil {
		return err
	} else if found {
		meta.HasInputs = true
		meta.Inputs = fields
	}
	if fields, found, err := p.optionalHeader(".outputs", ".output"); err != nil {
		return err
	} else if found {
		meta.HasOutputs = true
		meta.Outputs = fields
	}
	if fields, found, err := p.optionalHeader(".clock"); err != nil {
		return err
	} else if found {
		meta.Clocks = fields
	}

	cmds := p.consumer.BeginModel(meta)

	for {
		p.lines.skipPadding()
		if _, ok := p.lines.peek(); !ok {
			break
		}

		stmt, ok, err := p.lines.nextStatement()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		stmt = strings.TrimSpace(stmt)

		extdc := false
		if stmt == ".exdc" {
			extdc = true
			p.lines.skipPadding()
			stmt, ok, err = p.lines.nextStatement()
			if err != nil {
				return err
			}
			if !ok {
				return errUnexpectedEnd()
			}
			stmt = strings.TrimSpace(stmt)
		}

		if stmt == ".end" {
			break
		}

		kw, rest := splitDirective(stmt)
		if err := p.dispatchBody(kw, rest, extdc, cmds); err != nil {
			return err
		}
	}

	p.consumer.EndModel(cmds)
	return nil
}

// optionalHeader reads an optional, at-most-once preamble directive
// (.inputs/.input, .outputs/.output, .clock) if the next statement's
// keyword matches one of kws. Returns found == false, leaving the
// statement unconsumed, if it doesn't.
func (p *parser) optionalHeader(kws ...string) (fields []string, found bool, err error) {
	p.lines.skipPadding()
	peek, ok := p.lines.peek()
	if !ok {
		return nil, false, nil
	}
	pkw := firstKeyword(peek)
	match := false
	for _, k := range kws {
		if pkw == k {
			match = true
			break
		}
	}
	if !match {
		return nil, false, nil
	}
	stmt, ok, err := p.lines.nextStatement()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	_, rest := splitDirective(strings.TrimSpace(stmt))
	return splitFields(rest), true, nil
}

// dispatchBody handles one directive inside a model body, per the
// table in spec.md §4.3.
func (p *parser) dispatchBody(kw, rest string, extdc bool, cmds CommandConsumer) error {
	switch kw {
	case ".names":
		return p.parseNames(rest, extdc, cmds)
	case ".latch":
		return p.parseLatch(rest, cmds)
	case ".gate":
		return p.parseLibGate(rest, cmds)
	case ".mlatch":
		return p.parseMLatch(rest, cmds)
	case ".subckt":
		return p.parseSubckt(rest, cmds)
	case ".search":
		fields := splitFields(rest)
		if len(fields) == 0 {
			return errMissingArgs()
		}
		if len(fields) > 1 {
			return errTooManyArgs()
		}
		p.consumer.Search(fields[0])
		return nil
	case ".start_kiss":
		return p.parseKiss(rest, cmds)
	case ".cname":
		fields := splitFields(rest)
		if len(fields) == 0 {
			return errMissingArgs()
		}
		if len(fields) > 1 {
			return errTooManyArgs()
		}
		return cmds.Attr(CellAttr{Kind: AttrCellName, Value: fields[0]})
	case ".attr":
		return p.parseAttr(rest, AttrKeyValue, cmds)
	case ".param":
		return p.parseAttr(rest, AttrParam, cmds)
	case ".barbuff", ".conn":
		fields := splitFields(rest)
		if len(fields) < 2 {
			return errMissingArgs()
		}
		if len(fields) > 2 {
			return errTooManyArgs()
		}
		cmds.Connect(fields[0], fields[1])
		return nil
	default:
		return errUnknownKw(kw)
	}
}

// parseNames implements spec.md §4.3.1.
func (p *parser) parseNames(rest string, extdc bool, cmds CommandConsumer) error {
	fields := splitFields(rest)
	if len(fields) == 0 {
		return errMissingArgs()
	}
	output := fields[len(fields)-1]
	inputs := fields[:len(fields)-1]

	gate := cmds.BeginGate(GateMeta{Inputs: inputs, Output: output, ExternalDC: extdc})

	for {
		p.lines.skipPadding()
		peek, ok := p.lines.peek()
		if !ok || strings.HasPrefix(peek, ".") {
			break
		}
		stmt, ok, err := p.lines.nextStatement()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		stmt = strings.TrimSpace(stmt)
		if strings.HasPrefix(stmt, ".") {
			break
		}

		var patternTok, outTok string
		if i := strings.IndexByte(stmt, ' '); i >= 0 {
			patternTok = stmt[:i]
			rest := strings.TrimSpace(stmt[i+1:])
			if rest == "" || strings.ContainsRune(rest, ' ') {
				return errInvalid()
			}
			outTok = rest
		} else {
			patternTok = ""
			outTok = stmt
		}

		pattern, ok := ParseTristates(patternTok)
		if !ok {
			return errInvalid()
		}
		var outBit bool
		switch outTok {
		case "0":
			outBit = false
		case "1":
			outBit = true
		default:
			return errInvalid()
		}
		gate.Entry(pattern, outBit)
	}

	cmds.EndGate(gate)
	return nil
}

// parseLatch implements spec.md §4.3.2.
func (p *parser) parseLatch(rest string, cmds CommandConsumer) error {
	fields := splitFields(rest)
	if len(fields) < 2 {
		return errMissingArgs()
	}
	if len(fields) > 5 {
		return errTooManyArgs()
	}
	ff := FlipFlop{Input: fields[0], Output: fields[1], Init: InitUnknown}
	extra := fields[2:]

	if len(extra) > 0 {
		tok := extra[0]
		extra = extra[1:]
		if ty, ok := flipFlopTypeFromCode(tok); ok {
			ff.HasType = true
			ff.Type = ty
		} else if init, ok := singleInitCode(tok); ok {
			ff.Init = init
		} else {
			return errInvalid()
		}
	}
	if len(extra) > 0 {
		tok := extra[0]
		extra = extra[1:]
		if tok != "NIL" {
			ff.HasClock = true
			ff.Clock = tok
		}
	}
	if len(extra) > 0 {
		tok := extra[0]
		extra = extra[1:]
		init, ok := singleInitCode(tok)
		if !ok {
			return errInvalid()
		}
		ff.Init = init
	}
	if len(extra) > 0 {
		return errTooManyArgs()
	}

	cmds.FlipFlop(ff)
	return nil
}

// singleInitCode decodes a single-character init code token, guarding
// against empty tokens (possible when input has multi-space gaps; see
// spec.md §6) that would otherwise panic on index 0.
func singleInitCode(tok string) (FlipFlopInit, bool) {
	if len(tok) != 1 {
		return 0, false
	}
	return flipFlopInitFromCode(tok[0])
}

func flipFlopTypeFromCode(s string) (FlipFlopType, bool) {
	switch s {
	case "fe":
		return FallingEdge, true
	case "re":
		return RisingEdge, true
	case "ah":
		return ActiveHigh, true
	case "al":
		return ActiveLow, true
	case "as":
		return Asynchronous, true
	default:
		return 0, false
	}
}

// parseLibGate implements the .gate directive of spec.md §4.3.
func (p *parser) parseLibGate(rest string, cmds CommandConsumer) error {
	fields := splitFields(rest)
	if len(fields) == 0 {
		return errMissingArgs()
	}
	maps, err := parsePortMaps(fields[1:])
	if err != nil {
		return err
	}
	cmds.LibGate(LibGate{Name: fields[0], Maps: maps})
	return nil
}

// parseSubckt implements the .subckt directive of spec.md §4.3.
func (p *parser) parseSubckt(rest string, cmds CommandConsumer) error {
	fields := splitFields(rest)
	if len(fields) == 0 {
		return errMissingArgs()
	}
	maps, err := parsePortMaps(fields[1:])
	if err != nil {
		return err
	}
	cmds.SubModel(fields[0], maps)
	return nil
}

// parseMLatch implements spec.md §4.3.3.
func (p *parser) parseMLatch(rest string, cmds CommandConsumer) error {
	fields := splitFields(rest)
	if len(fields) == 0 {
		return errMissingArgs()
	}
	name := fields[0]
	fields = fields[1:]

	var maps []PortMap
	for len(fields) > 0 && strings.ContainsRune(fields[0], '=') {
		k, v, ok := strings.Cut(fields[0], "=")
		if !ok || k == "" {
			return errInvalid()
		}
		maps = append(maps, PortMap{Formal: k, Actual: v})
		fields = fields[1:]
	}

	ff := LibFlipFlop{Name: name, Maps: maps, Init: InitUnknown}
	if len(fields) > 0 {
		tok := fields[0]
		fields = fields[1:]
		if tok != "NIL" {
			ff.HasClock = true
			ff.Clock = tok
		}
	}
	if len(fields) > 0 {
		tok := fields[0]
		fields = fields[1:]
		init, ok := singleInitCode(tok)
		if !ok {
			return errInvalid()
		}
		ff.Init = init
	}
	if len(fields) > 0 {
		return errTooManyArgs()
	}

	cmds.LibFlipFlop(ff)
	return nil
}

// parseAttr implements the .attr/.param directives, joining remaining
// tokens with no separator per spec.md §9.
func (p *parser) parseAttr(rest string, kind CellAttrKind, cmds CommandConsumer) error {
	fields := splitFields(rest)
	if len(fields) == 0 {
		return errMissingArgs()
	}
	key := fields[0]
	val := strings.Join(fields[1:], "")
	return cmds.Attr(CellAttr{Kind: kind, Key: key, Value: val})
}

// parsePortMaps parses a run of k=v tokens into PortMaps, used by
// .gate and .subckt.
func parsePortMaps(tokens []string) ([]PortMap, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	maps := make([]PortMap, len(tokens))
	for i, t := range tokens {
		k, v, ok := strings.Cut(t, "=")
		if !ok || k == "" {
			return nil, errInvalid()
		}
		maps[i] = PortMap{Formal: k, Actual: v}
	}
	return maps, nil
}
