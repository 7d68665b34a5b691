package blif

import "strings"

// parseKiss implements the KISS FSM Sub-parser, spec.md §4.4.
func (p *parser) parseKiss(rest string, cmds CommandConsumer) error {
	if strings.TrimSpace(rest) != "" {
		return errTooManyArgs()
	}

	numIns, err := p.kissRequiredIntHeader(".i")
	if err != nil {
		return err
	}
	numOuts, err := p.kissRequiredIntHeader(".o")
	if err != nil {
		return err
	}
	// .p and .s are parsed but discarded, per spec.md §4.4.
	if _, err := p.kissOptionalIntHeader(".p"); err != nil {
		return err
	}
	if _, err := p.kissOptionalIntHeader(".s"); err != nil {
		return err
	}
	hasReset, reset, err := p.kissReset()
	if err != nil {
		return err
	}

	fsm := cmds.BeginFSM(numIns, numOuts, hasReset, reset)

	for {
		p.lines.skipPadding()
		peek, ok := p.lines.peek()
		if !ok {
			return errUnexpectedEnd()
		}
		if strings.TrimSpace(peek) == ".end_kiss" {
			break
		}
		stmt, ok, err := p.lines.nextStatement()
		if err != nil {
			return err
		}
		if !ok {
			return errUnexpectedEnd()
		}
		stmt = strings.TrimSpace(stmt)
		if stmt == ".end_kiss" {
			break
		}

		fields := splitFields(stmt)
		if len(fields) != 4 {
			return errInvalid()
		}
		in, ok := ParseTristates(fields[0])
		if !ok {
			return errInvalid()
		}
		out, ok := ParseTristates(fields[3])
		if !ok {
			return errInvalid()
		}
		fsm.AddTransition(FSMTransition{
			Input:        in,
			CurrentState: fields[1],
			NextState:    fields[2],
			Output:       out,
		})
	}

	p.lines.skipPadding()
	stmt, ok, err := p.lines.nextStatement()
	if err != nil {
		return err
	}
	if !ok || strings.TrimSpace(stmt) != ".end_kiss" {
		return errUnexpectedEnd()
	}

	var latchOrder []string
	p.lines.skipPadding()
	if peek, ok := p.lines.peek(); ok && firstKeyword(peek) == ".latch_order" {
		stmt, _, err := p.lines.nextStatement()
		if err != nil {
			return err
		}
		_, rest := splitDirective(strings.TrimSpace(stmt))
		latchOrder = splitFields(rest)
	}

	var encoding []StateCode
	for {
		p.lines.skipPadding()
		peek, ok := p.lines.peek()
		if !ok || firstKeyword(peek) != ".code" {
			break
		}
		stmt, _, err := p.lines.nextStatement()
		if err != nil {
			return err
		}
		_, rest := splitDirective(strings.TrimSpace(stmt))
		fields := splitFields(rest)
		if len(fields) != 2 {
			return errInvalid()
		}
		bits := make([]bool, len(fields[1]))
		for i := 0; i < len(fields[1]); i++ {
			switch fields[1][i] {
			case '0':
				bits[i] = false
			case '1':
				bits[i] = true
			default:
				return errInvalid()
			}
		}
		encoding = append(encoding, StateCode{State: fields[0], Bits: bits})
	}

	cmds.EndFSM(fsm, latchOrder, encoding)
	return nil
}

// kissRequiredIntHeader reads a required "<kw> <n>" header line (.i,
// .o): unlike the optional headers, this one always consumes the next
// statement and reports the line's own keyword as unknown if it isn't
// kw, rather than treating a mismatch as absence.
func (p *parser) kissRequiredIntHeader(kw string) (int, error) {
	p.lines.skipPadding()
	stmt, ok, err := p.lines.nextStatement()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errUnexpectedEnd()
	}
	cmd, rest := splitDirective(strings.TrimSpace(stmt))
	if cmd != kw {
		return 0, errUnknownKw(cmd)
	}
	return parseKissHeaderCount(rest)
}

// kissOptionalIntHeader reads an optional "<kw> <n>" header line (.p,
// .s): the next statement is left unconsumed if its keyword isn't kw.
func (p *parser) kissOptionalIntHeader(kw string) (int, error) {
	p.lines.skipPadding()
	peek, ok := p.lines.peek()
	if !ok || firstKeyword(peek) != kw {
		return 0, nil
	}
	stmt, _, err := p.lines.nextStatement()
	if err != nil {
		return 0, err
	}
	_, rest := splitDirective(strings.TrimSpace(stmt))
	return parseKissHeaderCount(rest)
}

// parseKissHeaderCount parses the single numeric operand of a KISS
// header line.
func parseKissHeaderCount(rest string) (int, error) {
	fields := splitFields(rest)
	if len(fields) == 0 {
		return 0, errMissingArgs()
	}
	if len(fields) > 1 {
		return 0, errTooManyArgs()
	}
	return parseNonNegativeInt(fields[0])
}

// kissReset reads the optional ".r <state>" header line.
func (p *parser) kissReset() (bool, string, error) {
	p.lines.skipPadding()
	peek, ok := p.lines.peek()
	if !ok || firstKeyword(peek) != ".r" {
		return false, "", nil
	}
	stmt, _, err := p.lines.nextStatement()
	if err != nil {
		return false, "", err
	}
	_, rest := splitDirective(strings.TrimSpace(stmt))
	fields := splitFields(rest)
	if len(fields) == 0 {
		return false, "", errMissingArgs()
	}
	if len(fields) > 1 {
		return false, "", errTooManyArgs()
	}
	return true, fields[0], nil
}

// parseNonNegativeInt parses a small non-negative decimal integer
// without pulling in strconv's full float/signed generality, since
// KISS header counts are always small non-negative numbers.
func parseNonNegativeInt(s string) (int, error) {
	if s == "" {
		return 0, errInvalid()
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, errInvalid()
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
