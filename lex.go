package blif

import "strings"

// LineSource is a pull iterator over physical lines, each an opaque
// string without a trailing newline. Callers may adapt a file, a
// bufio.Scanner, or an in-memory buffer split on '\n'. See reader.go
// for a ready-made io.Reader adapter built on github.com/kho/stream.
type LineSource interface {
	// Next returns the next physical line, or ok == false when
	// exhausted.
	Next() (line string, ok bool)
}

// Lines adapts a plain slice of physical lines into a LineSource.
type Lines []string

// Next implements LineSource.
func (l *Lines) Next() (string, bool) {
	if len(*l) == 0 {
		return "", false
	}
	line := (*l)[0]
	*l = (*l)[1:]
	return line, true
}

// beforeComment returns the part of a physical line before the first
// '#'. BLIF has no escaping for '#' inside a statement.
func beforeComment(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[:i]
	}
	return s
}

// peekableLines is a one-line-of-lookahead wrapper around a
// LineSource, used both to skip padding (blank/comment-only raw
// lines) and to merge '\' continuations, per spec.md §4.1.
type peekableLines struct {
	src     LineSource
	peeked  string
	hasPeek bool
	peekOK  bool
}

func newPeekableLines(src LineSource) *peekableLines {
	return &peekableLines{src: src}
}

func (p *peekableLines) peek() (string, bool) {
	if !p.hasPeek {
		p.peeked, p.peekOK = p.src.Next()
		p.hasPeek = true
	}
	return p.peeked, p.peekOK
}

func (p *peekableLines) pop() (string, bool) {
	line, ok := p.peek()
	p.hasPeek = false
	return line, ok
}

// isRawPadding reports whether a raw, unprocessed physical line is
// blank or comment-only once trimmed — the condition the top-level
// and model-body loops skip before looking at the next statement.
func isRawPadding(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || strings.HasPrefix(t, "#")
}

// skipPadding consumes leading blank/comment-only raw lines.
func (p *peekableLines) skipPadding() {
	for {
		line, ok := p.peek()
		if !ok || !isRawPadding(line) {
			return
		}
		p.pop()
	}
}

// nextStatement reads one logical statement: the caller must have
// already called skipPadding. Merges '\' continuations, each
// comment-stripped and right-trimmed individually, concatenated with
// the backslash removed and no separator inserted between segments —
// matching the original's trim_end_matches('\\') + push_str, so any
// spacing between operands across the break must already be present
// in the source. Returns ok == false at true EOF.
// When neither continuation nor comment-stripping applied to a single
// physical line, the original line is returned unmodified (no
// allocation), per spec.md §4.1's resource-discipline requirement.
func (p *peekableLines) nextStatement() (string, bool, error) {
	orig, ok := p.pop()
	if !ok {
		return "", false, nil
	}
	stripped := strings.TrimRight(beforeComment(orig), " \t\r")
	if !strings.HasSuffix(stripped, `\`) {
		if strings.ContainsRune(orig, '#') {
			return stripped, true, nil
		}
		return orig, true, nil
	}

	var b strings.Builder
	cur := orig
	curStripped := stripped
	for {
		b.WriteString(strings.TrimSuffix(curStripped, `\`))
		next, ok := p.pop()
		if !ok {
			return "", false, errUnexpectedEnd()
		}
		cur = next
		curStripped = strings.TrimRight(beforeComment(cur), " \t\r")
		if strings.HasSuffix(curStripped, `\`) {
			continue
		}
		break
	}
	b.WriteString(curStripped)
	return b.String(), true, nil
}

// splitDirective splits a logical statement into its leading
// directive keyword and the single-space-separated remainder of
// operands, per spec.md §6's lexical rules. Operands are further
// split with splitFields.
func splitDirective(stmt string) (keyword string, rest string) {
	if i := strings.IndexByte(stmt, ' '); i >= 0 {
		return stmt[:i], stmt[i+1:]
	}
	return stmt, ""
}

// splitFields splits a statement's operand string on single spaces.
// Per spec.md §6, runs of more than one space are not specially
// handled and may produce empty fields — callers supplying
// multi-spaced input get that behavior, not a forgiving re-squash.
func splitFields(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, " ")
}

// firstKeyword returns the first whitespace-delimited token of a raw
// line without allocating, used by the top-level dispatcher and body
// loop to peek at an upcoming statement's directive before committing
// to read it (mirrors the original's is_kw helper).
func firstKeyword(line string) string {
	kw, _ := splitDirective(strings.TrimSpace(line))
	return kw
}
