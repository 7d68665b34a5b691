package blif

import (
	"bufio"
	"io"

	"github.com/kho/stream"
)

// lineCollector is a trivial github.com/kho/stream Iteratee that
// gathers every physical line it is driven with into a slice. It
// plays the same role EnumRead+Run play in the teacher's io.go
// (github.com/kho/fslm), which drives a custom Iteratee over an
// io.Reader to build a model; here the "model" being built is simply
// the line sequence the core parser wants.
type lineCollector struct {
	lines []string
}

func (c *lineCollector) Final() error { return nil }

func (c *lineCollector) Next(line []byte) (stream.Iteratee, bool, error) {
	// Copy: the buffer backing line is reused by the scanner.
	c.lines = append(c.lines, string(line))
	return c, true, nil
}

// ReadLines drains r into a slice of physical lines using
// github.com/kho/stream's reader-enumeration helpers, the same
// EnumRead/Run pair the teacher's FromARPA uses to drive its own
// Iteratee over an io.Reader.
func ReadLines(r io.Reader) ([]string, error) {
	c := &lineCollector{}
	if err := stream.Run(stream.EnumRead(r, bufio.ScanLines), c); err != nil {
		return nil, err
	}
	return c.lines, nil
}

// ParseReader parses a complete BLIF file from an io.Reader into a
// fresh AST, using fileName for the implicit-model case (spec.md §3
// invariant 3).
func ParseReader(fileName string, r io.Reader) (*Blif, error) {
	physLines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	ast := NewASTBuilder()
	lines := Lines(physLines)
	if err := Parse(fileName, &lines, ast); err != nil {
		return nil, err
	}
	return singleFileResult(ast)
}
