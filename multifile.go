package blif

import (
	"bufio"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/kho/easy"
)

// Lookup resolves a path referenced by a .search directive (or the
// starting path) into its physical lines. File I/O and search-path
// resolution are explicitly the caller's concern (spec.md §1); this
// is the seam.
type Lookup func(path string) ([]string, error)

// FileSystemLookup returns a Lookup backed by the local filesystem,
// using github.com/kho/easy's Open, which transparently decompresses
// .gz files the way the teacher's FromARPAFile/FromGobFile do for LM
// files on disk.
func FileSystemLookup() Lookup {
	return func(path string) ([]string, error) {
		f, err := easy.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		var lines []string
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return lines, nil
	}
}

// ParseMulti implements the Multi-file Driver, spec.md §4.6: it seeds
// a LIFO queue with startPath, repeatedly pops a path, derives its
// base file name for the implicit-model default, resolves it through
// lookup, and feeds it through the single-file parser, appending any
// freshly discovered .search paths to the queue. It stops at the
// first error (no partial Blif is ever returned) and otherwise
// aggregates every file's models into one Blif in file-popped order.
func ParseMulti(startPath string, lookup Lookup) (*Blif, error) {
	ast := NewASTBuilder()
	stack := []string{startPath}
	seen := 0

	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		base := filepath.Base(path)
		if base == "." || base == string(filepath.Separator) || base == "" {
			return nil, &DriverError{Kind: DriverErrFileNoName, Path: path}
		}

		physLines, err := lookup(path)
		if err != nil {
			return nil, &DriverError{Kind: DriverErrFile, Path: path, Err: err}
		}

		if glog.V(1) {
			glog.Infof("blif: parsing %q (%d lines) as model %q", path, len(physLines), base)
		}

		lines := Lines(physLines)
		if err := Parse(base, &lines, ast); err != nil {
			return nil, &DriverError{Kind: DriverErrParse, Path: path, Err: err}
		}

		pending := ast.blif.pending
		if newPaths := pending[seen:]; len(newPaths) > 0 {
			glog.V(1).Infof("blif: %q queued %d additional search path(s)", path, len(newPaths))
			stack = append(stack, newPaths...)
		}
		seen = len(pending)
	}

	ast.blif.pending = nil
	return ast.Blif(), nil
}
