package blif

import (
	"bytes"
	"encoding/gob"
	"io"
)

// WriteGob serializes a parsed Blif, mirroring the teacher's gob-based
// model persistence (io.go's FromGob/FromGobFile, model.go's
// WriteBinary). Useful for caching a parsed netlist between runs of a
// downstream tool without re-parsing.
func (b *Blif) WriteGob(w io.Writer) error {
	return gob.NewEncoder(w).Encode(b)
}

// GobBytes serializes a parsed Blif into a byte slice.
func (b *Blif) GobBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.WriteGob(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadGob deserializes a Blif previously written with WriteGob.
func ReadGob(r io.Reader) (*Blif, error) {
	var b Blif
	if err := gob.NewDecoder(r).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}
