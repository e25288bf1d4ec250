package ir

import (
	"encoding/json"
	"io"
)

// DecodeProgram reads a JSON IR document.
func DecodeProgram(r io.Reader) (*Program, error) {
	var p Program
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// EncodeProgram writes p as a JSON IR document, two-space indented for
// readability when piped between CLI invocations.
func EncodeProgram(w io.Writer, p *Program) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
