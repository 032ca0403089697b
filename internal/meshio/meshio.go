// Package meshio reads and writes flat mesh buffers as JSON dumps.
// The dump is the buffer itself: {"vertices": [...], "indices": [...]}.
package meshio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"alphawrap"
)

// Dump is the on-disk form of a TriMesh.
type Dump struct {
	Vertices []float64 `json:"vertices"`
	Indices  []uint32  `json:"indices"`
}

// Read decodes a dump from r.
func Read(r io.Reader) (*alphawrap.TriMesh, error) {
	var d Dump
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("meshio: decode: %w", err)
	}
	return &alphawrap.TriMesh{Vertices: d.Vertices, Indices: d.Indices}, nil
}

// Load reads a dump file.
func Load(path string) (*alphawrap.TriMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: open %s: %w", path, err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("meshio: %s: %w", path, err)
	}
	return m, nil
}

// Write encodes m to w. Nil buffers are written as empty arrays.
func Write(w io.Writer, m *alphawrap.TriMesh) error {
	d := Dump{Vertices: m.Vertices, Indices: m.Indices}
	if d.Vertices == nil {
		d.Vertices = []float64{}
	}
	if d.Indices == nil {
		d.Indices = []uint32{}
	}
	if err := json.NewEncoder(w).Encode(d); err != nil {
		return fmt.Errorf("meshio: encode: %w", err)
	}
	return nil
}

// Save writes m to path, replacing any existing file.
func Save(path string, m *alphawrap.TriMesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("meshio: create %s: %w", path, err)
	}
	if err := Write(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
