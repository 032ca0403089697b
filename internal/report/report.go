// Package report writes the JSON summary of a wrap run.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"alphawrap"
	"alphawrap/internal/meshcheck"
)

// MeshStats describes one side of a wrap.
type MeshStats struct {
	Vertices  int `json:"vertices"`
	Triangles int `json:"triangles"`
}

// TopologyStats is the edge census of the wrapped mesh.
type TopologyStats struct {
	Edges       int  `json:"edges"`
	Boundary    int  `json:"boundary"`
	NonManifold int  `json:"non_manifold"`
	Degenerate  int  `json:"degenerate"`
	Closed      bool `json:"closed"`
}

// DroppedFace is a non-triangular face left out of the output.
type DroppedFace struct {
	Face        int `json:"face"`
	Cardinality int `json:"cardinality"`
}

// Report is the outcome of one wrap run.
type Report struct {
	Input     string        `json:"input"`
	Output    string        `json:"output"`
	Preview   string        `json:"preview,omitempty"`
	Alpha     float64       `json:"alpha"`
	Offset    float64       `json:"offset"`
	Before    MeshStats     `json:"before"`
	After     MeshStats     `json:"after"`
	Topology  TopologyStats `json:"topology"`
	Dropped   []DroppedFace `json:"dropped"`
	ElapsedMS float64       `json:"elapsed_ms"`
}

// Stats counts the vertices and triangles of m.
func Stats(m *alphawrap.TriMesh) MeshStats {
	return MeshStats{Vertices: m.VertexCount(), Triangles: m.TriangleCount()}
}

// Topology summarizes meshcheck.Edges for the report.
func Topology(indices []uint32) TopologyStats {
	t := meshcheck.Edges(indices)
	return TopologyStats{
		Edges:       t.Edges,
		Boundary:    t.Boundary,
		NonManifold: t.NonManifold,
		Degenerate:  t.Degenerate,
		Closed:      t.Closed(),
	}
}

// Add records a dropped face.
func (r *Report) Add(d alphawrap.Dropped) {
	r.Dropped = append(r.Dropped, DroppedFace{Face: d.Face, Cardinality: d.Cardinality})
}

// Write writes the report to path as indented JSON, creating parent
// directories as needed.
func Write(path string, r Report) error {
	if r.Dropped == nil {
		r.Dropped = []DroppedFace{}
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
