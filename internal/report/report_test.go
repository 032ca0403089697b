package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"alphawrap"
)

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	m := &alphawrap.TriMesh{
		Vertices: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1},
		Indices:  []uint32{0, 2, 1, 0, 1, 3, 1, 2, 3, 0, 3, 2},
	}

	r := Report{Input: "in.json", Output: "out.json", Alpha: 1, Offset: 0.1}
	r.Before = Stats(m)
	r.After = Stats(m)
	r.Topology = Topology(m.Indices)
	r.Add(alphawrap.Dropped{Face: 3, Cardinality: 4})

	if err := Write(path, r); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.After.Vertices != 4 || got.After.Triangles != 4 {
		t.Errorf("unexpected stats %+v", got.After)
	}
	if !got.Topology.Closed || got.Topology.Edges != 6 {
		t.Errorf("tetrahedron should be closed with 6 edges, got %+v", got.Topology)
	}
	if len(got.Dropped) != 1 || got.Dropped[0] != (DroppedFace{Face: 3, Cardinality: 4}) {
		t.Errorf("unexpected dropped faces %+v", got.Dropped)
	}
}

func TestWrite_EmptyDroppedIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := Write(path, Report{}); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["dropped"]) != "[]" {
		t.Errorf("expected empty array, got %s", raw["dropped"])
	}
	if _, ok := raw["preview"]; ok {
		t.Error("preview should be omitted when empty")
	}
}
