// Package surface defines the closed polygon surface a wrapping algorithm
// hands back, and an arena-backed implementation of it.
package surface

import (
	"iter"

	"gonum.org/v1/gonum/spatial/r3"
)

// VertexID identifies a vertex inside a surface's vertex arena.
type VertexID int

// Surface is the read-only view the extractor needs: vertex positions and
// faces as cyclic vertex lists. Implementations are not required to keep IDs
// dense; removed slots are simply skipped by Vertices.
type Surface interface {
	// VertexSlots returns the arena size. Every VertexID is < VertexSlots().
	VertexSlots() int
	// Vertices yields live vertices in surface order.
	Vertices() iter.Seq2[VertexID, r3.Vec]
	// Faces yields each face's vertices in cyclic order. The slice is only
	// valid for the duration of the yield call.
	Faces() iter.Seq[[]VertexID]
}

// Mesh is a polygon surface stored as a vertex arena plus a flat face list.
// Removing a vertex only marks its slot, so IDs stay stable.
type Mesh struct {
	positions []r3.Vec
	removed   []bool
	live      int

	corners []VertexID // face corners, concatenated
	starts  []int      // starts[f] indexes corners; len(starts) == faces+1
}

// NewMesh returns an empty mesh with room for the given counts.
func NewMesh(vertexHint, faceHint int) *Mesh {
	return &Mesh{
		positions: make([]r3.Vec, 0, vertexHint),
		removed:   make([]bool, 0, vertexHint),
		corners:   make([]VertexID, 0, faceHint*3),
		starts:    append(make([]int, 0, faceHint+1), 0),
	}
}

// AddVertex appends a vertex and returns its ID.
func (m *Mesh) AddVertex(p r3.Vec) VertexID {
	if m.starts == nil {
		m.starts = []int{0}
	}
	m.positions = append(m.positions, p)
	m.removed = append(m.removed, false)
	m.live++
	return VertexID(len(m.positions) - 1)
}

// AddFace appends a face given its vertices in cyclic order.
// The vertex IDs are not checked here; the extractor rejects dangling ones.
func (m *Mesh) AddFace(vs ...VertexID) {
	if m.starts == nil {
		m.starts = []int{0}
	}
	m.corners = append(m.corners, vs...)
	m.starts = append(m.starts, len(m.corners))
}

// RemoveVertex marks a vertex slot as dead. Faces still naming it become
// dangling.
func (m *Mesh) RemoveVertex(v VertexID) {
	if v < 0 || int(v) >= len(m.removed) || m.removed[v] {
		return
	}
	m.removed[v] = true
	m.live--
}

// Position returns the stored position of v.
func (m *Mesh) Position(v VertexID) r3.Vec {
	return m.positions[v]
}

// NumVertices returns the number of live vertices.
func (m *Mesh) NumVertices() int { return m.live }

// NumFaces returns the number of faces.
func (m *Mesh) NumFaces() int {
	if len(m.starts) == 0 {
		return 0
	}
	return len(m.starts) - 1
}

func (m *Mesh) VertexSlots() int { return len(m.positions) }

func (m *Mesh) Vertices() iter.Seq2[VertexID, r3.Vec] {
	return func(yield func(VertexID, r3.Vec) bool) {
		for i, p := range m.positions {
			if m.removed[i] {
				continue
			}
			if !yield(VertexID(i), p) {
				return
			}
		}
	}
}

func (m *Mesh) Faces() iter.Seq[[]VertexID] {
	return func(yield func([]VertexID) bool) {
		for f := 0; f+1 < len(m.starts); f++ {
			if !yield(m.corners[m.starts[f]:m.starts[f+1]]) {
				return
			}
		}
	}
}
