// Package extract flattens a wrapped surface back into vertex and index
// buffers, keeping only triangular faces.
package extract

import (
	"errors"
	"fmt"
	"math"

	"alphawrap/surface"
)

var (
	// ErrCorruptSurface is returned when a face names a vertex the surface
	// never yielded, or an ID outside the vertex arena.
	ErrCorruptSurface = errors.New("extract: corrupt surface")

	// ErrTooManyVertices is returned when the output cannot be indexed with uint32.
	ErrTooManyVertices = errors.New("extract: vertex count exceeds uint32 range")
)

const unassigned = -1

// Dropped describes a face that was left out of the index buffer.
type Dropped struct {
	Face        int // position of the face in the surface's face order
	Cardinality int // number of vertices bounding the face
}

func (d Dropped) String() string {
	return fmt.Sprintf("face cardinality %d dropped", d.Cardinality)
}

// Result holds freshly allocated output buffers.
type Result struct {
	Vertices []float64
	Indices  []uint32
	Dropped  int
}

// Run walks s and builds flat buffers. Vertices get dense output indices in
// visitation order; faces that are not triangles are dropped and passed to
// report (which may be nil). On error no partial result is returned.
func Run(s surface.Surface, report func(Dropped)) (Result, error) {
	slots := s.VertexSlots()
	if slots < 0 {
		return Result{}, fmt.Errorf("%w: negative vertex slot count %d", ErrCorruptSurface, slots)
	}

	// remap[id] is the output index of vertex id, or unassigned.
	remap := make([]int64, slots)
	for i := range remap {
		remap[i] = unassigned
	}

	vertices := make([]float64, 0, slots*3)
	var next int64
	for id, p := range s.Vertices() {
		if id < 0 || int(id) >= slots {
			return Result{}, fmt.Errorf("%w: vertex id %d outside arena of %d", ErrCorruptSurface, id, slots)
		}
		if remap[id] != unassigned {
			return Result{}, fmt.Errorf("%w: vertex id %d visited twice", ErrCorruptSurface, id)
		}
		if next > math.MaxUint32 {
			return Result{}, ErrTooManyVertices
		}
		remap[id] = next
		next++
		vertices = append(vertices, p.X, p.Y, p.Z)
	}

	var (
		indices []uint32
		dropped int
		face    int
		tri     [3]uint32
	)
	for f := range s.Faces() {
		for k, id := range f {
			if id < 0 || int(id) >= slots || remap[id] == unassigned {
				return Result{}, fmt.Errorf("%w: face %d references vertex %d", ErrCorruptSurface, face, id)
			}
			if k < 3 {
				tri[k] = uint32(remap[id])
			}
		}

		if len(f) == 3 {
			indices = append(indices, tri[0], tri[1], tri[2])
		} else {
			dropped++
			if report != nil {
				report(Dropped{Face: face, Cardinality: len(f)})
			}
		}
		face++
	}

	return Result{
		Vertices: vertices,
		Indices:  indices,
		Dropped:  dropped,
	}, nil
}
