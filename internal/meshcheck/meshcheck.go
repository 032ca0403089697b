// Package meshcheck reports buffer invariants and edge topology of flat
// triangle buffers.
package meshcheck

import (
	"fmt"
	"math"
)

// Topology counts undirected edges by the number of triangles using them.
type Topology struct {
	Edges       int
	Boundary    int // used by exactly one triangle
	Manifold    int // used by exactly two triangles
	NonManifold int // used by three or more
	Degenerate  int // triangles repeating a vertex index
}

// Closed reports whether every edge is shared by exactly two triangles.
func (t Topology) Closed() bool {
	return t.Edges > 0 && t.Boundary == 0 && t.NonManifold == 0
}

// CheckBuffers verifies length and index-range invariants.
func CheckBuffers(vertices []float64, indices []uint32) error {
	if len(vertices)%3 != 0 {
		return fmt.Errorf("meshcheck: vertex buffer length %d is not a multiple of 3", len(vertices))
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("meshcheck: index buffer length %d is not a multiple of 3", len(indices))
	}
	nv := uint64(len(vertices) / 3)
	for i, idx := range indices {
		if uint64(idx) >= nv {
			return fmt.Errorf("meshcheck: index %d at position %d out of range (%d vertices)", idx, i, nv)
		}
	}
	for i, v := range vertices {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("meshcheck: non-finite coordinate at position %d", i)
		}
	}
	return nil
}

// Edges tallies edge usage over the triangles in indices.
func Edges(indices []uint32) Topology {
	use := make(map[[2]uint32]int, len(indices))
	var topo Topology
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a == b || b == c || a == c {
			topo.Degenerate++
		}
		use[edgeKey(a, b)]++
		use[edgeKey(b, c)]++
		use[edgeKey(c, a)]++
	}

	topo.Edges = len(use)
	for _, n := range use {
		switch {
		case n == 1:
			topo.Boundary++
		case n == 2:
			topo.Manifold++
		default:
			topo.NonManifold++
		}
	}
	return topo
}

// Bounds returns the axis-aligned bounding box of a flat vertex buffer.
// ok is false for an empty buffer.
func Bounds(vertices []float64) (min, max [3]float64, ok bool) {
	if len(vertices) < 3 {
		return min, max, false
	}
	min = [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i+2 < len(vertices); i += 3 {
		for k := 0; k < 3; k++ {
			v := vertices[i+k]
			if v < min[k] {
				min[k] = v
			}
			if v > max[k] {
				max[k] = v
			}
		}
	}
	return min, max, true
}

func edgeKey(a, b uint32) [2]uint32 {
	if a > b {
		a, b = b, a
	}
	return [2]uint32{a, b}
}
