// Package soup converts flat vertex and index buffers into the point set and
// triangle soup handed to a wrapper.
package soup

import "gonum.org/v1/gonum/spatial/r3"

// Soup is a point sequence plus triangles indexing into it.
type Soup struct {
	Points    []r3.Vec
	Triangles [][3]uint32
}

// Build converts flat vertex and index buffers into a soup, keeping buffer
// order. Trailing values that do not form a full triple are ignored; index
// bounds are not checked. Neither input slice is retained or written.
func Build(vertices []float64, indices []uint32) Soup {
	nv := len(vertices) / 3
	points := make([]r3.Vec, nv)
	for i := 0; i < nv; i++ {
		points[i] = r3.Vec{X: vertices[i*3], Y: vertices[i*3+1], Z: vertices[i*3+2]}
	}

	nt := len(indices) / 3
	tris := make([][3]uint32, nt)
	for i := 0; i < nt; i++ {
		tris[i] = [3]uint32{indices[i*3], indices[i*3+1], indices[i*3+2]}
	}

	return Soup{Points: points, Triangles: tris}
}
