// Package cabi implements the C entry points of libalphawrap on plain
// pointers, so the buffer handling can be tested without cgo.
package cabi

import (
	"errors"
	"fmt"
	"unsafe"

	"alphawrap"
)

// ErrNoMemory reports that the allocator could not provide an output array.
var ErrNoMemory = errors.New("cabi: allocation failed")

const (
	vertexSize = unsafe.Sizeof(float64(0))
	indexSize  = unsafe.Sizeof(uintptr(0)) // size_t
)

// Buffers mirrors the caller's TriMesh: a double array and a size_t array,
// each with its element count.
type Buffers struct {
	Vertices  unsafe.Pointer
	NVertices int
	Indices   unsafe.Pointer
	NIndices  int
}

// Allocator is the heap the caller's arrays live on. Alloc returns nil when
// n bytes are not available.
type Allocator interface {
	Alloc(n uintptr) unsafe.Pointer
	Free(p unsafe.Pointer)
}

// Load copies b into a TriMesh. A nil array with a non-zero count, or an
// index that does not fit uint32, is malformed.
func Load(b Buffers) (alphawrap.TriMesh, error) {
	if (b.Vertices == nil && b.NVertices != 0) || (b.Indices == nil && b.NIndices != 0) {
		return alphawrap.TriMesh{}, fmt.Errorf("%w: nil array with non-zero size", alphawrap.ErrMalformedInput)
	}
	if b.NVertices < 0 || b.NIndices < 0 {
		return alphawrap.TriMesh{}, fmt.Errorf("%w: negative size", alphawrap.ErrMalformedInput)
	}

	var m alphawrap.TriMesh
	if b.NIndices > 0 {
		idx, ok := NarrowIndices(unsafe.Slice((*uintptr)(b.Indices), b.NIndices))
		if !ok {
			return alphawrap.TriMesh{}, fmt.Errorf("%w: index exceeds uint32", alphawrap.ErrMalformedInput)
		}
		m.Indices = idx
	}
	if b.NVertices > 0 {
		m.Vertices = make([]float64, b.NVertices)
		copy(m.Vertices, unsafe.Slice((*float64)(b.Vertices), b.NVertices))
	}
	return m, nil
}

// Install copies vertices and indices into arrays from a and swaps them into
// dst, freeing the arrays dst held. Both new arrays are allocated and filled
// before anything is freed; on ErrNoMemory dst and its arrays are untouched.
func Install(dst *Buffers, vertices []float64, indices []uint32, a Allocator) error {
	nv, ni := max(len(vertices), 1), max(len(indices), 1)

	newVerts := a.Alloc(uintptr(nv) * vertexSize)
	if newVerts == nil {
		return fmt.Errorf("%w: %d vertices", ErrNoMemory, len(vertices)/3)
	}
	newIdx := a.Alloc(uintptr(ni) * indexSize)
	if newIdx == nil {
		a.Free(newVerts)
		return fmt.Errorf("%w: %d indices", ErrNoMemory, len(indices))
	}

	copy(unsafe.Slice((*float64)(newVerts), nv), vertices)
	out := unsafe.Slice((*uintptr)(newIdx), ni)
	for i, v := range indices {
		out[i] = uintptr(v)
	}

	Release(dst, a)
	*dst = Buffers{
		Vertices:  newVerts,
		NVertices: len(vertices),
		Indices:   newIdx,
		NIndices:  len(indices),
	}
	return nil
}

// Release frees both arrays of b and zeroes it. Nil arrays are skipped.
func Release(b *Buffers, a Allocator) {
	if b.Vertices != nil {
		a.Free(b.Vertices)
	}
	if b.Indices != nil {
		a.Free(b.Indices)
	}
	*b = Buffers{}
}
