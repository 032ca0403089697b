//go:build cgo

// Command libalphawrap exports WrapTriMesh over a C ABI.
//
// Build with: go build -buildmode=c-shared -o libalphawrap.so ./cmd/libalphawrap
//
// Buffers passed in must come from malloc. On success the old arrays are
// released with free and replaced by new malloc'd ones; release those with
// alpha_wrap_free_tri_mesh or free.
package main

/*
#include <stdlib.h>

typedef struct {
	double* arr;
	size_t size;
} DoubleBuffer;

typedef struct {
	size_t* arr;
	size_t size;
} IndexBuffer;

typedef struct {
	DoubleBuffer vertices;
	IndexBuffer indices;
} TriMesh;
*/
import "C"

import (
	"os"
	"unsafe"

	"go.uber.org/zap"

	"alphawrap"
	"alphawrap/internal/cabi"
)

func init() {
	if os.Getenv("ALPHAWRAP_DEBUG") != "" {
		if l, err := zap.NewDevelopment(); err == nil {
			alphawrap.SetLogger(l)
		}
	}
}

// cHeap allocates with malloc. cgo's C.malloc aborts rather than return nil.
type cHeap struct{}

func (cHeap) Alloc(n uintptr) unsafe.Pointer { return C.malloc(C.size_t(n)) }
func (cHeap) Free(p unsafe.Pointer)          { C.free(p) }

func buffers(mesh *C.TriMesh) cabi.Buffers {
	return cabi.Buffers{
		Vertices:  unsafe.Pointer(mesh.vertices.arr),
		NVertices: int(mesh.vertices.size),
		Indices:   unsafe.Pointer(mesh.indices.arr),
		NIndices:  int(mesh.indices.size),
	}
}

func store(mesh *C.TriMesh, b cabi.Buffers) {
	mesh.vertices.arr = (*C.double)(b.Vertices)
	mesh.vertices.size = C.size_t(b.NVertices)
	mesh.indices.arr = (*C.size_t)(b.Indices)
	mesh.indices.size = C.size_t(b.NIndices)
}

//export alpha_wrap_tri_mesh
func alpha_wrap_tri_mesh(mesh *C.TriMesh, alpha, offset C.double) C.int {
	if mesh == nil {
		return C.int(cabi.CodeMalformed)
	}
	b := buffers(mesh)
	m, err := cabi.Load(b)
	if err != nil {
		return C.int(cabi.StatusCode(err))
	}

	if err := alphawrap.WrapTriMesh(&m, float64(alpha), float64(offset)); err != nil {
		alphawrap.Logger().Debug("wrap failed", zap.Error(err))
		return C.int(cabi.StatusCode(err))
	}

	if err := cabi.Install(&b, m.Vertices, m.Indices, cHeap{}); err != nil {
		return C.int(cabi.StatusCode(err))
	}
	store(mesh, b)
	return C.int(cabi.CodeOK)
}

//export alpha_wrap_free_tri_mesh
func alpha_wrap_free_tri_mesh(mesh *C.TriMesh) {
	if mesh == nil {
		return
	}
	b := buffers(mesh)
	cabi.Release(&b, cHeap{})
	store(mesh, b)
}

func main() {}
