package cabi

import (
	"errors"
	"math"

	"alphawrap"
	"alphawrap/internal/gridwrap"
)

// Status codes returned across the C boundary.
const (
	CodeOK         = 0
	CodeMalformed  = -1
	CodeParameter  = -2
	CodeWrapFailed = -3
	CodeCorrupt    = -4
	CodeResource   = -5
)

// StatusCode maps an error from this package or from alphawrap to a C
// status code.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, alphawrap.ErrMalformedInput):
		return CodeMalformed
	case errors.Is(err, alphawrap.ErrInvalidParameter):
		return CodeParameter
	case errors.Is(err, gridwrap.ErrGridTooLarge), errors.Is(err, ErrNoMemory):
		return CodeResource
	case errors.Is(err, alphawrap.ErrCorruptSurface), errors.Is(err, alphawrap.ErrTooManyVertices):
		return CodeCorrupt
	default:
		return CodeWrapFailed
	}
}

// NarrowIndices converts size_t indices to the uint32 indices TriMesh uses.
// ok is false if any index does not fit.
func NarrowIndices[T ~uint | ~uint32 | ~uint64 | ~uintptr](src []T) ([]uint32, bool) {
	if len(src) == 0 {
		return nil, true
	}
	out := make([]uint32, len(src))
	for i, v := range src {
		if uint64(v) > math.MaxUint32 {
			return nil, false
		}
		out[i] = uint32(v)
	}
	return out, true
}
