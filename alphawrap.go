// Package alphawrap replaces a triangle mesh with a watertight, manifold
// triangle mesh that encloses it.
//
// The mesh is held in flat buffers: three float64 per vertex and three
// uint32 per triangle. WrapTriMesh converts those buffers into a point set
// and triangle soup, hands them to a Wrapper, walks the closed surface it
// returns, and installs fresh buffers in place of the old ones:
//
//	m := &alphawrap.TriMesh{Vertices: verts, Indices: tris}
//	if err := alphawrap.WrapTriMesh(m, 1.0, 0.1); err != nil {
//		return err
//	}
//
// The mesh is only written once the new buffers are complete. On any error,
// and on a panic raised after the buffers were read, the caller's mesh is left
// as it was.
//
// Faces of the wrapped surface that are not triangles are dropped and
// reported through the logger and the optional Observer; they never reach
// the index buffer.
package alphawrap

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"alphawrap/internal/extract"
	"alphawrap/internal/gridwrap"
	"alphawrap/internal/meshcheck"
	"alphawrap/internal/soup"
	"alphawrap/surface"
)

var (
	// ErrMalformedInput reports buffers that do not describe a triangle soup:
	// ragged lengths, out-of-range indices, or non-finite coordinates.
	ErrMalformedInput = errors.New("alphawrap: malformed input")

	// ErrInvalidParameter reports a non-positive or non-finite alpha or offset.
	ErrInvalidParameter = errors.New("alphawrap: invalid parameter")

	// ErrWrapFailed reports that the wrapping algorithm returned an error,
	// returned no surface, or panicked.
	ErrWrapFailed = errors.New("alphawrap: wrap failed")

	// ErrCorruptSurface reports a wrapped surface whose faces name vertices
	// it never yielded.
	ErrCorruptSurface = extract.ErrCorruptSurface

	// ErrTooManyVertices reports a wrapped surface whose vertex count does not
	// fit a uint32 index.
	ErrTooManyVertices = extract.ErrTooManyVertices
)

// TriMesh is a triangle mesh in flat-buffer form. Vertices holds x, y, z per
// vertex; Indices holds three vertex references per triangle. A TriMesh owns
// its slices: WrapTriMesh swaps in new ones and never writes into the old.
type TriMesh struct {
	Vertices []float64
	Indices  []uint32
}

// VertexCount returns the number of complete vertices.
func (m *TriMesh) VertexCount() int { return len(m.Vertices) / 3 }

// TriangleCount returns the number of complete triangles.
func (m *TriMesh) TriangleCount() int { return len(m.Indices) / 3 }

// Validate checks that both buffers hold whole triples, that every index
// addresses a vertex, and that every coordinate is finite.
func (m *TriMesh) Validate() error {
	if err := meshcheck.CheckBuffers(m.Vertices, m.Indices); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	return nil
}

// replace installs new storage. Both fields change in one assignment, and
// the result owns exact-length copies so no transient buffer stays aliased.
func (m *TriMesh) replace(vertices []float64, indices []uint32) {
	v := make([]float64, len(vertices))
	copy(v, vertices)
	i := make([]uint32, len(indices))
	copy(i, indices)
	*m = TriMesh{Vertices: v, Indices: i}
}

// Wrapper produces a closed surface enclosing a triangle soup. The surface
// must be closed and manifold and lie within offset of the input; its faces
// may have more than three vertices. Implementations should wrap
// ErrMalformedInput when the soup itself is invalid.
type Wrapper interface {
	Wrap(points []r3.Vec, triangles [][3]uint32, alpha, offset float64) (surface.Surface, error)
}

// gridWrapper adapts the built-in lattice wrapper to this package's errors.
type gridWrapper struct {
	w *gridwrap.Wrapper
}

func (g gridWrapper) Wrap(points []r3.Vec, triangles [][3]uint32, alpha, offset float64) (surface.Surface, error) {
	s, err := g.w.Wrap(points, triangles, alpha, offset)
	switch {
	case errors.Is(err, gridwrap.ErrMalformedSoup):
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	case errors.Is(err, gridwrap.ErrInvalidParameter):
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}
	return s, err
}

// WrapTriMesh replaces m with a watertight triangle mesh that encloses it
// within offset, simplifying features smaller than alpha. It blocks until
// done and must not run concurrently with other access to m.
func WrapTriMesh(m *TriMesh, alpha, offset float64, opts ...Option) error {
	if m == nil {
		return fmt.Errorf("%w: nil mesh", ErrMalformedInput)
	}
	if !positiveFinite(alpha) {
		return fmt.Errorf("%w: alpha %v", ErrInvalidParameter, alpha)
	}
	if !positiveFinite(offset) {
		return fmt.Errorf("%w: offset %v", ErrInvalidParameter, offset)
	}
	if len(m.Vertices)%3 != 0 || len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: buffer lengths %d/%d are not multiples of 3",
			ErrMalformedInput, len(m.Vertices), len(m.Indices))
	}

	s := newSettings(opts)
	log := s.logger

	sp := soup.Build(m.Vertices, m.Indices)

	wrapped, err := invoke(s.wrapper, sp, alpha, offset)
	if err != nil {
		return err
	}

	res, err := extract.Run(wrapped, func(d Dropped) {
		log.Warn("dropped non-triangular face",
			zap.Int("face", d.Face),
			zap.Int("cardinality", d.Cardinality))
		if s.observer != nil {
			s.observer(d)
		}
	})
	if err != nil {
		return fmt.Errorf("alphawrap: extract: %w", err)
	}

	if s.beforeSwap != nil {
		if err := s.beforeSwap(); err != nil {
			return err
		}
	}

	m.replace(res.Vertices, res.Indices)

	log.Debug("wrapped mesh",
		zap.Int("input_vertices", len(sp.Points)),
		zap.Int("input_triangles", len(sp.Triangles)),
		zap.Int("output_vertices", m.VertexCount()),
		zap.Int("output_triangles", m.TriangleCount()),
		zap.Int("dropped_faces", res.Dropped))
	return nil
}

// invoke calls the wrapper, turning a panic inside it into an error so the
// caller's mesh is never left mid-update.
func invoke(w Wrapper, sp soup.Soup, alpha, offset float64) (s surface.Surface, err error) {
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = fmt.Errorf("%w: panic: %v", ErrWrapFailed, r)
		}
	}()

	s, err = w.Wrap(sp.Points, sp.Triangles, alpha, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrapFailed, err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: no surface returned", ErrWrapFailed)
	}
	return s, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
