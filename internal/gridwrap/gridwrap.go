// Package gridwrap computes a watertight, outward-oriented triangle surface
// enclosing a triangle soup at a given offset.
//
// The soup's unsigned distance field is sampled on a regular lattice whose
// spacing is bounded by both alpha and offset. Samples reachable from the
// lattice border without crossing the offset shell form the exterior;
// everything else, cavities included, is interior. The interior is then
// dilated by half the alpha-scale spacing and polygonized with marching
// tetrahedra on a coarser lattice of that spacing, which yields a closed
// 2-manifold by construction. Larger alpha means a coarser lattice and
// fewer output vertices; the surface lies between offset and roughly
// offset + alpha/CellsPerAlpha from the input.
package gridwrap

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"alphawrap/surface"
)

var (
	// ErrMalformedSoup reports a triangle that addresses a missing point or
	// a point with non-finite coordinates.
	ErrMalformedSoup = errors.New("gridwrap: malformed soup")

	// ErrInvalidParameter reports a non-positive or non-finite alpha or offset.
	ErrInvalidParameter = errors.New("gridwrap: invalid parameter")

	// ErrGridTooLarge is returned when the sampling lattice would exceed
	// Options.MaxGridPoints.
	ErrGridTooLarge = errors.New("gridwrap: sampling grid too large")
)

const (
	// DefaultCellsPerAlpha is the number of polygonization cells per alpha.
	DefaultCellsPerAlpha = 2.0

	// DefaultMaxGridPoints caps the sampling lattice at about 8M samples
	// (64 MiB per float64 field).
	DefaultMaxGridPoints = 1 << 23
)

// Options tunes the sampling lattice.
type Options struct {
	// CellsPerAlpha is how many polygonization cells span one alpha.
	// Higher values keep finer features at the cost of output size.
	CellsPerAlpha float64
	// MaxGridPoints caps the number of lattice samples.
	MaxGridPoints int
	Logger        *zap.Logger
}

// Wrapper wraps triangle soups. The zero value uses default options.
type Wrapper struct {
	opts Options
}

// New returns a Wrapper with zero option fields replaced by defaults.
func New(opts Options) *Wrapper {
	if opts.CellsPerAlpha <= 0 || math.IsNaN(opts.CellsPerAlpha) || math.IsInf(opts.CellsPerAlpha, 0) {
		opts.CellsPerAlpha = DefaultCellsPerAlpha
	}
	if opts.MaxGridPoints <= 0 {
		opts.MaxGridPoints = DefaultMaxGridPoints
	}
	// Lattice indices are stored as int32.
	if opts.MaxGridPoints > math.MaxInt32 {
		opts.MaxGridPoints = math.MaxInt32
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Wrapper{opts: opts}
}

// CellSize returns the sampling lattice spacing used for the given
// parameters. The spacing never exceeds offset, so the exterior fill cannot
// step across a wall of the offset shell.
func (w *Wrapper) CellSize(alpha, offset float64) float64 {
	return math.Min(alpha/w.options().CellsPerAlpha, offset)
}

// stride returns how many sampling cells make up one polygonization cell:
// alpha/CellsPerAlpha rounded down to whole cells, at least one, and at most
// half the padded extent so the input never collapses below a few cells.
func (w *Wrapper) stride(alpha, offset, cell, extent float64) float64 {
	s := math.Floor(alpha/w.options().CellsPerAlpha/cell + 1e-9)
	s = math.Min(s, math.Floor((extent+2*offset)/(2*cell)))
	return math.Max(s, 1)
}

// latticeDim returns the sample count along one axis: the padded span plus
// one, rounded up so the polygonization lattice lands on the last sample.
func latticeDim(span, cell, stride float64) float64 {
	f := math.Ceil(span/cell) + 1
	return math.Ceil((f-1)/stride)*stride + 1
}

func (w *Wrapper) options() Options {
	if w == nil || w.opts.CellsPerAlpha == 0 {
		return New(Options{}).opts
	}
	return w.opts
}

// Wrap returns the wrapped surface of the soup. Every triangle index must
// address a point and every referenced point must be finite.
func (w *Wrapper) Wrap(points []r3.Vec, tris [][3]uint32, alpha, offset float64) (surface.Surface, error) {
	opts := w.options()

	if !positiveFinite(alpha) {
		return nil, fmt.Errorf("%w: alpha %v", ErrInvalidParameter, alpha)
	}
	if !positiveFinite(offset) {
		return nil, fmt.Errorf("%w: offset %v", ErrInvalidParameter, offset)
	}
	if err := validate(points, tris); err != nil {
		return nil, err
	}
	if len(tris) == 0 {
		return surface.NewMesh(0, 0), nil
	}

	cell := w.CellSize(alpha, offset)
	lo, hi := bounds(points, tris)
	extent := math.Max(hi.X-lo.X, math.Max(hi.Y-lo.Y, hi.Z-lo.Z))

	fs := w.stride(alpha, offset, cell, extent)
	radius := math.Floor(fs / 2)

	// Border samples, and every sample within the dilation radius of them,
	// must lie outside the distance band.
	band := offset + 2*cell
	pad := band + (radius+1)*cell

	origin := r3.Sub(lo, r3.Vec{X: pad, Y: pad, Z: pad})
	fx := latticeDim(hi.X-lo.X+2*pad, cell, fs)
	fy := latticeDim(hi.Y-lo.Y+2*pad, cell, fs)
	fz := latticeDim(hi.Z-lo.Z+2*pad, cell, fs)
	if fx*fy*fz > float64(opts.MaxGridPoints) {
		return nil, fmt.Errorf("%w: %.0fx%.0fx%.0f samples exceed limit %d (cell %g)",
			ErrGridTooLarge, fx, fy, fz, opts.MaxGridPoints, cell)
	}
	nx, ny, nz := int(fx), int(fy), int(fz)
	step, r := int(fs), int(radius)

	g := newGrid(origin, cell, nx, ny, nz, band)
	g.sampleDistance(points, tris, band)
	exterior := g.carve(offset)
	field := g.dilate(r)

	opts.Logger.Debug("sampled wrap grid",
		zap.Int("nx", nx),
		zap.Int("ny", ny),
		zap.Int("nz", nz),
		zap.Float64("cell", cell),
		zap.Int("stride", step),
		zap.Int("exterior", exterior))

	// Surface size scales with the coarse lattice's cross-section.
	cx, cy, cz := (nx-1)/step+1, (ny-1)/step+1, (nz-1)/step+1
	hint := 2 * (cx*cy + cy*cz + cx*cz)
	m := newPolygonizer(g, field, step, hint).run()

	opts.Logger.Debug("polygonized wrap surface",
		zap.Int("vertices", m.NumVertices()),
		zap.Int("faces", m.NumFaces()))

	return m, nil
}

func validate(points []r3.Vec, tris [][3]uint32) error {
	n := uint64(len(points))
	for t, tri := range tris {
		for _, idx := range tri {
			if uint64(idx) >= n {
				return fmt.Errorf("%w: triangle %d references vertex %d of %d", ErrMalformedSoup, t, idx, n)
			}
			p := points[idx]
			if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
				return fmt.Errorf("%w: vertex %d has non-finite coordinates", ErrMalformedSoup, idx)
			}
		}
	}
	return nil
}

func bounds(points []r3.Vec, tris [][3]uint32) (lo, hi r3.Vec) {
	inf := math.Inf(1)
	lo = r3.Vec{X: inf, Y: inf, Z: inf}
	hi = r3.Vec{X: -inf, Y: -inf, Z: -inf}
	for _, tri := range tris {
		for _, idx := range tri {
			p := points[idx]
			lo = r3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
			hi = r3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
		}
	}
	return lo, hi
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positiveFinite(v float64) bool {
	return v > 0 && finite(v)
}
