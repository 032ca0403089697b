package gridwrap

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"alphawrap/surface"
)

// unitCube is a closed, outward-wound unit cube: 8 vertices, 12 triangles.
func unitCube() ([]r3.Vec, [][3]uint32) {
	points := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	tris := [][3]uint32{
		{0, 2, 1}, {0, 3, 2},
		{4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4},
		{2, 3, 7}, {2, 7, 6},
		{1, 2, 6}, {1, 6, 5},
		{0, 4, 7}, {0, 7, 3},
	}
	return points, tris
}

// distToUnitBox is the distance from p to the solid unit cube.
func distToUnitBox(p r3.Vec) float64 {
	clamp := func(v float64) float64 { return math.Max(0, math.Max(-v, v-1)) }
	dx, dy, dz := clamp(p.X), clamp(p.Y), clamp(p.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// edgeUse counts how many faces use each undirected edge.
func edgeUse(t *testing.T, s surface.Surface) map[[2]surface.VertexID]int {
	t.Helper()
	use := make(map[[2]surface.VertexID]int)
	for f := range s.Faces() {
		if len(f) != 3 {
			t.Fatalf("expected triangles only, got face of %d", len(f))
		}
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			use[[2]surface.VertexID{a, b}]++
		}
	}
	return use
}

func TestWrap_CubeIsClosedManifold(t *testing.T) {
	points, tris := unitCube()
	w := New(Options{})

	s, err := w.Wrap(points, tris, 1.0, 0.1)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}

	m := s.(*surface.Mesh)
	if m.NumVertices() < 8 {
		t.Fatalf("expected at least 8 vertices, got %d", m.NumVertices())
	}

	use := edgeUse(t, s)
	if len(use) == 0 {
		t.Fatal("expected a non-empty surface")
	}
	for e, n := range use {
		if n != 2 {
			t.Fatalf("edge %v used by %d faces, expected 2", e, n)
		}
	}

	// Euler characteristic of a sphere-like closed surface.
	chi := m.NumVertices() - len(use) + m.NumFaces()
	if chi != 2 {
		t.Errorf("expected Euler characteristic 2, got %d", chi)
	}
}

func TestWrap_CubeEnclosedWithinOffset(t *testing.T) {
	points, tris := unitCube()
	w := New(Options{})
	alpha, offset := 0.2, 0.1
	cell := w.CellSize(alpha, offset)

	s, err := w.Wrap(points, tris, alpha, offset)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}

	for id, p := range s.Vertices() {
		d := distToUnitBox(p)
		if d <= 0 {
			t.Fatalf("vertex %d at %v lies inside the input", id, p)
		}
		if d > offset+cell {
			t.Fatalf("vertex %d at %v is %g from the input, beyond offset+cell %g", id, p, d, offset+cell)
		}
	}
}

func TestWrap_CoarseSurfaceStaysNearInput(t *testing.T) {
	points, tris := unitCube()
	alpha, offset := 1.0, 0.1

	s, err := New(Options{}).Wrap(points, tris, alpha, offset)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}
	for id, p := range s.Vertices() {
		d := distToUnitBox(p)
		if d <= 0 || d > offset+alpha/2 {
			t.Fatalf("vertex %d at %v is %g from the input, want (0, %g]", id, p, d, offset+alpha/2)
		}
	}
}

func TestWrap_AlphaControlsDetail(t *testing.T) {
	points, tris := unitCube()
	w := New(Options{})

	prev := math.MaxInt
	counts := make(map[float64]int)
	for _, alpha := range []float64{0.2, 0.5, 1, 10} {
		s, err := w.Wrap(points, tris, alpha, 0.1)
		if err != nil {
			t.Fatalf("alpha %g: Wrap error: %v", alpha, err)
		}
		m := s.(*surface.Mesh)
		for e, n := range edgeUse(t, s) {
			if n != 2 {
				t.Fatalf("alpha %g: edge %v used by %d faces", alpha, e, n)
			}
		}
		if m.NumVertices() > prev {
			t.Errorf("alpha %g gave %d vertices, more than %d at a smaller alpha", alpha, m.NumVertices(), prev)
		}
		prev = m.NumVertices()
		counts[alpha] = prev
	}
	if counts[1] >= counts[0.2] {
		t.Errorf("alpha had no effect: %v", counts)
	}
}

func TestDilate(t *testing.T) {
	g := newGrid(r3.Vec{}, 1, 7, 1, 1, 1)
	copy(g.val, []float64{5, 4, -1, 3, 2, 6, 7})

	got := g.dilate(1)
	want := []float64{4, -1, -1, -1, 2, 2, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dilate(1) = %v, want %v", got, want)
		}
	}

	if same := g.dilate(0); &same[0] != &g.val[0] {
		t.Error("radius 0 should return the field itself")
	}
}

func TestWrap_OutwardOrientation(t *testing.T) {
	points, tris := unitCube()
	s, err := New(Options{}).Wrap(points, tris, 1.0, 0.1)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}
	m := s.(*surface.Mesh)

	// Signed volume of a closed outward surface is positive.
	var vol float64
	for f := range s.Faces() {
		a, b, c := m.Position(f[0]), m.Position(f[1]), m.Position(f[2])
		vol += r3.Dot(a, r3.Cross(b, c)) / 6
	}
	if vol <= 1 {
		t.Errorf("expected enclosed volume above the cube's 1, got %g", vol)
	}
}

func TestWrap_FillsCavity(t *testing.T) {
	outer, outerTris := unitCube()

	// Inner cube scaled into the middle, wound inward: a hollow shell.
	inner := make([]r3.Vec, len(outer))
	for i, p := range outer {
		inner[i] = r3.Add(r3.Vec{X: 0.3, Y: 0.3, Z: 0.3}, r3.Scale(0.4, p))
	}
	points := append(append([]r3.Vec{}, outer...), inner...)
	tris := append([][3]uint32{}, outerTris...)
	for _, tri := range outerTris {
		tris = append(tris, [3]uint32{tri[0] + 8, tri[2] + 8, tri[1] + 8})
	}

	s, err := New(Options{}).Wrap(points, tris, 1.0, 0.1)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}
	for _, p := range s.Vertices() {
		if distToUnitBox(p) <= 0 {
			t.Fatalf("vertex %v inside the outer cube: cavity was not filled", p)
		}
	}
}

func TestWrap_StableOnRewrap(t *testing.T) {
	points, tris := unitCube()
	w := New(Options{})

	first, err := w.Wrap(points, tris, 1.0, 0.1)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}
	m1 := first.(*surface.Mesh)

	var p2 []r3.Vec
	remap := make(map[surface.VertexID]uint32)
	for id, p := range first.Vertices() {
		remap[id] = uint32(len(p2))
		p2 = append(p2, p)
	}
	var t2 [][3]uint32
	for f := range first.Faces() {
		t2 = append(t2, [3]uint32{remap[f[0]], remap[f[1]], remap[f[2]]})
	}

	second, err := w.Wrap(p2, t2, 1.0, 0.1)
	if err != nil {
		t.Fatalf("second Wrap error: %v", err)
	}
	m2 := second.(*surface.Mesh)

	ratio := float64(m2.NumVertices()) / float64(m1.NumVertices())
	if ratio < 0.5 || ratio > 3 {
		t.Errorf("rewrap changed vertex count from %d to %d", m1.NumVertices(), m2.NumVertices())
	}
}

func TestWrap_Empty(t *testing.T) {
	s, err := New(Options{}).Wrap(nil, nil, 1, 0.1)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}
	if s.VertexSlots() != 0 {
		t.Errorf("expected empty surface, got %d slots", s.VertexSlots())
	}
}

func TestWrap_ZeroValueWrapper(t *testing.T) {
	points, tris := unitCube()
	var w Wrapper
	if _, err := w.Wrap(points, tris, 1, 0.2); err != nil {
		t.Fatalf("zero-value Wrapper should use defaults, got %v", err)
	}
}

func TestWrap_Errors(t *testing.T) {
	points, tris := unitCube()

	nan := append([]r3.Vec{}, points...)
	nan[3].Y = math.NaN()

	tests := []struct {
		name   string
		points []r3.Vec
		tris   [][3]uint32
		alpha  float64
		offset float64
		opts   Options
		want   error
	}{
		{"index out of range", points, [][3]uint32{{0, 1, 8}}, 1, 0.1, Options{}, ErrMalformedSoup},
		{"non-finite vertex", nan, tris, 1, 0.1, Options{}, ErrMalformedSoup},
		{"zero alpha", points, tris, 0, 0.1, Options{}, ErrInvalidParameter},
		{"negative offset", points, tris, 1, -1, Options{}, ErrInvalidParameter},
		{"infinite alpha", points, tris, math.Inf(1), 0.1, Options{}, ErrInvalidParameter},
		{"grid limit", points, tris, 1, 0.001, Options{MaxGridPoints: 1000}, ErrGridTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.opts).Wrap(tt.points, tt.tris, tt.alpha, tt.offset)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if s != nil {
				t.Error("expected no surface on error")
			}
		})
	}
}

func TestClosestOnTriangle(t *testing.T) {
	a := r3.Vec{X: 0, Y: 0, Z: 0}
	b := r3.Vec{X: 1, Y: 0, Z: 0}
	c := r3.Vec{X: 0, Y: 1, Z: 0}

	tests := []struct {
		name string
		p    r3.Vec
		want float64
	}{
		{"above interior", r3.Vec{X: 0.25, Y: 0.25, Z: 2}, 2},
		{"beyond vertex a", r3.Vec{X: -3, Y: -4, Z: 0}, 5},
		{"beyond edge ab", r3.Vec{X: 0.5, Y: -1, Z: 0}, 1},
		{"beyond hypotenuse", r3.Vec{X: 1, Y: 1, Z: 0}, math.Sqrt2 / 2},
		{"on triangle", r3.Vec{X: 0.1, Y: 0.1, Z: 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := distToTriangle(tt.p, a, b, c)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %g, got %g", tt.want, got)
			}
		})
	}
}

func TestClosestOnTriangle_Degenerate(t *testing.T) {
	a := r3.Vec{X: 0}
	b := r3.Vec{X: 1}
	c := r3.Vec{X: 2}
	if got := distToTriangle(r3.Vec{X: 1, Y: 3}, a, b, c); math.Abs(got-3) > 1e-12 {
		t.Errorf("collinear triangle: expected 3, got %g", got)
	}
	if got := distToTriangle(r3.Vec{Z: 2}, a, a, a); math.Abs(got-2) > 1e-12 {
		t.Errorf("point triangle: expected 2, got %g", got)
	}
}
