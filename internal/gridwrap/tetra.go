package gridwrap

import (
	"gonum.org/v1/gonum/spatial/r3"

	"alphawrap/surface"
)

// kuhnTets splits a grid cube into six tetrahedra sharing the 0–7 diagonal.
// Corner m sits at (m&1, m>>1&1, m>>2&1). The split is the same for every
// cube, so neighbouring cubes agree on their shared face diagonals.
var kuhnTets = [6][4]int{
	{0, 1, 3, 7},
	{0, 1, 5, 7},
	{0, 2, 3, 7},
	{0, 2, 6, 7},
	{0, 4, 5, 7},
	{0, 4, 6, 7},
}

// polygonizer runs marching tetrahedra over the coarse lattice made of every
// step-th sample of g, reading signs from field. Coarse corners are sample
// indices, so edge keys and positions come straight from the sample grid.
type polygonizer struct {
	g     *grid
	field []float64
	step  int
	mesh  *surface.Mesh
	edges map[uint64]surface.VertexID
}

func newPolygonizer(g *grid, field []float64, step, hint int) *polygonizer {
	return &polygonizer{
		g:     g,
		field: field,
		step:  step,
		mesh:  surface.NewMesh(hint, hint*2),
		edges: make(map[uint64]surface.VertexID, hint),
	}
}

// edgeVertex returns the surface vertex on the coarse edge a–b, creating it
// on first use. The endpoints must have opposite signs. The edge is walked
// sample by sample from its outer end, and the vertex is placed at the first
// crossing.
func (p *polygonizer) edgeVertex(a, b int) surface.VertexID {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	key := uint64(lo)<<32 | uint64(hi)
	if v, ok := p.edges[key]; ok {
		return v
	}

	f := p.field
	in, out := a, b
	if f[in] >= 0 {
		in, out = out, in
	}
	// Kuhn edges join corners whose offsets differ by 0 or 1 per axis, so
	// the edge passes through exactly step-1 samples.
	d := (in - out) / p.step
	q, q2 := out, out+d
	for q2 != in && f[q2] >= 0 {
		q, q2 = q2, q2+d
	}

	fa, fb := f[q], f[q2]
	t := fa / (fa - fb)
	pa, pb := p.g.point(q), p.g.point(q2)
	v := p.mesh.AddVertex(r3.Add(pa, r3.Scale(t, r3.Sub(pb, pa))))
	p.edges[key] = v
	return v
}

// emit adds triangle v0 v1 v2, flipped if needed so its normal points along out.
func (p *polygonizer) emit(v0, v1, v2 surface.VertexID, out r3.Vec) {
	p0 := p.mesh.Position(v0)
	n := r3.Cross(r3.Sub(p.mesh.Position(v1), p0), r3.Sub(p.mesh.Position(v2), p0))
	if r3.Dot(n, out) < 0 {
		v1, v2 = v2, v1
	}
	p.mesh.AddFace(v0, v1, v2)
}

func (p *polygonizer) run() *surface.Mesh {
	g, s := p.g, p.step
	var corner [8]int
	for k := 0; k+s < g.nz; k += s {
		for j := 0; j+s < g.ny; j += s {
			for i := 0; i+s < g.nx; i += s {
				neg := 0
				for m := 0; m < 8; m++ {
					corner[m] = g.index(i+s*(m&1), j+s*(m>>1&1), k+s*(m>>2&1))
					if p.field[corner[m]] < 0 {
						neg++
					}
				}
				if neg == 0 || neg == 8 {
					continue
				}
				for _, tet := range kuhnTets {
					p.tetra([4]int{corner[tet[0]], corner[tet[1]], corner[tet[2]], corner[tet[3]]})
				}
			}
		}
	}
	return p.mesh
}

func (p *polygonizer) tetra(c [4]int) {
	var in, out []int
	var inBuf, outBuf [4]int
	in, out = inBuf[:0], outBuf[:0]
	for _, idx := range c {
		if p.field[idx] < 0 {
			in = append(in, idx)
		} else {
			out = append(out, idx)
		}
	}
	if len(in) == 0 || len(out) == 0 {
		return
	}

	dir := r3.Sub(centroid(p.g, out), centroid(p.g, in))

	switch len(in) {
	case 1:
		l := in[0]
		p.emit(p.edgeVertex(l, out[0]), p.edgeVertex(l, out[1]), p.edgeVertex(l, out[2]), dir)
	case 3:
		l := out[0]
		p.emit(p.edgeVertex(l, in[0]), p.edgeVertex(l, in[1]), p.edgeVertex(l, in[2]), dir)
	case 2:
		a, b := in[0], in[1]
		c, d := out[0], out[1]
		ac := p.edgeVertex(a, c)
		ad := p.edgeVertex(a, d)
		bd := p.edgeVertex(b, d)
		bc := p.edgeVertex(b, c)
		p.emit(ac, ad, bd, dir)
		p.emit(ac, bd, bc, dir)
	}
}

func centroid(g *grid, idx []int) r3.Vec {
	var s r3.Vec
	for _, i := range idx {
		s = r3.Add(s, g.point(i))
	}
	return r3.Scale(1/float64(len(idx)), s)
}
