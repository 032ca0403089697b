package gridwrap

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// grid holds samples on a regular lattice, x fastest.
type grid struct {
	origin     r3.Vec
	cell       float64
	nx, ny, nz int
	val        []float64
}

func newGrid(origin r3.Vec, cell float64, nx, ny, nz int, fill float64) *grid {
	val := make([]float64, nx*ny*nz)
	for i := range val {
		val[i] = fill
	}
	return &grid{origin: origin, cell: cell, nx: nx, ny: ny, nz: nz, val: val}
}

func (g *grid) index(i, j, k int) int {
	return (k*g.ny+j)*g.nx + i
}

func (g *grid) coords(idx int) (i, j, k int) {
	i = idx % g.nx
	idx /= g.nx
	j = idx % g.ny
	k = idx / g.ny
	return i, j, k
}

func (g *grid) point(idx int) r3.Vec {
	i, j, k := g.coords(idx)
	return r3.Vec{
		X: g.origin.X + float64(i)*g.cell,
		Y: g.origin.Y + float64(j)*g.cell,
		Z: g.origin.Z + float64(k)*g.cell,
	}
}

// span converts a coordinate interval on one axis into a clamped index range.
func span(lo, hi, origin, cell float64, n int) (int, int) {
	a := int(math.Ceil((lo - origin) / cell))
	b := int(math.Floor((hi - origin) / cell))
	if a < 0 {
		a = 0
	}
	if b > n-1 {
		b = n - 1
	}
	return a, b
}

// sampleDistance lowers every sample within band of a triangle to its exact
// distance to the soup. Samples farther than band keep the fill value.
func (g *grid) sampleDistance(points []r3.Vec, tris [][3]uint32, band float64) {
	for _, t := range tris {
		a, b, c := points[t[0]], points[t[1]], points[t[2]]

		lo := r3.Vec{
			X: math.Min(a.X, math.Min(b.X, c.X)) - band,
			Y: math.Min(a.Y, math.Min(b.Y, c.Y)) - band,
			Z: math.Min(a.Z, math.Min(b.Z, c.Z)) - band,
		}
		hi := r3.Vec{
			X: math.Max(a.X, math.Max(b.X, c.X)) + band,
			Y: math.Max(a.Y, math.Max(b.Y, c.Y)) + band,
			Z: math.Max(a.Z, math.Max(b.Z, c.Z)) + band,
		}

		i0, i1 := span(lo.X, hi.X, g.origin.X, g.cell, g.nx)
		j0, j1 := span(lo.Y, hi.Y, g.origin.Y, g.cell, g.ny)
		k0, k1 := span(lo.Z, hi.Z, g.origin.Z, g.cell, g.nz)

		for k := k0; k <= k1; k++ {
			for j := j0; j <= j1; j++ {
				for i := i0; i <= i1; i++ {
					idx := g.index(i, j, k)
					p := r3.Vec{
						X: g.origin.X + float64(i)*g.cell,
						Y: g.origin.Y + float64(j)*g.cell,
						Z: g.origin.Z + float64(k)*g.cell,
					}
					if d := distToTriangle(p, a, b, c); d < g.val[idx] {
						g.val[idx] = d
					}
				}
			}
		}
	}
}

// carve turns the distance samples into a signed field around the offset
// level: positive for samples reachable from the grid border without
// entering the offset shell, negative everywhere else. It returns the number
// of exterior samples.
func (g *grid) carve(offset float64) int {
	n := len(g.val)
	outside := make([]bool, n)
	queue := make([]int32, 0, 2*(g.nx*g.ny+g.ny*g.nz+g.nx*g.nz))

	visit := func(idx int) {
		if !outside[idx] && g.val[idx] > offset {
			outside[idx] = true
			queue = append(queue, int32(idx))
		}
	}

	for idx := 0; idx < n; idx++ {
		i, j, k := g.coords(idx)
		if i == 0 || j == 0 || k == 0 || i == g.nx-1 || j == g.ny-1 || k == g.nz-1 {
			visit(idx)
		}
	}

	for head := 0; head < len(queue); head++ {
		idx := int(queue[head])
		i, j, k := g.coords(idx)
		if i > 0 {
			visit(idx - 1)
		}
		if i < g.nx-1 {
			visit(idx + 1)
		}
		if j > 0 {
			visit(idx - g.nx)
		}
		if j < g.ny-1 {
			visit(idx + g.nx)
		}
		if k > 0 {
			visit(idx - g.nx*g.ny)
		}
		if k < g.nz-1 {
			visit(idx + g.nx*g.ny)
		}
	}

	// Zero is reserved so every crossing lies strictly inside a grid edge.
	nudge := g.cell * 1e-6
	for idx, d := range g.val {
		f := d - offset
		switch {
		case outside[idx]:
			g.val[idx] = f
		case f > 0:
			// enclosed cavity, filled
			g.val[idx] = -f
		case f == 0:
			g.val[idx] = -nudge
		default:
			g.val[idx] = f
		}
	}
	return len(queue)
}

// dilate returns the field with every sample replaced by the minimum over
// the axis-aligned box of radius r around it, clipped to the lattice. The
// interior grows by r cells; zero crossings stay strictly between samples.
// With r == 0 it returns g.val itself.
func (g *grid) dilate(r int) []float64 {
	if r <= 0 {
		return g.val
	}
	a := make([]float64, len(g.val))
	b := make([]float64, len(g.val))
	dq := make([]int, 0, max(g.nx, g.ny, g.nz))

	for k := 0; k < g.nz; k++ {
		for j := 0; j < g.ny; j++ {
			dq = windowMin(a, g.val, g.index(0, j, k), 1, g.nx, r, dq)
		}
	}
	for k := 0; k < g.nz; k++ {
		for i := 0; i < g.nx; i++ {
			dq = windowMin(b, a, g.index(i, 0, k), g.nx, g.ny, r, dq)
		}
	}
	for j := 0; j < g.ny; j++ {
		for i := 0; i < g.nx; i++ {
			dq = windowMin(a, b, g.index(i, j, 0), g.nx*g.ny, g.nz, r, dq)
		}
	}
	return a
}

// windowMin writes the sliding minimum of radius r along one lattice line
// of n samples starting at base. dq is scratch space for the monotone queue
// of line positions and is returned for reuse.
func windowMin(dst, src []float64, base, stride, n, r int, dq []int) []int {
	dq = dq[:0]
	head, next := 0, 0
	for t := 0; t < n; t++ {
		for ; next < n && next <= t+r; next++ {
			v := src[base+next*stride]
			for len(dq) > head && src[base+dq[len(dq)-1]*stride] >= v {
				dq = dq[:len(dq)-1]
			}
			dq = append(dq, next)
		}
		for dq[head] < t-r {
			head++
		}
		dst[base+t*stride] = src[base+dq[head]*stride]
	}
	return dq
}
