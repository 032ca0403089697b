// Package mathutil holds the small fixed-size vector and rotation types used
// to shade and project previews.
package mathutil

import "math"

// Vec3 is an x, y, z triple.
type Vec3 [3]float64

// At reads vertex i from a flat x,y,z buffer.
func At(flat []float64, i int) Vec3 {
	return Vec3(flat[i*3 : i*3+3])
}

func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func (a Vec3) Dot(b Vec3) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Normalize returns v scaled to unit length, or the zero vector if v is
// (nearly) zero.
func (v Vec3) Normalize() Vec3 {
	l := math.Sqrt(v.Dot(v))
	if l < 1e-12 {
		return Vec3{}
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}
