package mathutil

import "math"

// Rotation is a 3×3 rotation matrix stored row-major.
type Rotation [9]float64

// Identity leaves every vector unchanged.
var Identity = Rotation{1, 0, 0, 0, 1, 0, 0, 0, 1}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Orbit returns the view rotation of a camera turned yaw degrees around Y
// and then pitch degrees around X.
func Orbit(yaw, pitch float64) Rotation {
	sy, cy := math.Sincos(Radians(yaw))
	sp, cp := math.Sincos(Radians(pitch))
	return Rotation{
		cy, 0, sy,
		sp * sy, cp, -sp * cy,
		-cp * sy, sp, cp * cy,
	}
}

// Apply rotates v.
func (r Rotation) Apply(v Vec3) Vec3 {
	return Vec3{
		r[0]*v[0] + r[1]*v[1] + r[2]*v[2],
		r[3]*v[0] + r[4]*v[1] + r[5]*v[2],
		r[6]*v[0] + r[7]*v[1] + r[8]*v[2],
	}
}

// Then returns the rotation that applies r first and next second.
func (r Rotation) Then(next Rotation) Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i*3+j] = next[i*3]*r[j] + next[i*3+1]*r[3+j] + next[i*3+2]*r[6+j]
		}
	}
	return out
}

// Inverse is the transpose.
func (r Rotation) Inverse() Rotation {
	return Rotation{r[0], r[3], r[6], r[1], r[4], r[7], r[2], r[5], r[8]}
}
