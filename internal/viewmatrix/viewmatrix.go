package viewmatrix

import (
	"math"

	"alphawrap/internal/mathutil"
)

// DefaultFOV is the vertical field of view, in degrees, for perspective previews.
const DefaultFOV = 30.0

// Camera describes how a mesh is looked at.
type Camera struct {
	Yaw         float64 // degrees around Y
	Pitch       float64 // degrees around X
	Perspective bool
	FOV         float64 // degrees; 0 means DefaultFOV
}

// DefaultCamera is the three-quarter orthographic preview view: from above,
// three faces of an axis-aligned box are visible.
func DefaultCamera() Camera {
	return Camera{Yaw: 35, Pitch: 25}
}

// Matrix returns the camera's view rotation.
func (c Camera) Matrix() mathutil.Rotation {
	return mathutil.Orbit(c.Yaw, c.Pitch)
}

// Fit returns the view-space center of the rotated vertices and the scale
// that makes their larger screen extent span renderSize minus two margins.
func Fit(vertices []float64, R mathutil.Rotation, renderSize, margin int) ([3]float64, float64) {
	allMin := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	allMax := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	n := len(vertices) / 3
	if n == 0 {
		return [3]float64{}, 1
	}
	for i := 0; i < n; i++ {
		tv := R.Apply(mathutil.At(vertices, i))
		for k := 0; k < 3; k++ {
			if tv[k] < allMin[k] {
				allMin[k] = tv[k]
			}
			if tv[k] > allMax[k] {
				allMax[k] = tv[k]
			}
		}
	}

	center := [3]float64{
		(allMin[0] + allMax[0]) / 2,
		(allMin[1] + allMax[1]) / 2,
		(allMin[2] + allMax[2]) / 2,
	}
	span := math.Max(allMax[0]-allMin[0], allMax[1]-allMin[1])
	if span < 0.001 {
		span = 0.001
	}
	return center, float64(renderSize-2*margin) / span
}

// ProjectVertices transforms flat 3D vertices to 2D screen coordinates.
// Returns px, py, pz slices (screen X, screen Y, depth); larger pz is nearer.
func ProjectVertices(vertices []float64, R mathutil.Rotation, center [3]float64, scale float64, renderSize int, cam Camera) ([]float64, []float64, []float64) {
	n := len(vertices) / 3
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)

	half := float64(renderSize) / 2

	// Perspective setup
	var perspCamDist, perspZCenter float64
	if cam.Perspective {
		fov := cam.FOV
		if fov == 0 {
			fov = DefaultFOV
		}
		halfFOV := mathutil.Radians(fov / 2)

		// Compute z range and xy half-extent from ALL transformed verts
		zMin, zMax, xyMax := math.Inf(1), math.Inf(-1), 0.0
		for i := 0; i < n; i++ {
			t := R.Apply(mathutil.At(vertices, i))
			zMin = math.Min(zMin, t[2])
			zMax = math.Max(zMax, t[2])
			for k := 0; k < 2; k++ {
				xyMax = math.Max(xyMax, math.Abs(t[k]-center[k]))
			}
		}
		perspZCenter = (zMin + zMax) / 2
		if xyMax < 0.001 {
			xyMax = 0.001
		}
		perspCamDist = xyMax / math.Tan(halfFOV)
	}

	for i := 0; i < n; i++ {
		t := R.Apply(mathutil.At(vertices, i))

		if cam.Perspective {
			zOff := t[2] - perspZCenter
			depth := math.Max(perspCamDist-zOff, 0.1)
			factor := perspCamDist / depth
			t[0] = (t[0]-center[0])*factor + center[0]
			t[1] = (t[1]-center[1])*factor + center[1]
		}

		px[i] = (t[0]-center[0])*scale + half
		py[i] = -(t[1]-center[1])*scale + half
		pz[i] = t[2]
	}

	return px, py, pz
}
