package raster

import (
	"image"

	"alphawrap/internal/mathutil"
	"alphawrap/internal/viewmatrix"
)

// BaseColor is the neutral grey of wrapped geometry.
var BaseColor = [3]uint8{170, 172, 180}

// Options controls a preview render.
type Options struct {
	Size        int // output edge length in pixels, before supersampling
	Supersample int
	Camera      viewmatrix.Camera
}

// RenderMesh renders flat vertex/index buffers to an NRGBA image of
// Size*Supersample pixels square. Triangles referencing missing vertices
// are skipped.
func RenderMesh(vertices []float64, indices []uint32, opts Options) *image.NRGBA {
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	renderSize := opts.Size * ss
	if len(vertices) < 3 || len(indices) < 3 {
		return image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	}

	R := opts.Camera.Matrix()
	margin := 16 * ss
	center, scale := viewmatrix.Fit(vertices, R, renderSize, margin)
	px, py, pz := viewmatrix.ProjectVertices(vertices, R, center, scale, renderSize, opts.Camera)

	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()
	nv := len(vertices) / 3

	for t := 0; t+2 < len(indices); t += 3 {
		vi := [3]int{int(indices[t]), int(indices[t+1]), int(indices[t+2])}
		if vi[0] >= nv || vi[1] >= nv || vi[2] >= nv {
			continue
		}

		// Face normal for flat shading, in view space
		a := mathutil.At(vertices, vi[0])
		b := mathutil.At(vertices, vi[1])
		c := mathutil.At(vertices, vi[2])
		normal := R.Apply(b.Sub(a).Cross(c.Sub(a))).Normalize()
		if normal == (mathutil.Vec3{}) {
			continue
		}

		RasterizeTriangle(fb, px, py, pz, vi, BaseColor, lc.ComputeShade(normal), &lc)
	}

	return fb.Image()
}
