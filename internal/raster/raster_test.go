package raster

import (
	"image"
	"testing"

	"alphawrap/internal/mathutil"
	"alphawrap/internal/viewmatrix"
)

func cube() ([]float64, []uint32) {
	v := []float64{
		0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0,
		0, 0, 1, 1, 0, 1, 1, 1, 1, 0, 1, 1,
	}
	idx := []uint32{
		0, 2, 1, 0, 3, 2,
		4, 5, 6, 4, 6, 7,
		0, 1, 5, 0, 5, 4,
		2, 3, 7, 2, 7, 6,
		1, 2, 6, 1, 6, 5,
		0, 4, 7, 0, 7, 3,
	}
	return v, idx
}

func opaque(img *image.NRGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			n++
		}
	}
	return n
}

func TestRenderMesh_Cube(t *testing.T) {
	v, idx := cube()
	img := RenderMesh(v, idx, Options{Size: 64, Supersample: 2, Camera: viewmatrix.DefaultCamera()})
	if img.Bounds().Dx() != 128 {
		t.Fatalf("expected supersampled 128px image, got %v", img.Bounds())
	}

	n := opaque(img)
	if n < 128*128/8 {
		t.Errorf("cube should cover a good part of the frame, covered %d px", n)
	}
	if img.NRGBAAt(0, 0).A != 0 {
		t.Error("corner should stay transparent inside the margin")
	}
}

func TestRenderMesh_PerspectiveEnlargesFrontFace(t *testing.T) {
	v, idx := cube()

	// Camera{} looks down -z: orthographically only the z=1 face shows.
	ortho := RenderMesh(v, idx, Options{Size: 64, Camera: viewmatrix.Camera{}})
	persp := RenderMesh(v, idx, Options{Size: 64, Camera: viewmatrix.Camera{Perspective: true}})

	if persp.NRGBAAt(32, 32).A == 0 {
		t.Fatal("center pixel not covered")
	}
	if o, p := opaque(ortho), opaque(persp); p <= o {
		t.Errorf("near face should grow under perspective: ortho %d px, perspective %d px", o, p)
	}
}

func TestRenderMesh_Empty(t *testing.T) {
	img := RenderMesh(nil, nil, Options{Size: 16})
	if img.Bounds().Dx() != 16 || opaque(img) != 0 {
		t.Errorf("expected blank 16px image")
	}
}

func TestRenderMesh_SkipsDanglingTriangles(t *testing.T) {
	v := []float64{0, 0, 0, 1, 0, 0, 0, 1, 0}
	img := RenderMesh(v, []uint32{0, 1, 7}, Options{Size: 16})
	if opaque(img) != 0 {
		t.Error("triangle with a missing vertex should not draw")
	}
}

func TestRasterizeTriangle_DepthTest(t *testing.T) {
	fb := NewFrameBuffer(8, 8)
	lc := DefaultLightConfig()
	px := []float64{0, 8, 0, 0, 8, 0}
	py := []float64{0, 0, 8, 0, 0, 8}
	pz := []float64{1, 1, 1, 0, 0, 0}

	RasterizeTriangle(fb, px, py, pz, [3]int{0, 1, 2}, [3]uint8{255, 0, 0}, 1, &lc)
	before := fb.Coverage()
	if before == 0 {
		t.Fatal("nothing rasterized")
	}

	RasterizeTriangle(fb, px, py, pz, [3]int{3, 4, 5}, [3]uint8{0, 0, 255}, 1, &lc)
	if fb.Color[2] != 0 {
		t.Error("farther triangle overwrote nearer pixels")
	}
	if fb.Coverage() != before {
		t.Errorf("coverage changed from %d to %d", before, fb.Coverage())
	}

	RasterizeTriangle(fb, px, py, pz, [3]int{0, 1, 9}, [3]uint8{0, 0, 255}, 1, &lc)
}

func TestComputeShade_FacingLightIsBrighter(t *testing.T) {
	lc := DefaultLightConfig()
	lit := lc.ComputeShade(lc.LightDir)
	away := lc.ComputeShade(mathutil.Vec3{}.Sub(lc.LightDir))
	if lit <= away {
		t.Errorf("expected lit side brighter: %v <= %v", lit, away)
	}
	if away < lc.Ambient {
		t.Errorf("shade below ambient: %v", away)
	}
}
