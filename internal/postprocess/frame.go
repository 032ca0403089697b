// Package postprocess turns a raw (possibly supersampled) render into the
// final preview canvas.
package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Frame crops a render to its opaque pixels and resamples the crop in a
// single CatmullRom pass so its larger side spans fillRatio of a size×size
// canvas, centered. The render may be any resolution; a supersampled frame
// is reduced by the same pass. A fully transparent render yields a blank
// canvas.
func Frame(img *image.NRGBA, size int, fillRatio float64) *image.NRGBA {
	r, ok := OpaqueBounds(img)
	if !ok || size <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, max(size, 0), max(size, 0)))
	}

	// Filtering happens in premultiplied space: a transparent neighbour
	// must not bleed its (black) color into an edge pixel.
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(canvas, fitRect(r.Size(), size, fillRatio), img, r, draw.Src, nil)
	return unpremultiply(canvas)
}

// OpaqueBounds returns the bounding rectangle of pixels with non-zero alpha.
func OpaqueBounds(img *image.NRGBA) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < minX || maxY < minY {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// fitRect is the centered destination for content of size src on a
// canvas×canvas image, scaled so the larger side is fillRatio of the canvas.
func fitRect(src image.Point, canvas int, fillRatio float64) image.Rectangle {
	scale := float64(canvas) * fillRatio / float64(max(src.X, src.Y))
	w := min(max(int(float64(src.X)*scale+0.5), 1), canvas)
	h := min(max(int(float64(src.Y)*scale+0.5), 1), canvas)
	x0, y0 := (canvas-w)/2, (canvas-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}

func unpremultiply(src *image.RGBA) *image.NRGBA {
	out := image.NewNRGBA(src.Bounds())
	for i := 0; i+3 < len(src.Pix); i += 4 {
		a := src.Pix[i+3]
		out.Pix[i+3] = a
		if a == 0 {
			continue
		}
		for c := 0; c < 3; c++ {
			out.Pix[i+c] = uint8(min(255, (uint32(src.Pix[i+c])*255+uint32(a)/2)/uint32(a)))
		}
	}
	return out
}
