package gif

import (
	"image"
	"image/color"
	"image/color/palette"

	"golang.org/x/image/draw"
)

// Quantize converts r of img to a paletted image.
// Regions with at most 256 distinct colours keep them exactly, others are mapped onto the Plan 9 palette.
// Alpha is ignored, frames are opaque.
func Quantize(img *image.RGBA, r image.Rectangle, dither bool) *image.Paletted {
	pm, ok := exactPalette(img, r)
	if ok {
		return pm
	}

	pm = image.NewPaletted(r, palette.Plan9)
	if dither {
		draw.FloydSteinberg.Draw(pm, r, img, r.Min)
	} else {
		draw.Draw(pm, r, img, r.Min, draw.Src)
	}
	return pm
}

func exactPalette(img *image.RGBA, r image.Rectangle) (*image.Paletted, bool) {
	pm := image.NewPaletted(r, nil)
	pal := make(color.Palette, 0, 256)
	index := make(map[uint32]uint8, 256)

	width := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := img.Pix[img.PixOffset(r.Min.X, y):]
		dst := pm.Pix[pm.PixOffset(r.Min.X, y):]
		for x := 0; x < width; x++ {
			p := src[4*x : 4*x+3]
			key := uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
			i, ok := index[key]
			if !ok {
				if len(pal) == 256 {
					return nil, false
				}
				i = uint8(len(pal))
				index[key] = i
				pal = append(pal, color.RGBA{R: p[0], G: p[1], B: p[2], A: 0xFF})
			}
			dst[x] = i
		}
	}

	pm.Palette = pal
	return pm, true
}
