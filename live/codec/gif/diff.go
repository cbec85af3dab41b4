package gif

import (
	"bytes"
	"image"
)

// ChangedBounds returns the smallest rectangle holding every pixel that differs between a and b.
// Both images must have the same bounds. Alpha is not compared.
func ChangedBounds(a, b *image.RGBA) image.Rectangle {
	r := b.Bounds()
	if a.Bounds() != r {
		return r
	}

	changed := image.Rectangle{}
	found := false

	for y := r.Min.Y; y < r.Max.Y; y++ {
		rowA := a.Pix[a.PixOffset(r.Min.X, y) : a.PixOffset(r.Min.X, y)+4*r.Dx()]
		rowB := b.Pix[b.PixOffset(r.Min.X, y) : b.PixOffset(r.Min.X, y)+4*r.Dx()]
		if bytes.Equal(rowA, rowB) {
			continue
		}

		minX, maxX := -1, -1
		for x := 0; x < r.Dx(); x++ {
			i := 4 * x
			if rowA[i] != rowB[i] || rowA[i+1] != rowB[i+1] || rowA[i+2] != rowB[i+2] {
				if minX < 0 {
					minX = x
				}
				maxX = x
			}
		}
		if minX < 0 {
			// only alpha differs
			continue
		}

		row := image.Rect(r.Min.X+minX, y, r.Min.X+maxX+1, y+1)
		if !found {
			changed = row
			found = true
		} else {
			changed = changed.Union(row)
		}
	}

	return changed
}
