// Package image enlarges decoded images for viewing on modern displays.
package image

import (
	"image"
)

// Scale enlarges src by n in both directions, repeating every pixel as an
// n x n block. The palette is shared with src.
func Scale(src *image.Paletted, n int) *image.Paletted {
	if n <= 1 {
		return src
	}

	srcRect := src.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, srcRect.Dx()*n, srcRect.Dy()*n), src.Palette)
	for sy, dy := srcRect.Min.Y, 0; sy < srcRect.Max.Y; sy, dy = sy+1, dy+n {
		row := dst.Pix[dy*dst.Stride : (dy+1)*dst.Stride]
		for sx, dx := srcRect.Min.X, 0; sx < srcRect.Max.X; sx, dx = sx+1, dx+n {
			c := src.ColorIndexAt(sx, sy)
			for i := 0; i < n; i++ {
				row[dx+i] = c
			}
		}
		for i := 1; i < n; i++ {
			copy(dst.Pix[(dy+i)*dst.Stride:], row)
		}
	}

	return dst
}
