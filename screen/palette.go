package screen

import (
	"errors"
	"fmt"
	"image/color"
)

// ErrInvalidPalette indicates palette data that is short or holds
// components outside the 6-bit VGA range.
var ErrInvalidPalette = errors.New("invalid palette")

// VGAPaletteSize is the byte length of a raw 256 color VGA palette.
const VGAPaletteSize = 256 * 3

// NewVGAPalette decodes 256 RGB triples of 6-bit DAC values.
func NewVGAPalette(b []byte) (color.Palette, error) {
	if len(b) < VGAPaletteSize {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrInvalidPalette, VGAPaletteSize, len(b))
	}

	pal := make(color.Palette, 256)
	for i := range pal {
		rgb := b[i*3 : i*3+3]
		for _, v := range rgb {
			if v > 0x3F {
				return nil, fmt.Errorf("%w: entry %d has component 0x%02x", ErrInvalidPalette, i, v)
			}
		}
		pal[i] = color.RGBA{R: vga8(rgb[0]), G: vga8(rgb[1]), B: vga8(rgb[2]), A: 0xFF}
	}
	return pal, nil
}

// vga8 widens a 6-bit DAC value, so 0x3F maps to 0xFF.
func vga8(v uint8) uint8 { return v<<2 | v>>4 }

var DefaultPalettes = struct {
	Grey color.Palette
	EGA  color.Palette
}{
	Grey: greyRamp(),
	EGA: color.Palette{
		rgb24Color(0x000000),
		rgb24Color(0x0000AA),
		rgb24Color(0x00AA00),
		rgb24Color(0x00AAAA),
		rgb24Color(0xAA0000),
		rgb24Color(0xAA00AA),
		rgb24Color(0xAA5500),
		rgb24Color(0xAAAAAA),

		rgb24Color(0x555555),
		rgb24Color(0x5555FF),
		rgb24Color(0x55FF55),
		rgb24Color(0x55FFFF),
		rgb24Color(0xFF5555),
		rgb24Color(0xFF55FF),
		rgb24Color(0xFFFF55),
		rgb24Color(0xFFFFFF),
	},
}

func greyRamp() color.Palette {
	pal := make(color.Palette, 256)
	for i := range pal {
		pal[i] = color.Gray{Y: uint8(i)}
	}
	return pal
}

// Fade blends every entry of p towards black. t is clamped to [0,1]; 0
// leaves the palette unchanged and 1 is fully black.
func Fade(p color.Palette, t float64) color.Palette {
	t = clamp01(t)
	out := make(color.Palette, len(p))
	for i, c := range p {
		if t == 0 {
			out[i] = c
			continue
		}
		out[i] = Blend(c, color.Black, t)
	}
	return out
}

func clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}
