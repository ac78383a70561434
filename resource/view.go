package resource

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
)

// Paletted copies img into an image.Paletted. When the image is
// transparent, entry 0 of the copied palette becomes color.Transparent.
func (img *Image) Paletted(p color.Palette) *image.Paletted {
	palette := make(color.Palette, len(p))
	copy(palette, p)
	if img.Transparent && len(palette) > 0 {
		palette[0] = color.Transparent
	}

	pix := make([]uint8, len(img.Pixels))
	copy(pix, img.Pixels)

	return &image.Paletted{
		Pix:     pix,
		Stride:  img.Width,
		Rect:    image.Rect(0, 0, img.Width, img.Height),
		Palette: palette,
	}
}

// Animation draws each image onto a shared canvas sized to fit all of
// them, one frame per image.
func Animation(images []*Image, p color.Palette, delay int) *gif.GIF {
	var frames []*image.Paletted
	var delays []int
	var dispose []byte

	rect := image.Rectangle{}
	for _, img := range images {
		if rect.Max.X < img.Width {
			rect.Max.X = img.Width
		}
		if rect.Max.Y < img.Height {
			rect.Max.Y = img.Height
		}
	}

	for _, img := range images {
		source := img.Paletted(p)

		mask := image.NewAlpha(source.Rect)
		for i := range mask.Pix {
			if !img.Transparent || img.Pixels[i] != 0 {
				mask.Pix[i] = 0xff
			}
		}

		frame := image.NewPaletted(rect, source.Palette)
		draw.DrawMask(frame, source.Rect, source, image.Point{}, mask, image.Point{}, draw.Src)

		frames = append(frames, frame)
		delays = append(delays, delay)
		dispose = append(dispose, gif.DisposalPrevious)
	}

	return &gif.GIF{
		Image:    frames,
		Delay:    delays,
		Disposal: dispose,
	}
}
