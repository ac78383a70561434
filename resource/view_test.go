package resource

import (
	"bytes"
	"image/color"
	"image/gif"
	"testing"

	"github.com/stretchr/testify/require"
)

func greys(n int) color.Palette {
	p := make(color.Palette, n)
	for i := range p {
		v := uint8(i * 255 / (n - 1))
		p[i] = color.RGBA{R: v, G: v, B: v, A: 0xff}
	}
	return p
}

func TestPaletted(t *testing.T) {
	p := greys(4)
	img := &Image{Width: 2, Height: 1, Transparent: true, Pixels: []uint8{0, 3}}

	out := img.Paletted(p)
	require.Equal(t, 2, out.Bounds().Dx())
	require.Equal(t, uint8(3), out.ColorIndexAt(1, 0))
	require.Equal(t, color.Transparent, out.Palette[0])
	require.Equal(t, color.RGBA{A: 0xff}, p[0])

	out.Pix[1] = 1
	require.Equal(t, uint8(3), img.Pixels[1])

	opaque := &Image{Width: 1, Height: 1, Pixels: []uint8{0}}
	require.Equal(t, p[0], opaque.Paletted(p).Palette[0])
}

func TestAnimation(t *testing.T) {
	p := greys(16)
	images := []*Image{
		{Width: 2, Height: 2, Pixels: []uint8{1, 2, 3, 4}},
		{Width: 3, Height: 1, Transparent: true, Pixels: []uint8{0, 5, 6}},
	}

	anim := Animation(images, p, 10)
	require.Len(t, anim.Image, 2)
	require.Equal(t, []int{10, 10}, anim.Delay)
	require.Equal(t, []byte{gif.DisposalPrevious, gif.DisposalPrevious}, anim.Disposal)

	for _, frame := range anim.Image {
		require.Equal(t, 3, frame.Bounds().Dx())
		require.Equal(t, 2, frame.Bounds().Dy())
	}
	require.Equal(t, uint8(4), anim.Image[0].ColorIndexAt(1, 1))
	require.Equal(t, uint8(6), anim.Image[1].ColorIndexAt(2, 0))

	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, anim))
}
