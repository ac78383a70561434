package resource

import (
	"fmt"

	"github.com/32bitkid/bak/buffer"
	"github.com/32bitkid/bak/decompression"
)

// Image is a palette-indexed pixel grid, stored row by row.
type Image struct {
	Width       int
	Height      int
	Flags       Flags
	Transparent bool
	Pixels      []uint8
}

func (img *Image) At(x, y int) uint8 { return img.Pixels[y*img.Width+x] }

func validateFlags(flags Flags) error {
	switch {
	case flags&^knownFlags != 0:
		return fmt.Errorf("%w: unknown bits 0x%04x", ErrUnsupportedFlags, uint16(flags&^knownFlags))
	case flags.has(FlagSkipFill) && !flags.has(FlagTransparent):
		return fmt.Errorf("%w: skip-fill without transparency", ErrUnsupportedFlags)
	case flags.has(FlagSkipFill) && flags.has(FlagNibble):
		return fmt.Errorf("%w: skip-fill with nibble packing", ErrUnsupportedFlags)
	case flags.has(FlagSkipFill) && flags.has(FlagCompressed):
		return fmt.Errorf("%w: skip-fill with compression", ErrUnsupportedFlags)
	}
	return nil
}

// DecodeImage reads one width x height image from c in the layout given
// by flags. Bytes past the last pixel are left unread.
func DecodeImage(c *buffer.Cursor, width, height int, flags Flags) (*Image, error) {
	if err := validateFlags(flags); err != nil {
		return nil, err
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrDecode, width, height)
	}

	img := &Image{
		Width:       width,
		Height:      height,
		Flags:       flags,
		Transparent: flags.has(FlagTransparent),
	}
	if width == 0 || height == 0 {
		img.Pixels = []uint8{}
		return img, nil
	}

	// lines are rows, or columns when swapped
	lines, lineLen := height, width
	if flags.has(FlagXYSwapped) {
		lines, lineLen = width, height
	}

	stride := lineLen
	if flags.has(FlagNibble) {
		stride = (lineLen + 1) / 2
	}

	// nothing is allocated until the record is known to be large enough
	if limit := maxExpansion(c.Remaining(), flags); lines*stride > limit {
		return nil, fmt.Errorf("%w: %dx%d %s needs %d bytes, record can hold at most %d",
			ErrDecode, width, height, flags, lines*stride, limit)
	}
	img.Pixels = make([]uint8, width*height)

	src := c
	if flags.has(FlagCompressed) {
		expanded := buffer.New(lines * stride)
		if err := decompression.DecompressRLE(c, expanded); err != nil {
			return nil, fmt.Errorf("compressed record: %w", err)
		}
		expanded.Reset()
		src = expanded
	}

	pixels := img.Pixels
	if flags.has(FlagXYSwapped) {
		pixels = make([]uint8, len(img.Pixels))
	}

	var err error
	switch {
	case flags.has(FlagNibble):
		err = decodeNibbles(src, pixels, lines, lineLen, stride)
	case flags.has(FlagSkipFill):
		err = decodeSkipFill(src, pixels)
	default:
		err = decodeLinear(src, pixels)
	}
	if err != nil {
		return nil, err
	}

	if flags.has(FlagXYSwapped) {
		for x := 0; x < width; x++ {
			col := pixels[x*height : (x+1)*height]
			for y, p := range col {
				img.Pixels[y*width+x] = p
			}
		}
	}

	return img, nil
}

// maxExpansion is the most stored bytes (or skip-fill pixels) that n
// record bytes can produce. An RLE run turns 2 bytes into 127, a skip
// turns 2 bytes into 255 pixels.
func maxExpansion(n int, flags Flags) int {
	switch {
	case flags.has(FlagCompressed):
		return n / 2 * 0x7F
	case flags.has(FlagSkipFill):
		return n/2*0xFF + n%2
	}
	return n
}

func decodeLinear(src *buffer.Cursor, pixels []uint8) error {
	b, err := src.Next(len(pixels))
	if err != nil {
		return fmt.Errorf("%w: %d pixels: %v", ErrDecode, len(pixels), err)
	}
	copy(pixels, b)
	return nil
}

func decodeNibbles(src *buffer.Cursor, pixels []uint8, lines, lineLen, stride int) error {
	for l := 0; l < lines; l++ {
		line, err := src.Next(stride)
		if err != nil {
			return fmt.Errorf("%w: nibble line %d: %v", ErrDecode, l, err)
		}
		out := pixels[l*lineLen : (l+1)*lineLen]
		for i := range out {
			b := line[i>>1]
			if i&1 == 0 {
				out[i] = b >> 4
			} else {
				out[i] = b & 0xF
			}
		}
	}
	return nil
}

func decodeSkipFill(src *buffer.Cursor, pixels []uint8) error {
	for i := 0; i < len(pixels); {
		b, err := src.ReadU8()
		if err != nil {
			return fmt.Errorf("%w: pixel %d of %d: %v", ErrDecode, i, len(pixels), err)
		}
		if b != 0 {
			pixels[i] = b
			i++
			continue
		}

		n, err := src.ReadU8()
		if err != nil {
			return fmt.Errorf("%w: skip count at pixel %d: %v", ErrDecode, i, err)
		}
		switch {
		case n == 0:
			return fmt.Errorf("%w: empty skip at pixel %d", ErrDecode, i)
		case i+int(n) > len(pixels):
			return fmt.Errorf("%w: skip of %d at pixel %d overruns %d", ErrDecode, n, i, len(pixels))
		}
		// pixels are already transparent
		i += int(n)
	}
	return nil
}
