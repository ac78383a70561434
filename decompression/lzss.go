package decompression

import (
	"fmt"

	"github.com/32bitkid/bak/buffer"
)

// DecompressLZSS expands a stream of control bytes, each governing up to
// eight slots read least significant bit first. A set bit is one literal
// byte; a clear bit is a copy-back of a little-endian uint16 distance
// followed by a uint8 length.
func DecompressLZSS(src, dst *buffer.Cursor) error {
	for !dst.AtEnd() {
		control, err := src.ReadU8()
		if err != nil {
			return truncated(dst, err)
		}

		for bit := 0; bit < 8 && !dst.AtEnd(); bit++ {
			if control&1 == 1 {
				b, err := src.ReadU8()
				if err != nil {
					return truncated(dst, err)
				}
				if err := dst.WriteU8(b); err != nil {
					return err
				}
			} else {
				if err := lzssCopy(src, dst); err != nil {
					return err
				}
			}
			control >>= 1
		}
	}
	return nil
}

func lzssCopy(src, dst *buffer.Cursor) error {
	dist, err := src.ReadU16LE()
	if err != nil {
		return truncated(dst, err)
	}
	length, err := src.ReadU8()
	if err != nil {
		return truncated(dst, err)
	}

	switch {
	case dist == 0 || int(dist) > dst.Pos():
		return fmt.Errorf("%w: back-reference %d with %d bytes written", ErrCorrupt, dist, dst.Pos())
	case length == 0:
		return fmt.Errorf("%w: zero-length copy at %d", ErrCorrupt, dst.Pos())
	case int(length) > dst.Remaining():
		return fmt.Errorf("%w: copy of %d overruns output at %d of %d", ErrCorrupt, length, dst.Pos(), dst.Len())
	}
	return dst.Repeat(int(dist), int(length))
}

func truncated(dst *buffer.Cursor, err error) error {
	return fmt.Errorf("%w: input ends after %d of %d bytes: %v", ErrCorrupt, dst.Pos(), dst.Len(), err)
}
