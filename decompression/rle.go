package decompression

import (
	"fmt"

	"github.com/32bitkid/bak/buffer"
)

// DecompressRLE expands runs: a control byte with the high bit set repeats
// the next byte (control & 0x7F) times, otherwise control literal bytes
// follow.
func DecompressRLE(src, dst *buffer.Cursor) error {
	for !dst.AtEnd() {
		control, err := src.ReadU8()
		if err != nil {
			return truncated(dst, err)
		}

		count := int(control & 0x7F)
		if count > dst.Remaining() {
			return fmt.Errorf("%w: run of %d overruns output at %d of %d", ErrCorrupt, count, dst.Pos(), dst.Len())
		}

		if control&0x80 != 0 {
			v, err := src.ReadU8()
			if err != nil {
				return truncated(dst, err)
			}
			if err := dst.Fill(v, count); err != nil {
				return err
			}
			continue
		}

		if src.Remaining() < count {
			return truncated(dst, buffer.ErrOutOfBounds)
		}
		if err := dst.FillFrom(src, count); err != nil {
			return err
		}
	}
	return nil
}
