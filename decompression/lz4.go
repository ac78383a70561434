package decompression

import (
	"fmt"

	"github.com/32bitkid/bak/buffer"
	"github.com/pierrec/lz4/v4"
)

// DecompressLZ4 expands a single raw LZ4 block spanning the rest of src.
func DecompressLZ4(src, dst *buffer.Cursor) error {
	block, err := src.Next(src.Remaining())
	if err != nil {
		return err
	}
	out, err := dst.Next(dst.Remaining())
	if err != nil {
		return err
	}

	n, err := lz4.UncompressBlock(block, out)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if n != len(out) {
		return fmt.Errorf("%w: lz4 block decoded %d of %d bytes", ErrCorrupt, n, len(out))
	}
	return nil
}
