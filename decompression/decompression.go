// Package decompression expands the payload of image archives.
//
// Each method is a Decompressor that fills a fixed-size output cursor from
// the unread bytes of an input cursor. Methods are looked up by their
// on-disk code through a LUT.
package decompression

import (
	"fmt"

	"github.com/32bitkid/bak/buffer"
)

type Method uint16

const (
	MethodLZW Method = iota
	MethodLZSS
	MethodRLE
	MethodNone
	MethodLZ4
)

func (m Method) String() string {
	switch m {
	case MethodLZW:
		return "Method(LZW)"
	case MethodLZSS:
		return "Method(LZSS)"
	case MethodRLE:
		return "Method(RLE)"
	case MethodNone:
		return "Method(None)"
	case MethodLZ4:
		return "Method(LZ4)"
	}
	return fmt.Sprintf("Method(%d)", uint16(m))
}

// Decompressor fills every byte of dst from src, or fails.
type Decompressor = func(src, dst *buffer.Cursor) error

type LUT map[Method]Decompressor

var Decompressors = LUT{
	MethodLZW:  DecompressLZW,
	MethodLZSS: DecompressLZSS,
	MethodRLE:  DecompressRLE,
	MethodNone: DecompressNone,
	MethodLZ4:  DecompressLZ4,
}

// Decompress expands src into a new cursor of exactly size bytes using
// the Decompressors table. The returned cursor is rewound to its start.
func Decompress(src *buffer.Cursor, method Method, size int) (*buffer.Cursor, error) {
	return Decompressors.Decompress(src, method, size)
}

func (lut LUT) Decompress(src *buffer.Cursor, method Method, size int) (*buffer.Cursor, error) {
	fn, ok := lut[method]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMethod, uint16(method))
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: negative output size %d", ErrCorrupt, size)
	}

	dst := buffer.New(size)
	if err := fn(src, dst); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if !dst.AtEnd() {
		return nil, fmt.Errorf("%s: %w: expected(%d) != actual(%d)", method, ErrCorrupt, size, dst.Pos())
	}
	dst.Reset()
	return dst, nil
}

func DecompressNone(src, dst *buffer.Cursor) error {
	if src.Remaining() < dst.Remaining() {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrCorrupt, dst.Remaining(), src.Remaining())
	}
	return dst.FillFrom(src, dst.Remaining())
}
