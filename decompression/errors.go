package decompression

import "errors"

var (
	// ErrUnsupportedMethod indicates an unknown compression method code.
	ErrUnsupportedMethod = errors.New("unsupported compression method")
	// ErrCorrupt indicates a compressed stream that cannot be expanded
	// into the declared output size.
	ErrCorrupt = errors.New("corrupt compressed data")
)
