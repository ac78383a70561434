package decompression

import (
	"fmt"

	"github.com/32bitkid/bak/buffer"
	"github.com/32bitkid/bitreader"
)

type lzwToken struct {
	data uint8
	next uint16
}

const (
	lzwResetToken   uint16 = 0x100
	lzwEndToken     uint16 = 0x101
	lzwCurrentToken uint16 = 0x102
	lzwEndOfWidth   uint16 = 0x1ff

	lzwMinBits   = 9
	lzwMaxBits   = 12
	lzwTableSize = 1 << lzwMaxBits
)

// DecompressLZW expands variable width codes read most significant bit
// first. Codes start at 9 bits and widen up to 12 as the table fills.
func DecompressLZW(src, dst *buffer.Cursor) error {
	br := bitreader.NewReader(src)

	tokens := make([]lzwToken, lzwTableSize)
	stack := make([]uint8, 0, lzwTableSize)

	var (
		numBits      uint
		currentToken uint16
		endToken     uint16

		started  bool
		lastByte uint8
		lastBits uint16
	)

	reset := func() {
		numBits = lzwMinBits
		currentToken = lzwCurrentToken
		endToken = lzwEndOfWidth
		started = false
	}
	reset()

	for !dst.AtEnd() {
		bits, err := br.Read16(numBits)
		if err != nil {
			return truncated(dst, err)
		}

		switch {
		case bits == lzwEndToken:
			return fmt.Errorf("%w: end of data after %d of %d bytes", ErrCorrupt, dst.Pos(), dst.Len())
		case bits == lzwResetToken:
			reset()
			continue
		case !started:
			if bits > 0xff {
				return fmt.Errorf("%w: first token 0x%x is not a literal", ErrCorrupt, bits)
			}
			lastByte = uint8(bits)
			lastBits = bits
			started = true
			if err := dst.WriteU8(lastByte); err != nil {
				return err
			}
			continue
		case bits > currentToken:
			return fmt.Errorf("%w: unknown token 0x%x (next 0x%x)", ErrCorrupt, bits, currentToken)
		}

		stack = stack[:0]
		token := bits
		if token == currentToken {
			token = lastBits
			stack = append(stack, lastByte)
		}
		for token > 0xff {
			stack = append(stack, tokens[token].data)
			token = tokens[token].next
		}
		lastByte = uint8(token)
		stack = append(stack, lastByte)

		if len(stack) > dst.Remaining() {
			return fmt.Errorf("%w: token expands to %d bytes, %d left", ErrCorrupt, len(stack), dst.Remaining())
		}
		for i := len(stack) - 1; i >= 0; i-- {
			if err := dst.WriteU8(stack[i]); err != nil {
				return err
			}
		}

		if int(currentToken) < lzwTableSize {
			tokens[currentToken] = lzwToken{data: lastByte, next: lastBits}
			currentToken++
			if currentToken == endToken && numBits < lzwMaxBits {
				numBits++
				endToken = endToken<<1 + 1
			}
		}
		lastBits = bits
	}
	return nil
}
