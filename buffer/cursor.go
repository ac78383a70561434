// Package buffer implements a fixed-size, bounds-checked cursor over a
// byte slice. Every read, write and skip is validated against the
// remaining length; nothing ever grows the underlying buffer.
package buffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrOutOfBounds indicates an access past the end of a cursor.
var ErrOutOfBounds = errors.New("out of bounds")

// Cursor is a read/write position over a fixed-length buffer.
type Cursor struct {
	buf []byte
	pos int
}

// New returns a zero-filled cursor of exactly size bytes.
func New(size int) *Cursor {
	if size < 0 {
		size = 0
	}
	return &Cursor{buf: make([]byte, size)}
}

// Wrap returns a cursor over b. The cursor takes ownership of b.
func Wrap(b []byte) *Cursor {
	return &Cursor{buf: b}
}

func (c *Cursor) Len() int       { return len(c.buf) }
func (c *Cursor) Pos() int       { return c.pos }
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }
func (c *Cursor) AtEnd() bool    { return c.pos >= len(c.buf) }

// Bytes returns the whole underlying buffer regardless of position.
func (c *Cursor) Bytes() []byte { return c.buf }

// Reset rewinds the cursor to the start of the buffer.
func (c *Cursor) Reset() { c.pos = 0 }

func (c *Cursor) check(op string, n int) error {
	if n < 0 || n > c.Remaining() {
		return fmt.Errorf("%w: %s %d bytes at %d of %d", ErrOutOfBounds, op, n, c.pos, len(c.buf))
	}
	return nil
}

func (c *Cursor) ReadU8() (uint8, error) {
	if err := c.check("read", 1); err != nil {
		return 0, err
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

func (c *Cursor) ReadU16LE() (uint16, error) {
	if err := c.check("read", 2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *Cursor) ReadU32LE() (uint32, error) {
	if err := c.check("read", 4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

// Next returns the next n bytes and advances past them. The returned
// slice aliases the cursor's buffer.
func (c *Cursor) Next(n int) ([]byte, error) {
	if err := c.check("read", n); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *Cursor) Skip(n int) error {
	if err := c.check("skip", n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

func (c *Cursor) WriteU8(v uint8) error {
	if err := c.check("write", 1); err != nil {
		return err
	}
	c.buf[c.pos] = v
	c.pos++
	return nil
}

// Write copies all of p or nothing.
func (c *Cursor) Write(p []byte) (int, error) {
	if err := c.check("write", len(p)); err != nil {
		return 0, err
	}
	n := copy(c.buf[c.pos:], p)
	c.pos += n
	return n, nil
}

// Fill writes n copies of v.
func (c *Cursor) Fill(v uint8, n int) error {
	if err := c.check("fill", n); err != nil {
		return err
	}
	end := c.pos + n
	for i := c.pos; i < end; i++ {
		c.buf[i] = v
	}
	c.pos = end
	return nil
}

// Repeat appends n bytes copied from dist bytes behind the current
// position. The copy runs forward one byte at a time, so a dist shorter
// than n repeats the pattern.
func (c *Cursor) Repeat(dist, n int) error {
	if dist <= 0 || dist > c.pos {
		return fmt.Errorf("%w: back-reference %d at %d", ErrOutOfBounds, dist, c.pos)
	}
	if err := c.check("write", n); err != nil {
		return err
	}
	from := c.pos - dist
	for i := 0; i < n; i++ {
		c.buf[c.pos+i] = c.buf[from+i]
	}
	c.pos += n
	return nil
}

// FillFrom copies exactly n bytes from src's position to c's position,
// advancing both. Neither cursor moves if either side is short.
func (c *Cursor) FillFrom(src *Cursor, n int) error {
	if err := src.check("read", n); err != nil {
		return err
	}
	if err := c.check("write", n); err != nil {
		return err
	}
	copy(c.buf[c.pos:c.pos+n], src.buf[src.pos:src.pos+n])
	c.pos += n
	src.pos += n
	return nil
}

// Read implements io.Reader over the unread bytes.
func (c *Cursor) Read(p []byte) (int, error) {
	if c.AtEnd() {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, c.buf[c.pos:])
	c.pos += n
	return n, nil
}

// ReadByte implements io.ByteReader.
func (c *Cursor) ReadByte() (byte, error) {
	if c.AtEnd() {
		return 0, io.EOF
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}
