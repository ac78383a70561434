package resource

import (
	"encoding/binary"
	"fmt"

	"github.com/32bitkid/bak/buffer"
	"github.com/32bitkid/bak/decompression"
)

// Magic marks the start of every image archive.
const Magic uint16 = 0x1066

const (
	headerSize = 12
	recordSize = 8
)

// Record describes one image in the archive table.
type Record struct {
	Size   uint16
	Flags  Flags
	Width  uint16
	Height uint16
}

type Header struct {
	Method  decompression.Method
	Size    uint32
	Records []Record
}

// RecordBytes is the sum of every record's declared size.
func (h *Header) RecordBytes() int {
	total := 0
	for _, rec := range h.Records {
		total += int(rec.Size)
	}
	return total
}

// ParseHeader reads the archive header and record table from c, leaving
// c positioned at the first payload byte.
func ParseHeader(c *buffer.Cursor) (*Header, error) {
	if c.Remaining() < headerSize {
		return nil, fmt.Errorf("%w: header needs %d bytes, have %d", ErrFormat, headerSize, c.Remaining())
	}

	var raw struct {
		Magic  uint16
		Method uint16
		Count  uint16
		_      uint16
		Size   uint32
	}
	if err := binary.Read(c, binary.LittleEndian, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	if raw.Magic != Magic {
		return nil, fmt.Errorf("%w: bad magic 0x%04x", ErrFormat, raw.Magic)
	}

	if need := int(raw.Count) * recordSize; need > c.Remaining() {
		return nil, fmt.Errorf("%w: %d records need %d bytes, have %d", ErrFormat, raw.Count, need, c.Remaining())
	}

	records := make([]Record, raw.Count)
	if err := binary.Read(c, binary.LittleEndian, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	return &Header{
		Method:  decompression.Method(raw.Method),
		Size:    raw.Size,
		Records: records,
	}, nil
}
