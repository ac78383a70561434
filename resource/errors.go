package resource

import (
	"errors"
	"fmt"

	"github.com/32bitkid/bak/buffer"
	"github.com/32bitkid/bak/decompression"
)

var (
	// ErrFormat indicates a malformed archive header or record table.
	ErrFormat = errors.New("invalid format")
	// ErrOutOfBounds indicates a read past the end of a buffer.
	ErrOutOfBounds = buffer.ErrOutOfBounds
	// ErrUnsupportedMethod indicates an unknown compression method code.
	ErrUnsupportedMethod = decompression.ErrUnsupportedMethod
	// ErrUnsupportedFlags indicates an unknown or contradictory combination
	// of record flags.
	ErrUnsupportedFlags = fmt.Errorf("%w: record flags", ErrUnsupportedMethod)
	// ErrDecode indicates data that cannot produce the declared output.
	ErrDecode = decompression.ErrCorrupt
)

// Stage identifies the part of a load that failed.
type Stage uint8

const (
	StageHeader Stage = iota
	StageDecompress
	StageRecord
	StageImage
)

func (s Stage) String() string {
	switch s {
	case StageHeader:
		return "header"
	case StageDecompress:
		return "decompress"
	case StageRecord:
		return "record"
	case StageImage:
		return "image"
	}
	return "unknown"
}

// LoadError is returned by Load. Record is -1 when the failure is not
// tied to a single record.
type LoadError struct {
	Stage  Stage
	Record int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Record < 0 {
		return fmt.Sprintf("load %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("load %s: record %d: %v", e.Stage, e.Record, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
