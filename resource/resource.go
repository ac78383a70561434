package resource

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/32bitkid/bak/buffer"
	"github.com/32bitkid/bak/decompression"
)

// DefaultMaxPayload bounds the decompressed size a header may declare.
const DefaultMaxPayload = 16 << 20

// Loader decodes whole archives. It is immutable after NewLoader and safe
// for concurrent use.
type Loader struct {
	decompressors decompression.LUT
	logger        log.Logger
	maxPayload    int
}

type Option func(*Loader)

// WithDecompressors replaces the method table.
func WithDecompressors(lut decompression.LUT) Option {
	return func(l *Loader) { l.decompressors = lut }
}

func WithLogger(logger log.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithMaxPayload rejects headers that declare more than n decompressed
// bytes.
func WithMaxPayload(n int) Option {
	return func(l *Loader) { l.maxPayload = n }
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		decompressors: decompression.Decompressors,
		logger:        log.NewNopLogger(),
		maxPayload:    DefaultMaxPayload,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var defaultLoader = NewLoader()

// Load decodes every image of the archive in raw with the default Loader.
func Load(raw []byte) ([]*Image, error) {
	return defaultLoader.Load(raw)
}

func (l *Loader) Load(raw []byte) ([]*Image, error) {
	c := buffer.Wrap(raw)

	header, err := ParseHeader(c)
	if err != nil {
		return nil, &LoadError{Stage: StageHeader, Record: -1, Err: err}
	}
	if int64(header.Size) > int64(l.maxPayload) {
		return nil, &LoadError{Stage: StageHeader, Record: -1, Err: fmt.Errorf(
			"%w: payload of %d bytes exceeds limit of %d", ErrFormat, header.Size, l.maxPayload,
		)}
	}

	level.Debug(l.logger).Log("msg", "parsed header", "method", header.Method, "records", len(header.Records), "size", header.Size)

	payload, err := l.decompressors.Decompress(c, header.Method, int(header.Size))
	if err != nil {
		return nil, &LoadError{Stage: StageDecompress, Record: -1, Err: err}
	}

	if used := header.RecordBytes(); used < payload.Len() {
		level.Warn(l.logger).Log("msg", "records do not cover payload", "used", used, "payload", payload.Len())
	}

	images := make([]*Image, 0, len(header.Records))
	for i, rec := range header.Records {
		size := int(rec.Size)
		data := buffer.New(size)
		if err := data.FillFrom(payload, size); err != nil {
			return nil, &LoadError{Stage: StageRecord, Record: i, Err: fmt.Errorf(
				"%w: record of %d bytes at offset %d overruns payload of %d", ErrFormat, size, payload.Pos(), payload.Len(),
			)}
		}
		data.Reset()

		img, err := DecodeImage(data, int(rec.Width), int(rec.Height), rec.Flags)
		if err != nil {
			return nil, &LoadError{Stage: StageImage, Record: i, Err: err}
		}
		images = append(images, img)
	}

	return images, nil
}
