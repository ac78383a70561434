package decompression

import (
	"bytes"
	"testing"

	"github.com/32bitkid/bak/buffer"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

func TestDecompressUnknownMethod(t *testing.T) {
	_, err := Decompress(buffer.Wrap([]byte{1, 2, 3}), Method(0x42), 3)
	require.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestDecompressNone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      []byte
		size    int
		want    []byte
		wantErr error
	}{
		{name: "exact", in: []byte("abcd"), size: 4, want: []byte("abcd")},
		{name: "truncated-to-size", in: []byte("abcdef"), size: 3, want: []byte("abc")},
		{name: "empty", in: nil, size: 0, want: []byte{}},
		{name: "short", in: []byte("ab"), size: 3, wantErr: ErrCorrupt},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := Decompress(buffer.Wrap(tt.in), MethodNone, tt.size)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, 0, out.Pos())
			require.Equal(t, tt.want, out.Bytes())
		})
	}
}

func TestDecompressLZSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      []byte
		size    int
		want    string
		wantErr error
	}{
		{
			name: "literal-then-copy",
			in:   []byte{0x03, 'A', 'B', 0x02, 0x00, 0x04},
			size: 6,
			want: "ABABAB",
		},
		{
			name: "literals-across-control-bytes",
			in:   []byte{0xFF, '0', '1', '2', '3', '4', '5', '6', '7', 0x01, '8'},
			size: 9,
			want: "012345678",
		},
		{
			name: "distance-one-run",
			in:   []byte{0x01, 'z', 0x01, 0x00, 0x05},
			size: 6,
			want: "zzzzzz",
		},
		{
			name:    "offset-beyond-written",
			in:      []byte{0x03, 'A', 'B', 0x03, 0x00, 0x01},
			size:    3,
			wantErr: ErrCorrupt,
		},
		{
			name:    "copy-before-any-output",
			in:      []byte{0x00, 0x01, 0x00, 0x01},
			size:    1,
			wantErr: ErrCorrupt,
		},
		{
			name:    "zero-distance",
			in:      []byte{0x01, 'A', 0x00, 0x00, 0x01},
			size:    2,
			wantErr: ErrCorrupt,
		},
		{
			name:    "zero-length",
			in:      []byte{0x01, 'A', 0x01, 0x00, 0x00},
			size:    2,
			wantErr: ErrCorrupt,
		},
		{
			name:    "copy-overruns-output",
			in:      []byte{0x03, 'A', 'B', 0x02, 0x00, 0x08},
			size:    6,
			wantErr: ErrCorrupt,
		},
		{
			name:    "truncated-input",
			in:      []byte{0x03, 'A', 'B', 0x02},
			size:    6,
			wantErr: ErrCorrupt,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := Decompress(buffer.Wrap(tt.in), MethodLZSS, tt.size)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, string(out.Bytes()))
		})
	}
}

func TestDecompressRLE(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      []byte
		size    int
		want    []byte
		wantErr error
	}{
		{
			name: "runs-and-literals",
			in:   []byte{0x84, 0x00, 0x02, 0x07, 0x08, 0x83, 0xFF},
			size: 9,
			want: []byte{0, 0, 0, 0, 7, 8, 0xFF, 0xFF, 0xFF},
		},
		{
			name: "empty-controls-are-skipped",
			in:   []byte{0x00, 0x80, 0x09, 0x81, 0x05},
			size: 1,
			want: []byte{5},
		},
		{name: "run-overrun", in: []byte{0x85, 0x01}, size: 4, wantErr: ErrCorrupt},
		{name: "literal-overrun", in: []byte{0x05, 1, 2, 3, 4, 5}, size: 4, wantErr: ErrCorrupt},
		{name: "short-literals", in: []byte{0x04, 1, 2}, size: 4, wantErr: ErrCorrupt},
		{name: "missing-run-value", in: []byte{0x84}, size: 4, wantErr: ErrCorrupt},
		{name: "input-ends-early", in: []byte{0x82, 0x01}, size: 4, wantErr: ErrCorrupt},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := Decompress(buffer.Wrap(tt.in), MethodRLE, tt.size)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, out.Bytes())
		})
	}
}

func TestDecompressLZ4(t *testing.T) {
	data := bytes.Repeat([]byte("palette-indexed pixels "), 64)

	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, compressed, nil)
	require.NoError(t, err)
	require.NotZero(t, n)

	out, err := Decompress(buffer.Wrap(compressed[:n]), MethodLZ4, len(data))
	require.NoError(t, err)
	require.Equal(t, data, out.Bytes())

	_, err = Decompress(buffer.Wrap(compressed[:n]), MethodLZ4, len(data)+1)
	require.ErrorIs(t, err, ErrCorrupt)

	_, err = Decompress(buffer.Wrap(compressed[:n/2]), MethodLZ4, len(data))
	require.ErrorIs(t, err, ErrCorrupt)
}

// bitWriter packs codes most significant bit first.
type bitWriter struct {
	out   []byte
	acc   uint32
	nbits uint
}

func (w *bitWriter) write(code uint16, width uint) {
	for i := int(width) - 1; i >= 0; i-- {
		w.acc = w.acc<<1 | uint32(code>>uint(i))&1
		w.nbits++
		if w.nbits == 8 {
			w.out = append(w.out, byte(w.acc))
			w.acc, w.nbits = 0, 0
		}
	}
}

func (w *bitWriter) bytes() []byte {
	if w.nbits > 0 {
		w.out = append(w.out, byte(w.acc<<(8-w.nbits)))
		w.acc, w.nbits = 0, 0
	}
	// slack so the bit reader can always fill its buffer
	return append(w.out, make([]byte, 8)...)
}

// lzwCodes returns the code sequence for data, without the end token.
func lzwCodes(data []byte) (codes []uint16, widths []uint) {
	dict := map[string]uint16{}
	next := uint16(lzwCurrentToken)
	width := uint(lzwMinBits)

	w := string(data[:1])
	for _, c := range data[1:] {
		wc := w + string([]byte{c})
		if _, ok := dict[wc]; ok {
			w = wc
			continue
		}
		codes, widths = append(codes, lzwCode(dict, w)), append(widths, width)
		if next < lzwTableSize {
			dict[wc] = next
			next++
			if next == 1<<width && width < lzwMaxBits {
				width++
			}
		}
		w = string([]byte{c})
	}
	codes, widths = append(codes, lzwCode(dict, w)), append(widths, width)
	return codes, widths
}

func lzwCode(dict map[string]uint16, s string) uint16 {
	if len(s) == 1 {
		return uint16(s[0])
	}
	return dict[s]
}

func lzwEncode(data []byte) []byte {
	var bw bitWriter
	codes, widths := lzwCodes(data)
	for i, code := range codes {
		bw.write(code, widths[i])
	}
	bw.write(lzwEndToken, widths[len(widths)-1])
	return bw.bytes()
}

func TestDecompressLZW(t *testing.T) {
	t.Parallel()

	noise := func(n int) []byte {
		b := make([]byte, n)
		x := uint32(2463534242)
		for i := range b {
			x ^= x << 13
			x ^= x >> 17
			x ^= x << 5
			b[i] = byte(x)
		}
		return b
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "single-byte", data: []byte{'x'}},
		{name: "literals", data: []byte("ABC")},
		{name: "kwkwk", data: []byte("AAAAAAA")},
		{name: "text", data: []byte("TOBEORNOTTOBEORTOBEORNOT")},
		{name: "grows-past-9-bits", data: noise(700)},
		{name: "fills-table", data: noise(6000)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := Decompress(buffer.Wrap(lzwEncode(tt.data)), MethodLZW, len(tt.data))
			require.NoError(t, err)
			require.Equal(t, tt.data, out.Bytes())
		})
	}
}

func TestDecompressLZWReset(t *testing.T) {
	var bw bitWriter
	bw.write('A', 9)
	bw.write('B', 9)
	bw.write(lzwResetToken, 9)
	bw.write('C', 9)
	bw.write(lzwCurrentToken, 9)

	out, err := Decompress(buffer.Wrap(bw.bytes()), MethodLZW, 5)
	require.NoError(t, err)
	require.Equal(t, "ABCCC", string(out.Bytes()))
}

func TestDecompressLZWCorrupt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		codes []uint16
		size  int
	}{
		{name: "unknown-token", codes: []uint16{'A', 0x150}, size: 4},
		{name: "first-token-not-literal", codes: []uint16{0x102}, size: 2},
		{name: "early-end", codes: []uint16{'A', lzwEndToken}, size: 4},
		{name: "expansion-overruns", codes: []uint16{'A', 'B', 0x102}, size: 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var bw bitWriter
			for _, c := range tt.codes {
				bw.write(c, 9)
			}
			_, err := Decompress(buffer.Wrap(bw.bytes()), MethodLZW, tt.size)
			require.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestDecompressLZWTruncated(t *testing.T) {
	_, err := Decompress(buffer.Wrap([]byte{0x20}), MethodLZW, 4)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestMethodString(t *testing.T) {
	require.Equal(t, "Method(LZSS)", MethodLZSS.String())
	require.Equal(t, "Method(9)", Method(9).String())
}
