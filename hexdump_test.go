package zipdump

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// row formats a hex dump row the long way.
func row(offset int, hex, ascii string) string {
	return fmt.Sprintf("+%08X : %-48s:%-16s\n", offset, hex, ascii)
}

func TestDumpBytes(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		data []byte
		want string
	}{
		{
			name: "one and a bit rows",
			data: []byte("0123456789ABCDEFGH"),
			want: row(0, "30 31 32 33 34 35 36 37-38 39 41 42 43 44 45 46 ", "0123456789ABCDEF") +
				row(0x10, "47 48 ", "GH"),
		},
		{
			name: "non-printable",
			data: []byte{0x00, 0x7f, 'A', 0x80, ' '},
			want: row(0, "00 7F 41 80 20 ", "..A. "),
		},
		{
			name: "repeated rows are kept by default",
			data: make([]byte, 48),
			want: row(0, "00 00 00 00 00 00 00 00-00 00 00 00 00 00 00 00 ", strings.Repeat(".", 16)) +
				row(0x10, "00 00 00 00 00 00 00 00-00 00 00 00 00 00 00 00 ", strings.Repeat(".", 16)) +
				row(0x20, "00 00 00 00 00 00 00 00-00 00 00 00 00 00 00 00 ", strings.Repeat(".", 16)),
		},
		{
			name: "repeated rows are omitted once per run",
			opts: Options{OmitRepeatedRows: true},
			data: make([]byte, 48),
			want: row(0, "00 00 00 00 00 00 00 00-00 00 00 00 00 00 00 00 ", strings.Repeat(".", 16)) +
				" *\n",
		},
		{
			name: "run of repeated rows then a different row",
			opts: Options{OmitRepeatedRows: true},
			data: append(make([]byte, 48), bytes.Repeat([]byte{'a'}, 17)...),
			want: row(0, "00 00 00 00 00 00 00 00-00 00 00 00 00 00 00 00 ", strings.Repeat(".", 16)) +
				" *\n" +
				row(0x30, "61 61 61 61 61 61 61 61-61 61 61 61 61 61 61 61 ", strings.Repeat("a", 16)) +
				row(0x40, "61 ", "a"),
		},
		{
			name: "partial last row is never omitted",
			opts: Options{OmitRepeatedRows: true},
			data: bytes.Repeat([]byte{'a'}, 20),
			want: row(0, "61 61 61 61 61 61 61 61-61 61 61 61 61 61 61 61 ", strings.Repeat("a", 16)) +
				row(0x10, "61 61 61 61 ", "aaaa"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var consumed int64
			got := render(tt.opts, func(d *decoder) {
				consumed = d.dumpBytes(bytes.NewReader(tt.data), int64(len(tt.data)))
			})
			assert.Equal(t, tt.want, got)
			assert.Equal(t, int64(len(tt.data)), consumed)
		})
	}
}

func TestDumpBytes_ConsumesExactlyN(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("0123456789")))

	got := render(Options{}, func(d *decoder) {
		assert.Equal(t, int64(4), d.dumpBytes(r, 4))
	})

	assert.Equal(t, row(0, "30 31 32 33 ", "0123"), got)
	assert.Equal(t, int64(4), r.Offset())
}

func TestDumpOrSkip(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "skip",
			want: "; skip file data(20 bytes), use -f option to dump the data\n",
		},
		{
			name: "skip quietly",
			opts: Options{Quiet: true},
			want: "",
		},
		{
			name: "full dump",
			opts: Options{FullDump: true},
			want: row(0, "78 78 78 78 78 78 78 78-78 78 78 78 78 78 78 78 ", strings.Repeat("x", 16)) +
				row(0x10, "78 78 78 78 ", "xxxx"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(bytes.NewReader(bytes.Repeat([]byte{'x'}, 30)))

			got := render(tt.opts, func(d *decoder) {
				d.dumpOrSkip(r, "file data", 20)
			})
			assert.Equal(t, tt.want, got)
			assert.Equal(t, int64(20), r.Offset())
		})
	}
}

func TestSkipUnknown(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("abcdefghijklmnopqrstuvwxyz")))

	got := render(Options{}, func(d *decoder) {
		d.skipUnknown(r, 18)
	})
	assert.Equal(t, "!! Skip unknown data 18(0x12) bytes\n", got)
	assert.Equal(t, int64(18), r.Offset())

	got = render(Options{FullDump: true}, func(d *decoder) {
		d.skipUnknown(r, 8)
	})
	assert.Equal(t, "!! Skip unknown data 8(0x8) bytes\n"+row(0, "73 74 75 76 77 78 79 7A-", "stuvwxyz"), got)
}

func TestDumpString(t *testing.T) {
	got := render(Options{}, func(d *decoder) {
		d.dumpString(strings.NewReader("dir/a\x01b\x7f.txt and more"), 12)
	})

	assert.Equal(t, "dir/a^Ab^?.txt\n", got)
}
