package zipdump

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatField(t *testing.T) {
	pad := func(label string) string {
		return strings.Repeat(" ", labelWidth-len(label)) + label + " : "
	}

	tests := []struct {
		name   string
		label  string
		v      uint64
		size   int
		format Format
		want   string
	}{
		{
			name:   "decimal",
			label:  "number of this disk",
			v:      65535,
			size:   2,
			format: Decimal,
			want:   "65535",
		},
		{
			name:   "hex 1 byte",
			label:  "Flags",
			v:      0x0a,
			size:   1,
			format: Hex,
			want:   "0x0A",
		},
		{
			name:   "hex 4 bytes",
			label:  "crc-32",
			v:      0x1234,
			size:   4,
			format: Hex,
			want:   "0x00001234",
		},
		{
			name:   "hex 8 bytes",
			label:  "last mod time",
			v:      0x01d5c1b2c3d4e5f6,
			size:   8,
			format: Hex,
			want:   "0x01D5C1B2C3D4E5F6",
		},
		{
			name:   "decimal hex",
			label:  "compressed size",
			v:      10,
			size:   4,
			format: DecimalHex,
			want:   "10(0x0000000A)",
		},
		{
			name:   "decimal hex 2 bytes",
			label:  "extra size",
			v:      28,
			size:   2,
			format: DecimalHex,
			want:   "28(0x001C)",
		},
		{
			name:   "not a 16-bit sentinel",
			label:  "disk number start",
			v:      0xfffe,
			size:   2,
			format: DecimalUnlessSentinel,
			want:   "65534",
		},
		{
			name:   "16-bit sentinel",
			label:  "disk number start",
			v:      0xffff,
			size:   2,
			format: DecimalUnlessSentinel,
			want:   "0xFFFF",
		},
		{
			name:   "32-bit sentinel",
			label:  "size of the directory",
			v:      0xffffffff,
			size:   4,
			format: DecimalUnlessSentinel,
			want:   "0xFFFFFFFF",
		},
		{
			name:   "16-bit sentinel in 32-bit field",
			label:  "size of the directory",
			v:      0xffff,
			size:   4,
			format: DecimalUnlessSentinel,
			want:   "65535",
		},
		{
			name:   "64-bit sentinel",
			label:  "Original Size",
			v:      1<<64 - 1,
			size:   8,
			format: DecimalUnlessSentinel,
			want:   "0xFFFFFFFFFFFFFFFF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, pad(tt.label)+tt.want, FormatField(tt.label, tt.v, tt.size, tt.format))
		})
	}
}

func TestPrinter_Section(t *testing.T) {
	tests := []struct {
		name   string
		opts   Options
		title  string
		offset int64
		n      int
		want   string
	}{
		{
			name:   "numbered",
			title:  "Local file name",
			offset: 30,
			n:      1,
			want:   "\n[Local file name #1] offset : 30(0x000000000000001E)\n",
		},
		{
			name:   "unnumbered",
			title:  ".ZIP file comment",
			offset: 256,
			n:      -1,
			want:   "\n[.ZIP file comment] offset : 256(0x0000000000000100)\n",
		},
		{
			name:   "quiet",
			opts:   Options{Quiet: true},
			title:  "Central file header",
			offset: 256,
			n:      2,
			want:   "\n[Central file header #2]\n",
		},
		{
			name:   "no offset",
			title:  "extra field data",
			offset: -1,
			n:      -1,
			want:   "\n[extra field data]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(tt.opts, func(d *decoder) {
				d.section(tt.title, tt.offset, tt.n)
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrinter_ExtraHeader(t *testing.T) {
	got := render(Options{}, func(d *decoder) {
		d.extraHeader("Zip64 Extended Information Extra Field", 1, 28)
	})

	assert.Equal(t, "\n[-Zip64 Extended Information Extra Field]\n"+
		line("extra tag", 1, 2, Hex)+
		line("extra size", 28, 2, DecimalHex), got)
}
