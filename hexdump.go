package zipdump

import (
	"io"
	"strings"
)

// rowSize is the number of bytes per hex dump row.
const rowSize = 16

// dumpBytes renders up to n bytes from r as hex/ASCII rows and returns the number of bytes consumed.
//
// Offsets in the first column are relative to the start of the range. If Options.OmitRepeatedRows is set, a full row
// that is identical to the one before it is replaced by " *", printed once per run of identical rows.
func (d *decoder) dumpBytes(r io.Reader, n int64) (consumed int64) {
	var (
		buf     = make([]byte, 4096)
		row     [rowSize]byte
		prev    [rowSize]byte
		i       int
		omitted int
	)

	for consumed < n {
		m, err := r.Read(buf[:min(int64(len(buf)), n-consumed)])
		for _, c := range buf[:m] {
			row[i] = c
			consumed++

			if i++; i < rowSize {
				continue
			}

			i = 0
			if d.opts.OmitRepeatedRows && consumed > rowSize && row == prev {
				if omitted++; omitted == 1 {
					d.printf(" *\n")
				}
			} else {
				omitted = 0
				d.hexRow(consumed-rowSize, row[:])
			}
			prev = row
		}

		if err != nil {
			break
		}
	}

	if i != 0 {
		d.hexRow(consumed-int64(i), row[:i])
	}

	return consumed
}

// hexRow prints a single row. The hex column has a '-' separator after the 8th byte.
func (d *decoder) hexRow(offset int64, row []byte) {
	var hex, ascii strings.Builder

	for j, c := range row {
		hex.WriteByte(hexDigits[c>>4])
		hex.WriteByte(hexDigits[c&0xf])
		if j == 7 {
			hex.WriteByte('-')
		} else {
			hex.WriteByte(' ')
		}

		if c >= 0x20 && c < 0x7f {
			ascii.WriteByte(c)
		} else {
			ascii.WriteByte('.')
		}
	}

	d.printf("+%08X : %-48s:%-16s\n", offset, hex.String(), ascii.String())
}

const hexDigits = "0123456789ABCDEF"

// dumpOrSkip dumps n bytes if Options.FullDump is set, or discards them with a one-line summary otherwise.
func (d *decoder) dumpOrSkip(r *Reader, caption string, n int64) {
	if d.opts.FullDump {
		d.dumpBytes(r, n)
		return
	}

	r.Discard(n)
	if !d.opts.Quiet {
		d.printf("; skip %s(%d bytes), use -f option to dump the data\n", caption, n)
	}
}

// skipUnknown reports n bytes of data that could not be interpreted, then dumps or discards them.
func (d *decoder) skipUnknown(r *Reader, n int64) {
	d.printf("!! Skip unknown data %d(0x%X) bytes\n", n, n)

	if d.opts.FullDump {
		d.dumpBytes(r, n)
	} else {
		r.Discard(n)
	}
}

// dumpString prints up to n bytes from r as a single line of text, escaping control bytes in caret notation.
func (d *decoder) dumpString(r io.Reader, n int64) {
	var (
		buf      = make([]byte, min(n, 4096))
		sb       strings.Builder
		consumed int64
	)

	for consumed < n {
		m, err := r.Read(buf[:min(int64(len(buf)), n-consumed)])
		consumed += int64(m)

		for _, c := range buf[:m] {
			switch {
			case c < 0x20:
				sb.WriteByte('^')
				sb.WriteByte(c + '@')
			case c == 0x7f:
				sb.WriteString("^?")
			default:
				sb.WriteByte(c)
			}
		}

		if err != nil {
			break
		}
	}

	d.printf("%s\n", sb.String())
}
