package zipdump

import (
	"bufio"
	"fmt"
)

// Format controls how FormatField renders a value.
type Format int

const (
	// Decimal renders the value in base 10.
	Decimal Format = iota
	// Hex renders the value in base 16, zero-padded to twice the field's byte size.
	Hex
	// DecimalHex renders both forms, e.g. "10(0x0000000A)".
	DecimalHex
	// DecimalUnlessSentinel renders Decimal unless the value has all of its bits set, in which case Hex is used.
	//
	// ZIP uses the all-ones value of a 16-bit or 32-bit field to say "look in the Zip64 extra field instead".
	DecimalUnlessSentinel
)

// labelWidth is the width that labels are right-aligned to.
const labelWidth = 32

// FormatField renders one line (without the trailing newline) for a field whose value was read from size bytes.
func FormatField(label string, v uint64, size int, f Format) string {
	switch f {
	case Hex:
		return fmt.Sprintf("%*s : 0x%0*X", labelWidth, label, size*2, v)
	case DecimalHex:
		return fmt.Sprintf("%*s : %d(0x%0*X)", labelWidth, label, v, size*2, v)
	case DecimalUnlessSentinel:
		if v == sentinel(size) {
			return FormatField(label, v, size, Hex)
		}
		return FormatField(label, v, size, Decimal)
	default:
		return fmt.Sprintf("%*s : %d", labelWidth, label, v)
	}
}

// sentinel returns the all-ones value of a field of the given byte size.
func sentinel(size int) uint64 {
	if size >= 8 {
		return 1<<64 - 1
	}

	return 1<<(8*uint(size)) - 1
}

// printer writes the transcript.
//
// Write errors are not checked here; bufio.Writer keeps the first one and Dump returns it from Flush.
type printer struct {
	w    *bufio.Writer
	opts *Options
}

func (p *printer) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(p.w, format, a...)
}

func (p *printer) field(label string, v uint64, size int, f Format) {
	_, _ = p.w.WriteString(FormatField(label, v, size, f))
	_ = p.w.WriteByte('\n')
}

// note prints an interpretive note under the previous field.
func (p *printer) note(s string) {
	p.printf("%*s * %s\n", labelWidth, "", s)
}

func (p *printer) notef(format string, a ...any) {
	p.note(fmt.Sprintf(format, a...))
}

// section starts a new section. Pass n < 0 to omit the sequence number, offset < 0 to omit the offset.
func (p *printer) section(title string, offset int64, n int) {
	if n < 0 {
		p.printf("\n[%s]", title)
	} else {
		p.printf("\n[%s #%d]", title, n)
	}

	if offset >= 0 && !p.opts.Quiet {
		p.printf(" offset : %d(0x%016X)", offset, offset)
	}

	_ = p.w.WriteByte('\n')
}

// header starts the section of a top-level record.
func (p *printer) header(title string, signature uint32, offset int64, n int) {
	p.section(title, offset, n)
	p.field("header signature", uint64(signature), 4, Hex)
}

// extraHeader starts the section of an extra field chunk.
func (p *printer) extraHeader(title string, tag, size uint16) {
	p.printf("\n[-%s]\n", title)
	p.field("extra tag", uint64(tag), 2, Hex)
	p.field("extra size", uint64(size), 2, DecimalHex)
}
