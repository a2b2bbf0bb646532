// Package zipdump disassembles the structure of ZIP archives into a human-readable transcript.
//
// The decoder walks the byte stream record by record, printing every fixed field, variable-length tail and extra
// field chunk it recognizes. It is meant for inspecting broken archives: corrupt or unrecognized bytes are reported
// and skipped until the next "PK" anchor, and truncated records are printed as far as they go. Nothing is ever
// decompressed or verified.
package zipdump

import (
	"bufio"
	"fmt"
	"io"
)

// Options customises Dump.
type Options struct {
	// FullDump renders file data, compressed extra field blocks and unknown data as hex/ASCII rows.
	//
	// By default, those regions are skipped and only their lengths are printed.
	FullDump bool

	// Quiet suppresses record offsets, skip summaries and interpretive notes.
	Quiet bool

	// OmitRepeatedRows replaces consecutive identical hex dump rows with a single " *" marker.
	OmitRepeatedRows bool
}

// Dump decodes the ZIP structures found in src and writes the transcript to dst.
//
// src does not need to be seekable. Corrupt data never causes an error; the returned error is either from writing to
// dst or a non-EOF error from reading src, in which case the transcript covers everything up to the failed read.
func Dump(src io.Reader, dst io.Writer, optFns ...func(*Options)) error {
	opts := &Options{}
	for _, fn := range optFns {
		fn(opts)
	}

	w := bufio.NewWriter(dst)
	d := &decoder{printer: printer{w: w, opts: opts}}
	r := NewReader(src)

	d.walk(r)

	if err := w.Flush(); err != nil {
		return fmt.Errorf("write transcript error: %w", err)
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("read archive error at offset %d: %w", r.Offset(), err)
	}

	return nil
}

// decoder holds the state of a single pass.
type decoder struct {
	printer

	// files and dirs count local file headers and central directory headers for the section labels.
	files, dirs int
}

// fields reads consecutive fields of a record and prints them as they are read.
//
// The first field that cannot be completed stops the record: every later read is skipped, and ok stays false.
type fields struct {
	d  *decoder
	r  *Reader
	ok bool
}

func (d *decoder) fields(r *Reader) *fields {
	return &fields{d: d, r: r, ok: true}
}

// fits stops the record without reading anything if a bounded reader has fewer than size bytes left, so that the
// leftover can still be reported.
func (f *fields) fits(size int64) bool {
	if rem := f.r.Remaining(); rem >= 0 && rem < size {
		f.ok = false
	}

	return f.ok
}

func (f *fields) u8(label string, format Format) (v uint8) {
	if f.fits(1) {
		if v, f.ok = f.r.Uint8(); f.ok {
			f.d.field(label, uint64(v), 1, format)
		}
	}
	return
}

func (f *fields) u16(label string, format Format) (v uint16) {
	if f.fits(2) {
		if v, f.ok = f.r.Uint16(); f.ok {
			f.d.field(label, uint64(v), 2, format)
		}
	}
	return
}

func (f *fields) u32(label string, format Format) (v uint32) {
	if f.fits(4) {
		if v, f.ok = f.r.Uint32(); f.ok {
			f.d.field(label, uint64(v), 4, format)
		}
	}
	return
}

func (f *fields) u64(label string, format Format) (v uint64) {
	if f.fits(8) {
		if v, f.ok = f.r.Uint64(); f.ok {
			f.d.field(label, v, 8, format)
		}
	}
	return
}

// notes runs fn if the last field was read and Options.Quiet is not set.
func (f *fields) notes(fn func()) {
	if f.ok && !f.d.opts.Quiet {
		fn()
	}
}
