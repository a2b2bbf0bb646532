package zipdump

import (
	"bufio"
	"errors"
	"io"
)

// DefaultBufferSize is the size of the read-ahead buffer that NewReader wraps around its source.
const DefaultBufferSize = 16 * 1024

// Reader reads little-endian fields from a byte stream while keeping track of how many bytes have been consumed.
//
// The typed reads never return an error. End of stream (or any other read error) is reported as the absence of a
// value, and the caller is expected to stop decoding whatever it was decoding. Non-EOF errors are kept and can be
// retrieved with Err once the pass is over.
//
// A Reader returned by Limit is a child reader: it consumes bytes from its parent but will never consume more than
// the limit it was created with. Offset of a child is always that of the root reader.
type Reader struct {
	// br is only set on the root reader.
	br  *bufio.Reader
	off int64
	eof bool
	err error

	// parent and n are only set on child readers.
	parent *Reader
	n      int64

	buf [1]byte
}

// NewReader returns a root Reader that reads from src.
func NewReader(src io.Reader) *Reader {
	if br, ok := src.(*bufio.Reader); ok {
		return &Reader{br: br}
	}

	return &Reader{br: bufio.NewReaderSize(src, DefaultBufferSize)}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (n int, err error) {
	if r.parent != nil {
		if r.n <= 0 {
			return 0, io.EOF
		}
		if int64(len(p)) > r.n {
			p = p[:r.n]
		}

		n, err = r.parent.Read(p)
		r.n -= int64(n)
		return
	}

	if r.err != nil {
		return 0, r.err
	}

	n, err = r.br.Read(p)
	r.off += int64(n)

	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		r.eof = true
	default:
		r.eof, r.err = true, err
	}

	return
}

// Uint8 reads one byte.
func (r *Reader) Uint8() (uint8, bool) {
	if _, err := io.ReadFull(r, r.buf[:]); err != nil {
		r.markEOF()
		return 0, false
	}

	return r.buf[0], true
}

// Uint16 reads two bytes as a little-endian uint16.
func (r *Reader) Uint16() (uint16, bool) {
	lo, ok := r.Uint8()
	if !ok {
		return 0, false
	}
	hi, ok := r.Uint8()
	if !ok {
		return 0, false
	}

	return uint16(hi)<<8 | uint16(lo), true
}

// Uint32 reads four bytes as a little-endian uint32.
func (r *Reader) Uint32() (uint32, bool) {
	lo, ok := r.Uint16()
	if !ok {
		return 0, false
	}
	hi, ok := r.Uint16()
	if !ok {
		return 0, false
	}

	return uint32(hi)<<16 | uint32(lo), true
}

// Uint64 reads eight bytes as a little-endian uint64.
func (r *Reader) Uint64() (uint64, bool) {
	lo, ok := r.Uint32()
	if !ok {
		return 0, false
	}
	hi, ok := r.Uint32()
	if !ok {
		return 0, false
	}

	return uint64(hi)<<32 | uint64(lo), true
}

// Peek returns the next n bytes without consuming them.
//
// Fewer than n bytes are returned if the stream (or the limit of a child reader) ends first.
func (r *Reader) Peek(n int) []byte {
	if r.parent != nil {
		if int64(n) > r.n {
			n = int(max(r.n, 0))
		}

		return r.parent.Peek(n)
	}

	if r.err != nil {
		return nil
	}

	b, err := r.br.Peek(n)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		r.eof, r.err = true, err
	}

	return b
}

// Discard consumes up to n bytes and returns the number of bytes actually consumed.
func (r *Reader) Discard(n int64) int64 {
	if n <= 0 {
		return 0
	}

	m, _ := io.CopyN(io.Discard, r, n)
	if m < n {
		r.markEOF()
	}

	return m
}

// Limit returns a child reader that will consume at most n more bytes from r.
func (r *Reader) Limit(n int64) *Reader {
	return &Reader{parent: r, n: max(n, 0)}
}

// Remaining returns the number of bytes a child reader is still allowed to consume.
//
// The root reader has no limit and always returns -1.
func (r *Reader) Remaining() int64 {
	if r.parent == nil {
		return -1
	}

	return r.n
}

// Offset returns the number of bytes consumed from the start of the stream.
func (r *Reader) Offset() int64 {
	return r.root().off
}

// AtEOF returns true if a read has already hit the end of the stream.
//
// Exhausting the limit of a child reader does not count.
func (r *Reader) AtEOF() bool {
	return r.root().eof
}

// Err returns the first non-EOF error encountered while reading.
func (r *Reader) Err() error {
	return r.root().err
}

func (r *Reader) root() *Reader {
	for r.parent != nil {
		r = r.parent
	}

	return r
}

// markEOF is called when a read comes up short. For a child reader that only means its own limit was hit unless the
// root reader also ran out, which Read already takes care of.
func (r *Reader) markEOF() {
	if r.parent == nil {
		r.eof = true
	}
}
