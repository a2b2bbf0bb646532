package zipdump

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/valyala/bytebufferpool"
)

// scanWindow is how many bytes are looked at a time while scanning for the next anchor.
const scanWindow = 4096

// walk decodes records until the end of the stream.
//
// Every iteration starts by skipping to the next "PK" anchor. Bytes skipped this way are reported as unknown data,
// which is how the walk recovers from corrupt records, unknown signatures and records whose length cannot be known.
func (d *decoder) walk(r *Reader) {
	for {
		d.skipToAnchor(r)

		b := r.Peek(4)
		if len(b) == 0 {
			return
		}
		if len(b) < 4 {
			// "PK" followed by less than a full signature.
			d.skipUnknown(r, int64(len(b)))
			return
		}

		offset := r.Offset()
		signature := binary.LittleEndian.Uint32(b)
		r.Discard(4)

		d.record(r, KindOf(signature), signature, offset)

		if r.Err() != nil {
			return
		}
	}
}

// skipToAnchor consumes bytes until the next two bytes are "PK" or the stream ends.
//
// The skipped bytes are reported once as a single unknown data span. They are only kept if they will be dumped, and
// then only the first spoolThreshold bytes stay in memory.
func (d *decoder) skipToAnchor(r *Reader) {
	var (
		sp *spool
		n  int64
	)
	if d.opts.FullDump {
		sp = newSpool()
		defer sp.close()
	}

	consume := func(b []byte) {
		if sp != nil {
			_, _ = sp.Write(b)
		}

		n += r.Discard(int64(len(b)))
	}

	for {
		b := r.Peek(scanWindow)
		if len(b) < len(anchor) {
			consume(b)
			break
		}

		if i := bytes.Index(b, anchor[:]); i >= 0 {
			consume(b[:i])
			break
		}

		// the last byte might be the 'P' of an anchor that straddles the window.
		consume(b[:len(b)-1])

		if r.Err() != nil {
			break
		}
	}

	if n == 0 {
		return
	}

	d.printf("!! Skip unknown data %d(0x%X) bytes\n", n, n)
	if sp == nil {
		return
	}

	src, err := sp.reader()
	if err != nil {
		d.printf("!! Cannot dump unknown data: %v\n", err)
		return
	}

	d.dumpBytes(src, n)
}

// spoolThreshold is how many bytes of a skipped gap are kept in memory before the gap moves to a temporary file.
const spoolThreshold = 1 << 20

// spool holds a skipped gap until its length is known and it can be dumped.
//
// The first write error is kept and returned from every later call.
type spool struct {
	buf *bytebufferpool.ByteBuffer
	f   *os.File
	err error
}

func newSpool() *spool {
	return &spool{buf: bytebufferpool.Get()}
}

func (s *spool) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}

	if s.f == nil && s.buf.Len()+len(p) > spoolThreshold {
		if s.f, s.err = os.CreateTemp("", "zipdump-*"); s.err != nil {
			return 0, fmt.Errorf("create spool file error: %w", s.err)
		}
		if _, s.err = s.f.Write(s.buf.B); s.err != nil {
			return 0, fmt.Errorf("write spool file error: %w", s.err)
		}
		s.buf.Reset()
	}

	if s.f == nil {
		return s.buf.Write(p)
	}

	var n int
	if n, s.err = s.f.Write(p); s.err != nil {
		return n, fmt.Errorf("write spool file error: %w", s.err)
	}
	return n, nil
}

// reader returns the spooled bytes from the start.
func (s *spool) reader() (io.Reader, error) {
	if s.err != nil {
		return nil, s.err
	}

	if s.f == nil {
		return bytes.NewReader(s.buf.B), nil
	}

	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind spool file error: %w", err)
	}
	return s.f, nil
}

func (s *spool) close() {
	bytebufferpool.Put(s.buf)

	if s.f != nil {
		_ = s.f.Close()
		_ = os.Remove(s.f.Name())
	}
}
