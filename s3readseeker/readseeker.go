// Package s3readseeker reads S3 objects with ranged GetObject calls.
package s3readseeker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ReadSeeker uses ranged GetObject to implement io.ReadSeeker.
type ReadSeeker interface {
	io.ReadSeeker

	// Size returns the size of the S3 object that was determined from the initial HeadObject.
	Size() int64
}

// ReadSeekerClient abstracts the S3 APIs that are needed to implement ReadSeeker.
type ReadSeekerClient interface {
	GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// DefaultBufferSize is the default value for Options.BufferSize.
const DefaultBufferSize = 1024 * 1024

// Options customises New.
type Options struct {
	// BufferSize is the minimum number of bytes to request with every GetObject call.
	//
	// By default, DefaultBufferSize is used so that the many small reads of a decoder don't end up as many GetObject
	// calls. Pass zero or a negative value to request exactly what each Read asks for.
	BufferSize int

	// ExpectedBucketOwner is passed to every HeadObject and GetObject call if given.
	ExpectedBucketOwner *string

	// CtxFn returns a context.Context to be used with every GetObject or HeadObject call.
	//
	// By default, context.Background is used.
	CtxFn func() context.Context
}

// New returns a ReadSeeker with the given bucket and key.
//
// The client will be used to determine a valid size for the object.
func New(client ReadSeekerClient, bucket, key string, optFns ...func(*Options)) (ReadSeeker, error) {
	opts := &Options{
		BufferSize: DefaultBufferSize,
		CtxFn:      context.Background,
	}
	for _, fn := range optFns {
		fn(opts)
	}

	headObjectOutput, err := client.HeadObject(opts.CtxFn(), &s3.HeadObjectInput{
		Bucket:              aws.String(bucket),
		Key:                 aws.String(key),
		ExpectedBucketOwner: opts.ExpectedBucketOwner,
	})
	if err != nil {
		return nil, fmt.Errorf("determine object size error: %w", err)
	}

	return &readSeeker{
		client:     client,
		bucket:     bucket,
		key:        key,
		owner:      opts.ExpectedBucketOwner,
		ctxFn:      opts.CtxFn,
		size:       aws.ToInt64(headObjectOutput.ContentLength),
		bufferSize: opts.BufferSize,
	}, nil
}

// readSeeker keeps the bytes from the last GetObject in buf; off is the offset of the next byte Read will return.
type readSeeker struct {
	client      ReadSeekerClient
	bucket, key string
	owner       *string
	ctxFn       func() context.Context
	off, size   int64
	buf         bytes.Buffer
	bufferSize  int
}

func (r *readSeeker) Size() int64 {
	return r.size
}

func (r *readSeeker) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	if r.buf.Len() == 0 {
		if r.off >= r.size {
			return 0, io.EOF
		}

		if err = r.fill(len(p)); err != nil {
			return 0, err
		}
	}

	n, _ = r.buf.Read(p)
	r.off += int64(n)
	return n, nil
}

// fill makes one GetObject call for the range that starts at the current offset.
func (r *readSeeker) fill(m int) error {
	rangeEnd := min(r.size, r.off+int64(max(m, r.bufferSize))) - 1

	getObjectOutput, err := r.client.GetObject(r.ctxFn(), &s3.GetObjectInput{
		Bucket:              aws.String(r.bucket),
		Key:                 aws.String(r.key),
		Range:               aws.String(fmt.Sprintf("bytes=%d-%d", r.off, rangeEnd)),
		ExpectedBucketOwner: r.owner,
	})
	if err != nil {
		return fmt.Errorf("get object range [%d, %d] error: %w", r.off, rangeEnd, err)
	}

	_, err = r.buf.ReadFrom(getObjectOutput.Body)
	if _ = getObjectOutput.Body.Close(); err != nil {
		r.buf.Reset()
		return fmt.Errorf("read object range [%d, %d] error: %w", r.off, rangeEnd, err)
	}

	return nil
}

var ErrSeekBeforeFirstByte = errors.New("seek ends up before first byte")

// Seek implements io.Seeker.
//
// Seeking forward within the buffered range keeps the buffer; any other seek discards it.
func (r *readSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = r.off + offset
	case io.SeekEnd:
		abs = r.size + offset
	default:
		return r.off, fmt.Errorf("invalid whence: %d", whence)
	}

	if abs < 0 {
		return r.off, ErrSeekBeforeFirstByte
	}

	if delta := abs - r.off; delta >= 0 && delta <= int64(r.buf.Len()) {
		r.buf.Next(int(delta))
	} else {
		r.buf.Reset()
	}

	r.off = abs
	return r.off, nil
}
