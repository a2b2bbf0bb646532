// Package source opens the inputs of the dump command: local files, S3 objects, and compressed variants of either.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
	"github.com/mholt/archives"
	"github.com/nguyengg/zipdump/codec"
	"github.com/nguyengg/zipdump/internal/config"
	"github.com/nguyengg/zipdump/s3readseeker"
)

// ErrUnsupportedLocation is returned for s3:// names that do not have both a bucket and a key.
var ErrUnsupportedLocation = errors.New("unsupported location")

// Source is an opened input.
type Source struct {
	io.Reader

	// Name is the name that was opened.
	Name string
	// Size is the size of the raw (possibly compressed) input, or -1 if unknown.
	Size int64
	// Format is the name of the compression format that was removed, or empty if none.
	Format string

	closers []func() error
}

// Close releases every resource that Open acquired, in reverse order.
func (s *Source) Close() (err error) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, s.closers[i]())
	}

	s.closers = nil
	return
}

// Options customises Open.
type Options struct {
	// Loader provides S3 clients and bucket settings. Required for s3:// names.
	Loader *config.Loader

	// Download makes S3 objects be downloaded to a temporary file with manager.Downloader first instead of being read
	// with ranged GetObject calls.
	Download bool

	// Logger is used for status messages. By default, log.Default is used.
	Logger *log.Logger

	// Progress, if given, is called once the size of the raw input is known (-1 if unknown), and the returned writer
	// receives a copy of every byte read from the raw input.
	Progress func(size int64) io.Writer

	// NewS3Client overrides how the S3 client is created; used in tests.
	NewS3Client func(ctx context.Context, bucket string) (S3Client, error)
}

// S3Client abstracts the S3 APIs that Open uses.
type S3Client interface {
	s3readseeker.ReadSeekerClient
	manager.DownloadAPIClient
}

// Open opens the named input.
//
// name is either a local file or an s3://bucket/key URI. If the name ends with a known compression extension (see
// codec.FromName), or the content is identified as a compressed stream, the returned Source decompresses on the fly.
func Open(ctx context.Context, name string, optFns ...func(*Options)) (s *Source, err error) {
	opts := &Options{Logger: log.Default()}
	for _, fn := range optFns {
		fn(opts)
	}
	if opts.NewS3Client == nil {
		opts.NewS3Client = func(ctx context.Context, bucket string) (S3Client, error) {
			if opts.Loader == nil {
				opts.Loader = &config.Loader{}
			}

			return opts.Loader.NewS3ClientForBucket(ctx, bucket)
		}
	}

	s = &Source{Name: name, Size: -1}
	defer func() {
		if err != nil {
			_ = s.Close()
			s = nil
		}
	}()

	if bucket, key, ok := strings.Cut(strings.TrimPrefix(name, "s3://"), "/"); strings.HasPrefix(name, "s3://") {
		if !ok || bucket == "" || key == "" {
			return s, fmt.Errorf(`%w: "%s"`, ErrUnsupportedLocation, name)
		}

		if err = s.openS3(ctx, opts, bucket, key); err != nil {
			return s, err
		}
	} else if err = s.openFile(name); err != nil {
		return s, err
	}

	if opts.Progress != nil {
		s.Reader = io.TeeReader(s.Reader, opts.Progress(s.Size))
	}

	return s, s.decompress(ctx, opts)
}

func (s *Source) openFile(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf(`open file "%s" error: %w`, name, err)
	}
	s.closers = append(s.closers, f.Close)

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf(`stat file "%s" error: %w`, name, err)
	}

	s.Reader, s.Size = f, fi.Size()
	return nil
}

func (s *Source) openS3(ctx context.Context, opts *Options, bucket, key string) error {
	client, err := opts.NewS3Client(ctx, bucket)
	if err != nil {
		return fmt.Errorf(`create S3 client for bucket "%s" error: %w`, bucket, err)
	}

	var owner *string
	if opts.Loader != nil {
		owner = opts.Loader.ForBucket(bucket).ExpectedBucketOwner
	}

	if opts.Download {
		return s.download(ctx, opts, client, bucket, key, owner)
	}

	r, err := s3readseeker.New(client, bucket, key, func(o *s3readseeker.Options) {
		o.ExpectedBucketOwner = owner
		o.CtxFn = func() context.Context {
			return ctx
		}
	})
	if err != nil {
		return fmt.Errorf(`open "s3://%s/%s" error: %w`, bucket, key, err)
	}

	s.Reader, s.Size = r, r.Size()
	return nil
}

// download spools the object to a temporary file that is removed when the Source is closed.
func (s *Source) download(ctx context.Context, opts *Options, client S3Client, bucket, key string, owner *string) error {
	f, err := os.CreateTemp("", "zipdump-*-"+path.Base(key))
	if err != nil {
		return fmt.Errorf("create temporary file error: %w", err)
	}
	s.closers = append(s.closers, func() error {
		return os.Remove(f.Name())
	}, f.Close)

	headObjectOutput, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket:              aws.String(bucket),
		Key:                 aws.String(key),
		ExpectedBucketOwner: owner,
	})
	if err != nil {
		return fmt.Errorf(`head "s3://%s/%s" error: %w`, bucket, key, err)
	}

	size := aws.ToInt64(headObjectOutput.ContentLength)
	parts := (size + manager.DefaultDownloadPartSize - 1) / manager.DefaultDownloadPartSize

	opts.Logger.Printf(`downloading "s3://%s/%s" (%s) to "%s"`, bucket, key, humanize.IBytes(uint64(size)), f.Name())

	n, err := manager.NewDownloader(client, logParts(opts.Logger, int32(parts))).Download(ctx, f, &s3.GetObjectInput{
		Bucket:              aws.String(bucket),
		Key:                 aws.String(key),
		ExpectedBucketOwner: owner,
	})
	if err != nil {
		return fmt.Errorf(`download "s3://%s/%s" error: %w`, bucket, key, err)
	}

	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind temporary file error: %w", err)
	}

	s.Reader, s.Size = f, n
	return nil
}

// decompress wraps the raw input with a decoder if it is compressed.
//
// The extension is trusted first. Otherwise, the content is sniffed; archive formats (including ZIP itself) are left
// alone since only stream compression can be undone here.
func (s *Source) decompress(ctx context.Context, opts *Options) error {
	if c := codec.FromName(s.Name); c != nil {
		dec, err := c.NewDecoder(s.Reader)
		if err != nil {
			return fmt.Errorf("create %s decoder error: %w", c.Ext(), err)
		}

		s.Reader, s.Format = dec, c.Ext()
		s.closers = append(s.closers, dec.Close)
		return nil
	}

	format, r, err := archives.Identify(ctx, path.Base(s.Name), s.Reader)
	switch {
	case errors.Is(err, archives.NoMatch):
		s.Reader = r
		return nil
	case err != nil:
		return fmt.Errorf("identify format error: %w", err)
	}

	s.Reader = r

	dec, ok := format.(archives.Decompressor)
	if !ok {
		return nil
	}

	rc, err := dec.OpenReader(r)
	if err != nil {
		return fmt.Errorf("create %s decoder error: %w", format.Extension(), err)
	}

	opts.Logger.Printf("decompressing %s stream", format.Extension())
	s.Reader, s.Format = rc, format.Extension()
	s.closers = append(s.closers, rc.Close)
	return nil
}
