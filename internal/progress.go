package internal

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"
)

// DefaultBytes is equivalent to progressbar.DefaultBytes but with higher progressbar.OptionThrottle.
func DefaultBytes(maxBytes int64, description string, options ...progressbar.Option) *progressbar.ProgressBar {
	return progressbar.NewOptions64(maxBytes,
		append([]progressbar.Option{
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(10),
			progressbar.OptionThrottle(1 * time.Second),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				_, _ = fmt.Fprint(os.Stderr, "\n")
			}),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetRenderBlankState(true)},
			options...)...)
}

// ProgressLogger is an io.Writer that counts the bytes written to it and logs the running tally every so often.
//
// Use it with io.TeeReader to report how much of a source has been read.
type ProgressLogger struct {
	logger    *log.Logger
	sometimes *rate.Sometimes
	verb      string
	n, size   int64
}

// NewProgressLogger returns a ProgressLogger that logs at most once per interval.
//
// Pass a non-positive size if the total is unknown.
func NewProgressLogger(logger *log.Logger, verb string, size int64, interval time.Duration) *ProgressLogger {
	return &ProgressLogger{
		logger:    logger,
		sometimes: &rate.Sometimes{Interval: interval},
		verb:      verb,
		size:      size,
	}
}

var _ io.WriteCloser = (*ProgressLogger)(nil)

func (l *ProgressLogger) Write(p []byte) (int, error) {
	l.n += int64(len(p))

	l.sometimes.Do(func() {
		if l.size > 0 {
			l.logger.Printf("%s %s / %s so far", l.verb, humanize.IBytes(uint64(l.n)), humanize.IBytes(uint64(l.size)))
		} else {
			l.logger.Printf("%s %s so far", l.verb, humanize.IBytes(uint64(l.n)))
		}
	})

	return len(p), nil
}

// Close logs the final tally.
func (l *ProgressLogger) Close() error {
	l.logger.Printf("%s %s in total", l.verb, humanize.IBytes(uint64(l.n)))
	return nil
}
