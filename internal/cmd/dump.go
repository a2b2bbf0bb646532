package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/zipdump"
	"github.com/nguyengg/zipdump/internal"
	"github.com/nguyengg/zipdump/internal/config"
	"github.com/nguyengg/zipdump/internal/source"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Ext is appended to the input's base name to create the name of the transcript file.
const Ext = ".zipdump"

type Dump struct {
	FullDump  bool   `short:"f" long:"full" description:"dump file data and unknown regions as hex instead of skipping them"`
	Quiet     bool   `short:"q" long:"quiet" description:"suppress offsets, skip summaries and interpretive notes"`
	Omit      bool   `short:"o" long:"omit" description:"collapse consecutive identical hex dump rows into a single \" *\" line"`
	Stdout    bool   `short:"s" long:"stdout" description:"write transcripts to stdout instead of .zipdump files"`
	Recursive bool   `short:"r" long:"recursive" description:"also search subdirectories for inputs matching wildcard patterns"`
	Dir       string `short:"d" long:"dir" description:"write .zipdump files to this directory instead of next to the inputs" value-name:"DIR"`
	Progress  bool   `long:"progress" description:"show progress while reading inputs"`
	Download  bool   `long:"download" description:"download S3 objects to a temporary file first instead of reading them with range requests"`
	Profile   string `short:"p" long:"profile" description:"override the AWS profile used for s3:// inputs"`
	Args      struct {
		Files []string `positional-arg-name:"file" description:"the local files, wildcard patterns, or s3://bucket/key URIs to dump" required:"yes"`
	} `positional-args:"yes"`

	loader *config.Loader
	logger *log.Logger
	stdout io.Writer
}

func (c *Dump) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	c.loader = &config.Loader{Profile: c.Profile}
	if name, err := c.loader.Load(ctx); err != nil {
		return err
	} else if name != "" {
		log.Printf(`using config "%s"`, name)
	}
	c.applyDefaults(c.loader.ForDump())

	if c.stdout == nil {
		c.stdout = os.Stdout
	}

	if c.Dir != "" && !c.Stdout {
		if err := os.MkdirAll(c.Dir, 0755); err != nil {
			return fmt.Errorf(`create output directory "%s" error: %w`, c.Dir, err)
		}
	}

	names, err := c.expand()
	if err != nil {
		return err
	}

	success := 0
	n := len(names)
	for i, name := range names {
		c.logger = internal.NewLogger(i+1, n, name)
		c.logger.Printf("start dumping")

		if err = c.dump(ctx, name); err == nil {
			c.logger.Printf("done dumping")
			success++
			continue
		}

		if errors.Is(err, context.Canceled) {
			break
		}

		c.logger.Printf("dump error: %v", err)
	}

	log.Printf("successfully dumped %d/%d files", success, n)
	return nil
}

// applyDefaults lets the [dump] section turn on what the command line did not.
func (c *Dump) applyDefaults(cfg config.DumpConfig) {
	c.FullDump = c.FullDump || isTrue(cfg.FullDump)
	c.Quiet = c.Quiet || isTrue(cfg.Quiet)
	c.Omit = c.Omit || isTrue(cfg.OmitRepeatedRows)
	if c.Dir == "" {
		c.Dir = cfg.OutputDir
	}
}

func isTrue(v *bool) bool {
	return v != nil && *v
}

// expand replaces wildcard patterns with the files they match.
//
// Names without wildcards are kept as-is so that a missing file is reported as a failure for that file. With
// Recursive, a pattern is also applied to every subdirectory of its directory.
func (c *Dump) expand() (names []string, err error) {
	for _, name := range c.Args.Files {
		if strings.HasPrefix(name, "s3://") || !strings.ContainsAny(name, "*?[") {
			names = append(names, name)
			continue
		}

		dir, pattern := filepath.Split(name)
		if dir == "" {
			dir = "."
		}

		err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if p != dir && !c.Recursive {
					return fs.SkipDir
				}
				return nil
			}

			switch ok, err := filepath.Match(pattern, d.Name()); {
			case err != nil:
				return err
			case ok:
				names = append(names, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf(`expand "%s" error: %w`, name, err)
		}
	}

	return names, nil
}

// outputName returns the name of the transcript file for the given input.
//
// S3 inputs are written to the working directory (or Dir) under the base name of their key.
func (c *Dump) outputName(name string) string {
	if strings.HasPrefix(name, "s3://") {
		name = path.Base(name)
	}

	if c.Dir == "" {
		return name + Ext
	}

	return filepath.Join(c.Dir, filepath.Base(name)+Ext)
}

func (c *Dump) dump(ctx context.Context, name string) (err error) {
	var bar *progressbar.ProgressBar
	var pl *internal.ProgressLogger

	src, err := source.Open(ctx, name, func(opts *source.Options) {
		opts.Loader = c.loader
		opts.Download = c.Download
		opts.Logger = c.logger
		if !c.Progress {
			return
		}

		opts.Progress = func(size int64) io.Writer {
			if term.IsTerminal(int(os.Stderr.Fd())) {
				bar = internal.DefaultBytes(size, "dumping")
				return bar
			}

			pl = internal.NewProgressLogger(c.logger, "read", size, 5*time.Second)
			return pl
		}
	})
	if err != nil {
		return err
	}
	defer func() {
		if bar != nil {
			_ = bar.Close()
		}
		if pl != nil {
			_ = pl.Close()
		}
		_ = src.Close()
	}()

	if src.Format != "" {
		c.logger.Printf("input is %s compressed", src.Format)
	}

	var w io.Writer
	if c.Stdout {
		w = c.stdout
		_, _ = fmt.Fprintf(w, "<<< %s >>> begin.\n", name)
		defer func() {
			_, _ = fmt.Fprintf(w, "<<< %s >>> end.\n\n", name)
		}()
	} else {
		var f *os.File
		out := c.outputName(name)
		if f, err = os.Create(out); err != nil {
			return fmt.Errorf(`create output file "%s" error: %w`, out, err)
		}
		defer func() {
			if closeErr := f.Close(); err == nil && closeErr != nil {
				err = fmt.Errorf(`close output file "%s" error: %w`, out, closeErr)
			}
		}()

		c.logger.Printf(`writing to "%s"`, out)
		w = f
	}

	if _, err = fmt.Fprintf(w, "*** zipdump of \"%s\" ***\n", name); err != nil {
		return fmt.Errorf("write heading error: %w", err)
	}

	return zipdump.Dump(&ctxReader{ctx: ctx, r: src}, w, func(opts *zipdump.Options) {
		opts.FullDump = c.FullDump
		opts.Quiet = c.Quiet
		opts.OmitRepeatedRows = c.Omit
	})
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}

	return r.r.Read(p)
}

var _ flags.Commander = (*Dump)(nil)
