package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-ini/ini"
)

// Name is the name of the configuration file that Load looks for.
const Name = ".zipdump"

// Loader can be used for loading .zipdump configuration as well as overridden with default settings.
type Loader struct {
	// Profile is the AWS profile to use, taking precedence over bucket-based AWS profile setting.
	Profile string

	cfg           *ini.File
	s3clientCache sync.Map
}

// Load will traverse the directory hierarchy upwards from the working directory to find the first ".zipdump" file
// available and load its contents into the Loader.
//
// The name of the .zipdump file is returned, or empty string if none was found.
func (l *Loader) Load(ctx context.Context) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory error: %w", err)
	}

	return l.LoadFrom(ctx, dir)
}

// LoadFrom is a variant of Load that starts the search from the given directory.
func (l *Loader) LoadFrom(ctx context.Context, dir string) (string, error) {
	l.cfg = ini.Empty()

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		path := filepath.Join(dir, Name)
		fi, err := os.Stat(path)
		switch {
		case err == nil && !fi.IsDir():
			if l.cfg, err = ini.Load(path); err != nil {
				l.cfg = ini.Empty()
				return path, fmt.Errorf(`load config "%s" error: %w`, path, err)
			}

			return path, nil
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf(`stat "%s" error: %w`, path, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}

		dir = parent
	}
}

// DumpConfig contains the defaults for the dump command.
//
// Settings that are not present in the file are left nil.
type DumpConfig struct {
	FullDump         *bool
	Quiet            *bool
	OmitRepeatedRows *bool
	OutputDir        string
}

// ForDump returns the settings from the [dump] section.
func (l *Loader) ForDump() (c DumpConfig) {
	if l.cfg == nil {
		return
	}

	sec, err := l.cfg.GetSection("dump")
	if err != nil {
		return
	}

	c.FullDump = boolKey(sec, "full-dump")
	c.Quiet = boolKey(sec, "quiet")
	c.OmitRepeatedRows = boolKey(sec, "omit")
	c.OutputDir = sec.Key("output-dir").String()

	return
}

func boolKey(sec *ini.Section, name string) *bool {
	if !sec.HasKey(name) {
		return nil
	}

	v, err := sec.Key(name).Bool()
	if err != nil {
		return nil
	}

	return &v
}

// BucketConfig contains configuration settings for a specific bucket.
type BucketConfig struct {
	Bucket              string
	AWSProfile          string
	ExpectedBucketOwner *string
}

// ForBucket returns configuration for a specific bucket from its [s3://bucket] section.
func (l *Loader) ForBucket(bucket string) (c BucketConfig) {
	c.Bucket = bucket

	if l.cfg == nil {
		return
	}

	sec, err := l.cfg.GetSection("s3://" + bucket)
	if err != nil {
		return
	}

	c.AWSProfile = sec.Key("aws-profile").String()

	if sec.HasKey("expected-bucket-owner") {
		v := sec.Key("expected-bucket-owner").String()
		c.ExpectedBucketOwner = &v
	}

	return
}
