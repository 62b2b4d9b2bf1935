// Package logging sets up the file logger. The terminal owns stdout, so
// log output only ever goes to a file, and nowhere when disabled.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	DefaultDir     = "logs"
	DefaultFile    = "termsprite.log"
	DefaultMaxSize = 10 * 1024 * 1024 // 10MB
)

// Options configures Setup
type Options struct {
	Enabled bool
	Dir     string
	File    string
	MaxSize int64 // rotate to <file>.old when exceeded at startup
	Level   zerolog.Level
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup returns the logger and the closer for its file. Disabled logging
// yields zerolog.Nop and a no-op closer
func Setup(opts Options) (zerolog.Logger, io.Closer, error) {
	if !opts.Enabled {
		return zerolog.Nop(), nopCloser{}, nil
	}
	if opts.Dir == "" {
		opts.Dir = DefaultDir
	}
	if opts.File == "" {
		opts.File = DefaultFile
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return zerolog.Nop(), nopCloser{}, errors.Wrap(err, "create log directory")
	}

	path := filepath.Join(opts.Dir, opts.File)
	if err := rotate(path, opts.MaxSize); err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, errors.Wrap(err, "open log file")
	}

	logger := zerolog.New(f).Level(opts.Level).With().Timestamp().Logger()
	return logger, f, nil
}

// rotate moves an oversized log aside, replacing any previous .old file
func rotate(path string, maxSize int64) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "stat log file")
	}
	if info.Size() <= maxSize {
		return nil
	}
	if err := os.Rename(path, path+".old"); err != nil {
		return errors.Wrap(err, "rotate log file")
	}
	return nil
}
