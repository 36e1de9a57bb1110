package dirmap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dogmatiq/dirmap/mapping"
)

// Store is an implementation of [mapping.Store] that keeps each mapping in a
// subdirectory of a root directory.
type Store struct {
	// Root is the directory that contains the mapping directories. It must
	// already exist.
	Root string

	// Options is a set of options applied to each mapping opened by the
	// store.
	Options []Option
}

// Open returns the mapping with the given name.
//
// The mapping's directory is created if it does not already exist.
func (s *Store) Open(ctx context.Context, name string) (mapping.Mapping, error) {
	if !isFileName(name) {
		return nil, fmt.Errorf("invalid mapping name %q: must be a single file name", name)
	}

	return open(ctx, name, filepath.Join(s.Root, name), s.Options)
}

// Open returns a mapping that stores its entries in dir.
//
// dir is created if it does not already exist, but its parent must exist. If
// dir already exists, any regular files it contains are treated as existing
// entries.
func Open(ctx context.Context, dir string, options ...Option) (*Mapping, error) {
	return open(ctx, dir, dir, options)
}

// Option is a functional option that changes the behavior of [Open].
type Option func(*config)

type config struct {
	DirMode  fs.FileMode
	FileMode fs.FileMode
}

// WithDirMode is an [Option] that sets the permissions used when creating the
// mapping's directory. The default is 0755.
func WithDirMode(m fs.FileMode) Option {
	return func(c *config) {
		c.DirMode = m
	}
}

// WithFileMode is an [Option] that sets the permissions used when creating a
// file for a new entry. The default is 0644.
func WithFileMode(m fs.FileMode) Option {
	return func(c *config) {
		c.FileMode = m
	}
}

func open(
	ctx context.Context,
	name, dir string,
	options []Option,
) (*Mapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config{
		DirMode:  0o755,
		FileMode: 0o644,
	}

	for _, opt := range options {
		opt(&cfg)
	}

	if err := os.Mkdir(dir, cfg.DirMode); err != nil && !errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("unable to create directory for the %q mapping: %w", name, err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to open the %q mapping: %w", name, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("unable to open the %q mapping: %q is not a directory", name, dir)
	}

	return &Mapping{
		name:     name,
		dir:      dir,
		fileMode: cfg.FileMode,
	}, nil
}
