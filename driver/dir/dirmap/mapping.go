package dirmap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dogmatiq/dirmap/internal/x/xerrors"
	"github.com/dogmatiq/dirmap/mapping"
)

// Mapping is an implementation of [mapping.Mapping] that stores each entry as
// a regular file within a directory. The file name is the key and the file
// content is the value.
//
// It does not cache anything. Every operation reads from or writes to the
// directory directly, and writes are flushed to stable storage before
// returning. No locking is performed; concurrent writers to the same key race
// and the last write wins.
type Mapping struct {
	name     string
	dir      string
	fileMode fs.FileMode
}

var _ mapping.Mapping = (*Mapping)(nil)

// Name returns the name of the mapping.
func (m *Mapping) Name() string {
	return m.name
}

// Dir returns the directory that contains the mapping's entries.
func (m *Mapping) Dir() string {
	return m.dir
}

// Len returns the number of entries in the mapping.
func (m *Mapping) Len(ctx context.Context) (n int, err error) {
	defer xerrors.Wrap(&err, "unable to count the entries in the %q mapping", m.name)

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	keys, err := m.list()
	return len(keys), err
}

// Get returns the content of the file named k.
func (m *Mapping) Get(ctx context.Context, k string) (v string, err error) {
	defer xerrors.Wrap(&err, "unable to get %q from the %q mapping", k, m.name)

	p, err := m.path(k)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, ok, err := readFile(p)
	if err != nil {
		return "", err
	}

	if !ok {
		return "", mapping.KeyNotFoundError{
			Mapping: m.name,
			Key:     k,
		}
	}

	return string(data), nil
}

// Has returns true if there is a regular file named k.
func (m *Mapping) Has(ctx context.Context, k string) (ok bool, err error) {
	defer xerrors.Wrap(&err, "unable to check for %q in the %q mapping", k, m.name)

	p, err := m.path(k)
	if err != nil {
		return false, err
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}

	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return info.Mode().IsRegular(), nil
}

// Set replaces the content of the file named k with v, creating the file if
// necessary.
func (m *Mapping) Set(ctx context.Context, k, v string) (err error) {
	defer xerrors.Wrap(&err, "unable to set %q in the %q mapping", k, m.name)

	p, err := m.path(k)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return writeFile(p, v, m.fileMode)
}

// Delete removes the file named k and returns its content.
func (m *Mapping) Delete(ctx context.Context, k string) (v string, err error) {
	defer xerrors.Wrap(&err, "unable to delete %q from the %q mapping", k, m.name)

	p, err := m.path(k)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, ok, err := readFile(p)
	if err != nil {
		return "", err
	}

	if ok {
		err = os.Remove(p)
		if errors.Is(err, fs.ErrNotExist) {
			ok = false
		} else if err != nil {
			return "", err
		}
	}

	if !ok {
		return "", mapping.KeyNotFoundError{
			Mapping: m.name,
			Key:     k,
		}
	}

	return string(data), nil
}

// RangeKeys invokes fn for the name of each regular file in the directory.
func (m *Mapping) RangeKeys(ctx context.Context, fn mapping.KeyFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	keys, err := m.list()
	if err != nil {
		return fmt.Errorf("unable to range over the keys in the %q mapping: %w", m.name, err)
	}

	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}

		ok, err := fn(ctx, k)
		if !ok || err != nil {
			return err
		}
	}

	return nil
}

// Range invokes fn for the name and content of each regular file in the
// directory.
func (m *Mapping) Range(ctx context.Context, fn mapping.RangeFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	keys, err := m.list()
	if err != nil {
		return fmt.Errorf("unable to range over the entries in the %q mapping: %w", m.name, err)
	}

	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, ok, err := readFile(m.join(k))
		if err != nil {
			return fmt.Errorf("unable to read %q from the %q mapping: %w", k, m.name, err)
		}

		if !ok {
			continue
		}

		ok, err = fn(ctx, k, string(data))
		if !ok || err != nil {
			return err
		}
	}

	return nil
}

// Keys returns the names of the regular files in the directory.
func (m *Mapping) Keys(ctx context.Context) (keys []string, err error) {
	defer xerrors.Wrap(&err, "unable to list the keys in the %q mapping", m.name)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return m.list()
}

// Values returns the content of each regular file in the directory.
func (m *Mapping) Values(ctx context.Context) ([]string, error) {
	return mapping.CollectValues(ctx, m)
}

// Clear removes every regular file from the directory.
func (m *Mapping) Clear(ctx context.Context) (err error) {
	defer xerrors.Wrap(&err, "unable to clear the %q mapping", m.name)

	if err := ctx.Err(); err != nil {
		return err
	}

	keys, err := m.list()
	if err != nil {
		return err
	}

	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := os.Remove(m.join(k)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

// GetOrDefault returns the content of the file named k, or def if there is no
// such file.
func (m *Mapping) GetOrDefault(ctx context.Context, k, def string) (string, error) {
	return mapping.GetOrDefault(ctx, m, k, def)
}

// PopOrDefault removes the file named k and returns its content, or def if
// there is no such file.
func (m *Mapping) PopOrDefault(ctx context.Context, k, def string) (string, error) {
	return mapping.PopOrDefault(ctx, m, k, def)
}

// SetIfAbsent returns the content of the file named k, first creating it with
// def as its content if it does not exist.
func (m *Mapping) SetIfAbsent(ctx context.Context, k, def string) (string, error) {
	return mapping.SetIfAbsent(ctx, m, k, def)
}
