package dirmap

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dogmatiq/dirmap/mapping"
)

// path returns the path of the file that stores the entry for k.
func (m *Mapping) path(k string) (string, error) {
	if err := mapping.ValidateKey(m.name, k); err != nil {
		return "", err
	}

	if !isFileName(k) {
		return "", mapping.InvalidKeyError{
			Mapping: m.name,
			Key:     k,
			Reason:  "key must be a file name without any path separators",
		}
	}

	return m.join(k), nil
}

func (m *Mapping) join(k string) string {
	return filepath.Join(m.dir, k)
}

// list returns the names of the regular files in the directory, in the order
// returned by [os.ReadDir].
func (m *Mapping) list() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if m.isEntry(e) {
			keys = append(keys, e.Name())
		}
	}

	return keys, nil
}

// isEntry returns true if e is a regular file, or a symbolic link that
// resolves to a regular file.
func (m *Mapping) isEntry(e fs.DirEntry) bool {
	t := e.Type()

	if t.IsRegular() {
		return true
	}

	if t&fs.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(m.join(e.Name()))
	return err == nil && info.Mode().IsRegular()
}

// isFileName returns true if n can be used as the name of a file directly
// within a directory.
func isFileName(n string) bool {
	return n != "" &&
		n != "." &&
		filepath.IsLocal(n) &&
		filepath.Base(n) == n
}

// readFile returns the content of the regular file at p.
//
// ok is false if there is no regular file at p. Other file types are never
// opened, as opening a named pipe blocks until it has a writer.
func readFile(p string) (data []byte, ok bool, err error) {
	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	if !info.Mode().IsRegular() {
		return nil, false, nil
	}

	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	defer f.Close()

	// The path may have been replaced since it was checked.
	info, err = f.Stat()
	if err != nil {
		return nil, false, err
	}

	if !info.Mode().IsRegular() {
		return nil, false, nil
	}

	data, err = io.ReadAll(f)
	if err != nil {
		return nil, false, err
	}

	return data, true, nil
}

// writeFile replaces the content of the file at p with v, creating it if
// necessary. The file is synced before it is closed.
//
// It fails without opening p if p exists but is not a regular file.
func writeFile(p, v string, mode fs.FileMode) (err error) {
	if info, err := os.Stat(p); err == nil && !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", p)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	if _, err := io.WriteString(f, v); err != nil {
		return err
	}

	return f.Sync()
}
