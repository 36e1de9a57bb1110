package dirmap_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	. "github.com/dogmatiq/dirmap/driver/dir/dirmap"
	"github.com/dogmatiq/dirmap/mapping"
	"github.com/google/go-cmp/cmp"
)

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("it creates the directory if it does not exist", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "tmp")

		m, err := Open(t.Context(), dir)
		if err != nil {
			t.Fatal(err)
		}

		info, err := os.Stat(dir)
		if err != nil {
			t.Fatal(err)
		}

		if !info.IsDir() {
			t.Fatalf("expected %q to be a directory", dir)
		}

		if m.Name() != dir {
			t.Fatalf("unexpected name: got %q, want %q", m.Name(), dir)
		}

		if m.Dir() != dir {
			t.Fatalf("unexpected directory: got %q, want %q", m.Dir(), dir)
		}
	})

	t.Run("it uses the permissions given by WithDirMode", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "tmp")

		if _, err := Open(t.Context(), dir, WithDirMode(0o700)); err != nil {
			t.Fatal(err)
		}

		info, err := os.Stat(dir)
		if err != nil {
			t.Fatal(err)
		}

		if got := info.Mode().Perm() &^ 0o700; got != 0 {
			t.Fatalf("unexpected permissions: %s", info.Mode().Perm())
		}
	})

	t.Run("it does not create missing parent directories", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "missing", "tmp")

		if _, err := Open(t.Context(), dir); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("it returns an error if the path is not a directory", func(t *testing.T) {
		t.Parallel()

		p := filepath.Join(t.TempDir(), "file")
		writeFile(t, p, "<content>")

		if _, err := Open(t.Context(), p); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("it treats existing files as entries", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "first.txt"), "one")
		writeFile(t, filepath.Join(dir, "second.txt"), "two")

		m, err := Open(t.Context(), dir)
		if err != nil {
			t.Fatal(err)
		}

		expectLen(t, m, 2)
		expectValue(t, m, "first.txt", "one")
		expectValue(t, m, "second.txt", "two")
	})

	t.Run("it returns an error if the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		if _, err := Open(ctx, t.TempDir()); !errors.Is(err, context.Canceled) {
			t.Fatalf("unexpected error: got %v, want %v", err, context.Canceled)
		}
	})
}

func TestMapping(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*Mapping, string) {
		dir := t.TempDir()

		m, err := Open(t.Context(), dir)
		if err != nil {
			t.Fatal(err)
		}

		return m, dir
	}

	t.Run("it operates on the files in the directory", func(t *testing.T) {
		t.Parallel()

		m, _ := setup(t)

		expectLen(t, m, 0)

		if err := m.Set(t.Context(), "first.txt", "one"); err != nil {
			t.Fatal(err)
		}

		if err := m.Set(t.Context(), "second.txt", "two"); err != nil {
			t.Fatal(err)
		}

		expectLen(t, m, 2)
		expectValue(t, m, "first.txt", "one")

		keys, err := m.Keys(t.Context())
		if err != nil {
			t.Fatal(err)
		}

		slices.Sort(keys)

		if diff := cmp.Diff([]string{"first.txt", "second.txt"}, keys); diff != "" {
			t.Fatal(diff)
		}

		v, err := m.Delete(t.Context(), "first.txt")
		if err != nil {
			t.Fatal(err)
		}

		if v != "one" {
			t.Fatalf("unexpected deleted value: got %q, want %q", v, "one")
		}

		expectLen(t, m, 1)
	})

	t.Run("it does not cache values", func(t *testing.T) {
		t.Parallel()

		m, dir := setup(t)

		if err := m.Set(t.Context(), "first.txt", "some info"); err != nil {
			t.Fatal(err)
		}

		expectValue(t, m, "first.txt", "some info")

		writeFile(t, filepath.Join(dir, "first.txt"), "new info")

		expectValue(t, m, "first.txt", "new info")
	})

	t.Run("it does not cache keys", func(t *testing.T) {
		t.Parallel()

		m, dir := setup(t)

		expectLen(t, m, 0)

		writeFile(t, filepath.Join(dir, "external.txt"), "<value>")

		expectLen(t, m, 1)
		expectValue(t, m, "external.txt", "<value>")

		if err := os.Remove(filepath.Join(dir, "external.txt")); err != nil {
			t.Fatal(err)
		}

		expectLen(t, m, 0)

		_, err := m.Get(t.Context(), "external.txt")
		if !mapping.IsNotFound(err) {
			t.Fatalf("expected key-not-found error, got %v", err)
		}
	})

	t.Run("it shares entries with other mappings of the same directory", func(t *testing.T) {
		t.Parallel()

		m1, dir := setup(t)

		m2, err := Open(t.Context(), dir)
		if err != nil {
			t.Fatal(err)
		}

		if err := m1.Set(t.Context(), "key", "<value>"); err != nil {
			t.Fatal(err)
		}

		expectValue(t, m2, "key", "<value>")
	})

	t.Run("it writes values as the entire content of the file", func(t *testing.T) {
		t.Parallel()

		m, dir := setup(t)

		if err := m.Set(t.Context(), "key", "<a much longer value>"); err != nil {
			t.Fatal(err)
		}

		if err := m.Set(t.Context(), "key", "<short>"); err != nil {
			t.Fatal(err)
		}

		data, err := os.ReadFile(filepath.Join(dir, "key"))
		if err != nil {
			t.Fatal(err)
		}

		if got, want := string(data), "<short>"; got != want {
			t.Fatalf("unexpected file content: got %q, want %q", got, want)
		}
	})

	t.Run("it uses the permissions given by WithFileMode", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		m, err := Open(t.Context(), dir, WithFileMode(0o600))
		if err != nil {
			t.Fatal(err)
		}

		if err := m.Set(t.Context(), "key", "<value>"); err != nil {
			t.Fatal(err)
		}

		info, err := os.Stat(filepath.Join(dir, "key"))
		if err != nil {
			t.Fatal(err)
		}

		if got := info.Mode().Perm() &^ 0o600; got != 0 {
			t.Fatalf("unexpected permissions: %s", info.Mode().Perm())
		}
	})

	t.Run("it stores the text representation of non-text values", func(t *testing.T) {
		t.Parallel()

		m, _ := setup(t)

		if err := mapping.SetValue(t.Context(), m, "list.txt", []int{1, 2, 3, 4, 5}); err != nil {
			t.Fatal(err)
		}

		expectValue(t, m, "list.txt", "[1 2 3 4 5]")

		if err := mapping.SetValue(t.Context(), m, "info.txt", someInformation{}); err != nil {
			t.Fatal(err)
		}

		expectValue(t, m, "info.txt", "Hello, my name is Michael!")
	})

	t.Run("it ignores subdirectories", func(t *testing.T) {
		t.Parallel()

		m, dir := setup(t)

		if err := os.Mkdir(filepath.Join(dir, "subdir"), 0o755); err != nil {
			t.Fatal(err)
		}

		expectLen(t, m, 0)

		ok, err := m.Has(t.Context(), "subdir")
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Fatal("did not expect a subdirectory to be treated as a key")
		}

		_, err = m.Get(t.Context(), "subdir")
		if !mapping.IsNotFound(err) {
			t.Fatalf("expected key-not-found error, got %v", err)
		}

		_, err = m.Delete(t.Context(), "subdir")
		if !mapping.IsNotFound(err) {
			t.Fatalf("expected key-not-found error, got %v", err)
		}

		if err := m.Clear(t.Context()); err != nil {
			t.Fatal(err)
		}

		if _, err := os.Stat(filepath.Join(dir, "subdir")); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("it treats symbolic links to regular files as entries", func(t *testing.T) {
		t.Parallel()

		m, dir := setup(t)

		target := filepath.Join(t.TempDir(), "target")
		writeFile(t, target, "<value>")

		if err := os.Symlink(target, filepath.Join(dir, "link")); err != nil {
			t.Skipf("unable to create symbolic link: %s", err)
		}

		expectLen(t, m, 1)
		expectValue(t, m, "link", "<value>")
	})

	t.Run("it rejects keys that are not single file names", func(t *testing.T) {
		t.Parallel()

		m, _ := setup(t)

		for _, k := range []string{
			".",
			"..",
			"a/b",
			"../escape",
		} {
			if _, err := m.Get(t.Context(), k); !mapping.IsInvalidKey(err) {
				t.Errorf("expected invalid-key error from Get(%q), got %v", k, err)
			}

			if err := m.Set(t.Context(), k, "<value>"); !mapping.IsInvalidKey(err) {
				t.Errorf("expected invalid-key error from Set(%q), got %v", k, err)
			}

			if _, err := m.Delete(t.Context(), k); !mapping.IsInvalidKey(err) {
				t.Errorf("expected invalid-key error from Delete(%q), got %v", k, err)
			}
		}
	})

	t.Run("it rejects empty keys", func(t *testing.T) {
		t.Parallel()

		m, _ := setup(t)

		if _, err := m.Get(t.Context(), ""); !mapping.IsInvalidKey(err) {
			t.Fatalf("expected invalid-key error, got %v", err)
		}

		if err := m.Set(t.Context(), "", "test"); !mapping.IsInvalidKey(err) {
			t.Fatalf("expected invalid-key error, got %v", err)
		}

		if _, err := m.Delete(t.Context(), ""); !mapping.IsInvalidKey(err) {
			t.Fatalf("expected invalid-key error, got %v", err)
		}
	})

	t.Run("it skips entries removed while ranging", func(t *testing.T) {
		t.Parallel()

		m, dir := setup(t)

		writeFile(t, filepath.Join(dir, "first.txt"), "one")
		writeFile(t, filepath.Join(dir, "second.txt"), "two")
		writeFile(t, filepath.Join(dir, "third.txt"), "three")

		var visited []string

		if err := m.Range(
			t.Context(),
			func(ctx context.Context, k, _ string) (bool, error) {
				visited = append(visited, k)
				return true, m.Clear(ctx)
			},
		); err != nil {
			t.Fatal(err)
		}

		if len(visited) != 1 {
			t.Fatalf("expected exactly one pair to be visited, got %q", visited)
		}
	})

	t.Run("it reads each value when its pair is visited", func(t *testing.T) {
		t.Parallel()

		m, dir := setup(t)

		writeFile(t, filepath.Join(dir, "first.txt"), "one")
		writeFile(t, filepath.Join(dir, "second.txt"), "two")

		got := map[string]string{}

		if err := m.Range(
			t.Context(),
			func(_ context.Context, k, v string) (bool, error) {
				got[k] = v

				for _, other := range []string{"first.txt", "second.txt"} {
					if _, ok := got[other]; !ok {
						writeFile(t, filepath.Join(dir, other), "<updated>")
					}
				}

				return true, nil
			},
		); err != nil {
			t.Fatal(err)
		}

		updated := 0
		for _, v := range got {
			if v == "<updated>" {
				updated++
			}
		}

		if updated != 1 {
			t.Fatalf("expected exactly one value to reflect the update, got %q", got)
		}
	})

	t.Run("it returns an error if the context is canceled", func(t *testing.T) {
		t.Parallel()

		m, _ := setup(t)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		if err := m.Set(ctx, "key", "<value>"); !errors.Is(err, context.Canceled) {
			t.Fatalf("unexpected error: got %v, want %v", err, context.Canceled)
		}

		expectLen(t, m, 0)
	})
}

type someInformation struct{}

func (someInformation) String() string {
	return "Hello, my name is Michael!"
}

func writeFile(t *testing.T, p, content string) {
	t.Helper()

	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func expectValue(t *testing.T, m mapping.Mapping, k, want string) {
	t.Helper()

	got, err := m.Get(t.Context(), k)
	if err != nil {
		t.Fatal(err)
	}

	if got != want {
		t.Fatalf("unexpected value for key %q: got %q, want %q", k, got, want)
	}
}

func expectLen(t *testing.T, m mapping.Mapping, want int) {
	t.Helper()

	got, err := m.Len(t.Context())
	if err != nil {
		t.Fatal(err)
	}

	if got != want {
		t.Fatalf("unexpected length: got %d, want %d", got, want)
	}
}
