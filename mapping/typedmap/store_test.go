package typedmap_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dogmatiq/dirmap/driver/dir/dirmap"
	"github.com/dogmatiq/dirmap/driver/memory/memorymap"
	"github.com/dogmatiq/dirmap/mapping"
	. "github.com/dogmatiq/dirmap/mapping/typedmap"
	"github.com/dogmatiq/dirmap/marshal"
	"github.com/google/go-cmp/cmp"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func TestStore(t *testing.T) {
	t.Parallel()

	store := Store[point, marshal.JSON[point]]{
		Store: &memorymap.Store{},
	}

	m, err := store.Open(t.Context(), "<name>")
	if err != nil {
		t.Fatal(err)
	}

	pairs := map[string]point{
		"one": {1, 1},
		"two": {2, 2},
	}

	for k, v := range pairs {
		if err := m.Set(t.Context(), k, v); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("it ranges over the unmarshaled values", func(t *testing.T) {
		got := map[string]point{}

		if err := m.Range(
			t.Context(),
			func(_ context.Context, k string, v point) (bool, error) {
				got[k] = v
				return true, nil
			},
		); err != nil {
			t.Fatal(err)
		}

		if diff := cmp.Diff(pairs, got); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("it returns values in the same order as the keys", func(t *testing.T) {
		keys, err := m.Keys(t.Context())
		if err != nil {
			t.Fatal(err)
		}

		values, err := m.Values(t.Context())
		if err != nil {
			t.Fatal(err)
		}

		var want []point
		for _, k := range keys {
			want = append(want, pairs[k])
		}

		if diff := cmp.Diff(want, values); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("it returns the default for missing keys", func(t *testing.T) {
		def := point{-1, -1}

		v, err := m.GetOrDefault(t.Context(), "missing", def)
		if err != nil {
			t.Fatal(err)
		}

		if v != def {
			t.Fatalf("unexpected value: got %v, want %v", v, def)
		}

		v, err = m.PopOrDefault(t.Context(), "missing", def)
		if err != nil {
			t.Fatal(err)
		}

		if v != def {
			t.Fatalf("unexpected value: got %v, want %v", v, def)
		}
	})

	t.Run("it reports missing keys as not found", func(t *testing.T) {
		if _, err := m.Get(t.Context(), "missing"); !mapping.IsNotFound(err) {
			t.Fatalf("expected key-not-found error, got %v", err)
		}
	})
}

func TestMapping_mutation(t *testing.T) {
	t.Parallel()

	store := Store[point, marshal.JSON[point]]{
		Store: &memorymap.Store{},
	}

	m, err := store.Open(t.Context(), "<name>")
	if err != nil {
		t.Fatal(err)
	}

	v, err := m.SetIfAbsent(t.Context(), "origin", point{})
	if err != nil {
		t.Fatal(err)
	}

	if v != (point{}) {
		t.Fatalf("unexpected value: got %v", v)
	}

	v, err = m.SetIfAbsent(t.Context(), "origin", point{9, 9})
	if err != nil {
		t.Fatal(err)
	}

	if v != (point{}) {
		t.Fatalf("expected existing value to be kept, got %v", v)
	}

	v, err = m.PopOrDefault(t.Context(), "origin", point{9, 9})
	if err != nil {
		t.Fatal(err)
	}

	if v != (point{}) {
		t.Fatalf("unexpected value: got %v", v)
	}

	ok, err := m.Has(t.Context(), "origin")
	if err != nil {
		t.Fatal(err)
	}

	if ok {
		t.Fatal("expected key to be removed")
	}
}

func TestMapping_invalidText(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	store := Store[point, marshal.JSON[point]]{
		Store: &dirmap.Store{Root: root},
	}

	m, err := store.Open(t.Context(), "points")
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(root, "points", "bad.json"), []byte("<not json>"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Get(t.Context(), "bad.json"); err == nil {
		t.Fatal("expected an error")
	}

	if err := m.Range(
		t.Context(),
		func(context.Context, string, point) (bool, error) {
			t.Fatal("unexpected call")
			return false, nil
		},
	); err == nil {
		t.Fatal("expected an error")
	}
}
