package mapping_test

import (
	"testing"

	"github.com/dogmatiq/dirmap/driver/memory/memorymap"
	. "github.com/dogmatiq/dirmap/mapping"
)

func TestWithNameTransform(t *testing.T) {
	var untransformed memorymap.Store

	transformed := WithNameTransform(
		&untransformed,
		func(name string) string {
			return "prefix-" + name
		},
	)

	u, err := untransformed.Open(t.Context(), "prefix-test")
	if err != nil {
		t.Fatal(err)
	}

	x, err := transformed.Open(t.Context(), "test")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("it reports the untransformed name", func(t *testing.T) {
		if got, want := x.Name(), "test"; got != want {
			t.Errorf("unexpected name: got %q, want %q", got, want)
		}
	})

	t.Run("operates on the underlying store with the transformed name", func(t *testing.T) {
		const (
			key   = "<key>"
			value = "<value>"
		)

		if err := x.Set(t.Context(), key, value); err != nil {
			t.Fatal(err)
		}

		got, err := u.Get(t.Context(), key)
		if err != nil {
			t.Fatal(err)
		}

		if got != value {
			t.Errorf("unexpected value: got %q, want %q", got, value)
		}
	})
}
