package mapping_test

import (
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/dogmatiq/dirmap/driver/memory/memorymap"
	. "github.com/dogmatiq/dirmap/mapping"
)

type greeting struct{}

type failure struct{}

func (failure) Error() string  { return "<error-form>" }
func (failure) String() string { return "<string-form>" }

func (greeting) String() string {
	return "Hello, my name is Michael!"
}

func TestStringify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		Desc  string
		Value any
		Want  string
	}{
		{"string", "<value>", "<value>"},
		{"empty string", "", ""},
		{"stringer", greeting{}, "Hello, my name is Michael!"},
		{"text marshaler", netip.MustParseAddr("192.0.2.1"), "192.0.2.1"},
		{"error", errors.New("<error>"), "<error>"},
		{"int", 42, "42"},
		{"slice", []int{1, 2, 3, 4, 5}, "[1 2 3 4 5]"},
		{"nil", nil, "<nil>"},
		{"nil pointer with value-receiver String method", (*time.Time)(nil), "<nil>"},
		{"nil pointer with value-receiver MarshalText method", (*netip.Addr)(nil), "<nil>"},
		{"error and stringer", failure{}, "<error-form>"},
	}

	for _, c := range cases {
		t.Run(c.Desc, func(t *testing.T) {
			t.Parallel()

			if got := Stringify(c.Value); got != c.Want {
				t.Fatalf("unexpected text: got %q, want %q", got, c.Want)
			}
		})
	}
}

func TestSetValue(t *testing.T) {
	t.Parallel()

	m, err := (&memorymap.Store{}).Open(t.Context(), "<mapping>")
	if err != nil {
		t.Fatal(err)
	}

	if err := SetValue(t.Context(), m, "list.txt", []int{1, 2, 3, 4, 5}); err != nil {
		t.Fatal(err)
	}

	got, err := m.Get(t.Context(), "list.txt")
	if err != nil {
		t.Fatal(err)
	}

	if want := "[1 2 3 4 5]"; got != want {
		t.Fatalf("unexpected value: got %q, want %q", got, want)
	}

	if err := SetValue(t.Context(), m, "", 1); !IsInvalidKey(err) {
		t.Fatalf("expected invalid-key error, got %v", err)
	}
}
