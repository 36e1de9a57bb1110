package xerrors_test

import (
	"errors"
	"testing"

	. "github.com/dogmatiq/dirmap/internal/x/xerrors"
	"github.com/dogmatiq/dirmap/mapping"
)

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("it adds context to the error", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("<cause>")
		err := cause
		Wrap(&err, "unable to %s", "<operation>")

		if got, want := err.Error(), "unable to <operation>: <cause>"; got != want {
			t.Fatalf("unexpected message: got %q, want %q", got, want)
		}

		if !errors.Is(err, cause) {
			t.Fatal("expected the cause to be preserved")
		}
	})

	t.Run("it ignores nil errors", func(t *testing.T) {
		t.Parallel()

		var err error
		Wrap(&err, "<context>")

		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
	})

	t.Run("it leaves mapping errors unchanged", func(t *testing.T) {
		t.Parallel()

		for _, want := range []error{
			mapping.KeyNotFoundError{Mapping: "<mapping>", Key: "<key>"},
			mapping.InvalidKeyError{Mapping: "<mapping>", Key: "", Reason: "<reason>"},
		} {
			err := want
			Wrap(&err, "<context>")

			if err != want {
				t.Fatalf("unexpected error: got %q, want %q", err, want)
			}
		}
	})
}
