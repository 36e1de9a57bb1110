package awsx_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/dogmatiq/dirmap/driver/aws/internal/awsx"
)

type (
	input   struct{ Value string }
	output  struct{ Value string }
	options struct{ Header string }
)

func send(_ context.Context, in *input, optFns ...func(*options)) (output, error) {
	var opts options
	for _, fn := range optFns {
		fn(&opts)
	}
	return output{in.Value + opts.Header}, nil
}

func TestDo(t *testing.T) {
	t.Parallel()

	t.Run("it applies the request hook", func(t *testing.T) {
		t.Parallel()

		out, err := Do(
			t.Context(),
			send,
			func(in any) []func(*options) {
				in.(*input).Value = "<modified>"
				return []func(*options){
					func(o *options) { o.Header = "<header>" },
				}
			},
			&input{"<value>"},
		)
		if err != nil {
			t.Fatal(err)
		}

		if got, want := out.Value, "<modified><header>"; got != want {
			t.Fatalf("unexpected output: got %q, want %q", got, want)
		}
	})

	t.Run("it does not require a request hook", func(t *testing.T) {
		t.Parallel()

		out, err := Do(t.Context(), send, nil, &input{"<value>"})
		if err != nil {
			t.Fatal(err)
		}

		if got, want := out.Value, "<value>"; got != want {
			t.Fatalf("unexpected output: got %q, want %q", got, want)
		}
	})

	t.Run("it does not send the request if the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := Do(
			ctx,
			func(context.Context, *input, ...func(*options)) (output, error) {
				t.Fatal("unexpected call")
				return output{}, nil
			},
			nil,
			&input{},
		)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("unexpected error: got %v, want %v", err, context.Canceled)
		}
	})
}
