package marshal_test

import (
	"math/big"
	"testing"

	. "github.com/dogmatiq/dirmap/marshal"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type record struct {
	Name  string   `json:"name" yaml:"name"`
	Tags  []string `json:"tags" yaml:"tags"`
	Count int      `json:"count" yaml:"count"`
}

type label string

func TestMarshalers(t *testing.T) {
	t.Parallel()

	t.Run("String", func(t *testing.T) {
		t.Parallel()
		roundTrip(t, String, "Hello, my name is Michael!\n", "Hello, my name is Michael!\n")
	})

	t.Run("Convert", func(t *testing.T) {
		t.Parallel()
		roundTrip(t, Convert[label]{}, label("<label>"), "<label>")
	})

	t.Run("JSON", func(t *testing.T) {
		t.Parallel()
		roundTrip(
			t,
			JSON[record]{},
			record{Name: "widget", Tags: []string{"a", "b"}, Count: 3},
			`{"name":"widget","tags":["a","b"],"count":3}`,
		)
	})

	t.Run("YAML", func(t *testing.T) {
		t.Parallel()
		roundTrip(
			t,
			YAML[record]{},
			record{Name: "widget", Tags: []string{"a", "b"}, Count: 3},
			"name: widget\ntags:\n    - a\n    - b\ncount: 3\n",
		)
	})

	t.Run("Text", func(t *testing.T) {
		t.Parallel()

		m := Text[*big.Int, big.Int]{}

		want := big.NewInt(0)
		want.Exp(big.NewInt(2), big.NewInt(100), nil)

		text, err := m.Marshal(want)
		if err != nil {
			t.Fatal(err)
		}

		if text != "1267650600228229401496703205376" {
			t.Fatalf("unexpected text: %q", text)
		}

		got, err := m.Unmarshal(text)
		if err != nil {
			t.Fatal(err)
		}

		if got.Cmp(want) != 0 {
			t.Fatalf("unexpected value: got %s, want %s", got, want)
		}

		if _, err := m.Unmarshal("<not a number>"); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("ProtoJSON", func(t *testing.T) {
		t.Parallel()

		m := ProtoJSON[*structpb.Struct, structpb.Struct]{}

		want, err := structpb.NewStruct(map[string]any{
			"name":  "<name>",
			"count": 3,
		})
		if err != nil {
			t.Fatal(err)
		}

		text, err := m.Marshal(want)
		if err != nil {
			t.Fatal(err)
		}

		got, err := m.Unmarshal(text)
		if err != nil {
			t.Fatal(err)
		}

		if diff := cmp.Diff(want, got, protocmp.Transform()); diff != "" {
			t.Fatal(diff)
		}

		if _, err := (ProtoJSON[*wrapperspb.StringValue, wrapperspb.StringValue]{}).Unmarshal("{"); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func roundTrip[T any](
	t *testing.T,
	m Marshaler[T],
	v T,
	want string,
) {
	t.Helper()

	text, err := m.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}

	if text != want {
		t.Fatalf("unexpected text: got %q, want %q", text, want)
	}

	got, err := m.Unmarshal(text)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(v, got); diff != "" {
		t.Fatal(diff)
	}
}
