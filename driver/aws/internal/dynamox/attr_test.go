package dynamox_test

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	. "github.com/dogmatiq/dirmap/driver/aws/internal/dynamox"
)

func TestStringAttr(t *testing.T) {
	t.Parallel()

	item := map[string]types.AttributeValue{
		"S": &types.AttributeValueMemberS{Value: "<value>"},
		"N": &types.AttributeValueMemberN{Value: "123"},
	}

	t.Run("it returns the value of a string attribute", func(t *testing.T) {
		t.Parallel()

		got, err := StringAttr(item, "S")
		if err != nil {
			t.Fatal(err)
		}

		if got != "<value>" {
			t.Fatalf("unexpected value: got %q, want %q", got, "<value>")
		}
	})

	t.Run("it returns an error if the attribute is missing", func(t *testing.T) {
		t.Parallel()

		_, err := StringAttr(item, "X")
		if err == nil {
			t.Fatal("expected an error")
		}

		if got, want := err.Error(), `malformed item: no "X" attribute`; got != want {
			t.Fatalf("unexpected error: got %q, want %q", got, want)
		}
	})

	t.Run("it returns an error if the attribute is not a string", func(t *testing.T) {
		t.Parallel()

		_, err := StringAttr(item, "N")
		if err == nil {
			t.Fatal("expected an error")
		}

		if got, want := err.Error(), `malformed item: "N" attribute is *types.AttributeValueMemberN, expected a string`; got != want {
			t.Fatalf("unexpected error: got %q, want %q", got, want)
		}
	})
}
