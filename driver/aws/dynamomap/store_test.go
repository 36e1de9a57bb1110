package dynamomap_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	. "github.com/dogmatiq/dirmap/driver/aws/dynamomap"
	"github.com/dogmatiq/dirmap/driver/aws/internal/dynamox"
	"github.com/dogmatiq/dirmap/internal/x/xtesting"
	"github.com/dogmatiq/dirmap/mapping"
)

func TestStore(t *testing.T) {
	client, table := setup(t)
	mapping.RunTests(
		t,
		NewStore(client, table),
	)
}

func BenchmarkStore(b *testing.B) {
	client, table := setup(b)
	mapping.RunBenchmarks(
		b,
		NewStore(client, table),
	)
}

func TestStore_clearLargeMapping(t *testing.T) {
	client, table := setup(t)
	store := NewStore(client, table)

	m, err := store.Open(t.Context(), "<mapping>")
	if err != nil {
		t.Fatal(err)
	}

	// More than a single BatchWriteItem request can hold.
	for i := range 60 {
		if err := m.Set(t.Context(), xtesting.SequentialName("key"), "<value>"); err != nil {
			t.Fatalf("unable to set key #%d: %s", i, err)
		}
	}

	if err := m.Clear(t.Context()); err != nil {
		t.Fatal(err)
	}

	n, err := m.Len(t.Context())
	if err != nil {
		t.Fatal(err)
	}

	if n != 0 {
		t.Fatalf("unexpected length: got %d, want 0", n)
	}
}

func TestStore_setIfAbsentConcurrently(t *testing.T) {
	client, table := setup(t)
	store := NewStore(client, table)

	m, err := store.Open(t.Context(), "<mapping>")
	if err != nil {
		t.Fatal(err)
	}

	const n = 5

	var (
		g       sync.WaitGroup
		results [n]string
		errs    [n]error
	)

	for i := range n {
		g.Add(1)
		go func() {
			defer g.Done()
			results[i], errs[i] = m.SetIfAbsent(t.Context(), "<key>", string(rune('a'+i)))
		}()
	}

	g.Wait()

	for _, err := range errs {
		if err != nil {
			t.Fatal(err)
		}
	}

	stored, err := m.Get(t.Context(), "<key>")
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range results {
		if v != stored {
			t.Fatalf("callers disagree on the stored value: got %q, want %q", v, stored)
		}
	}
}

func setup(t testing.TB) (*dynamodb.Client, string) {
	client := dynamox.NewTestClient(t)
	table := xtesting.UniqueName("mapping")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := dynamox.DeleteTableIfExists(ctx, client, table, nil); err != nil {
			t.Error(err)
		}
	})

	return client, table
}
