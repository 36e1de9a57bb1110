package s3map_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dogmatiq/dirmap/driver/aws/internal/s3x"
	. "github.com/dogmatiq/dirmap/driver/aws/s3map"
	"github.com/dogmatiq/dirmap/internal/x/xtesting"
	"github.com/dogmatiq/dirmap/mapping"
)

func TestStore(t *testing.T) {
	client, bucket := setup(t)
	mapping.RunTests(
		t,
		NewStore(client, bucket),
	)
}

func BenchmarkStore(b *testing.B) {
	client, bucket := setup(b)
	mapping.RunBenchmarks(
		b,
		NewStore(client, bucket),
	)
}

func TestStore_requestHook(t *testing.T) {
	client, bucket := setup(t)

	var (
		m     sync.Mutex
		seen  = map[string]bool{}
		store = NewStore(
			client,
			bucket,
			WithRequestHook(func(in any) []func(*s3.Options) {
				m.Lock()
				defer m.Unlock()

				switch in.(type) {
				case *s3.PutObjectInput:
					seen["put"] = true
				case *s3.GetObjectInput:
					seen["get"] = true
				}

				return nil
			}),
		)
	)

	mp, err := store.Open(t.Context(), "<mapping>")
	if err != nil {
		t.Fatal(err)
	}

	if err := mp.Set(t.Context(), "<key>", "<value>"); err != nil {
		t.Fatal(err)
	}

	if _, err := mp.Get(t.Context(), "<key>"); err != nil {
		t.Fatal(err)
	}

	m.Lock()
	defer m.Unlock()

	if !seen["put"] || !seen["get"] {
		t.Fatalf("expected the hook to observe put and get requests, saw %v", seen)
	}
}

func TestStore_setIfAbsentConcurrently(t *testing.T) {
	client, bucket := setup(t)
	store := NewStore(client, bucket)

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

func setup(t testing.TB) (*s3.Client, string) {
	client := s3x.NewTestClient(t)
	bucket := xtesting.UniqueName("bucket")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := s3x.DeleteBucketIfExists(ctx, client, bucket, nil); err != nil {
			t.Error(err)
		}
	})

	return client, bucket
}
