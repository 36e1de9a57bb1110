package mapping

import (
	"context"
	"crypto/rand"
	"fmt"
	"testing"
	"time"

	"github.com/dogmatiq/dirmap/internal/x/xtesting"
)

// RunBenchmarks runs benchmarks against a [Store] implementation.
func RunBenchmarks(
	b *testing.B,
	store Store,
) {
	b.Run("Store", func(b *testing.B) {
		b.Run("Open", func(b *testing.B) {
			b.Run("existing mapping", func(b *testing.B) {
				name := xtesting.SequentialName("mapping")

				benchmark(
					b,
					func(ctx context.Context) error {
						_, err := store.Open(ctx, name)
						return err
					},
					nil,
					func(ctx context.Context) error {
						_, err := store.Open(ctx, name)
						return err
					},
				)
			})

			b.Run("new mapping", func(b *testing.B) {
				var name string

				benchmark(
					b,
					nil,
					func(context.Context) error {
						name = xtesting.SequentialName("mapping")
						return nil
					},
					func(ctx context.Context) error {
						_, err := store.Open(ctx, name)
						return err
					},
				)
			})
		})
	})

	b.Run("Mapping", func(b *testing.B) {
		var key string

		absent := func(context.Context, Mapping) error {
			key = rand.Text()
			return nil
		}

		present := func(ctx context.Context, m Mapping) error {
			key = rand.Text()
			return m.Set(ctx, key, "<value>")
		}

		cases := []struct {
			Name   string
			Setup  func(context.Context, Mapping) error
			Before func(context.Context, Mapping) error
			Run    func(context.Context, Mapping) error
		}{
			{
				Name:   "Get/non-existent key",
				Before: absent,
				Run: func(ctx context.Context, m Mapping) error {
					_, err := m.Get(ctx, key)
					if IsNotFound(err) {
						return nil
					}
					return err
				},
			},
			{
				Name:   "Get/existing key",
				Before: present,
				Run: func(ctx context.Context, m Mapping) error {
					_, err := m.Get(ctx, key)
					return err
				},
			},
			{
				Name:   "Has/non-existent key",
				Before: absent,
				Run: func(ctx context.Context, m Mapping) error {
					_, err := m.Has(ctx, key)
					return err
				},
			},
			{
				Name:   "Has/existing key",
				Before: present,
				Run: func(ctx context.Context, m Mapping) error {
					_, err := m.Has(ctx, key)
					return err
				},
			},
			{
				Name:   "Set/non-existent key",
				Before: absent,
				Run: func(ctx context.Context, m Mapping) error {
					return m.Set(ctx, key, "<value>")
				},
			},
			{
				Name:   "Set/existing key",
				Before: present,
				Run: func(ctx context.Context, m Mapping) error {
					return m.Set(ctx, key, "<updated>")
				},
			},
			{
				Name:   "Delete",
				Before: present,
				Run: func(ctx context.Context, m Mapping) error {
					_, err := m.Delete(ctx, key)
					return err
				},
			},
			{
				Name:   "SetIfAbsent/non-existent key",
				Before: absent,
				Run: func(ctx context.Context, m Mapping) error {
					_, err := m.SetIfAbsent(ctx, key, "<value>")
					return err
				},
			},
			{
				Name: "Range (1k pairs)",
				Setup: func(ctx context.Context, m Mapping) error {
					for i := range 1000 {
						if err := m.Set(ctx, fmt.Sprintf("key-%d", i), "<value>"); err != nil {
							return err
						}
					}
					return nil
				},
				Run: func(ctx context.Context, m Mapping) error {
					return m.Range(
						ctx,
						func(context.Context, string, string) (bool, error) {
							return true, nil
						},
					)
				},
			},
		}

		for _, c := range cases {
			b.Run(c.Name, func(b *testing.B) {
				var m Mapping

				benchmark(
					b,
					func(ctx context.Context) error {
						var err error
						m, err = store.Open(ctx, xtesting.SequentialName("mapping"))
						if err != nil || c.Setup == nil {
							return err
						}
						return c.Setup(ctx, m)
					},
					func(ctx context.Context) error {
						if c.Before == nil {
							return nil
						}
						return c.Before(ctx, m)
					},
					func(ctx context.Context) error {
						return c.Run(ctx, m)
					},
				)
			})
		}
	})
}

// benchmark measures the time spent in fn. setup is called once, and before
// is called ahead of each iteration, neither is measured.
func benchmark(
	b *testing.B,
	setup, before, fn func(context.Context) error,
) {
	const timeout = 30 * time.Second

	prepare := func(f func(context.Context) error) {
		if f == nil {
			return
		}

		ctx, cancel := context.WithTimeout(b.Context(), timeout)
		defer cancel()

		if err := f(ctx); err != nil {
			b.Fatal(err)
		}
	}

	prepare(setup)

	for b.Loop() {
		b.StopTimer()
		prepare(before)
		b.StartTimer()

		if err := fn(b.Context()); err != nil {
			b.Fatal(err)
		}
	}
}
