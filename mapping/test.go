package mapping

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"unicode"

	"github.com/dogmatiq/dirmap/internal/x/xtesting"
	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

// RunTests runs tests that confirm a [Store] implementation behaves correctly.
func RunTests(
	t *testing.T,
	store Store,
) {
	setup := func(t *testing.T) Mapping {
		name := xtesting.SequentialName("mapping")

		m, err := store.Open(t.Context(), name)
		if err != nil {
			t.Fatal(err)
		}

		if m.Name() != name {
			t.Fatalf("unexpected mapping name: got %q, want %q", m.Name(), name)
		}

		return m
	}

	set := func(t *testing.T, m Mapping, k, v string) {
		t.Helper()

		if err := m.Set(t.Context(), k, v); err != nil {
			t.Fatal(err)
		}
	}

	expectValue := func(t *testing.T, m Mapping, k, want string) {
		t.Helper()

		got, err := m.Get(t.Context(), k)
		if err != nil {
			t.Fatal(err)
		}

		if got != want {
			t.Fatalf("unexpected value for key %q: got %q, want %q", k, got, want)
		}
	}

	expectLen := func(t *testing.T, m Mapping, want int) {
		t.Helper()

		got, err := m.Len(t.Context())
		if err != nil {
			t.Fatal(err)
		}

		if got != want {
			t.Fatalf("unexpected length: got %d, want %d", got, want)
		}
	}

	expectNotFound := func(t *testing.T, err error, k string) {
		t.Helper()

		if !IsNotFound(err) {
			t.Fatalf("expected key-not-found error for key %q, got %v", k, err)
		}

		var e KeyNotFoundError
		if !errors.As(err, &e) {
			t.Fatalf("expected %T, got %T", e, err)
		}

		if e.Key != k {
			t.Fatalf("unexpected key in error: got %q, want %q", e.Key, k)
		}
	}

	expectInvalidKey := func(t *testing.T, err error) {
		t.Helper()

		if !IsInvalidKey(err) {
			t.Fatalf("expected invalid-key error, got %v", err)
		}

		if IsNotFound(err) {
			t.Fatal("did not expect invalid-key error to also be a key-not-found error")
		}
	}

	t.Run("Store", func(t *testing.T) {
		t.Parallel()

		t.Run("Open", func(t *testing.T) {
			t.Parallel()

			t.Run("allows mappings to be opened multiple times", func(t *testing.T) {
				t.Parallel()

				name := xtesting.SequentialName("mapping")

				m1, err := store.Open(t.Context(), name)
				if err != nil {
					t.Fatal(err)
				}

				m2, err := store.Open(t.Context(), name)
				if err != nil {
					t.Fatal(err)
				}

				set(t, m1, "key", "<value>")
				expectValue(t, m2, "key", "<value>")
			})

			t.Run("isolates mappings with different names", func(t *testing.T) {
				t.Parallel()

				m1 := setup(t)
				m2 := setup(t)

				set(t, m1, "key", "<value>")

				ok, err := m2.Has(t.Context(), "key")
				if err != nil {
					t.Fatal(err)
				}
				if ok {
					t.Fatal("did not expect key to be visible in a different mapping")
				}
			})
		})
	})

	t.Run("Mapping", func(t *testing.T) {
		t.Parallel()

		t.Run("Len", func(t *testing.T) {
			t.Parallel()

			t.Run("it returns zero if the mapping is empty", func(t *testing.T) {
				t.Parallel()

				m := setup(t)
				expectLen(t, m, 0)
			})

			t.Run("it returns the number of entries", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "first.txt", "one")
				set(t, m, "second.txt", "two")

				expectLen(t, m, 2)
			})

			t.Run("it is unchanged when an existing key is replaced", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "first.txt", "one")
				set(t, m, "first.txt", "two")

				expectLen(t, m, 1)
			})
		})

		t.Run("Get", func(t *testing.T) {
			t.Parallel()

			t.Run("it returns an error if the key doesn't exist", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				_, err := m.Get(t.Context(), "not_exist.txt")
				expectNotFound(t, err, "not_exist.txt")
			})

			t.Run("it returns an error if the key has been deleted", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "key", "<value>")

				if _, err := m.Delete(t.Context(), "key"); err != nil {
					t.Fatal(err)
				}

				_, err := m.Get(t.Context(), "key")
				expectNotFound(t, err, "key")
			})

			t.Run("it returns the value if the key exists", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				for i := range 5 {
					set(
						t,
						m,
						fmt.Sprintf("key-%d", i),
						fmt.Sprintf("<value-%d>", i),
					)
				}

				for i := range 5 {
					expectValue(
						t,
						m,
						fmt.Sprintf("key-%d", i),
						fmt.Sprintf("<value-%d>", i),
					)
				}
			})

			t.Run("it returns multi-line values in their entirety", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				v := "line one\nline two\n\nline four\n"
				set(t, m, "key", v)
				expectValue(t, m, "key", v)
			})

			t.Run("it returns empty values", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "key", "")
				expectValue(t, m, "key", "")
			})

			t.Run("it returns an error if the key is empty", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				_, err := m.Get(t.Context(), "")
				expectInvalidKey(t, err)
			})
		})

		t.Run("Has", func(t *testing.T) {
			t.Parallel()

			t.Run("it returns false if the key doesn't exist", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				ok, err := m.Has(t.Context(), "key")
				if err != nil {
					t.Fatal(err)
				}
				if ok {
					t.Fatal("expected ok to be false")
				}
			})

			t.Run("it returns true if the key exists", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "key", "<value>")

				ok, err := m.Has(t.Context(), "key")
				if err != nil {
					t.Fatal(err)
				}
				if !ok {
					t.Fatal("expected ok to be true")
				}
			})

			t.Run("it returns true if the value is empty", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "key", "")

				ok, err := m.Has(t.Context(), "key")
				if err != nil {
					t.Fatal(err)
				}
				if !ok {
					t.Fatal("expected ok to be true")
				}
			})

			t.Run("it returns false if the key has been deleted", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "key", "<value>")

				if _, err := m.Delete(t.Context(), "key"); err != nil {
					t.Fatal(err)
				}

				ok, err := m.Has(t.Context(), "key")
				if err != nil {
					t.Fatal(err)
				}
				if ok {
					t.Fatal("expected ok to be false")
				}
			})

			t.Run("it returns an error if the key is empty", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				_, err := m.Has(t.Context(), "")
				expectInvalidKey(t, err)
			})
		})

		t.Run("Set", func(t *testing.T) {
			t.Parallel()

			t.Run("it replaces the entire existing value", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "key", strings.Repeat("<long value>", 100))
				set(t, m, "key", "<short>")

				expectValue(t, m, "key", "<short>")
			})

			t.Run("it returns an error if the key is empty", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				err := m.Set(t.Context(), "", "test")
				expectInvalidKey(t, err)

				expectLen(t, m, 0)
			})
		})

		t.Run("Delete", func(t *testing.T) {
			t.Parallel()

			t.Run("it returns the removed value", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "first.txt", "one")
				set(t, m, "second.txt", "two")
				expectLen(t, m, 2)

				v, err := m.Delete(t.Context(), "first.txt")
				if err != nil {
					t.Fatal(err)
				}

				if v != "one" {
					t.Fatalf("unexpected value: got %q, want %q", v, "one")
				}

				expectLen(t, m, 1)

				_, err = m.Get(t.Context(), "first.txt")
				expectNotFound(t, err, "first.txt")

				expectValue(t, m, "second.txt", "two")
			})

			t.Run("it returns an error if the key doesn't exist", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				_, err := m.Delete(t.Context(), "key")
				expectNotFound(t, err, "key")
			})

			t.Run("it returns an error if the key is empty", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				_, err := m.Delete(t.Context(), "")
				expectInvalidKey(t, err)
			})
		})

		t.Run("RangeKeys", func(t *testing.T) {
			t.Parallel()

			t.Run("calls the function for each key in the mapping", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				expect := map[string]struct{}{}

				for n := range 20 {
					k := fmt.Sprintf("key-%d", n)
					set(t, m, k, "<value>")
					expect[k] = struct{}{}
				}

				actual := map[string]struct{}{}

				if err := m.RangeKeys(
					t.Context(),
					func(_ context.Context, k string) (bool, error) {
						if _, ok := actual[k]; ok {
							t.Fatalf("key seen twice: %q", k)
						}
						actual[k] = struct{}{}
						return true, nil
					},
				); err != nil {
					t.Fatal(err)
				}

				if diff := cmp.Diff(expect, actual); diff != "" {
					t.Fatal(diff)
				}
			})

			t.Run("it stops iterating if the function returns false", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "key-1", "<value>")
				set(t, m, "key-2", "<value>")

				called := false
				if err := m.RangeKeys(
					t.Context(),
					func(context.Context, string) (bool, error) {
						if called {
							return false, errors.New("unexpected call")
						}

						called = true
						return false, nil
					},
				); err != nil {
					t.Fatal(err)
				}
			})

			t.Run("it returns the error returned by the function", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "key", "<value>")

				want := errors.New("<error>")
				got := m.RangeKeys(
					t.Context(),
					func(context.Context, string) (bool, error) {
						return true, want
					},
				)

				if !errors.Is(got, want) {
					t.Fatalf("unexpected error: got %v, want %v", got, want)
				}
			})

			t.Run("it does not visit keys added during iteration", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "key", "<value>")

				var visited []string
				if err := m.RangeKeys(
					t.Context(),
					func(ctx context.Context, k string) (bool, error) {
						visited = append(visited, k)
						return true, m.Set(ctx, "added", "<value>")
					},
				); err != nil {
					t.Fatal(err)
				}

				if diff := cmp.Diff([]string{"key"}, visited); diff != "" {
					t.Fatal(diff)
				}

				expectLen(t, m, 2)
			})
		})

		t.Run("Range", func(t *testing.T) {
			t.Parallel()

			t.Run("calls the function for each key/value pair in the mapping", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				expect := map[string]string{}

				for n := range 20 {
					k := fmt.Sprintf("key-%d", n)
					v := fmt.Sprintf("<value-%d>", n)
					set(t, m, k, v)
					expect[k] = v
				}

				actual := map[string]string{}

				if err := m.Range(
					t.Context(),
					func(_ context.Context, k, v string) (bool, error) {
						actual[k] = v
						return true, nil
					},
				); err != nil {
					t.Fatal(err)
				}

				if diff := cmp.Diff(expect, actual); diff != "" {
					t.Fatal(diff)
				}
			})

			t.Run("it stops iterating if the function returns false", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "key-1", "<value>")
				set(t, m, "key-2", "<value>")

				called := false
				if err := m.Range(
					t.Context(),
					func(context.Context, string, string) (bool, error) {
						if called {
							return false, errors.New("unexpected call")
						}

						called = true
						return false, nil
					},
				); err != nil {
					t.Fatal(err)
				}
			})

			t.Run("it allows calls to Get() during iteration", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "key", "<value>")

				if err := m.Range(
					t.Context(),
					func(ctx context.Context, k, expect string) (bool, error) {
						actual, err := m.Get(ctx, k)
						if err != nil {
							return false, err
						}

						if actual != expect {
							t.Fatalf("unexpected value, want %q, got %q", expect, actual)
						}

						return false, nil
					},
				); err != nil {
					t.Fatal(err)
				}
			})

			t.Run("it allows calls to Set() during iteration", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "key", "<value>")

				if err := m.Range(
					t.Context(),
					func(ctx context.Context, k, _ string) (bool, error) {
						return false, m.Set(ctx, k, "<updated>")
					},
				); err != nil {
					t.Fatal(err)
				}

				expectValue(t, m, "key", "<updated>")
			})

			t.Run("it allows calls to Delete() during iteration", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "key", "<value>")

				if err := m.Range(
					t.Context(),
					func(ctx context.Context, k, _ string) (bool, error) {
						_, err := m.Delete(ctx, k)
						return true, err
					},
				); err != nil {
					t.Fatal(err)
				}

				expectLen(t, m, 0)
			})
		})

		t.Run("Keys", func(t *testing.T) {
			t.Parallel()

			t.Run("it returns an empty collection if the mapping is empty", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				keys, err := m.Keys(t.Context())
				if err != nil {
					t.Fatal(err)
				}

				if len(keys) != 0 {
					t.Fatalf("unexpected keys: %q", keys)
				}
			})

			t.Run("it returns every key", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "first.txt", "one")
				set(t, m, "second.txt", "two")

				keys, err := m.Keys(t.Context())
				if err != nil {
					t.Fatal(err)
				}

				slices.Sort(keys)

				if diff := cmp.Diff([]string{"first.txt", "second.txt"}, keys); diff != "" {
					t.Fatal(diff)
				}
			})
		})

		t.Run("Values", func(t *testing.T) {
			t.Parallel()

			t.Run("it returns the values in the same order as the keys", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				for n := range 10 {
					set(
						t,
						m,
						fmt.Sprintf("key-%d", n),
						fmt.Sprintf("<value-%d>", n),
					)
				}

				keys, err := m.Keys(t.Context())
				if err != nil {
					t.Fatal(err)
				}

				values, err := m.Values(t.Context())
				if err != nil {
					t.Fatal(err)
				}

				var expect []string
				for _, k := range keys {
					expect = append(expect, "<value-"+strings.TrimPrefix(k, "key-")+">")
				}

				if diff := cmp.Diff(expect, values); diff != "" {
					t.Fatal(diff)
				}
			})
		})

		t.Run("Clear", func(t *testing.T) {
			t.Parallel()

			t.Run("it removes every entry", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				for n := range 10 {
					set(t, m, fmt.Sprintf("key-%d", n), "<value>")
				}

				if err := m.Clear(t.Context()); err != nil {
					t.Fatal(err)
				}

				expectLen(t, m, 0)
			})

			t.Run("it does not return an error if the mapping is empty", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				if err := m.Clear(t.Context()); err != nil {
					t.Fatal(err)
				}

				expectLen(t, m, 0)
			})
		})

		t.Run("GetOrDefault", func(t *testing.T) {
			t.Parallel()

			t.Run("it returns the value if the key exists", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "key", "<value>")

				v, err := m.GetOrDefault(t.Context(), "key", "<default>")
				if err != nil {
					t.Fatal(err)
				}

				if v != "<value>" {
					t.Fatalf("unexpected value: got %q, want %q", v, "<value>")
				}
			})

			t.Run("it returns the default if the key doesn't exist", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				v, err := m.GetOrDefault(t.Context(), "key", "42")
				if err != nil {
					t.Fatal(err)
				}

				if v != "42" {
					t.Fatalf("unexpected value: got %q, want %q", v, "42")
				}
			})

			t.Run("it returns an error if the key is empty", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				_, err := m.GetOrDefault(t.Context(), "", "<default>")
				expectInvalidKey(t, err)
			})
		})

		t.Run("PopOrDefault", func(t *testing.T) {
			t.Parallel()

			t.Run("it removes the key and returns its value if the key exists", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				set(t, m, "key", "<value>")

				v, err := m.PopOrDefault(t.Context(), "key", "<default>")
				if err != nil {
					t.Fatal(err)
				}

				if v != "<value>" {
					t.Fatalf("unexpected value: got %q, want %q", v, "<value>")
				}

				expectLen(t, m, 0)
			})

			t.Run("it returns the default if the key doesn't exist", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				v, err := m.PopOrDefault(t.Context(), "key", "<default>")
				if err != nil {
					t.Fatal(err)
				}

				if v != "<default>" {
					t.Fatalf("unexpected value: got %q, want %q", v, "<default>")
				}
			})

			t.Run("it returns an error if the key is empty", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				_, err := m.PopOrDefault(t.Context(), "", "<default>")
				expectInvalidKey(t, err)
			})
		})

		t.Run("SetIfAbsent", func(t *testing.T) {
			t.Parallel()

			t.Run("it stores and returns the default if the key doesn't exist", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				v, err := m.SetIfAbsent(t.Context(), "key", "<default>")
				if err != nil {
					t.Fatal(err)
				}

				if v != "<default>" {
					t.Fatalf("unexpected value: got %q, want %q", v, "<default>")
				}

				expectValue(t, m, "key", "<default>")
			})

			t.Run("it returns the existing value unchanged if the key exists", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				if _, err := m.SetIfAbsent(t.Context(), "key", ""); err != nil {
					t.Fatal(err)
				}

				v, err := m.SetIfAbsent(t.Context(), "key", "<other>")
				if err != nil {
					t.Fatal(err)
				}

				if v != "" {
					t.Fatalf("unexpected value: got %q, want empty string", v)
				}

				expectValue(t, m, "key", "")
			})

			t.Run("it returns an error if the key is empty", func(t *testing.T) {
				t.Parallel()

				m := setup(t)

				_, err := m.SetIfAbsent(t.Context(), "", "<default>")
				expectInvalidKey(t, err)
			})
		})
	})

	t.Run("property-based", func(t *testing.T) {
		t.Parallel()

		ctx := t.Context()

		keyGen := rapid.StringMatching(`[a-z0-9][a-z0-9._-]{0,15}`)
		valueGen := rapid.StringOfN(
			rapid.RuneFrom([]rune{' ', '\t', '\n'}, unicode.PrintRanges...),
			0, 64, -1,
		)

		rapid.Check(t, func(t *rapid.T) {
			m, err := store.Open(ctx, xtesting.SequentialName("mapping"))
			if err != nil {
				t.Fatal(err)
			}

			pairs := map[string]string{}
			var keys []string

			forget := func(k string) {
				delete(pairs, k)
				keys = slices.DeleteFunc(
					keys,
					func(x string) bool {
						return x == k
					},
				)
			}

			remember := func(k, v string) {
				if _, ok := pairs[k]; !ok {
					keys = append(keys, k)
				}
				pairs[k] = v
			}

			t.Repeat(
				map[string]func(*rapid.T){
					"Get": func(t *rapid.T) {
						k := keyGen.Draw(t, "key")

						v, err := m.Get(ctx, k)
						expect, ok := pairs[k]

						if !ok {
							if !IsNotFound(err) {
								t.Fatalf("expected key-not-found error for key %q, got %v", k, err)
							}
							return
						}

						if err != nil {
							t.Fatal(err)
						}

						if v != expect {
							t.Fatalf("unexpected value for key %q: got %q, want %q", k, v, expect)
						}
					},
					"Get (key exists)": func(t *rapid.T) {
						if len(keys) == 0 {
							t.Skip("skip: mapping is empty")
						}

						k := rapid.SampledFrom(keys).Draw(t, "key")

						v, err := m.Get(ctx, k)
						if err != nil {
							t.Fatal(err)
						}

						if expect := pairs[k]; v != expect {
							t.Fatalf("unexpected value for key %q: got %q, want %q", k, v, expect)
						}
					},
					"Has": func(t *rapid.T) {
						k := keyGen.Draw(t, "key")

						ok, err := m.Has(ctx, k)
						if err != nil {
							t.Fatal(err)
						}

						if _, expect := pairs[k]; ok != expect {
							t.Fatalf("unexpected has for key %q: got %t, want %t", k, ok, expect)
						}
					},
					"Len": func(t *rapid.T) {
						n, err := m.Len(ctx)
						if err != nil {
							t.Fatal(err)
						}

						if n != len(pairs) {
							t.Fatalf("unexpected length: got %d, want %d", n, len(pairs))
						}
					},
					"Set": func(t *rapid.T) {
						k := keyGen.Draw(t, "key")
						v := valueGen.Draw(t, "value")

						if err := m.Set(ctx, k, v); err != nil {
							t.Fatal(err)
						}

						remember(k, v)
					},
					"Set (replace)": func(t *rapid.T) {
						if len(keys) == 0 {
							t.Skip("skip: mapping is empty")
						}

						k := rapid.SampledFrom(keys).Draw(t, "key")
						v := valueGen.Draw(t, "value")

						if err := m.Set(ctx, k, v); err != nil {
							t.Fatal(err)
						}

						remember(k, v)
					},
					"Delete": func(t *rapid.T) {
						if len(keys) == 0 {
							t.Skip("skip: mapping is empty")
						}

						k := rapid.SampledFrom(keys).Draw(t, "key")

						v, err := m.Delete(ctx, k)
						if err != nil {
							t.Fatal(err)
						}

						if expect := pairs[k]; v != expect {
							t.Fatalf("unexpected deleted value for key %q: got %q, want %q", k, v, expect)
						}

						forget(k)
					},
					"PopOrDefault": func(t *rapid.T) {
						k := keyGen.Draw(t, "key")
						def := valueGen.Draw(t, "default")

						v, err := m.PopOrDefault(ctx, k, def)
						if err != nil {
							t.Fatal(err)
						}

						expect, ok := pairs[k]
						if !ok {
							expect = def
						}

						if v != expect {
							t.Fatalf("unexpected popped value for key %q: got %q, want %q", k, v, expect)
						}

						forget(k)
					},
					"SetIfAbsent": func(t *rapid.T) {
						k := keyGen.Draw(t, "key")
						def := valueGen.Draw(t, "default")

						v, err := m.SetIfAbsent(ctx, k, def)
						if err != nil {
							t.Fatal(err)
						}

						expect, ok := pairs[k]
						if !ok {
							expect = def
							remember(k, def)
						}

						if v != expect {
							t.Fatalf("unexpected value for key %q: got %q, want %q", k, v, expect)
						}
					},
					"Keys": func(t *rapid.T) {
						actual, err := m.Keys(ctx)
						if err != nil {
							t.Fatal(err)
						}

						expect := slices.Clone(keys)
						slices.Sort(expect)
						slices.Sort(actual)

						if !slices.Equal(expect, actual) {
							t.Fatalf("unexpected keys: got %q, want %q", actual, expect)
						}
					},
					"Range": func(t *rapid.T) {
						seen := map[string]struct{}{}

						if err := m.Range(
							ctx,
							func(_ context.Context, k, v string) (bool, error) {
								if _, ok := seen[k]; ok {
									t.Fatalf("key seen twice while ranging over pairs: %q", k)
								}
								seen[k] = struct{}{}

								if expect := pairs[k]; v != expect {
									t.Fatalf("unexpected value for key %q: got %q, want %q", k, v, expect)
								}

								return true, nil
							},
						); err != nil {
							t.Fatal(err)
						}

						for k := range pairs {
							if _, ok := seen[k]; !ok {
								t.Fatalf("key not seen while ranging over pairs: %q", k)
							}
						}
					},
					"Clear": func(t *rapid.T) {
						if err := m.Clear(ctx); err != nil {
							t.Fatal(err)
						}

						clear(pairs)
						keys = nil
					},
				},
			)
		})
	})
}
