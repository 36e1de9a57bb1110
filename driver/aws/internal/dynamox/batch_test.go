package dynamox

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChunk(t *testing.T) {
	t.Parallel()

	cases := []struct {
		Desc  string
		Items []int
		Want  [][]int
	}{
		{"empty", nil, nil},
		{"partial chunk", []int{1, 2}, [][]int{{1, 2}}},
		{"exact chunks", []int{1, 2, 3, 4, 5, 6}, [][]int{{1, 2, 3}, {4, 5, 6}}},
		{"trailing chunk", []int{1, 2, 3, 4}, [][]int{{1, 2, 3}, {4}}},
	}

	for _, c := range cases {
		t.Run(c.Desc, func(t *testing.T) {
			t.Parallel()

			got := slices.Collect(chunk(c.Items, 3))

			if diff := cmp.Diff(c.Want, got); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}
