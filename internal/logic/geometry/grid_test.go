package geometry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestLinspace(t *testing.T) {
	cases := []struct {
		name   string
		lo, hi float64
		n      int
		want   []float64
	}{
		{"five_samples", -1, 1, 5, []float64{-1, -0.5, 0, 0.5, 1}},
		{"two_samples", 0, 3, 2, []float64{0, 3}},
		{"single_sample", 2, 4, 1, []float64{2}},
		{"zero_samples", 0, 1, 0, nil},
		{"degenerate_range", 0, 0, 3, []float64{0, 0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Linspace(tc.lo, tc.hi, tc.n)
			if diff := cmp.Diff(tc.want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("Linspace(%v, %v, %d) mismatch (-want +got):\n%s", tc.lo, tc.hi, tc.n, diff)
			}
		})
	}
}

func TestGridLinspace_FirstAxisOuter(t *testing.T) {
	grid := GridLinspace([2]float64{0, 10}, [2]float64{2, 20}, [2]int{3, 2})

	want := [][2]float64{
		{0, 10}, {0, 20},
		{1, 10}, {1, 20},
		{2, 10}, {2, 20},
	}
	if diff := cmp.Diff(want, grid, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("GridLinspace mismatch (-want +got):\n%s", diff)
	}
}

func TestGridLinspace_Count(t *testing.T) {
	cases := []struct {
		name  string
		count [2]int
	}{
		{"square", [2]int{4, 4}},
		{"wide", [2]int{32, 3}},
		{"single_row", [2]int{7, 1}},
		{"single_pixel", [2]int{1, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grid := GridLinspace([2]float64{-1, -1}, [2]float64{1, 1}, tc.count)
			if len(grid) != tc.count[0]*tc.count[1] {
				t.Errorf("len = %d, want %d", len(grid), tc.count[0]*tc.count[1])
			}
		})
	}
}

func TestGridLinspace_EndpointsIncluded(t *testing.T) {
	grid := GridLinspace([2]float64{-0.5, -0.25}, [2]float64{0.5, 0.25}, [2]int{5, 3})
	first, last := grid[0], grid[len(grid)-1]
	if first != [2]float64{-0.5, -0.25} {
		t.Errorf("first sample = %v, want [-0.5 -0.25]", first)
	}
	if last != [2]float64{0.5, 0.25} {
		t.Errorf("last sample = %v, want [0.5 0.25]", last)
	}
}
