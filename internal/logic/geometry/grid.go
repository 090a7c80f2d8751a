package geometry

import "gonum.org/v1/gonum/floats"

// Linspace returns n evenly spaced values over [lo, hi], endpoints included.
// A single sample sits at lo; n <= 0 yields nil.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// GridLinspace builds an evenly spaced 2D grid over the box [lo, hi] with
// count[0] samples along the first axis and count[1] along the second.
//
// The first axis is the outer loop and the second the inner one, so sample
// (i, j) sits at index i*count[1] + j. For an image of width count[0] and
// height count[1] that is column by column: index = col*height + row.
func GridLinspace(lo, hi [2]float64, count [2]int) [][2]float64 {
	xs := Linspace(lo[0], hi[0], count[0])
	ys := Linspace(lo[1], hi[1], count[1])

	grid := make([][2]float64, 0, len(xs)*len(ys))
	for _, x := range xs {
		for _, y := range ys {
			grid = append(grid, [2]float64{x, y})
		}
	}
	return grid
}
