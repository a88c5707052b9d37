// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// Ints copies a matrix into a row-major [][]int, rounding each element
// to the nearest integer. It is used to hand count matrices to callers
// that should not hold a reference to the underlying matrix.
func Ints(X mat.Matrix) [][]int {
	r, c := X.Dims()
	out := make([][]int, r)
	for i := 0; i < r; i++ {
		out[i] = make([]int, c)
		for j := 0; j < c; j++ {
			out[i][j] = int(math.Round(X.At(i, j)))
		}
	}
	return out
}

// Sum returns the sum of all elements of a matrix
func Sum(X mat.Matrix) float64 {
	return mat.Sum(X)
}
