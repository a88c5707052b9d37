// Package intutils provides utilities for working with ints
package intutils

// Abs returns the absolute value of an int
func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
