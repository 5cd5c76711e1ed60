//go:build opticsdebug

package optics

import "fmt"

// checkIndex panics on an out-of-range index. Such an index means the host
// and solver array layouts have diverged.
func checkIndex(what string, i, n int) bool {
	if i < 0 || i >= n {
		panic(fmt.Sprintf("optics: %s index %d out of range [0,%d)", what, i, n))
	}
	return true
}
