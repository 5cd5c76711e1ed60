//go:build !opticsdebug

package optics

// checkIndex reports whether i is in [0, n), logging an error otherwise.
func checkIndex(what string, i, n int) bool {
	if i < 0 || i >= n {
		Logger().Error("index out of range", "what", what, "index", i, "len", n)
		return false
	}
	return true
}
