//go:build !windows

package scanner

// isHidden always reports false outside Windows: the dot-prefix check in
// Scan already covers Unix convention, and there is no separate hidden
// attribute to query.
func isHidden(path string) (bool, error) {
	return false, nil
}
