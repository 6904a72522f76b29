package fetch

import "os"

// CacheHit reports whether dest already holds a valid prior download: a
// regular file with non-zero size. A zero-byte leftover from an interrupted
// write counts as absent, so the task is fetched again.
func CacheHit(dest string) bool {
	info, err := os.Stat(dest)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular() && info.Size() > 0
}
