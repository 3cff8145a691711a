package release

import (
	"errors"
	"os"
)

// BuildOutputReady reports whether dir exists, is a directory and contains
// at least one entry.
func BuildOutputReady(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		// A regular file where the directory should be is "missing" too.
		if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
			return false, nil
		}
		return false, err
	}
	return len(entries) > 0, nil
}
