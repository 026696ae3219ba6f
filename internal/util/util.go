package util

import (
	"os"

	"tester/internal/errors"
)

// FileExists checks if a file exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// VerifyPaths returns a PathNotFound error for the first path that does not exist.
var VerifyPaths = func(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return errors.E("verifyPaths", errors.PathNotFound, path, err)
		}
	}
	return nil
}
