package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func IsFileExists(path string) bool {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return true
	}
	return false
}

// FileSize returns size of regular file, 0 for dir or other types
func FileSize(path string) (int64, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return 0, err
	}

	if !stat.Mode().IsRegular() {
		return 0, nil
	}

	return stat.Size(), nil
}

// IndexedPath returns path for the n-th file of a group,
// the first one keeps the original path, ex: package.zip, package-2.zip
func IndexedPath(path string, n int) string {
	if n <= 1 {
		return path
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s-%d%s", base, n, ext)
}
