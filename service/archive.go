package service

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	archivePrefix = "package"
	archiveExt    = ".zip"
)

// NewArchivePath returns an unique archive path under dir, ex: package-<uuid>.zip,
// so that concurrent exports in the same working dir won't overwrite each other
func NewArchivePath(dir string) string {
	id, err := uuid.NewRandom()
	if err != nil {
		return filepath.Join(dir, archivePrefix+archiveExt)
	}

	return filepath.Join(dir, fmt.Sprintf("%s-%s%s", archivePrefix, id, archiveExt))
}
