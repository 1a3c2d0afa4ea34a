package utils

import (
	"os"
	"path/filepath"
)

// FolderSize returns the accumulated size of all files below target.
func FolderSize(target string) (int64, error) {

	var size int64

	err := filepath.Walk(target, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			size += info.Size()
		}

		return nil
	})

	return size, err
}
