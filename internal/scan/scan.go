package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type listed struct {
	path    string
	info    os.FileInfo
	symlink bool
}

// ListVideos returns the video files directly inside dir in directory
// listing order. Subdirectories are not descended into. Entries that resolve
// to a file already listed (symlinks, hard links) appear once, under the
// name of a regular file when there is one, so deleting a duplicate never
// removes the data behind a kept link. Dangling links are skipped.
func ListVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read video directory: %w", err)
	}

	kept := make([]listed, 0, len(entries))
outer:
	for _, entry := range entries {
		if entry.IsDir() || !IsVideoFile(entry.Name()) {
			continue
		}
		symlink := entry.Type()&os.ModeSymlink != 0
		if !entry.Type().IsRegular() && !symlink {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		for i := range kept {
			if !os.SameFile(kept[i].info, info) {
				continue
			}
			if kept[i].symlink && !symlink {
				kept[i] = listed{path: path, info: info}
			}
			continue outer
		}
		kept = append(kept, listed{path: path, info: info, symlink: symlink})
	}

	files := make([]string, 0, len(kept))
	for _, l := range kept {
		files = append(files, l.path)
	}
	return files, nil
}

func IsVideoFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4", ".mov", ".mkv", ".avi", ".m4v", ".webm", ".wmv", ".flv", ".mpg", ".mpeg", ".3gp":
		return true
	default:
		return false
	}
}
