package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extension allow-lists for folder scans. Matching is case-insensitive.
var (
	audioExts = map[string]bool{
		".mp3": true, ".wav": true, ".aac": true,
		".ogg": true, ".flac": true, ".m4a": true,
	}
	videoExts = map[string]bool{
		".mp4": true, ".mov": true, ".avi": true,
		".mkv": true, ".webm": true,
	}
	imageExts = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true,
		".bmp": true, ".webp": true,
	}
)

// listByExt returns the full paths of the regular files in dir whose
// extension is allowed, sorted by name for deterministic ordering.
func listByExt(dir string, exts map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if exts[strings.ToLower(filepath.Ext(e.Name()))] {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
