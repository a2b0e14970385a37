// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FindFilesByExtension returns every file under the given paths whose name
// ends with one of extensions. A path may be a file or a directory, which is
// searched recursively. Each file is returned once, in discovery order.
func FindFilesByExtension(paths []string, extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		panic("extension must not be empty")
	}
	matches := func(name string) bool {
		return slices.ContainsFunc(extensions, func(ext string) bool { return strings.HasSuffix(name, ext) })
	}

	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", root, err)
		}
		if !info.IsDir() {
			if matches(info.Name()) {
				add(root)
			}
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && matches(d.Name()) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
