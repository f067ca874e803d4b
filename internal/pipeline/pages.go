package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var pageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
}

// CollectPages expands the given paths into a sorted, deduplicated list of
// page images. Files are taken as-is when their extension is a supported
// image type; directories are walked for image files. A path that exists
// but contributes no pages is an input mistake and errors.
func CollectPages(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var pages []string

	add := func(path string) {
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		pages = append(pages, path)
	}

	for _, raw := range paths {
		path, err := filepath.Abs(raw)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", raw, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", raw, err)
		}

		if !info.IsDir() {
			if !isPageImage(path) {
				return nil, fmt.Errorf("%s: unsupported image type", raw)
			}
			add(path)
			continue
		}

		found := 0
		err = filepath.WalkDir(path, func(entry string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isPageImage(entry) {
				add(entry)
				found++
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", raw, err)
		}
		if found == 0 {
			return nil, fmt.Errorf("%s: no page images found", raw)
		}
	}

	sort.Strings(pages)
	return pages, nil
}

func isPageImage(path string) bool {
	_, ok := pageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
