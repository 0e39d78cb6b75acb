package driver

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"bindoc/internal/project"
)

// ListSources returns the sorted, de-duplicated list of source files of the
// project: every file under the source directories with a configured
// extension that no exclude pattern matches.
func ListSources(m *project.Manifest) ([]string, error) {
	dirs, err := m.SourceDirs()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var files []string
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(m.Root, path)
			if relErr != nil {
				rel = path
			}
			if d.IsDir() {
				if path != dir && m.Excluded(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if !m.HasExtension(path) || m.Excluded(rel) {
				return nil
			}
			if _, dup := seen[path]; dup {
				return nil
			}
			seen[path] = struct{}{}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", dir, err)
		}
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}
