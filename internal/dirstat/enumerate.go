package dirstat

import (
	"os"
	"path/filepath"
)

// Enumerate returns the path of every regular file below root, depth first.
// Sibling order follows the directory read and must only be used for display.
// Directories are descended into but never returned; symbolic links are neither
// returned nor followed.
//
// The first unreadable directory aborts the enumeration and no paths are returned.
func (w *Walker) Enumerate(root string) ([]string, error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	var paths []string
	if err := w.enumerate(root, &paths); err != nil {
		return nil, err
	}

	return paths, nil
}

func (w *Walker) enumerate(dir string, paths *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &AccessError{Op: "read directory", Path: dir, Err: err}
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		switch {
		case entry.Type().IsRegular():
			*paths = append(*paths, path)
		case entry.IsDir():
			if err := w.enumerate(path, paths); err != nil {
				return err
			}
		default:
			w.log.WithField("path", path).Debug("skipping non-regular entry")
		}
	}

	return nil
}
