package dirstat

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
)

// Aggregate computes one DirectoryRecord per reporting directory below sc.Root.
//
// The root and every directory closer to it than sc.DepthLimit report the
// sizes of the regular files they directly contain. Every directory at or
// beyond sc.DepthLimit reports the total size of its whole subtree and is not
// broken down further. Each regular file is counted in exactly one record.
//
// Records are produced in post-order. The first unreadable directory aborts
// the aggregation and no records are returned.
func (w *Walker) Aggregate(sc ScanContext) ([]DirectoryRecord, error) {
	if sc.DepthLimit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeDepth, sc.DepthLimit)
	}

	if err := checkRoot(sc.Root); err != nil {
		return nil, err
	}

	var records []DirectoryRecord
	if err := w.aggregate(sc, sc.Root, &records); err != nil {
		return nil, err
	}

	return records, nil
}

func (w *Walker) aggregate(sc ScanContext, dir string, records *[]DirectoryRecord) error {
	w.log.WithField("path", dir).Debug("reading directory")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return &AccessError{Op: "read directory", Path: dir, Err: err}
	}

	var direct uint64

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		switch {
		case entry.Type().IsRegular():
			info, err := entry.Info()
			if err != nil {
				return &AccessError{Op: "stat", Path: path, Err: err}
			}

			direct += uint64(info.Size()) //nolint:gosec // Regular file sizes are never negative
		case entry.IsDir():
			distance, err := hops(sc.Root, path)
			if err != nil {
				return &AccessError{Op: "resolve", Path: path, Err: err}
			}

			if distance < sc.DepthLimit {
				if err := w.aggregate(sc, path, records); err != nil {
					return err
				}

				continue
			}

			size, err := w.treeSize(path)
			if err != nil {
				return err
			}

			w.log.WithField("path", path).Debugf("subtree at distance %d: %d bytes", distance, size)

			*records = append(*records, DirectoryRecord{Path: path, Size: size})
		default:
			w.log.WithField("path", path).Debug("skipping non-regular entry")
		}
	}

	*records = append(*records, DirectoryRecord{Path: dir, Size: direct})

	return nil
}

// treeSize returns the total size of every regular file below dir.
// Symbolic links are not followed.
func (w *Walker) treeSize(dir string) (uint64, error) {
	var total atomic.Uint64

	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: 1, // Sequential traversal
	}

	//nolint:varnamelen // d is standard for DirEntry
	err := fastwalk.Walk(conf, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &AccessError{Op: "read directory", Path: path, Err: err}
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return &AccessError{Op: "stat", Path: path, Err: err}
		}

		total.Add(uint64(info.Size())) //nolint:gosec // Regular file sizes are never negative

		return nil
	})
	if err != nil {
		var accessErr *AccessError
		if errors.As(err, &accessErr) {
			return 0, accessErr
		}

		return 0, &AccessError{Op: "walk", Path: dir, Err: err}
	}

	return total.Load(), nil
}
