package dirstat

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Walker performs the traversals of this package.
// It carries no state between calls other than its logger.
type Walker struct {
	log logrus.FieldLogger
}

// New creates a Walker that writes debug output to log.
// A nil log discards all output.
func New(log logrus.FieldLogger) *Walker {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	return &Walker{log: log.WithField("component", "dirstat")}
}

// hops returns the number of path segments between root and path.
// The root itself is at distance 0 and its immediate children at distance 1.
func hops(root, path string) (int, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0, err
	}

	if rel == "." {
		return 0, nil
	}

	return strings.Count(filepath.ToSlash(rel), "/") + 1, nil
}

// checkRoot validates that root exists and is a directory.
func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return &AccessError{Op: "access", Path: root, Err: err}
	}

	if !info.IsDir() {
		return &AccessError{Op: "access", Path: root, Err: errors.New("not a directory")}
	}

	return nil
}

// Run aggregates the tree described by sc and returns the n largest records
// together with the scan totals.
func (w *Walker) Run(sc ScanContext, n int) (*Stats, error) {
	if sc.Root == "" {
		sc.Root = "."
	}

	sc.Root = filepath.Clean(sc.Root)

	w.log.Debugf("root: %s", sc.Root)
	w.log.Debugf("depth limit: %d", sc.DepthLimit)

	start := time.Now()

	records, err := w.Aggregate(sc)
	if err != nil {
		return nil, err
	}

	stats := Summarize(sc, records, n)

	stats.Elapsed = time.Since(start)

	return stats, nil
}
