package dirstat

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// DirectoryRecord represents the aggregated size of one reporting directory.
type DirectoryRecord struct {
	// Path is the directory path, rooted at the scan root as given.
	Path string `json:"path" yaml:"path"`
	// Size is the size in bytes.
	Size uint64 `json:"size" yaml:"size"`
}

// ScanContext describes a single size aggregation.
type ScanContext struct {
	// Root is the directory to aggregate.
	Root string
	// DepthLimit is the hop distance from Root at which a subdirectory is
	// reported as one fully aggregated record instead of being descended into.
	DepthLimit int
}

// Stats holds the ranked result of an aggregation.
type Stats struct {
	// Root is the scanned directory.
	Root string `json:"root" yaml:"root"`
	// Depth is the depth limit used for the scan.
	Depth int `json:"depth" yaml:"depth"`
	// DirectoryCount is the number of records produced by the aggregation.
	DirectoryCount int `json:"directory_count" yaml:"directory_count"`
	// TotalBytes is the cumulative size of all records.
	TotalBytes uint64 `json:"total_bytes" yaml:"total_bytes"`
	// Top contains the N largest records, largest first.
	Top []DirectoryRecord `json:"top" yaml:"top"`
	// TopN is the number of records requested.
	TopN int `json:"top_n" yaml:"top_n"`
	// Elapsed is the total time taken for the scan.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Rank returns the n largest records in descending order of size.
// Records of equal size keep their relative order. The input is not modified.
func Rank(records []DirectoryRecord, n int) []DirectoryRecord {
	if n <= 0 {
		return []DirectoryRecord{}
	}

	ranked := slices.Clone(records)
	slices.SortStableFunc(ranked, func(a, b DirectoryRecord) int {
		return cmp.Compare(b.Size, a.Size)
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	return ranked
}

// Summarize ranks records and computes the totals shown alongside them.
// Paths of the ranked records are converted to slash format for display.
func Summarize(sc ScanContext, records []DirectoryRecord, n int) *Stats {
	var total uint64
	for _, r := range records {
		total += r.Size
	}

	top := Rank(records, n)
	for i := range top {
		top[i].Path = strings.TrimPrefix(filepath.ToSlash(top[i].Path), "./")
	}

	return &Stats{
		Root:           filepath.ToSlash(sc.Root),
		Depth:          sc.DepthLimit,
		DirectoryCount: len(records),
		TotalBytes:     total,
		Top:            top,
		TopN:           n,
	}
}
