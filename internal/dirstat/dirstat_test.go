package dirstat

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates the files described by files (slash path -> size in bytes) below root.
func writeTree(t *testing.T, root string, files map[string]int) {
	t.Helper()

	for name, size := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o644))
	}
}

// nestedTree is used by several tests:
//
//	root/
//	  r.txt        1
//	  a/
//	    a.txt      2
//	    b/
//	      b.txt    4
//	      c/
//	        c.txt  8
//	  d/
//	    d.txt      16
func nestedTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeTree(t, root, map[string]int{
		"r.txt":       1,
		"a/a.txt":     2,
		"a/b/b.txt":   4,
		"a/b/c/c.txt": 8,
		"d/d.txt":     16,
	})

	return root
}

func sum(records []DirectoryRecord) uint64 {
	var total uint64
	for _, r := range records {
		total += r.Size
	}

	return total
}

func TestEnumerate(t *testing.T) {
	root := nestedTree(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o755))

	paths, err := New(nil).Enumerate(root)
	require.NoError(t, err)

	expected := []string{
		filepath.Join(root, "a", "a.txt"),
		filepath.Join(root, "a", "b", "b.txt"),
		filepath.Join(root, "a", "b", "c", "c.txt"),
		filepath.Join(root, "d", "d.txt"),
		filepath.Join(root, "r.txt"),
	}

	assert.Equal(t, expected, paths, "depth-first order in directory read order")

	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.True(t, info.Mode().IsRegular(), "%s should be a regular file", p)
	}
}

func TestEnumerateEmptyRoot(t *testing.T) {
	paths, err := New(nil).Enumerate(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestEnumerateSkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	root := t.TempDir()
	writeTree(t, root, map[string]int{"dir/file.txt": 3})
	require.NoError(t, os.Symlink(filepath.Join(root, "dir"), filepath.Join(root, "loop")))
	require.NoError(t, os.Symlink(filepath.Join(root, "dir", "file.txt"), filepath.Join(root, "link.txt")))

	paths, err := New(nil).Enumerate(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "dir", "file.txt")}, paths)
}

func TestEnumerateInvalidRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	writeTree(t, root, map[string]int{"file.txt": 1})

	tests := []struct {
		name string
		root string
	}{
		{name: "missing", root: filepath.Join(root, "missing")},
		{name: "not a directory", root: file},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, err := New(nil).Enumerate(tt.root)
			require.Error(t, err)
			assert.Nil(t, paths)

			var accessErr *AccessError
			require.ErrorAs(t, err, &accessErr)
			assert.Equal(t, tt.root, accessErr.Path)
		})
	}

	_, err := New(nil).Enumerate(filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestAggregateExample(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{
		"a.txt":     10,
		"sub/b.txt": 20,
		"sub/c.txt": 5,
	})

	records, err := New(nil).Aggregate(ScanContext{Root: root, DepthLimit: 1})
	require.NoError(t, err)

	assert.Equal(t, []DirectoryRecord{
		{Path: filepath.Join(root, "sub"), Size: 25},
		{Path: root, Size: 10},
	}, records)
	assert.Equal(t, uint64(35), sum(records))
}

func TestAggregateDepth(t *testing.T) {
	root := nestedTree(t)

	join := func(elem ...string) string {
		return filepath.Join(append([]string{root}, elem...)...)
	}

	tests := []struct {
		name     string
		depth    int
		expected []DirectoryRecord
	}{
		{
			name:  "zero rolls up every child of the root",
			depth: 0,
			expected: []DirectoryRecord{
				{Path: join("a"), Size: 14},
				{Path: join("d"), Size: 16},
				{Path: root, Size: 1},
			},
		},
		{
			name:  "one is equivalent to zero",
			depth: 1,
			expected: []DirectoryRecord{
				{Path: join("a"), Size: 14},
				{Path: join("d"), Size: 16},
				{Path: root, Size: 1},
			},
		},
		{
			name:  "two",
			depth: 2,
			expected: []DirectoryRecord{
				{Path: join("a", "b"), Size: 12},
				{Path: join("a"), Size: 2},
				{Path: join("d"), Size: 16},
				{Path: root, Size: 1},
			},
		},
		{
			name:  "deeper than the tree",
			depth: 10,
			expected: []DirectoryRecord{
				{Path: join("a", "b", "c"), Size: 8},
				{Path: join("a", "b"), Size: 4},
				{Path: join("a"), Size: 2},
				{Path: join("d"), Size: 16},
				{Path: root, Size: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := New(nil).Aggregate(ScanContext{Root: root, DepthLimit: tt.depth})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, records)
		})
	}
}

func TestAggregatePartition(t *testing.T) {
	root := nestedTree(t)
	writeTree(t, root, map[string]int{
		"a/b/c/e/f/g.bin": 100,
		"d/x/y.bin":       1000,
		"d/empty.txt":     0,
	})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "d", "nothing"), 0o755))

	const total = 1 + 2 + 4 + 8 + 16 + 100 + 1000

	for depth := 0; depth <= 7; depth++ {
		records, err := New(nil).Aggregate(ScanContext{Root: root, DepthLimit: depth})
		require.NoError(t, err, "depth %d", depth)

		assert.Equal(t, uint64(total), sum(records), "depth %d", depth)

		seen := make(map[string]bool, len(records))
		for _, r := range records {
			assert.False(t, seen[r.Path], "duplicate record for %s at depth %d", r.Path, depth)
			seen[r.Path] = true
		}

		assert.True(t, seen[root], "root record missing at depth %d", depth)
	}
}

func TestAggregateRootAlwaysReported(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]int{"sub/file.txt": 7})

	records, err := New(nil).Aggregate(ScanContext{Root: root, DepthLimit: 0})
	require.NoError(t, err)
	assert.Equal(t, []DirectoryRecord{
		{Path: filepath.Join(root, "sub"), Size: 7},
		{Path: root, Size: 0},
	}, records)
}

func TestAggregateSkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	root := t.TempDir()
	writeTree(t, root, map[string]int{"a/b/f.txt": 3})

	b := filepath.Join(root, "a", "b")
	require.NoError(t, os.Symlink(filepath.Join(root, "a"), filepath.Join(b, "loop")))
	require.NoError(t, os.Symlink(filepath.Join(b, "f.txt"), filepath.Join(b, "link.txt")))

	tests := []struct {
		depth    int
		expected []DirectoryRecord
	}{
		{
			depth: 0,
			expected: []DirectoryRecord{
				{Path: filepath.Join(root, "a"), Size: 3},
				{Path: root, Size: 0},
			},
		},
		{
			depth: 1,
			expected: []DirectoryRecord{
				{Path: filepath.Join(root, "a"), Size: 3},
				{Path: root, Size: 0},
			},
		},
		{
			depth: 5,
			expected: []DirectoryRecord{
				{Path: b, Size: 3},
				{Path: filepath.Join(root, "a"), Size: 0},
				{Path: root, Size: 0},
			},
		},
	}

	for _, tt := range tests {
		records, err := New(nil).Aggregate(ScanContext{Root: root, DepthLimit: tt.depth})
		require.NoError(t, err, "depth %d", tt.depth)

		assert.Equal(t, tt.expected, records, "depth %d", tt.depth)
		assert.Equal(t, uint64(3), sum(records), "depth %d", tt.depth)

		for _, r := range records {
			assert.NotEqual(t, filepath.Join(b, "loop"), r.Path, "depth %d", tt.depth)
		}
	}
}

func TestAggregateNegativeDepth(t *testing.T) {
	records, err := New(nil).Aggregate(ScanContext{Root: t.TempDir(), DepthLimit: -1})
	require.ErrorIs(t, err, ErrNegativeDepth)
	assert.Nil(t, records)
}

func TestAggregateUnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	root := t.TempDir()
	writeTree(t, root, map[string]int{
		"ok/file.txt":          1,
		"locked/deep/file.txt": 1,
	})

	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	for _, depth := range []int{0, 3} {
		records, err := New(nil).Aggregate(ScanContext{Root: root, DepthLimit: depth})
		require.Error(t, err, "depth %d", depth)
		assert.Nil(t, records)
		assert.ErrorIs(t, err, fs.ErrPermission)

		var accessErr *AccessError
		require.ErrorAs(t, err, &accessErr)
	}

	paths, err := New(nil).Enumerate(root)
	require.ErrorIs(t, err, fs.ErrPermission)
	assert.Nil(t, paths)
}

func TestHops(t *testing.T) {
	tests := []struct {
		root     string
		path     string
		expected int
	}{
		{root: "root", path: "root", expected: 0},
		{root: "root", path: filepath.Join("root", "a"), expected: 1},
		{root: "root", path: filepath.Join("root", "a", "b", "c"), expected: 3},
		{root: ".", path: "a", expected: 1},
		{root: filepath.Join("deep", "er", "root"), path: filepath.Join("deep", "er", "root", "x"), expected: 1},
	}

	for _, tt := range tests {
		got, err := hops(tt.root, tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got, "hops(%q, %q)", tt.root, tt.path)
	}
}

func TestRank(t *testing.T) {
	records := []DirectoryRecord{
		{Path: "a", Size: 5},
		{Path: "b", Size: 50},
		{Path: "c", Size: 1},
		{Path: "d", Size: 50},
		{Path: "e", Size: 20},
	}
	original := append([]DirectoryRecord(nil), records...)

	t.Run("top n descending", func(t *testing.T) {
		got := Rank(records, 3)
		assert.Equal(t, []DirectoryRecord{
			{Path: "b", Size: 50},
			{Path: "d", Size: 50},
			{Path: "e", Size: 20},
		}, got)
	})

	t.Run("returned records dominate the rest", func(t *testing.T) {
		for n := 1; n <= len(records); n++ {
			got := Rank(records, n)
			require.Len(t, got, n)

			minKept := got[len(got)-1].Size
			rest := Rank(records, len(records))[n:]
			for _, r := range rest {
				assert.LessOrEqual(t, r.Size, minKept)
			}
		}
	})

	t.Run("saturation", func(t *testing.T) {
		got := Rank(records, 100)
		assert.Len(t, got, len(records))
		assert.IsNonIncreasing(t, sizes(got))
	})

	t.Run("zero", func(t *testing.T) {
		assert.Empty(t, Rank(records, 0))
		assert.Empty(t, Rank(records, -3))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Rank(nil, 10))
	})

	assert.Equal(t, original, records, "input must not be modified")
}

func sizes(records []DirectoryRecord) []uint64 {
	out := make([]uint64, len(records))
	for i, r := range records {
		out[i] = r.Size
	}

	return out
}

func TestSummarize(t *testing.T) {
	records := []DirectoryRecord{
		{Path: filepath.Join(".", "a", "b"), Size: 3},
		{Path: "a", Size: 10},
		{Path: ".", Size: 2},
	}

	stats := Summarize(ScanContext{Root: ".", DepthLimit: 2}, records, 2)

	assert.Equal(t, uint64(15), stats.TotalBytes)
	assert.Equal(t, 3, stats.DirectoryCount)
	assert.Equal(t, 2, stats.TopN)
	assert.Equal(t, 2, stats.Depth)
	assert.Equal(t, []DirectoryRecord{
		{Path: "a", Size: 10},
		{Path: "a/b", Size: 3},
	}, stats.Top)
}

func TestRun(t *testing.T) {
	root := nestedTree(t)

	stats, err := New(nil).Run(ScanContext{Root: root, DepthLimit: 0}, 2)
	require.NoError(t, err)

	assert.Equal(t, uint64(31), stats.TotalBytes)
	assert.Equal(t, 3, stats.DirectoryCount)
	require.Len(t, stats.Top, 2)
	assert.Equal(t, filepath.ToSlash(filepath.Join(root, "d")), stats.Top[0].Path)
	assert.Equal(t, uint64(16), stats.Top[0].Size)
	assert.Equal(t, filepath.ToSlash(filepath.Join(root, "a")), stats.Top[1].Path)

	_, err = New(nil).Run(ScanContext{Root: filepath.Join(root, "missing")}, 2)
	require.ErrorIs(t, err, fs.ErrNotExist)
}
