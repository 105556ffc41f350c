// Package dirstat provides the directory traversal engine shared by the tools.
//
// It enumerates the regular files below a root, aggregates file sizes into
// per-directory records up to a depth limit relative to that root, and ranks
// those records by size. Traversals are sequential and stop at the first
// unreadable directory.
package dirstat
