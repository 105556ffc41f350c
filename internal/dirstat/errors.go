package dirstat

import (
	"errors"
	"fmt"
)

// AccessError reports a filesystem read failure that aborted a scan.
type AccessError struct {
	// Op is the failing operation (e.g. "read directory", "stat").
	Op string
	// Path is the path the operation was applied to.
	Path string
	// Err is the underlying error.
	Err error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// ErrNegativeDepth is returned when a ScanContext carries a negative depth limit.
var ErrNegativeDepth = errors.New("depth limit cannot be negative")
