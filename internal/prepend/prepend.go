// Package prepend inserts a line at the start of a file, keeping a backup of the original.
package prepend

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
)

// BackupSuffix is appended to a file's name (after its extension) to form the backup name.
const BackupSuffix = ".bak"

// ErrBackup is returned when the original file could not be moved to its backup path.
// Nothing has been written when it is returned.
var ErrBackup = errors.New("creating backup")

// Result describes a completed rewrite.
type Result struct {
	// Path is the rewritten file.
	Path string
	// Backup is the path holding the original content.
	Backup string
	// Bytes is the size of the rewritten file.
	Bytes int64
}

// Prepender rewrites files.
type Prepender struct {
	log logrus.FieldLogger
}

// New creates a Prepender that writes debug output to log.
// A nil log discards all output.
func New(log logrus.FieldLogger) *Prepender {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	return &Prepender{log: log.WithField("component", "prepend")}
}

// BackupPath returns the backup location for path: "notes.txt" becomes "notes.txt.bak".
func BackupPath(path string) string {
	return path + BackupSuffix
}

// Prepend moves path to its backup location and writes a new file at path
// consisting of text as its first line followed by the backup's content unchanged.
//
// An advisory lock on path+".lock" is held for the whole operation. The lock
// file is left in place, and an existing file of that name is not modified. If the
// rewrite fails after the rename the original content remains in the backup.
func (p *Prepender) Prepend(path, text string) (Result, error) {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return Result{}, fmt.Errorf("failed to acquire lock on %s: %w", lock.Path(), err)
	}

	defer func() {
		if err := lock.Unlock(); err != nil {
			p.log.WithError(err).Warn("releasing lock")
		}
	}()

	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrBackup, err)
	}

	if !info.Mode().IsRegular() {
		return Result{}, fmt.Errorf("%w: %q is not a regular file", ErrBackup, path)
	}

	backup := BackupPath(path)

	p.log.WithField("backup", backup).Debugf("moving %s", path)

	if err := os.Rename(path, backup); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrBackup, err)
	}

	written, err := rewrite(path, backup, text, info.Mode().Perm())
	if err != nil {
		return Result{}, fmt.Errorf("rewriting %q (original kept at %q): %w", path, backup, err)
	}

	p.log.WithField("path", path).Debugf("wrote %d bytes", written)

	return Result{Path: path, Backup: backup, Bytes: written}, nil
}

// rewrite streams text, a newline and the content of src into a new file at dst.
func rewrite(dst, src, text string, perm os.FileMode) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return 0, err
	}

	w := bufio.NewWriter(out)

	head, err := w.WriteString(text + "\n")
	if err != nil {
		out.Close()

		return 0, err
	}

	body, err := io.Copy(w, in)
	if err != nil {
		out.Close()

		return 0, err
	}

	if err := w.Flush(); err != nil {
		out.Close()

		return 0, err
	}

	if err := out.Sync(); err != nil {
		out.Close()

		return 0, err
	}

	if err := out.Close(); err != nil {
		return 0, err
	}

	return int64(head) + body, nil
}
