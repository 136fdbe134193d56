// Package fsutil provides path-normalization and retry-on-transient-failure
// helpers. The YAML loader uses NormalizeSlashes; the other helpers have
// no callers in this module.
// These are pure filesystem-path mechanics with no CMSIS-Pack semantics of
// their own, so they stay on the standard library rather than pulling in a
// path-handling dependency (see DESIGN.md).
package fsutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// NormalizeSlashes converts a path to use forward slashes, matching
// RteFsUtils::MakePathCanonical's normalization so pack and project paths
// compare equal regardless of the host path separator.
func NormalizeSlashes(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// CaseInsensitiveEqual reports whether two paths are equal once slashes
// are normalized and case is folded, matching the case-insensitive
// comparison RteFsUtils uses on Windows pack roots.
func CaseInsensitiveEqual(a, b string) bool {
	return strings.EqualFold(NormalizeSlashes(a), NormalizeSlashes(b))
}

// RetryOpen opens a file, retrying on a transient error (e.g. a pack root
// shared with an antivirus scanner or a concurrent writer) up to retries
// times with the given backoff between attempts, mirroring
// RteFsUtils::DeleteFileAutoRetry / MoveFileExAutoRetry's retry shape.
func RetryOpen(path string, retries int, backoff time.Duration) (*os.File, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		f, err := os.Open(path)
		if err == nil {
			return f, nil
		}
		lastErr = err
		if os.IsNotExist(err) {
			return nil, err
		}
		if attempt < retries {
			time.Sleep(backoff)
		}
	}
	return nil, lastErr
}

// RetryRemove removes a path, retrying on a transient error up to retries
// times with the given backoff, matching
// RteFsUtils::RemoveDirectoryAutoRetry.
func RetryRemove(path string, retries int, backoff time.Duration) error {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		err := os.RemoveAll(path)
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt < retries {
			time.Sleep(backoff)
		}
	}
	return lastErr
}

// EnsureDir creates dir (and parents) if it does not already exist,
// matching RteFsUtils::CreateTextFile's "create directories if necessary"
// behavior.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// WriteFileAtomic writes content to a temporary file in the destination
// directory and renames it into place, so a reader never observes a
// partially written *.cbuild*.yml.
func WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// SubstituteInstance replaces "%Instance%" occurrences in content with
// the decimal instance number, matching
// RteFsUtils::CopyMergeFile/ExpandFile's "%Instance%" substitution.
func SubstituteInstance(content string, instance int) string {
	return strings.ReplaceAll(content, "%Instance%", strconv.Itoa(instance))
}
