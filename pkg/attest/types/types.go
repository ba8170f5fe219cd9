// Package types provides core data types for the attest integrity checker.
// It includes the per-file manifest record, recoverable per-path errors,
// and progress reporting structures shared by the builder and the CLI.
package types

import (
	"time"

	"github.com/dustin/go-humanize"
)

// FileRecord captures one regular file's content identity at snapshot time.
// Within a manifest the Path is unique; Hash and Size are a function of the
// file's content only.
type FileRecord struct {
	// Path is the POSIX-style path relative to the snapshot root,
	// forward-slash separated on every platform.
	Path string `json:"path"`

	// Hash is the lowercase hex BLAKE3 digest of the file content.
	Hash string `json:"hash"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// MTime is the last modification time in whole seconds since the epoch.
	// Sub-second precision is discarded so that two snapshots of an
	// untouched file always compare equal.
	MTime int64 `json:"mtime"`
}

// SameContent reports whether two records describe byte-identical content.
func (r FileRecord) SameContent(other FileRecord) bool {
	return r.Hash == other.Hash && r.Size == other.Size
}

// ModTime returns the record's modification time as a time.Time.
func (r FileRecord) ModTime() time.Time {
	return time.Unix(r.MTime, 0)
}

// PathError records a recoverable failure on a single path. The path is
// excluded from the manifest and the run continues.
type PathError struct {
	// Path is the file or directory path where the error occurred.
	Path string `json:"path"`

	// Err is the error message describing what went wrong.
	Err string `json:"error"`
}

// BuildProgress is a snapshot of manifest construction state, delivered to
// the progress callback.
type BuildProgress struct {
	// FilesHashed is the number of files fully processed so far.
	FilesHashed int64 `json:"files_hashed"`

	// BytesHashed is the total content bytes hashed so far.
	BytesHashed int64 `json:"bytes_hashed"`

	// Skipped is the number of paths skipped due to recoverable errors.
	Skipped int64 `json:"skipped"`

	// CurrentPath is the path most recently dispatched for hashing.
	CurrentPath string `json:"current_path"`
}

// FormatSize converts a size in bytes to a human-readable string using
// binary (IEC) units, e.g. "1.5 MiB".
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}
