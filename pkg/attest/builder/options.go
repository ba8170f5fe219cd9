// Package builder constructs a content manifest from a live filesystem
// tree. It drives the walker and hasher on a bounded worker pool and
// collects one FileRecord per readable regular file.
package builder

import (
	"runtime"

	"github.com/jamesainslie/attest/pkg/attest/types"
)

// Options configures a manifest build.
type Options struct {
	// Root is the directory to snapshot.
	Root string

	// Exclude contains directory base names to prune at any depth.
	Exclude []string

	// ExcludePaths contains slash-separated paths relative to Root left
	// out of the snapshot, typically the manifest file when it lives
	// inside the tree.
	ExcludePaths []string

	// Workers bounds the number of concurrent hashing workers.
	// Zero or negative selects a default based on CPU count.
	Workers int

	// OnProgress is called with build progress updates, at most once per
	// completed file. It must be safe to call from multiple goroutines.
	OnProgress func(types.BuildProgress)
}

// applyDefaults fills in unset values.
func (o *Options) applyDefaults() {
	if o.Root == "" {
		o.Root = "."
	}
	if o.Workers < 1 {
		o.Workers = runtime.NumCPU()
	}
}
