// Package walker enumerates the regular files under a snapshot root using
// fastwalk. Directories whose base name appears in the exclusion set are
// pruned at any depth. Symbolic links are skipped entirely: links to
// directories are not descended (prevents cycles) and links to files are
// not hashed; this applies uniformly to build and verify.
package walker

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charlievieth/fastwalk"
)

// ErrNotDirectory indicates that the walk root is not a directory.
var ErrNotDirectory = errors.New("root is not a directory")

// Options configures a walk.
type Options struct {
	// Root is the directory to enumerate. It must exist and be readable;
	// anything else is fatal to the walk.
	Root string

	// Exclude contains directory base names to prune. A match at any
	// depth skips the entire subtree.
	Exclude []string

	// ExcludePaths contains slash-separated paths relative to Root that
	// are skipped without being reported. Used to keep the manifest file
	// itself out of its own snapshot.
	ExcludePaths []string

	// NumWorkers bounds fastwalk's concurrency. Zero uses the fastwalk
	// default.
	NumWorkers int

	// OnFile is invoked for every regular file with its absolute path,
	// its slash-separated path relative to Root, and its directory entry.
	// Calls may arrive concurrently from multiple walk workers.
	OnFile func(path, rel string, d fs.DirEntry)

	// OnError receives recoverable per-entry errors (permission denied,
	// vanished entries). The walk continues after each call. May be nil.
	OnError func(path string, err error)
}

// Walk enumerates regular files under opts.Root. It returns an error only
// for fatal conditions: an unusable root, or cancellation of ctx. The set
// of visited files is identical across runs on an unmodified tree; arrival
// order is not.
func Walk(ctx context.Context, opts Options) error {
	root, err := validateRoot(opts.Root)
	if err != nil {
		return err
	}

	exclude := make(map[string]struct{}, len(opts.Exclude))
	for _, name := range opts.Exclude {
		exclude[name] = struct{}{}
	}

	excludePaths := make(map[string]struct{}, len(opts.ExcludePaths))
	for _, rel := range opts.ExcludePaths {
		excludePaths[rel] = struct{}{}
	}

	conf := fastwalk.Config{
		Follow:     false,
		NumWorkers: opts.NumWorkers,
	}

	walkErr := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil {
			if path == root {
				return err
			}
			if opts.OnError != nil {
				opts.OnError(path, err)
			}
			return nil
		}

		if d.IsDir() {
			if _, skip := exclude[d.Name()]; skip && path != root {
				return fastwalk.SkipDir
			}
			return nil
		}

		// Symlinks and other irregular entries are skipped.
		if !d.Type().IsRegular() {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			if opts.OnError != nil {
				opts.OnError(path, relErr)
			}
			return nil
		}
		slashRel := filepath.ToSlash(rel)

		if _, skip := excludePaths[slashRel]; skip {
			return nil
		}

		opts.OnFile(path, slashRel, d)
		return nil
	})

	if walkErr != nil {
		return walkErr
	}
	return ctx.Err()
}

// validateRoot resolves the root path to absolute and verifies it is a
// readable directory.
func validateRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", ErrNotDirectory
	}

	return abs, nil
}
