package builder

import (
	"context"
	"io/fs"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jamesainslie/attest/pkg/attest/hasher"
	"github.com/jamesainslie/attest/pkg/attest/logging"
	"github.com/jamesainslie/attest/pkg/attest/manifest"
	"github.com/jamesainslie/attest/pkg/attest/types"
	"github.com/jamesainslie/attest/pkg/attest/walker"
)

var logger = logging.Get("builder")

// Result contains a completed build: the manifest, the paths that were
// skipped with their errors, and build statistics.
type Result struct {
	// Manifest is the snapshot of all successfully hashed files.
	Manifest *manifest.Manifest

	// Skipped lists paths excluded from the manifest by recoverable
	// errors (permission denied, read failures, vanished files).
	Skipped []types.PathError

	// FilesHashed is the number of files in the manifest.
	FilesHashed int64

	// BytesHashed is the total content bytes hashed.
	BytesHashed int64

	// Elapsed is the wall-clock build duration.
	Elapsed time.Duration
}

// Builder performs one manifest build. Each build owns its transient
// state; a Builder is not reused.
type Builder struct {
	opts Options

	filesHashed atomic.Int64
	bytesHashed atomic.Int64
	skippedN    atomic.Int64

	currentPath atomic.Value

	records   []types.FileRecord
	recordsMu sync.Mutex

	skipped   []types.PathError
	skippedMu sync.Mutex
}

// New creates a Builder with the given options, applying defaults.
func New(opts Options) *Builder {
	opts.applyDefaults()

	b := &Builder{
		opts:    opts,
		records: make([]types.FileRecord, 0),
		skipped: make([]types.PathError, 0),
	}
	b.currentPath.Store("")
	return b
}

// Build walks the root and hashes every regular file, returning the
// resulting manifest. Per-file failures are collected in Result.Skipped
// and never abort the build. Cancelling ctx stops dispatching new files,
// lets in-flight hashing finish, and returns the context error with no
// manifest.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()

	logger.Info("build started", "root", b.opts.Root, "workers", b.opts.Workers)

	err := walker.Walk(ctx, walker.Options{
		Root:         b.opts.Root,
		Exclude:      b.opts.Exclude,
		ExcludePaths: b.opts.ExcludePaths,
		NumWorkers:   b.opts.Workers,
		OnFile:       b.processFile,
		OnError:      b.addSkipped,
	})
	if err != nil {
		logger.Error("build aborted", "error", err)
		return nil, err
	}

	m, err := manifest.New(b.records)
	if err != nil {
		// A single walk cannot yield the same relative path twice;
		// reaching this means a walker bug.
		return nil, err
	}

	result := &Result{
		Manifest:    m,
		Skipped:     b.skipped,
		FilesHashed: b.filesHashed.Load(),
		BytesHashed: b.bytesHashed.Load(),
		Elapsed:     time.Since(start),
	}

	logger.Info("build finished",
		"files", result.FilesHashed,
		"bytes", result.BytesHashed,
		"skipped", len(result.Skipped),
		"elapsed", result.Elapsed)

	return result, nil
}

// processFile stats and hashes one file. The modification time is captured
// before the content is read, so a write racing the hash surfaces as a
// future mtime change rather than a silent mismatch. Best effort, not a
// transactional guarantee.
func (b *Builder) processFile(path, rel string, d fs.DirEntry) {
	b.currentPath.Store(rel)

	info, err := d.Info()
	if err != nil {
		b.addSkipped(rel, err)
		return
	}
	mtime := info.ModTime().Unix()

	digest, size, err := hasher.SumFile(path)
	if err != nil {
		b.addSkipped(rel, err)
		return
	}

	record := types.FileRecord{
		Path:  rel,
		Hash:  digest,
		Size:  size,
		MTime: mtime,
	}

	b.recordsMu.Lock()
	b.records = append(b.records, record)
	b.recordsMu.Unlock()

	b.filesHashed.Add(1)
	b.bytesHashed.Add(size)
	b.reportProgress()
}

// addSkipped records a recoverable per-path failure.
func (b *Builder) addSkipped(path string, err error) {
	logger.Debug("skipping path", "path", path, "error", err)

	b.skippedMu.Lock()
	b.skipped = append(b.skipped, types.PathError{Path: path, Err: err.Error()})
	b.skippedMu.Unlock()

	b.skippedN.Add(1)
	b.reportProgress()
}

// reportProgress delivers the current counters to the callback. The
// callback fires once per completed or skipped file; any rendering
// throttle is the consumer's concern.
func (b *Builder) reportProgress() {
	if b.opts.OnProgress == nil {
		return
	}
	current, _ := b.currentPath.Load().(string)

	b.opts.OnProgress(types.BuildProgress{
		FilesHashed: b.filesHashed.Load(),
		BytesHashed: b.bytesHashed.Load(),
		Skipped:     b.skippedN.Load(),
		CurrentPath: current,
	})
}
