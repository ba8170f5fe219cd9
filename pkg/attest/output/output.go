// Package output provides formatters for rendering verification reports
// in various output formats (pretty, plain, json).
//
// The package uses a registry pattern to allow registration of multiple
// formatter implementations that can be selected at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, result); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/attest/pkg/attest/diff"
	"github.com/jamesainslie/attest/pkg/attest/types"
)

// Stats carries build statistics for the run being rendered.
type Stats struct {
	// FilesHashed is the number of files hashed in the current snapshot.
	FilesHashed int64 `json:"files_hashed"`

	// BytesHashed is the total content bytes hashed.
	BytesHashed int64 `json:"bytes_hashed"`

	// Duration is the wall-clock time of the walk and hash phase.
	Duration time.Duration `json:"duration"`
}

// Result contains the complete output data for formatting.
type Result struct {
	// Report is the classified comparison. Nil for a bare build run,
	// where only stats and skipped paths are rendered.
	Report *diff.Report

	// Root is the directory that was snapshotted.
	Root string

	// Stats contains build statistics.
	Stats Stats

	// Skipped lists paths excluded from the snapshot by recoverable
	// errors.
	Skipped []types.PathError

	// Quiet restricts rendering to corrupted entries.
	Quiet bool
}

// VisibleEntries returns the report entries a formatter should list.
// Unchanged entries are never listed (they appear only in the summary);
// quiet mode narrows the listing to corrupted entries.
func (r *Result) VisibleEntries() []diff.Entry {
	if r.Report == nil {
		return nil
	}

	var out []diff.Entry
	for _, e := range r.Report.Entries {
		switch {
		case e.Kind == diff.KindCorrupted:
			out = append(out, e)
		case !r.Quiet && e.Kind != diff.KindUnchanged:
			out = append(out, e)
		}
	}
	return out
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]FormatterFactory)}
}

// Register adds a formatter factory to the registry, replacing any
// existing formatter with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
