// Package manifest provides the durable snapshot of a directory tree's
// content. A Manifest maps relative paths to file records and is immutable
// once built; updates produce a new value. On disk a manifest is a JSON
// array of {path, hash, size, mtime} objects sorted by path.
package manifest

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jamesainslie/attest/pkg/attest/types"
)

// ErrDuplicatePath indicates two records sharing a relative path, which is
// a contract violation within one manifest.
var ErrDuplicatePath = errors.New("duplicate path in manifest")

// ErrInvalidManifest indicates a manifest document that does not satisfy
// the on-disk contract. Loading such a document is fatal.
var ErrInvalidManifest = errors.New("invalid manifest")

// Manifest is an immutable snapshot mapping relative paths to file records.
type Manifest struct {
	records map[string]types.FileRecord
	paths   []string
}

// New builds a Manifest from records. It returns ErrDuplicatePath if two
// records share a path.
func New(records []types.FileRecord) (*Manifest, error) {
	m := &Manifest{
		records: make(map[string]types.FileRecord, len(records)),
		paths:   make([]string, 0, len(records)),
	}

	for _, r := range records {
		if _, exists := m.records[r.Path]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, r.Path)
		}
		m.records[r.Path] = r
		m.paths = append(m.paths, r.Path)
	}

	sort.Strings(m.paths)
	return m, nil
}

// Len returns the number of records.
func (m *Manifest) Len() int {
	return len(m.records)
}

// Get returns the record for a relative path.
func (m *Manifest) Get(path string) (types.FileRecord, bool) {
	r, ok := m.records[path]
	return r, ok
}

// Paths returns the relative paths in ascending order. The returned slice
// is a copy and safe to modify.
func (m *Manifest) Paths() []string {
	out := make([]string, len(m.paths))
	copy(out, m.paths)
	return out
}

// Records returns all records ordered by ascending path.
func (m *Manifest) Records() []types.FileRecord {
	out := make([]types.FileRecord, 0, len(m.paths))
	for _, p := range m.paths {
		out = append(out, m.records[p])
	}
	return out
}

// Equal reports whether two manifests contain identical records.
func (m *Manifest) Equal(other *Manifest) bool {
	if m.Len() != other.Len() {
		return false
	}
	for p, r := range m.records {
		o, ok := other.records[p]
		if !ok || o != r {
			return false
		}
	}
	return true
}

// Load reads and validates a manifest file. Any deviation from the on-disk
// contract (not a JSON array, malformed records, duplicate paths) is fatal
// and reported as ErrInvalidManifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var records []types.FileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	for _, r := range records {
		if err := validateRecord(r); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
	}

	m, err := New(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return m, nil
}

// Save writes the manifest atomically using a temp file and rename, so a
// crash mid-write never leaves a truncated manifest behind.
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m.Records(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp manifest: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename manifest: %w", err)
	}

	return nil
}

// validateRecord checks one record against the on-disk contract.
func validateRecord(r types.FileRecord) error {
	if r.Path == "" {
		return errors.New("record with empty path")
	}
	if r.Size < 0 {
		return fmt.Errorf("negative size for %s", r.Path)
	}
	if r.MTime < 0 {
		return fmt.Errorf("negative mtime for %s", r.Path)
	}
	if r.Hash != strings.ToLower(r.Hash) {
		return fmt.Errorf("digest for %s is not lowercase hex", r.Path)
	}
	if _, err := hex.DecodeString(r.Hash); err != nil {
		return fmt.Errorf("digest for %s is not valid hex", r.Path)
	}
	return nil
}
