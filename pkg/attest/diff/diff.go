// Package diff compares a reference manifest against a freshly built one
// and classifies every path. It is pure computation over two well-formed
// manifests: no I/O, no failure modes.
package diff

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/attest/pkg/attest/manifest"
	"github.com/jamesainslie/attest/pkg/attest/types"
)

// Kind classifies one path in a diff report.
type Kind string

const (
	// KindCorrupted marks content that changed while the stored mtime did
	// not. This is the corruption signal the tool exists to catch.
	KindCorrupted Kind = "corrupted"

	// KindModified marks content that changed along with its mtime, which
	// is treated as a legitimate edit.
	KindModified Kind = "modified"

	// KindMoved marks content that disappeared from one path and appeared
	// byte-identical at another.
	KindMoved Kind = "moved"

	// KindAdded marks a path present on disk but absent in the reference.
	KindAdded Kind = "added"

	// KindRemoved marks a path present in the reference but absent on disk.
	KindRemoved Kind = "removed"

	// KindUnchanged marks identical content at an identical path.
	KindUnchanged Kind = "unchanged"
)

// kindOrder fixes the grouping order of report entries.
var kindOrder = []Kind{KindCorrupted, KindModified, KindMoved, KindAdded, KindRemoved, KindUnchanged}

// Entry is one classified path. Path is the current path, except for
// Removed entries where it is the reference path. OldPath is set only for
// Moved entries. Old is meaningful for Corrupted, Modified, Moved, and
// Removed; New for Corrupted, Modified, Moved, Added, and Unchanged.
type Entry struct {
	Kind    Kind
	Path    string
	OldPath string
	Old     types.FileRecord
	New     types.FileRecord
}

// Summary holds per-kind entry counts.
type Summary struct {
	Unchanged int `json:"unchanged"`
	Corrupted int `json:"corrupted"`
	Modified  int `json:"modified"`
	Moved     int `json:"moved"`
	Added     int `json:"added"`
	Removed   int `json:"removed"`
}

// Report is the classified comparison of two manifests. Entries are
// grouped by kind (corrupted, modified, moved, added, removed, unchanged)
// and sorted by path within each group, so output is deterministic and
// diff-friendly. A Report is never mutated after creation.
type Report struct {
	// RunID identifies this comparison in logs and rendered output.
	RunID string

	// GeneratedAt is when the comparison ran.
	GeneratedAt time.Time

	// Entries lists every classified path.
	Entries []Entry

	// Summary counts entries per kind.
	Summary Summary
}

// HasCorruption reports whether any entry is classified corrupted. Any
// corrupted entry forces a non-zero process exit.
func (r *Report) HasCorruption() bool {
	return r.Summary.Corrupted > 0
}

// contentKey indexes records by exact content identity for move detection.
type contentKey struct {
	hash string
	size int64
}

// Diff compares the reference manifest against the current one and
// returns the classified report.
//
// Common paths classify on digest+size, then on mtime: identical content
// is unchanged; changed content with a bit-identical stored mtime is
// corrupted; changed content with a changed mtime is modified. Paths on
// one side only enter move detection: reference-only and current-only
// records are indexed by (digest, size) and matching keys pair ascending
// path to ascending path, one-to-one, surplus falling back to removed or
// added. A file that moved and changed content is indistinguishable from
// an unrelated remove+add pair and is reported as such. Zero-size files
// never pair as moved, since all empty files share a digest.
func Diff(ref, cur *manifest.Manifest) *Report {
	var entries []Entry

	var refOnly, curOnly []types.FileRecord

	for _, path := range ref.Paths() {
		oldRec, _ := ref.Get(path)
		newRec, ok := cur.Get(path)
		if !ok {
			refOnly = append(refOnly, oldRec)
			continue
		}
		entries = append(entries, classifyCommon(path, oldRec, newRec))
	}

	for _, path := range cur.Paths() {
		if _, ok := ref.Get(path); !ok {
			rec, _ := cur.Get(path)
			curOnly = append(curOnly, rec)
		}
	}

	entries = append(entries, matchMoves(refOnly, curOnly)...)

	sortEntries(entries)

	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Entries:     entries,
		Summary:     summarize(entries),
	}
}

// classifyCommon classifies a path present in both manifests.
func classifyCommon(path string, oldRec, newRec types.FileRecord) Entry {
	switch {
	case oldRec.SameContent(newRec):
		return Entry{Kind: KindUnchanged, Path: path, Old: oldRec, New: newRec}
	case oldRec.MTime == newRec.MTime:
		return Entry{Kind: KindCorrupted, Path: path, Old: oldRec, New: newRec}
	default:
		return Entry{Kind: KindModified, Path: path, Old: oldRec, New: newRec}
	}
}

// matchMoves pairs reference-only records with current-only records of
// identical content and emits moved entries; everything unpaired becomes
// removed or added.
func matchMoves(refOnly, curOnly []types.FileRecord) []Entry {
	refIdx := indexByContent(refOnly)
	curIdx := indexByContent(curOnly)

	// Reference-only and current-only path sets are disjoint, so one set
	// tracks both sides.
	paired := make(map[string]struct{}, len(refOnly))
	var entries []Entry

	for key, refPaths := range refIdx {
		curPaths, ok := curIdx[key]
		if !ok {
			continue
		}

		sort.Strings(refPaths)
		sort.Strings(curPaths)

		n := len(refPaths)
		if len(curPaths) < n {
			n = len(curPaths)
		}
		for i := 0; i < n; i++ {
			paired[refPaths[i]] = struct{}{}
			paired[curPaths[i]] = struct{}{}
			entries = append(entries, Entry{
				Kind:    KindMoved,
				Path:    curPaths[i],
				OldPath: refPaths[i],
			})
		}
	}

	// Attach the real records to moved entries and emit the surplus.
	refByPath := recordsByPath(refOnly)
	curByPath := recordsByPath(curOnly)

	for i := range entries {
		entries[i].Old = refByPath[entries[i].OldPath]
		entries[i].New = curByPath[entries[i].Path]
	}

	for _, rec := range refOnly {
		if _, ok := paired[rec.Path]; !ok {
			entries = append(entries, Entry{Kind: KindRemoved, Path: rec.Path, Old: rec})
		}
	}
	for _, rec := range curOnly {
		if _, ok := paired[rec.Path]; !ok {
			entries = append(entries, Entry{Kind: KindAdded, Path: rec.Path, New: rec})
		}
	}

	return entries
}

// indexByContent groups paths by (digest, size). Zero-size records are
// left out: every empty file has the same digest, so a content match on
// them carries no move signal.
func indexByContent(records []types.FileRecord) map[contentKey][]string {
	idx := make(map[contentKey][]string)
	for _, r := range records {
		if r.Size == 0 {
			continue
		}
		key := contentKey{hash: r.Hash, size: r.Size}
		idx[key] = append(idx[key], r.Path)
	}
	return idx
}

func recordsByPath(records []types.FileRecord) map[string]types.FileRecord {
	m := make(map[string]types.FileRecord, len(records))
	for _, r := range records {
		m[r.Path] = r
	}
	return m
}

// sortEntries orders entries by kind group, then by path within the group.
func sortEntries(entries []Entry) {
	rank := make(map[Kind]int, len(kindOrder))
	for i, k := range kindOrder {
		rank[k] = i
	}

	sort.Slice(entries, func(i, j int) bool {
		if rank[entries[i].Kind] != rank[entries[j].Kind] {
			return rank[entries[i].Kind] < rank[entries[j].Kind]
		}
		return entries[i].Path < entries[j].Path
	})
}

func summarize(entries []Entry) Summary {
	var s Summary
	for _, e := range entries {
		switch e.Kind {
		case KindUnchanged:
			s.Unchanged++
		case KindCorrupted:
			s.Corrupted++
		case KindModified:
			s.Modified++
		case KindMoved:
			s.Moved++
		case KindAdded:
			s.Added++
		case KindRemoved:
			s.Removed++
		}
	}
	return s
}
