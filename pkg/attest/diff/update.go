package diff

import (
	"github.com/jamesainslie/attest/pkg/attest/manifest"
	"github.com/jamesainslie/attest/pkg/attest/types"
)

// UpdateOptions controls how a report is folded back into a baseline.
type UpdateOptions struct {
	// AcceptCorrupted carries the current on-disk record forward for
	// corrupted paths. The default keeps the reference record, so
	// detected corruption is never silently absorbed into the trusted
	// baseline.
	AcceptCorrupted bool
}

// Update applies a diff report to the reference manifest and returns the
// manifest describing current disk state. Unchanged, modified, added, and
// the new side of moved paths carry the current record; removed paths and
// the old side of moved paths are dropped; corrupted paths follow opts.
// The reference is not mutated.
func Update(ref *manifest.Manifest, report *Report, opts UpdateOptions) (*manifest.Manifest, error) {
	records := make([]types.FileRecord, 0, len(report.Entries))

	for _, e := range report.Entries {
		switch e.Kind {
		case KindUnchanged, KindModified, KindAdded, KindMoved:
			records = append(records, e.New)
		case KindCorrupted:
			if opts.AcceptCorrupted {
				records = append(records, e.New)
			} else {
				records = append(records, e.Old)
			}
		case KindRemoved:
			// Dropped.
		}
	}

	return manifest.New(records)
}
