package output

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/jamesainslie/attest/pkg/attest/diff"
	"github.com/jamesainslie/attest/pkg/attest/types"
)

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	Entries []jsonEntry       `json:"entries"`
	Summary *diff.Summary     `json:"summary,omitempty"`
	Skipped []types.PathError `json:"skipped,omitempty"`
	Stats   jsonStats         `json:"stats"`
	Meta    jsonMeta          `json:"meta"`
}

// jsonEntry represents one classified path in JSON output.
type jsonEntry struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	OldPath string `json:"old_path,omitempty"`
	OldHash string `json:"old_hash,omitempty"`
	NewHash string `json:"new_hash,omitempty"`
}

// jsonStats represents build statistics in JSON output.
type jsonStats struct {
	FilesHashed int64  `json:"files_hashed"`
	BytesHashed int64  `json:"bytes_hashed"`
	Duration    string `json:"duration"`
}

// jsonMeta represents run metadata in JSON output.
type jsonMeta struct {
	Root        string    `json:"root"`
	RunID       string    `json:"run_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at,omitempty"`
}

// JSONFormatter renders a report as a single indented JSON object.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	output := f.buildOutput(r)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildOutput converts a Result to the JSON output structure.
func (f *JSONFormatter) buildOutput(r *Result) jsonOutput {
	visible := r.VisibleEntries()
	entries := make([]jsonEntry, 0, len(visible))
	for _, e := range visible {
		je := jsonEntry{
			Kind:    string(e.Kind),
			Path:    e.Path,
			OldPath: e.OldPath,
		}
		if e.Kind == diff.KindCorrupted || e.Kind == diff.KindModified {
			je.OldHash = e.Old.Hash
			je.NewHash = e.New.Hash
		}
		entries = append(entries, je)
	}

	out := jsonOutput{
		Entries: entries,
		Skipped: r.Skipped,
		Stats: jsonStats{
			FilesHashed: r.Stats.FilesHashed,
			BytesHashed: r.Stats.BytesHashed,
			Duration:    r.Stats.Duration.String(),
		},
		Meta: jsonMeta{Root: r.Root},
	}

	if r.Report != nil {
		summary := r.Report.Summary
		out.Summary = &summary
		out.Meta.RunID = r.Report.RunID
		out.Meta.GeneratedAt = r.Report.GeneratedAt
	}

	return out
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
