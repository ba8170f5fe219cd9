package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/jamesainslie/attest/pkg/attest/diff"
)

// PlainFormatter renders a report as a simple tab-separated table with no
// colors or styling, suitable for scripting and piping.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	for _, e := range r.VisibleEntries() {
		var err error
		switch e.Kind {
		case diff.KindCorrupted:
			_, err = fmt.Fprintf(tw, "%s\t%s\texpected=%s found=%s\n",
				e.Kind, e.Path, e.Old.Hash, e.New.Hash)
		case diff.KindMoved:
			_, err = fmt.Fprintf(tw, "%s\t%s\tfrom=%s\n", e.Kind, e.Path, e.OldPath)
		default:
			_, err = fmt.Fprintf(tw, "%s\t%s\t\n", e.Kind, e.Path)
		}
		if err != nil {
			return err
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if r.Quiet || r.Report == nil {
		return nil
	}

	for _, s := range r.Skipped {
		fmt.Fprintf(w, "skipped %s: %s\n", s.Path, s.Err)
	}

	sum := r.Report.Summary
	fmt.Fprintf(w, "unchanged=%d corrupted=%d modified=%d moved=%d added=%d removed=%d\n",
		sum.Unchanged, sum.Corrupted, sum.Modified, sum.Moved, sum.Added, sum.Removed)

	return nil
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
