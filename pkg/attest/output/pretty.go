package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jamesainslie/attest/pkg/attest/diff"
	"github.com/jamesainslie/attest/pkg/attest/types"
)

// PrettyFormatter renders a report with colors and styling using lipgloss.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	if !r.Quiet {
		w.WriteString(f.formatHeader(r))
		w.WriteString("\n")
	}

	for _, e := range r.VisibleEntries() {
		w.WriteString(f.formatEntry(e))
	}

	if r.Quiet {
		return nil
	}

	if len(r.Skipped) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatSkipped(r.Skipped))
	}

	if r.Report != nil {
		w.WriteString(f.formatSummary(r.Report.Summary))
		w.WriteString("\n")
	}

	return nil
}

// formatHeader builds the header box with run metadata.
func (f *PrettyFormatter) formatHeader(r *Result) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("%s %s",
		LabelStyle.Render("Root:"),
		TitleStyle.Render(r.Root)))

	hashed := fmt.Sprintf("%d files, %s in %s",
		r.Stats.FilesHashed,
		types.FormatSize(r.Stats.BytesHashed),
		r.Stats.Duration.Round(time.Millisecond))
	lines = append(lines, fmt.Sprintf("%s %s",
		LabelStyle.Render("Hashed:"),
		ValueStyle.Render(hashed)))

	if r.Report != nil {
		lines = append(lines, fmt.Sprintf("%s %s",
			LabelStyle.Render("Run:"),
			MutedStyle.Render(r.Report.RunID)))
	}

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatEntry renders one classified path.
func (f *PrettyFormatter) formatEntry(e diff.Entry) string {
	tag := kindStyle(e.Kind).Render(strings.ToUpper(string(e.Kind)))

	switch e.Kind {
	case diff.KindCorrupted:
		return fmt.Sprintf("%s %s\n  %s %s\n  %s %s\n",
			tag, ValueStyle.Render(e.Path),
			LabelStyle.Render("expected:"), MutedStyle.Render(e.Old.Hash),
			LabelStyle.Render("found:   "), MutedStyle.Render(e.New.Hash))
	case diff.KindMoved:
		return fmt.Sprintf("%s %s %s %s\n",
			tag,
			MutedStyle.Render(e.OldPath),
			LabelStyle.Render("->"),
			ValueStyle.Render(e.Path))
	default:
		return fmt.Sprintf("%s %s\n", tag, ValueStyle.Render(e.Path))
	}
}

// formatSkipped renders the recoverable-error summary.
func (f *PrettyFormatter) formatSkipped(skipped []types.PathError) string {
	var sb strings.Builder
	sb.WriteString(WarningStyle.Render(fmt.Sprintf("%d paths skipped:", len(skipped))))
	sb.WriteString("\n")
	for _, s := range skipped {
		sb.WriteString(fmt.Sprintf("  %s %s\n",
			MutedStyle.Render(s.Path),
			LabelStyle.Render(s.Err)))
	}
	return sb.String()
}

// formatSummary renders the per-kind counts.
func (f *PrettyFormatter) formatSummary(s diff.Summary) string {
	corrupted := SuccessStyle
	if s.Corrupted > 0 {
		corrupted = CorruptedStyle
	}

	lines := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("Unchanged:"), ValueStyle.Render(fmt.Sprint(s.Unchanged))),
		fmt.Sprintf("%s %s", LabelStyle.Render("Corrupted:"), corrupted.Render(fmt.Sprint(s.Corrupted))),
		fmt.Sprintf("%s %s", LabelStyle.Render("Modified: "), ValueStyle.Render(fmt.Sprint(s.Modified))),
		fmt.Sprintf("%s %s", LabelStyle.Render("Moved:    "), ValueStyle.Render(fmt.Sprint(s.Moved))),
		fmt.Sprintf("%s %s", LabelStyle.Render("Added:    "), ValueStyle.Render(fmt.Sprint(s.Added))),
		fmt.Sprintf("%s %s", LabelStyle.Render("Removed:  "), ValueStyle.Render(fmt.Sprint(s.Removed))),
	}

	return SummaryBox.Render(strings.Join(lines, "\n"))
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
