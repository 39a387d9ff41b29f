package report

import (
	"fmt"
	"strings"

	"apidiff/internal/diff"
)

// ConsoleReporter renders a plain-text report for terminal output
type ConsoleReporter struct {
	opts Options
}

// Render implements Reporter
func (r *ConsoleReporter) Render(result *diff.ComparisonResult) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("API Comparison: %s -> %s\n", result.OldAssembly, result.NewAssembly))
	b.WriteString(fmt.Sprintf("Run %s at %s\n", result.ComparisonID, result.Timestamp.Format("2006-01-02 15:04:05 UTC")))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	diffs := visible(result, r.opts)
	if len(diffs) == 0 {
		b.WriteString("No differences found.\n\n")
	}

	for _, d := range diffs {
		b.WriteString(fmt.Sprintf("[%s] %s %s: %s\n",
			strings.ToUpper(string(d.Severity)), marker(d), d.ElementName, d.Description))
		if d.OldSignature != "" {
			b.WriteString(fmt.Sprintf("    old: %s\n", d.OldSignature))
		}
		if d.NewSignature != "" {
			b.WriteString(fmt.Sprintf("    new: %s\n", d.NewSignature))
		}
	}
	if len(diffs) > 0 {
		b.WriteString("\n")
	}

	s := result.Summary
	b.WriteString("Summary:\n")
	b.WriteString(fmt.Sprintf("  Added:    %d\n", s.AddedCount))
	b.WriteString(fmt.Sprintf("  Removed:  %d\n", s.RemovedCount))
	b.WriteString(fmt.Sprintf("  Modified: %d\n", s.ModifiedCount))
	b.WriteString(fmt.Sprintf("  Breaking: %d\n", s.BreakingChangesCount))
	b.WriteString(fmt.Sprintf("  Total:    %d\n", s.TotalCount))
	if s.SemverAdvice != "" {
		b.WriteString(fmt.Sprintf("  Suggested version bump: %s\n", s.SemverAdvice))
	}

	return b.String(), nil
}

func marker(d diff.ApiDifference) string {
	switch d.ChangeType {
	case diff.ChangeAdded:
		return "+"
	case diff.ChangeRemoved:
		return "-"
	case diff.ChangeModified:
		return "~"
	case diff.ChangeMoved:
		return ">"
	case diff.ChangeExcluded:
		return "x"
	default:
		return "?"
	}
}
