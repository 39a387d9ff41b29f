package report

import (
	"fmt"
	"strings"

	"apidiff/internal/diff"
)

// MarkdownReporter renders a report suitable for PR comments and docs
type MarkdownReporter struct {
	opts Options
}

// Render implements Reporter
func (r *MarkdownReporter) Render(result *diff.ComparisonResult) (string, error) {
	var b strings.Builder

	b.WriteString("# API Comparison Report\n\n")
	b.WriteString(fmt.Sprintf("**Baseline:** `%s`  \n", result.OldAssembly))
	b.WriteString(fmt.Sprintf("**Candidate:** `%s`  \n", result.NewAssembly))
	b.WriteString(fmt.Sprintf("**Date:** %s\n\n", result.Timestamp.Format("2006-01-02 15:04:05 UTC")))

	s := result.Summary
	b.WriteString("## Summary\n\n")
	b.WriteString("| Added | Removed | Modified | Breaking | Total |\n")
	b.WriteString("|------:|--------:|---------:|---------:|------:|\n")
	b.WriteString(fmt.Sprintf("| %d | %d | %d | %d | %d |\n\n",
		s.AddedCount, s.RemovedCount, s.ModifiedCount, s.BreakingChangesCount, s.TotalCount))
	if s.SemverAdvice != "" {
		b.WriteString(fmt.Sprintf("Suggested version bump: **%s**\n\n", s.SemverAdvice))
	}

	diffs := visible(result, r.opts)
	if len(diffs) == 0 {
		b.WriteString("No differences found.\n")
		return b.String(), nil
	}

	b.WriteString("## Differences\n\n")
	b.WriteString("| Change | Kind | Element | Severity | Breaking | Description |\n")
	b.WriteString("|--------|------|---------|----------|----------|-------------|\n")
	for _, d := range diffs {
		b.WriteString(fmt.Sprintf("| %s | %s | `%s` | %s | %s | %s |\n",
			d.ChangeType, d.ElementKind, d.ElementName, d.Severity,
			breakingCell(d.IsBreakingChange), escapePipes(d.Description)))
	}

	return b.String(), nil
}

func breakingCell(breaking bool) string {
	if breaking {
		return "yes"
	}
	return "no"
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
