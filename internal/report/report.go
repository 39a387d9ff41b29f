// Package report renders a comparison result for human or machine
// consumption. Reporters are formatting-only and never mutate the result.
package report

import (
	"fmt"

	"apidiff/internal/diff"
)

// Format selects a reporter
type Format string

const (
	FormatConsole  Format = "console"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Options controls what a reporter includes
type Options struct {
	// IncludeNonBreaking renders non-breaking differences as well
	IncludeNonBreaking bool
}

// Reporter renders one comparison result
type Reporter interface {
	Render(result *diff.ComparisonResult) (string, error)
}

// New returns the reporter for a format
func New(format Format, opts Options) (Reporter, error) {
	switch format {
	case FormatConsole, "":
		return &ConsoleReporter{opts: opts}, nil
	case FormatJSON:
		return &JSONReporter{}, nil
	case FormatMarkdown:
		return &MarkdownReporter{opts: opts}, nil
	case FormatHTML:
		return NewHTMLReporter(opts)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// visible filters differences according to the options
func visible(result *diff.ComparisonResult, opts Options) []diff.ApiDifference {
	if opts.IncludeNonBreaking {
		return result.Differences
	}
	var out []diff.ApiDifference
	for _, d := range result.Differences {
		if d.IsBreakingChange {
			out = append(out, d)
		}
	}
	return out
}
