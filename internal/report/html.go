package report

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/Masterminds/sprig/v3"

	"apidiff/internal/diff"
)

// HTMLReporter renders a standalone HTML page
type HTMLReporter struct {
	opts Options
	tmpl *template.Template
}

// NewHTMLReporter parses the report template once
func NewHTMLReporter(opts Options) (*HTMLReporter, error) {
	tmpl, err := template.New("report").Funcs(sprig.HtmlFuncMap()).Parse(htmlTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML report template: %w", err)
	}
	return &HTMLReporter{opts: opts, tmpl: tmpl}, nil
}

type htmlReportData struct {
	Result      *diff.ComparisonResult
	Differences []diff.ApiDifference
}

// Render implements Reporter
func (r *HTMLReporter) Render(result *diff.ComparisonResult) (string, error) {
	data := htmlReportData{
		Result:      result,
		Differences: visible(result, r.opts),
	}
	var b strings.Builder
	if err := r.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render HTML report: %w", err)
	}
	return b.String(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>API Comparison: {{ .Result.OldAssembly }} vs {{ .Result.NewAssembly }}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #1f2328; }
  h1 { font-size: 1.4rem; }
  table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
  th, td { border: 1px solid #d0d7de; padding: 0.4rem 0.6rem; text-align: left; font-size: 0.9rem; }
  th { background: #f6f8fa; }
  code { background: #f6f8fa; padding: 0.1rem 0.3rem; border-radius: 3px; }
  .breaking { color: #cf222e; font-weight: 600; }
  .severity-error, .severity-critical { color: #cf222e; }
  .severity-warning { color: #9a6700; }
  .severity-info { color: #57606a; }
  .summary span { margin-right: 1.5rem; }
</style>
</head>
<body>
<h1>API Comparison Report</h1>
<p>
  Baseline: <code>{{ .Result.OldAssembly }}</code><br>
  Candidate: <code>{{ .Result.NewAssembly }}</code><br>
  Generated: {{ .Result.Timestamp.Format "2006-01-02 15:04:05 UTC" }}
</p>
<p class="summary">
  <span>Added: {{ .Result.Summary.AddedCount }}</span>
  <span>Removed: {{ .Result.Summary.RemovedCount }}</span>
  <span>Modified: {{ .Result.Summary.ModifiedCount }}</span>
  <span class="breaking">Breaking: {{ .Result.Summary.BreakingChangesCount }}</span>
  {{- if .Result.Summary.SemverAdvice }}
  <span>Suggested bump: {{ .Result.Summary.SemverAdvice | upper }}</span>
  {{- end }}
</p>
{{- if .Differences }}
<table>
<thead>
<tr><th>Change</th><th>Kind</th><th>Element</th><th>Severity</th><th>Breaking</th><th>Description</th></tr>
</thead>
<tbody>
{{- range .Differences }}
<tr>
  <td>{{ .ChangeType }}</td>
  <td>{{ .ElementKind }}</td>
  <td><code>{{ .ElementName }}</code></td>
  <td class="severity-{{ .Severity }}">{{ .Severity }}</td>
  <td>{{ if .IsBreakingChange }}<span class="breaking">yes</span>{{ else }}no{{ end }}</td>
  <td>{{ .Description }}</td>
</tr>
{{- end }}
</tbody>
</table>
{{- else }}
<p>No differences found.</p>
{{- end }}
</body>
</html>
`
