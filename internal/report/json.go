package report

import (
	"encoding/json"
	"fmt"

	"apidiff/internal/diff"
)

// JSONReporter renders the full result as indented JSON. It always
// includes every difference so machine consumers see the complete run.
type JSONReporter struct{}

// Render implements Reporter
func (r *JSONReporter) Render(result *diff.ComparisonResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal comparison result: %w", err)
	}
	return string(data) + "\n", nil
}
