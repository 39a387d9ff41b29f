// Package diff holds the difference model and the calculator that turns
// matched or unmatched entity pairs into ApiDifference records.
package diff

import "time"

// ChangeType classifies one detected change
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
	ChangeModified ChangeType = "modified"
	ChangeMoved    ChangeType = "moved"
	ChangeExcluded ChangeType = "excluded"
)

// ElementKind is the kind of entity a difference applies to
type ElementKind string

const (
	ElementType        ElementKind = "type"
	ElementMethod      ElementKind = "method"
	ElementProperty    ElementKind = "property"
	ElementField       ElementKind = "field"
	ElementEvent       ElementKind = "event"
	ElementConstructor ElementKind = "constructor"
)

// Severity grades how serious a change is
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// ApiDifference is one detected change. Exactly one of OldSignature and
// NewSignature is absent for added/removed differences; both are present
// for modified ones. Classification fields are set once by the
// classifier and never mutated again.
type ApiDifference struct {
	ChangeType       ChangeType  `json:"changeType"`
	ElementKind      ElementKind `json:"elementKind"`
	ElementName      string      `json:"elementName"`
	Description      string      `json:"description"`
	IsBreakingChange bool        `json:"isBreakingChange"`
	Severity         Severity    `json:"severity"`
	OldSignature     string      `json:"oldSignature,omitempty"`
	NewSignature     string      `json:"newSignature,omitempty"`
}

// Summary aggregates counts over the differences of one comparison.
// Counts are always recomputable from the difference list.
type Summary struct {
	AddedCount           int    `json:"addedCount"`
	RemovedCount         int    `json:"removedCount"`
	ModifiedCount        int    `json:"modifiedCount"`
	BreakingChangesCount int    `json:"breakingChangesCount"`
	TotalCount           int    `json:"totalCount"`
	SemverAdvice         string `json:"semverAdvice,omitempty"`
}

// ComparisonResult is the full output of one comparison run. Read-only
// to downstream reporters.
type ComparisonResult struct {
	ComparisonID string          `json:"comparisonId"`
	OldAssembly  string          `json:"oldAssembly"`
	NewAssembly  string          `json:"newAssembly"`
	Timestamp    time.Time       `json:"timestamp"`
	Differences  []ApiDifference `json:"differences"`
	Summary      Summary         `json:"summary"`
}

// ComputeSummary recomputes summary counts as aggregates over the
// difference list, so they can never drift from it
func ComputeSummary(differences []ApiDifference) Summary {
	s := Summary{TotalCount: len(differences)}

	for _, d := range differences {
		switch d.ChangeType {
		case ChangeAdded:
			s.AddedCount++
		case ChangeRemoved:
			s.RemovedCount++
		case ChangeModified, ChangeMoved:
			s.ModifiedCount++
		}
		if d.IsBreakingChange {
			s.BreakingChangesCount++
		}
	}

	s.SemverAdvice = semverAdvice(s)
	return s
}

// semverAdvice suggests the version bump the differences imply
func semverAdvice(s Summary) string {
	if s.BreakingChangesCount > 0 {
		return "major"
	}
	if s.AddedCount > 0 {
		return "minor"
	}
	return "patch"
}

// HasBreakingChanges reports whether any difference is breaking
func (r *ComparisonResult) HasBreakingChanges() bool {
	return r.Summary.BreakingChangesCount > 0
}
