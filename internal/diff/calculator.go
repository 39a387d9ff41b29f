package diff

import (
	"fmt"
	"strings"

	"apidiff/internal/logging"
	"apidiff/internal/signature"
	"apidiff/internal/surface"
)

// Calculator produces raw ApiDifference records. The verdicts set here
// are the hardcoded defaults before classification rules apply:
// additions non-breaking, removals breaking.
type Calculator struct {
	builder *signature.Builder
	logger  *logging.Logger
}

// NewCalculator creates a new difference calculator
func NewCalculator(builder *signature.Builder, logger *logging.Logger) *Calculator {
	return &Calculator{
		builder: builder,
		logger:  logger.Named("diff"),
	}
}

// TypeSignature renders a type through the calculator's builder, for
// callers that need to compare signatures without constructing a diff
func (c *Calculator) TypeSignature(t *surface.TypeDescriptor) string {
	return c.builder.TypeSignature(t)
}

// AddedType records a type present only on the candidate side
func (c *Calculator) AddedType(t *surface.TypeDescriptor) ApiDifference {
	return ApiDifference{
		ChangeType:       ChangeAdded,
		ElementKind:      ElementType,
		ElementName:      t.FullName(),
		Description:      fmt.Sprintf("Type '%s' was added", t.FullName()),
		IsBreakingChange: false,
		Severity:         SeverityInfo,
		NewSignature:     c.builder.TypeSignature(t),
	}
}

// RemovedType records a type present only on the baseline side
func (c *Calculator) RemovedType(t *surface.TypeDescriptor) ApiDifference {
	return ApiDifference{
		ChangeType:       ChangeRemoved,
		ElementKind:      ElementType,
		ElementName:      t.FullName(),
		Description:      fmt.Sprintf("Type '%s' was removed", t.FullName()),
		IsBreakingChange: true,
		Severity:         SeverityError,
		OldSignature:     c.builder.TypeSignature(t),
	}
}

// AddedMember records a member present only on the candidate side
func (c *Calculator) AddedMember(m surface.ApiMember) ApiDifference {
	return ApiDifference{
		ChangeType:       ChangeAdded,
		ElementKind:      elementKindFor(m.Kind),
		ElementName:      m.FullName,
		Description:      fmt.Sprintf("%s '%s' was added", kindLabel(m.Kind), m.FullName),
		IsBreakingChange: false,
		Severity:         SeverityInfo,
		NewSignature:     m.Signature,
	}
}

// RemovedMember records a member present only on the baseline side
func (c *Calculator) RemovedMember(m surface.ApiMember) ApiDifference {
	return ApiDifference{
		ChangeType:       ChangeRemoved,
		ElementKind:      elementKindFor(m.Kind),
		ElementName:      m.FullName,
		Description:      fmt.Sprintf("%s '%s' was removed", kindLabel(m.Kind), m.FullName),
		IsBreakingChange: true,
		Severity:         SeverityError,
		OldSignature:     m.Signature,
	}
}

// TypeChanges compares two matched type declarations. An accessibility
// change short-circuits everything else; a pair whose signatures are
// equivalent after name mapping produces no difference. Returns nil when
// the pair shows no change.
func (c *Calculator) TypeChanges(old, new *surface.TypeDescriptor, mappedEquivalent bool) (*ApiDifference, error) {
	if old == nil || new == nil {
		return nil, fmt.Errorf("type change calculation requires both sides, got old=%v new=%v", old != nil, new != nil)
	}

	oldSig := c.builder.TypeSignature(old)
	newSig := c.builder.TypeSignature(new)

	if old.Accessibility != new.Accessibility {
		reduced := surface.IsReducedAccessibility(old.Accessibility, new.Accessibility)
		d := &ApiDifference{
			ChangeType:  ChangeModified,
			ElementKind: ElementType,
			ElementName: new.FullName(),
			Description: fmt.Sprintf("Accessibility of type '%s' changed from %s to %s",
				new.FullName(), old.Accessibility.Keyword(), new.Accessibility.Keyword()),
			IsBreakingChange: reduced,
			Severity:         SeverityInfo,
			OldSignature:     oldSig,
			NewSignature:     newSig,
		}
		if reduced {
			d.Severity = SeverityError
		}
		return d, nil
	}

	if mappedEquivalent {
		return nil, nil
	}

	if oldSig != newSig {
		return &ApiDifference{
			ChangeType:       ChangeModified,
			ElementKind:      ElementType,
			ElementName:      new.FullName(),
			Description:      fmt.Sprintf("Signature of type '%s' changed", new.FullName()),
			IsBreakingChange: true,
			Severity:         SeverityWarning,
			OldSignature:     oldSig,
			NewSignature:     newSig,
		}, nil
	}

	return nil, nil
}

// MemberChanges compares two matched members. All detected causes for
// the pair collapse into a single difference with concatenated notes.
// Returns nil when there is no change, and also on an analysis failure
// so one bad member does not abort the whole type comparison.
func (c *Calculator) MemberChanges(old, new surface.ApiMember) (d *ApiDifference) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("Failed to analyze member change", map[string]interface{}{
				"member": old.FullName,
				"error":  fmt.Sprintf("%v", r),
			})
			d = nil
		}
	}()

	// Signature-identical pairs are not inspected further; an
	// attribute-only change on an otherwise identical member is
	// invisible here, a deliberate simplification of the matching model.
	if old.Signature == new.Signature {
		return nil
	}

	var notes []string
	breaking := false
	severity := SeverityInfo

	if old.Accessibility != new.Accessibility {
		notes = append(notes, fmt.Sprintf("accessibility changed from %s to %s",
			old.Accessibility.Keyword(), new.Accessibility.Keyword()))
		if surface.IsReducedAccessibility(old.Accessibility, new.Accessibility) {
			breaking = true
			severity = SeverityError
		}
	}

	added, removed := attributeDelta(old.Attributes, new.Attributes)
	if len(added) > 0 {
		notes = append(notes, "attributes added: "+strings.Join(added, ", "))
	}
	if len(removed) > 0 {
		notes = append(notes, "attributes removed: "+strings.Join(removed, ", "))
	}

	// No specific cause identified but signatures still differ
	if len(notes) == 0 && old.Signature != new.Signature {
		notes = append(notes, "signature changed")
		breaking = true
		severity = SeverityWarning
	}

	if len(notes) == 0 {
		return nil
	}

	return &ApiDifference{
		ChangeType:       ChangeModified,
		ElementKind:      elementKindFor(new.Kind),
		ElementName:      new.FullName,
		Description:      fmt.Sprintf("%s '%s' changed: %s", kindLabel(new.Kind), new.FullName, strings.Join(notes, "; ")),
		IsBreakingChange: breaking,
		Severity:         severity,
		OldSignature:     old.Signature,
		NewSignature:     new.Signature,
	}
}

// MovedType records a type relocated to a different namespace or name
func (c *Calculator) MovedType(old, new *surface.TypeDescriptor) ApiDifference {
	return ApiDifference{
		ChangeType:  ChangeMoved,
		ElementKind: ElementType,
		ElementName: new.FullName(),
		Description: fmt.Sprintf("Type '%s' was moved to '%s'", old.FullName(), new.FullName()),
		// Relocation is conservatively treated as a break
		IsBreakingChange: true,
		Severity:         SeverityWarning,
		OldSignature:     c.builder.TypeSignature(old),
		NewSignature:     c.builder.TypeSignature(new),
	}
}

func elementKindFor(k surface.MemberKind) ElementKind {
	switch k {
	case surface.MemberMethod:
		return ElementMethod
	case surface.MemberProperty:
		return ElementProperty
	case surface.MemberField:
		return ElementField
	case surface.MemberEvent:
		return ElementEvent
	case surface.MemberConstructor:
		return ElementConstructor
	default:
		return ElementType
	}
}

func kindLabel(k surface.MemberKind) string {
	switch k {
	case surface.MemberMethod:
		return "Method"
	case surface.MemberProperty:
		return "Property"
	case surface.MemberField:
		return "Field"
	case surface.MemberEvent:
		return "Event"
	case surface.MemberConstructor:
		return "Constructor"
	default:
		return "Type"
	}
}

// attributeDelta computes the set difference in both directions
func attributeDelta(old, new []string) (added, removed []string) {
	oldSet := make(map[string]bool, len(old))
	for _, a := range old {
		oldSet[a] = true
	}
	newSet := make(map[string]bool, len(new))
	for _, a := range new {
		newSet[a] = true
	}

	for _, a := range new {
		if !oldSet[a] {
			added = append(added, a)
		}
	}
	for _, a := range old {
		if !newSet[a] {
			removed = append(removed, a)
		}
	}
	return added, removed
}
