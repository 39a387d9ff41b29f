// Package classify applies exclusion rules and breaking-change policy
// to raw differences, producing their final classification and severity.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"apidiff/internal/apierrors"
	"apidiff/internal/config"
	"apidiff/internal/diff"
	"apidiff/internal/logging"
	"apidiff/internal/wildcard"
)

// Classifier holds precompiled exclusion state and the breaking-change
// policy. The pattern caches are built once at construction and never
// mutated afterward, so a classifier is safe for concurrent read-only use.
type Classifier struct {
	exclusions     *config.ExclusionConfiguration
	rules          *config.BreakingChangeRules
	typePatterns   []*regexp.Regexp
	memberPatterns []*regexp.Regexp
	logger         *logging.Logger
}

// NewClassifier creates a classifier, compiling wildcard exclusion
// patterns up front. A pattern that fails to compile is logged and
// omitted; configuration errors fail open, not the comparison.
func NewClassifier(exclusions *config.ExclusionConfiguration, rules *config.BreakingChangeRules, logger *logging.Logger) *Classifier {
	c := &Classifier{
		exclusions: exclusions,
		rules:      rules,
		logger:     logger.Named("classify"),
	}
	c.typePatterns = c.compilePatterns(exclusions.TypePatterns)
	c.memberPatterns = c.compilePatterns(exclusions.MemberPatterns)
	return c
}

func (c *Classifier) compilePatterns(patterns []string) []*regexp.Regexp {
	var out []*regexp.Regexp
	for _, p := range patterns {
		re, err := wildcard.Compile(p)
		if err != nil {
			c.logger.Warn("Invalid exclusion pattern, skipping", map[string]interface{}{
				"pattern": p,
				"error":   err.Error(),
			})
			continue
		}
		out = append(out, re)
	}
	return out
}

// ClassifyChange applies exclusion rules and the breaking-change policy
// to one difference in place. Re-classifying an already excluded
// difference is a no-op. A nil input is a caller error.
func (c *Classifier) ClassifyChange(d *diff.ApiDifference) error {
	if d == nil {
		return apierrors.New(apierrors.InvalidInput, "cannot classify a nil difference", nil)
	}

	if d.ChangeType == diff.ChangeExcluded {
		return nil
	}

	if c.isExcludedDifference(d) {
		c.exclude(d)
		return nil
	}

	switch d.ChangeType {
	case diff.ChangeAdded:
		c.classifyAdded(d)
	case diff.ChangeRemoved:
		c.classifyRemoved(d)
	case diff.ChangeModified:
		c.classifyModified(d)
	case diff.ChangeMoved:
		// Relocation is always breaking; no rule softens it
		d.IsBreakingChange = true
		d.Severity = diff.SeverityWarning
	}

	return nil
}

// IsTypeExcluded checks a type name against explicit exclusions and
// precompiled wildcard patterns
func (c *Classifier) IsTypeExcluded(name string) bool {
	for _, t := range c.exclusions.ExcludedTypes {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	for _, re := range c.typePatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// IsMemberExcluded checks a member name against explicit exclusions,
// wildcard patterns, and the member's declaring type being excluded
func (c *Classifier) IsMemberExcluded(name string) bool {
	for _, m := range c.exclusions.ExcludedMembers {
		if strings.EqualFold(m, name) {
			return true
		}
	}
	for _, re := range c.memberPatterns {
		if re.MatchString(name) {
			return true
		}
	}

	// Inherited exclusion: the declaring type is itself excluded
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return c.IsTypeExcluded(name[:idx])
	}
	return false
}

func (c *Classifier) isExcludedDifference(d *diff.ApiDifference) bool {
	if d.ElementKind == diff.ElementType {
		return c.IsTypeExcluded(d.ElementName)
	}
	return c.IsMemberExcluded(d.ElementName)
}

// exclude rewrites the difference in place as excluded
func (c *Classifier) exclude(d *diff.ApiDifference) {
	c.logger.Debug("Difference excluded by configuration", map[string]interface{}{
		"element": d.ElementName,
		"change":  string(d.ChangeType),
	})

	d.ChangeType = diff.ChangeExcluded
	d.IsBreakingChange = false
	d.Severity = diff.SeverityInfo
	d.Description = fmt.Sprintf("Change to '%s' excluded by configuration", d.ElementName)
}

func (c *Classifier) classifyAdded(d *diff.ApiDifference) {
	breaking := c.rules.IsAddedMemberBreaking()
	if d.ElementKind == diff.ElementType {
		breaking = c.rules.IsAddedTypeBreaking()
	}

	d.IsBreakingChange = breaking
	if breaking {
		d.Severity = diff.SeverityError
	} else {
		d.Severity = diff.SeverityInfo
	}
}

func (c *Classifier) classifyRemoved(d *diff.ApiDifference) {
	breaking := c.rules.IsRemovedMemberBreaking()
	if d.ElementKind == diff.ElementType {
		breaking = c.rules.IsRemovedTypeBreaking()
	}

	d.IsBreakingChange = breaking
	if breaking {
		d.Severity = diff.SeverityError
	} else {
		d.Severity = diff.SeverityInfo
	}
}

func (c *Classifier) classifyModified(d *diff.ApiDifference) {
	signatureChanged := d.OldSignature != "" && d.NewSignature != "" && d.OldSignature != d.NewSignature

	if signatureChanged && c.rules.IsSignatureChangeBreaking() {
		d.IsBreakingChange = true
		d.Severity = diff.SeverityError
		return
	}

	// Preserve the calculator's verdict, normalizing severity for
	// non-breaking changes
	if !d.IsBreakingChange {
		d.Severity = diff.SeverityInfo
	}
}
