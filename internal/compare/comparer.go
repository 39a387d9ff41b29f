// Package compare drives one comparison run: extraction of both sides,
// type reconciliation, member-level diffing, classification, and
// aggregation into a ComparisonResult.
package compare

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"apidiff/internal/apierrors"
	"apidiff/internal/classify"
	"apidiff/internal/config"
	"apidiff/internal/diff"
	"apidiff/internal/extract"
	"apidiff/internal/logging"
	"apidiff/internal/mapping"
	"apidiff/internal/surface"
)

// matchKind records how a type pair was reconciled
type matchKind int

const (
	matchDirect matchKind = iota
	matchMapped
	matchAutoMapped
)

type typePair struct {
	base *surface.TypeDescriptor
	cand *surface.TypeDescriptor
	kind matchKind
}

// Comparer orchestrates a comparison between two API surfaces. One
// instance is self-contained for a single run given its collaborators,
// all of which hold only read-only configuration.
type Comparer struct {
	extractor  *extract.Extractor
	mapper     *mapping.Mapper
	calculator *diff.Calculator
	classifier *classify.Classifier
	filter     *config.FilterConfiguration
	logger     *logging.Logger
}

// NewComparer creates a comparer from its collaborators
func NewComparer(
	extractor *extract.Extractor,
	mapper *mapping.Mapper,
	calculator *diff.Calculator,
	classifier *classify.Classifier,
	filter *config.FilterConfiguration,
	logger *logging.Logger,
) *Comparer {
	return &Comparer{
		extractor:  extractor,
		mapper:     mapper,
		calculator: calculator,
		classifier: classifier,
		filter:     filter,
		logger:     logger.Named("compare"),
	}
}

// CompareAssemblies is the sole orchestrator entry point. It always
// returns a populated result (possibly with zero differences) unless the
// inputs themselves are unusable.
func (c *Comparer) CompareAssemblies(baseline, candidate *surface.Assembly) (*diff.ComparisonResult, error) {
	if baseline == nil || candidate == nil {
		return nil, apierrors.New(apierrors.InvalidInput, "both surfaces are required for comparison", nil)
	}

	c.logger.Info("Starting comparison", map[string]interface{}{
		"baseline":  baseline.Identifier(),
		"candidate": candidate.Identifier(),
	})

	baseTypes := c.extractor.PublicTypes(baseline, c.filter)
	candTypes := c.extractor.PublicTypes(candidate, c.filter)

	c.logger.Debug("Extracted both sides", map[string]interface{}{
		"baselineTypes":  len(baseTypes),
		"candidateTypes": len(candTypes),
	})

	differences := c.CompareTypes(baseTypes, candTypes)

	result := &diff.ComparisonResult{
		ComparisonID: uuid.NewString(),
		OldAssembly:  baseline.Identifier(),
		NewAssembly:  candidate.Identifier(),
		Timestamp:    time.Now().UTC(),
		Differences:  differences,
		Summary:      diff.ComputeSummary(differences),
	}

	c.logger.Info("Comparison completed", map[string]interface{}{
		"differences": result.Summary.TotalCount,
		"breaking":    result.Summary.BreakingChangesCount,
	})

	return result, nil
}

// CompareTypes reconciles two type sets and returns the classified
// differences: type-level changes, member-level changes for matched
// pairs, and added/removed records for unmatched types.
func (c *Comparer) CompareTypes(baseTypes, candTypes []*surface.TypeDescriptor) []diff.ApiDifference {
	pairs, added, removed := c.reconcile(baseTypes, candTypes)

	var differences []diff.ApiDifference
	appendClassified := func(d diff.ApiDifference) {
		if err := c.classifier.ClassifyChange(&d); err != nil {
			c.logger.Error("Classification failed", map[string]interface{}{
				"element": d.ElementName,
				"error":   err.Error(),
			})
			return
		}
		differences = append(differences, d)
	}

	for _, p := range pairs {
		for _, d := range c.comparePair(p) {
			appendClassified(d)
		}
	}
	for _, t := range added {
		appendClassified(c.calculator.AddedType(t))
	}
	for _, t := range removed {
		appendClassified(c.calculator.RemovedType(t))
	}

	return differences
}

// reconcile matches candidate types to baseline types. Precedence:
// exact name, then explicit mapping, then auto-map by simple name; a
// candidate with no match is added, a baseline with no match is removed.
// Exact matches are resolved for all candidates before any mapped match
// so a mapping rule can never steal a baseline from its exact-name
// counterpart.
func (c *Comparer) reconcile(baseTypes, candTypes []*surface.TypeDescriptor) (pairs []typePair, added, removed []*surface.TypeDescriptor) {
	baseByName := make(map[string]*surface.TypeDescriptor, len(baseTypes))
	for _, t := range baseTypes {
		baseByName[c.mapper.CanonicalKey(t.FullName())] = t
	}

	// Every name a baseline type can be known by after mapping, first
	// writer wins
	mappedIndex := make(map[string]*surface.TypeDescriptor)
	for _, t := range baseTypes {
		for _, mapped := range c.mapper.MapFullTypeName(t.FullName()) {
			key := c.mapper.CanonicalKey(mapped)
			if _, exists := mappedIndex[key]; !exists {
				mappedIndex[key] = t
			}
		}
	}

	matchedBase := make(map[string]bool, len(baseTypes))
	matchedCand := make(map[string]bool, len(candTypes))

	// Pass 1: exact name matches
	for _, cand := range candTypes {
		key := c.mapper.CanonicalKey(cand.FullName())
		if base, ok := baseByName[key]; ok {
			pairs = append(pairs, typePair{base: base, cand: cand, kind: matchDirect})
			matchedBase[c.mapper.CanonicalKey(base.FullName())] = true
			matchedCand[key] = true
		}
	}

	// Pass 2: explicit mapping, then auto-map, for unmatched candidates
	for _, cand := range candTypes {
		candKey := c.mapper.CanonicalKey(cand.FullName())
		if matchedCand[candKey] {
			continue
		}

		if base, ok := mappedIndex[candKey]; ok && !matchedBase[c.mapper.CanonicalKey(base.FullName())] {
			pairs = append(pairs, typePair{base: base, cand: cand, kind: matchMapped})
			matchedBase[c.mapper.CanonicalKey(base.FullName())] = true
			matchedCand[candKey] = true
			c.logger.Debug("Matched type via mapping", map[string]interface{}{
				"baseline":  base.FullName(),
				"candidate": cand.FullName(),
			})
			continue
		}

		if c.mapper.ShouldAutoMapType(cand.FullName()) {
			if base := c.findBySimpleName(baseTypes, matchedBase, cand); base != nil {
				pairs = append(pairs, typePair{base: base, cand: cand, kind: matchAutoMapped})
				matchedBase[c.mapper.CanonicalKey(base.FullName())] = true
				matchedCand[candKey] = true
				c.logger.Debug("Auto-matched type by simple name", map[string]interface{}{
					"baseline":  base.FullName(),
					"candidate": cand.FullName(),
				})
				continue
			}
		}

		added = append(added, cand)
	}

	// Symmetric pass: unmatched baseline types are removed
	for _, base := range baseTypes {
		if !matchedBase[c.mapper.CanonicalKey(base.FullName())] {
			removed = append(removed, base)
		}
	}

	return pairs, added, removed
}

// findBySimpleName searches the baseline set for the first unconsumed
// type whose simple name equals the candidate's under the case rule
func (c *Comparer) findBySimpleName(baseTypes []*surface.TypeDescriptor, matchedBase map[string]bool, cand *surface.TypeDescriptor) *surface.TypeDescriptor {
	for _, base := range baseTypes {
		if matchedBase[c.mapper.CanonicalKey(base.FullName())] {
			continue
		}
		if c.mapper.Equal(base.SimpleName(), cand.SimpleName()) {
			return base
		}
	}
	return nil
}

// comparePair produces the raw differences for one matched type pair:
// the type-level change, a moved record for auto-mapped relocations, and
// the member-level changes. Failures are isolated to the pair.
func (c *Comparer) comparePair(p typePair) []diff.ApiDifference {
	var out []diff.ApiDifference

	// A type matched only by its simple name has been relocated
	if p.kind == matchAutoMapped && !c.mapper.Equal(p.base.FullName(), p.cand.FullName()) {
		out = append(out, c.calculator.MovedType(p.base, p.cand))
	}

	typeDiff, err := c.calculator.TypeChanges(p.base, p.cand, c.mappedEquivalent(p))
	if err != nil {
		c.logger.Warn("Failed to compare type pair, skipping", map[string]interface{}{
			"baseline":  p.base.FullName(),
			"candidate": p.cand.FullName(),
			"error":     err.Error(),
		})
		return out
	}
	if typeDiff != nil {
		out = append(out, *typeDiff)
	}

	out = append(out, c.CompareMembers(p.base, p.cand)...)
	return out
}

// mappedEquivalent reports whether a renamed pair's signatures are equal
// once the baseline's name is rewritten to the candidate's
func (c *Comparer) mappedEquivalent(p typePair) bool {
	if p.kind == matchDirect {
		return false
	}
	oldSig := c.calculator.TypeSignature(p.base)
	newSig := c.calculator.TypeSignature(p.cand)

	oldName := p.base.SimpleName()
	newName := p.cand.SimpleName()
	if oldName != newName {
		oldSig = renameDeclaredType(oldSig, oldName, newName)
	}
	return oldSig == newSig
}

// renameDeclaredType rewrites the declared type-name token of a rendered
// type signature, leaving base types and constraint clauses untouched.
// The declaration token precedes any base list, so the first token match
// is always the declaration.
func renameDeclaredType(sig, oldName, newName string) string {
	tokens := strings.Split(sig, " ")
	for i, tok := range tokens {
		if tok == oldName || strings.HasPrefix(tok, oldName+"<") {
			tokens[i] = newName + strings.TrimPrefix(tok, oldName)
			break
		}
	}
	return strings.Join(tokens, " ")
}

// CompareMembers reconciles the member lists of one matched type pair by
// normalized signature and returns the raw, unclassified differences.
// Usable independently for partial comparisons.
func (c *Comparer) CompareMembers(baseType, candType *surface.TypeDescriptor) []diff.ApiDifference {
	baseMembers := c.extractor.TypeMembers(baseType)
	candMembers := c.extractor.TypeMembers(candType)

	baseBySig := make(map[string]surface.ApiMember, len(baseMembers))
	for _, m := range baseMembers {
		baseBySig[m.Signature] = m
	}
	candBySig := make(map[string]surface.ApiMember, len(candMembers))
	for _, m := range candMembers {
		candBySig[m.Signature] = m
	}

	var out []diff.ApiDifference

	for _, m := range candMembers {
		if old, ok := baseBySig[m.Signature]; ok {
			if d := c.calculator.MemberChanges(old, m); d != nil {
				out = append(out, *d)
			}
		} else {
			out = append(out, c.calculator.AddedMember(m))
		}
	}

	for _, m := range baseMembers {
		if _, ok := candBySig[m.Signature]; !ok {
			out = append(out, c.calculator.RemovedMember(m))
		}
	}

	return out
}
