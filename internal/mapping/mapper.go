// Package mapping translates old fully qualified names into candidate
// new names using exact, prefix, and one-to-many namespace rules, plus
// an auto-map-by-simple-name fallback.
package mapping

import (
	"strings"

	"apidiff/internal/config"
	"apidiff/internal/logging"
)

// Mapper applies configured name mapping rules. All string comparisons
// respect the single configured case-sensitivity flag.
type Mapper struct {
	cfg    *config.MappingConfiguration
	logger *logging.Logger
}

// NewMapper creates a new name mapper
func NewMapper(cfg *config.MappingConfiguration, logger *logging.Logger) *Mapper {
	return &Mapper{
		cfg:    cfg,
		logger: logger.Named("mapping"),
	}
}

// Equal compares two names under the configured case rule
func (m *Mapper) Equal(a, b string) bool {
	if m.cfg.CaseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

// CanonicalKey normalizes a name for use as a lookup key under the
// configured case rule
func (m *Mapper) CanonicalKey(name string) string {
	if m.cfg.CaseSensitive {
		return name
	}
	return strings.ToLower(name)
}

// MapNamespace translates a namespace into its configured targets:
// exact match first, else the longest configured prefix with the
// remainder carried through to every target. Always non-empty; returns
// the input unchanged when no rule matches.
func (m *Mapper) MapNamespace(ns string) []string {
	if targets, ok := m.lookupNamespace(ns); ok {
		return targets
	}

	// Longest prefix match, carrying the unmatched remainder. Equal-length
	// keys tie-break lexicographically so map iteration order cannot leak
	// into the result.
	best := ""
	var bestTargets []string
	for key, targets := range m.cfg.NamespaceMappings {
		if !m.isNamespacePrefix(key, ns) {
			continue
		}
		if len(key) > len(best) || (len(key) == len(best) && key < best) {
			best = key
			bestTargets = targets
		}
	}
	if best != "" {
		remainder := ns[len(best):]
		out := make([]string, len(bestTargets))
		for i, t := range bestTargets {
			out[i] = t + remainder
		}
		return out
	}

	return []string{ns}
}

// MapTypeName translates a simple type name through the one-to-one type
// table; returns the input unchanged when no rule matches
func (m *Mapper) MapTypeName(name string) string {
	for key, target := range m.cfg.TypeMappings {
		if m.Equal(key, name) {
			return target
		}
	}
	return name
}

// MapFullTypeName translates a fully qualified type name into its
// candidate new names. An exact full-name type mapping wins outright,
// bypassing namespace logic; otherwise the namespace and simple name are
// mapped independently and crossed.
func (m *Mapper) MapFullTypeName(fullName string) []string {
	for key, target := range m.cfg.TypeMappings {
		if m.Equal(key, fullName) {
			return []string{target}
		}
	}

	ns, simple := splitFullName(fullName)
	if ns == "" {
		return []string{m.MapTypeName(simple)}
	}

	mappedName := m.MapTypeName(simple)
	namespaces := m.MapNamespace(ns)

	out := make([]string, len(namespaces))
	for i, n := range namespaces {
		out[i] = n + "." + mappedName
	}
	return out
}

// ShouldAutoMapType reports whether the type may be matched by simple
// name alone: the global flag is on, the name has a namespace part, and
// the simple name is not a generic definition. Generic definitions are
// excluded because arity alone is not a reliable identity signal.
func (m *Mapper) ShouldAutoMapType(fullName string) bool {
	if !m.cfg.AutoMapSameNameTypes {
		return false
	}
	ns, simple := splitFullName(fullName)
	if ns == "" {
		return false
	}
	return !strings.Contains(simple, "`")
}

// SimpleName returns the last dot-segment of a fully qualified name
func SimpleName(fullName string) string {
	_, simple := splitFullName(fullName)
	return simple
}

func (m *Mapper) lookupNamespace(ns string) ([]string, bool) {
	// Case-insensitive matching can hit several keys; take the
	// lexicographically smallest so the result is deterministic.
	best := ""
	var bestTargets []string
	found := false
	for key, targets := range m.cfg.NamespaceMappings {
		if m.Equal(key, ns) && (!found || key < best) {
			best = key
			bestTargets = targets
			found = true
		}
	}
	return bestTargets, found
}

// isNamespacePrefix checks that key is a proper dotted prefix of ns
func (m *Mapper) isNamespacePrefix(key, ns string) bool {
	if len(ns) <= len(key) {
		return false
	}
	if !m.Equal(ns[:len(key)], key) {
		return false
	}
	return ns[len(key)] == '.'
}

func splitFullName(fullName string) (namespace, simple string) {
	idx := strings.LastIndex(fullName, ".")
	if idx < 0 {
		return "", fullName
	}
	return fullName[:idx], fullName[idx+1:]
}
