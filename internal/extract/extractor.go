// Package extract walks a loaded API surface and produces the set of
// exposed entities, subject to filter configuration.
package extract

import (
	"fmt"
	"sort"
	"strings"

	"apidiff/internal/config"
	"apidiff/internal/logging"
	"apidiff/internal/signature"
	"apidiff/internal/surface"
	"apidiff/internal/wildcard"
)

// backingFieldMarker appears in compiler-generated backing field names
const backingFieldMarker = "k__BackingField"

// Extractor produces ApiMember sets from loaded surfaces
type Extractor struct {
	builder *signature.Builder
	logger  *logging.Logger
}

// NewExtractor creates a new extractor
func NewExtractor(builder *signature.Builder, logger *logging.Logger) *Extractor {
	return &Extractor{
		builder: builder,
		logger:  logger.Named("extract"),
	}
}

// ExtractApiMembers returns every exposed entity of the surface: each
// selected type followed by its members. A failure on one type is logged
// and the extraction continues with the remaining types.
func (e *Extractor) ExtractApiMembers(asm *surface.Assembly, filter *config.FilterConfiguration) []surface.ApiMember {
	var members []surface.ApiMember

	types := e.PublicTypes(asm, filter)
	for _, t := range types {
		func() {
			defer func() {
				if r := recover(); r != nil {
					e.logger.Warn("Failed to extract type members, skipping type", map[string]interface{}{
						"type":  t.FullName(),
						"error": fmt.Sprintf("%v", r),
					})
				}
			}()

			members = append(members, e.typeMember(t))
			members = append(members, e.TypeMembers(t)...)
		}()
	}

	e.logger.Debug("Extraction completed", map[string]interface{}{
		"assembly": asm.Name,
		"types":    len(types),
		"members":  len(members),
	})

	return members
}

// PublicTypes returns the types the comparison should see, ordered by
// fully qualified name for deterministic downstream diffing.
func (e *Extractor) PublicTypes(asm *surface.Assembly, filter *config.FilterConfiguration) []*surface.TypeDescriptor {
	var out []*surface.TypeDescriptor

	for i := range asm.Types {
		t := &asm.Types[i]
		if e.selectType(t, filter) {
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].FullName() < out[j].FullName()
	})

	return out
}

func (e *Extractor) selectType(t *surface.TypeDescriptor, filter *config.FilterConfiguration) bool {
	if t.IsSpecialName {
		return false
	}

	includeInternals := filter != nil && filter.IncludeInternals
	if !includeInternals && !t.Accessibility.ExternallyVisible() {
		return false
	}

	includeGenerated := filter != nil && filter.IncludeCompilerGenerated
	if !includeGenerated && isCompilerGenerated(t) {
		return false
	}

	if filter == nil {
		return true
	}

	full := t.FullName()

	if len(filter.IncludeNamespaces) > 0 && !matchesNamespace(t.Namespace, filter.IncludeNamespaces, filter.CaseSensitiveNamespaces) {
		return false
	}
	if matchesNamespace(t.Namespace, filter.ExcludeNamespaces, filter.CaseSensitiveNamespaces) {
		return false
	}
	if len(filter.IncludeTypes) > 0 && !wildcard.MatchesAny(filter.IncludeTypes, full) {
		return false
	}
	if wildcard.MatchesAny(filter.ExcludeTypes, full) {
		return false
	}

	return true
}

// isCompilerGenerated detects synthesized types via the marker flag or
// structural naming heuristics
func isCompilerGenerated(t *surface.TypeDescriptor) bool {
	if t.IsCompilerGenerated {
		return true
	}
	name := t.Name
	return strings.ContainsAny(name, "<>") ||
		strings.HasPrefix(name, "__") ||
		strings.Contains(name, "AnonymousType") ||
		strings.Contains(name, "DisplayClass")
}

// matchesNamespace checks prefix membership: a namespace matches a
// configured entry when equal to it or nested under it
func matchesNamespace(ns string, prefixes []string, caseSensitive bool) bool {
	for _, p := range prefixes {
		if caseSensitive {
			if ns == p || strings.HasPrefix(ns, p+".") {
				return true
			}
		} else {
			if strings.EqualFold(ns, p) || hasPrefixFold(ns, p+".") {
				return true
			}
		}
	}
	return false
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func (e *Extractor) typeMember(t *surface.TypeDescriptor) surface.ApiMember {
	return surface.ApiMember{
		Name:          t.SimpleName(),
		FullName:      t.FullName(),
		Namespace:     t.Namespace,
		Signature:     e.builder.TypeSignature(t),
		Kind:          surface.KindForType(t.Kind),
		Accessibility: t.Accessibility,
		Attributes:    filterAttributes(t.Attributes),
	}
}

// TypeMembers extracts the exposed members of one type: methods,
// properties, fields, and events in independent passes, constructors
// separately. A member is kept when it is directly externally visible or
// overrides an externally visible base declaration.
func (e *Extractor) TypeMembers(t *surface.TypeDescriptor) []surface.ApiMember {
	var members []surface.ApiMember
	declaring := t.FullName()

	for i := range t.Methods {
		m := &t.Methods[i]
		if m.IsSpecialName {
			continue
		}
		if !memberVisible(m.Accessibility, m.IsOverride, m.BaseAccessibility) {
			continue
		}
		members = append(members, surface.ApiMember{
			Name:          m.Name,
			FullName:      declaring + "." + m.Name,
			Namespace:     t.Namespace,
			DeclaringType: declaring,
			Signature:     e.builder.MethodSignature(m),
			Kind:          surface.MemberMethod,
			Accessibility: m.Accessibility,
			Attributes:    filterAttributes(m.Attributes),
		})
	}

	for i := range t.Properties {
		p := &t.Properties[i]
		acc := p.Accessibility()
		if !memberVisible(acc, p.IsOverride, p.BaseAccessibility) {
			continue
		}
		members = append(members, surface.ApiMember{
			Name:          p.Name,
			FullName:      declaring + "." + p.Name,
			Namespace:     t.Namespace,
			DeclaringType: declaring,
			Signature:     e.builder.PropertySignature(p),
			Kind:          surface.MemberProperty,
			Accessibility: acc,
			Attributes:    filterAttributes(p.Attributes),
		})
	}

	for i := range t.Fields {
		f := &t.Fields[i]
		if isBackingField(f.Name) {
			continue
		}
		if !f.Accessibility.ExternallyVisible() {
			continue
		}
		members = append(members, surface.ApiMember{
			Name:          f.Name,
			FullName:      declaring + "." + f.Name,
			Namespace:     t.Namespace,
			DeclaringType: declaring,
			Signature:     e.builder.FieldSignature(f),
			Kind:          surface.MemberField,
			Accessibility: f.Accessibility,
			Attributes:    filterAttributes(f.Attributes),
		})
	}

	for i := range t.Events {
		ev := &t.Events[i]
		acc := ev.Accessibility()
		if !memberVisible(acc, ev.IsOverride, ev.BaseAccessibility) {
			continue
		}
		members = append(members, surface.ApiMember{
			Name:          ev.Name,
			FullName:      declaring + "." + ev.Name,
			Namespace:     t.Namespace,
			DeclaringType: declaring,
			Signature:     e.builder.EventSignature(ev),
			Kind:          surface.MemberEvent,
			Accessibility: acc,
			Attributes:    filterAttributes(ev.Attributes),
		})
	}

	// Constructors are kept only when publicly or protectedly visible
	for i := range t.Constructors {
		c := &t.Constructors[i]
		if !c.Accessibility.ExternallyVisible() {
			continue
		}
		members = append(members, surface.ApiMember{
			Name:          t.SimpleName(),
			FullName:      declaring + "." + t.SimpleName(),
			Namespace:     t.Namespace,
			DeclaringType: declaring,
			Signature:     e.builder.ConstructorSignature(t, c),
			Kind:          surface.MemberConstructor,
			Accessibility: c.Accessibility,
			Attributes:    filterAttributes(c.Attributes),
		})
	}

	return members
}

// memberVisible keeps directly visible members, and overrides whose base
// declaration is visible even when the override itself is not marked so.
// This surfaces a public override of a member declared protected on a
// base type.
func memberVisible(acc surface.Accessibility, isOverride bool, baseAcc surface.Accessibility) bool {
	if acc.ExternallyVisible() {
		return true
	}
	return isOverride && baseAcc.ExternallyVisible()
}

func isBackingField(name string) bool {
	return strings.HasPrefix(name, "<") || strings.Contains(name, backingFieldMarker)
}

// compiler-noise attributes that are filtered out of the attribute set
var noiseAttributes = map[string]bool{
	"System.Runtime.CompilerServices.CompilerGeneratedAttribute": true,
	"System.Runtime.CompilerServices.NullableAttribute":          true,
	"System.Runtime.CompilerServices.NullableContextAttribute":   true,
	"System.Diagnostics.DebuggerBrowsableAttribute":              true,
}

func filterAttributes(attrs []string) []string {
	if len(attrs) == 0 {
		return nil
	}
	var out []string
	for _, a := range attrs {
		if !noiseAttributes[a] {
			out = append(out, a)
		}
	}
	return out
}
