// Package signature renders exported types and members into normalized,
// single-line signature strings. Two declarations with identical
// observable shape yield identical strings; any observable difference in
// accessibility, modifiers, type, name, or parameter list yields
// different strings. Signatures are the matching key for member-level
// diffing.
package signature

import (
	"fmt"
	"strings"

	"apidiff/internal/logging"
	"apidiff/internal/surface"
)

// Builder renders comparison-ready signatures
type Builder struct {
	logger *logging.Logger
}

// NewBuilder creates a new signature builder
func NewBuilder(logger *logging.Logger) *Builder {
	return &Builder{logger: logger.Named("signature")}
}

// recoverSignature converts a panic while inspecting one entity into the
// sentinel form so one malformed member cannot abort a whole scan
func (b *Builder) recoverSignature(name string, sig *string) {
	if r := recover(); r != nil {
		b.logger.Error("Failed to build signature", map[string]interface{}{
			"entity": name,
			"error":  fmt.Sprintf("%v", r),
		})
		*sig = "Error: " + name
	}
}

// TypeSignature renders one type declaration
func (b *Builder) TypeSignature(t *surface.TypeDescriptor) (sig string) {
	defer b.recoverSignature(t.Name, &sig)

	var parts []string
	parts = append(parts, t.Accessibility.Keyword())

	if t.IsStatic {
		parts = append(parts, "static")
	}
	if t.Kind == surface.KindClass && !t.IsStatic {
		if t.IsAbstract {
			parts = append(parts, "abstract")
		}
		if t.IsSealed {
			parts = append(parts, "sealed")
		}
	}
	if t.IsReadOnly && t.Kind == surface.KindStruct {
		parts = append(parts, "readonly")
	}

	parts = append(parts, string(t.Kind))
	parts = append(parts, t.SimpleName()+genericParameterList(t.GenericParameters))

	sig = strings.Join(parts, " ")

	if bases := baseList(t); bases != "" {
		sig += " : " + bases
	}
	if where := constraintClauses(t.GenericParameters); where != "" {
		sig += " " + where
	}

	return sig
}

// MethodSignature renders one method declaration
func (b *Builder) MethodSignature(m *surface.MethodDescriptor) (sig string) {
	defer b.recoverSignature(m.Name, &sig)

	var parts []string
	parts = append(parts, m.Accessibility.Keyword())
	parts = append(parts, methodModifiers(m)...)
	parts = append(parts, TypeName(m.ReturnType))
	parts = append(parts, m.Name+genericParameterList(m.GenericParameters)+parameterList(m.Parameters))

	sig = strings.Join(parts, " ")
	if where := constraintClauses(m.GenericParameters); where != "" {
		sig += " " + where
	}

	return sig
}

// ConstructorSignature renders one constructor of the declaring type
func (b *Builder) ConstructorSignature(declaring *surface.TypeDescriptor, m *surface.MethodDescriptor) (sig string) {
	defer b.recoverSignature(declaring.Name, &sig)

	var parts []string
	parts = append(parts, m.Accessibility.Keyword())
	if m.IsStatic {
		parts = append(parts, "static")
	}
	parts = append(parts, declaring.SimpleName()+parameterList(m.Parameters))

	return strings.Join(parts, " ")
}

// PropertySignature renders one property declaration with its accessor list
func (b *Builder) PropertySignature(p *surface.PropertyDescriptor) (sig string) {
	defer b.recoverSignature(p.Name, &sig)

	var parts []string
	parts = append(parts, p.Accessibility().Keyword())
	if p.IsStatic {
		parts = append(parts, "static")
	}
	if p.IsAbstract {
		parts = append(parts, "abstract")
	} else if p.IsOverride {
		parts = append(parts, "override")
	} else if p.IsVirtual {
		parts = append(parts, "virtual")
	}
	parts = append(parts, TypeName(p.Type))

	name := p.Name
	if len(p.Parameters) > 0 {
		name += parameterIndex(p.Parameters)
	}
	parts = append(parts, name)
	parts = append(parts, accessorList(p))

	return strings.Join(parts, " ")
}

// FieldSignature renders one field declaration
func (b *Builder) FieldSignature(f *surface.FieldDescriptor) (sig string) {
	defer b.recoverSignature(f.Name, &sig)

	var parts []string
	parts = append(parts, f.Accessibility.Keyword())
	if f.IsConst {
		parts = append(parts, "const")
	} else {
		if f.IsStatic {
			parts = append(parts, "static")
		}
		if f.IsReadOnly {
			parts = append(parts, "readonly")
		}
	}
	parts = append(parts, TypeName(f.Type))
	parts = append(parts, f.Name)

	sig = strings.Join(parts, " ")
	if f.IsConst && f.ConstValue != nil {
		sig += " = " + literal(f.ConstValue)
	}

	return sig
}

// EventSignature renders one event declaration
func (b *Builder) EventSignature(e *surface.EventDescriptor) (sig string) {
	defer b.recoverSignature(e.Name, &sig)

	var parts []string
	parts = append(parts, e.Accessibility().Keyword())
	if e.IsStatic {
		parts = append(parts, "static")
	}
	if e.IsOverride {
		parts = append(parts, "override")
	} else if e.IsVirtual {
		parts = append(parts, "virtual")
	}
	parts = append(parts, "event")
	parts = append(parts, TypeName(e.Type))
	parts = append(parts, e.Name)

	return strings.Join(parts, " ")
}

func methodModifiers(m *surface.MethodDescriptor) []string {
	var mods []string
	if m.IsStatic {
		mods = append(mods, "static")
	}
	switch {
	case m.IsAbstract:
		mods = append(mods, "abstract")
	case m.IsOverride && m.IsSealed:
		mods = append(mods, "sealed override")
	case m.IsOverride:
		mods = append(mods, "override")
	case m.IsVirtual:
		mods = append(mods, "virtual")
	}
	return mods
}

func genericParameterList(params []surface.GenericParameter) string {
	if len(params) == 0 {
		return ""
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return "<" + strings.Join(names, ", ") + ">"
}

// constraintClauses renders where-clauses for constrained generic
// parameters; constraints against the universal base type are omitted
func constraintClauses(params []surface.GenericParameter) string {
	var clauses []string
	for _, p := range params {
		var cs []string
		if p.HasReferenceConstraint {
			cs = append(cs, "class")
		}
		if p.HasValueConstraint {
			cs = append(cs, "struct")
		}
		for _, t := range p.TypeConstraints {
			if t == universalBase {
				continue
			}
			cs = append(cs, plainTypeName(t))
		}
		if p.HasConstructorConstraint {
			cs = append(cs, "new()")
		}
		if len(cs) > 0 {
			clauses = append(clauses, "where "+p.Name+" : "+strings.Join(cs, ", "))
		}
	}
	return strings.Join(clauses, " ")
}

// baseList renders the base type and interface list; the universal base
// type is implicit and omitted
func baseList(t *surface.TypeDescriptor) string {
	var bases []string
	if t.BaseType != "" && t.BaseType != universalBase {
		bases = append(bases, plainTypeName(t.BaseType))
	}
	for _, i := range t.Interfaces {
		bases = append(bases, plainTypeName(i))
	}
	return strings.Join(bases, ", ")
}

func parameterList(params []surface.ParameterDescriptor) string {
	return "(" + strings.Join(renderParameters(params), ", ") + ")"
}

func parameterIndex(params []surface.ParameterDescriptor) string {
	return "[" + strings.Join(renderParameters(params), ", ") + "]"
}

func renderParameters(params []surface.ParameterDescriptor) []string {
	out := make([]string, len(params))
	for i, p := range params {
		var b strings.Builder
		if p.Modifier != surface.ParamByValue {
			b.WriteString(string(p.Modifier))
			b.WriteString(" ")
		}
		b.WriteString(TypeName(p.Type))
		b.WriteString(" ")
		b.WriteString(p.Name)
		if p.IsOptional {
			b.WriteString(" = ")
			b.WriteString(literal(p.DefaultValue))
		}
		out[i] = b.String()
	}
	return out
}

// literal renders a default or constant value: strings quoted, nil as
// null, everything else in its natural form
func literal(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", val)
	case bool:
		return fmt.Sprintf("%t", val)
	case float64:
		// JSON numbers decode as float64; render integral values bare
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func accessorList(p *surface.PropertyDescriptor) string {
	var accessors []string
	if p.GetAccessibility != nil {
		accessors = append(accessors, "get;")
	}
	if p.SetAccessibility != nil {
		accessors = append(accessors, "set;")
	}
	if len(accessors) == 0 {
		return "{ }"
	}
	return "{ " + strings.Join(accessors, " ") + " }"
}
