// Package surface models the externally visible shape of one compiled
// artifact: its types, their members, and the metadata the comparison
// pipeline needs (accessibility, modifiers, type references). The core
// never touches live reflection; it walks these descriptors, which a
// loader produces from a surface descriptor file.
package surface

import "strings"

// Accessibility is the declared visibility of a type or member,
// ordered from most visible to least on a six-level ladder.
type Accessibility string

const (
	AccessPublic            Accessibility = "public"
	AccessProtectedInternal Accessibility = "protectedInternal"
	AccessInternal          Accessibility = "internal"
	AccessProtected         Accessibility = "protected"
	AccessPrivateProtected  Accessibility = "privateProtected"
	AccessPrivate           Accessibility = "private"
)

var accessibilityRank = map[Accessibility]int{
	AccessPublic:            5,
	AccessProtectedInternal: 4,
	AccessInternal:          3,
	AccessProtected:         2,
	AccessPrivateProtected:  1,
	AccessPrivate:           0,
}

// Rank returns the position on the visibility ladder (Public=5 .. Private=0).
// Unknown values rank below private.
func (a Accessibility) Rank() int {
	if r, ok := accessibilityRank[a]; ok {
		return r
	}
	return -1
}

// Keyword returns the source-language keyword form used in signatures
func (a Accessibility) Keyword() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtectedInternal:
		return "protected internal"
	case AccessInternal:
		return "internal"
	case AccessProtected:
		return "protected"
	case AccessPrivateProtected:
		return "private protected"
	case AccessPrivate:
		return "private"
	default:
		return string(a)
	}
}

// ExternallyVisible reports whether the accessibility is reachable from
// outside the declaring artifact (public, or protected on a visible type).
func (a Accessibility) ExternallyVisible() bool {
	switch a {
	case AccessPublic, AccessProtectedInternal, AccessProtected:
		return true
	default:
		return false
	}
}

// IsReducedAccessibility reports whether moving from old to new
// strictly lowers visibility on the ladder
func IsReducedAccessibility(old, new Accessibility) bool {
	return new.Rank() < old.Rank()
}

// MoreVisible returns the more visible of two accessibilities
func MoreVisible(a, b Accessibility) Accessibility {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// TypeKind classifies a type declaration
type TypeKind string

const (
	KindClass     TypeKind = "class"
	KindInterface TypeKind = "interface"
	KindStruct    TypeKind = "struct"
	KindEnum      TypeKind = "enum"
	KindDelegate  TypeKind = "delegate"
)

// ParamModifier is the passing mode of a parameter
type ParamModifier string

const (
	ParamByValue ParamModifier = ""
	ParamOut     ParamModifier = "out"
	ParamRef     ParamModifier = "ref"
	ParamParams  ParamModifier = "params"
)

// TypeRef is a structural reference to a type as it appears in a
// signature position: possibly an array, by-ref, pointer, nullable,
// generic instantiation, or a bare generic parameter.
type TypeRef struct {
	// Name is the fully qualified type name, with a backtick arity
	// suffix for generic definitions, or the bare parameter name when
	// IsGenericParameter is set.
	Name               string    `json:"name"`
	IsGenericParameter bool      `json:"isGenericParameter,omitempty"`
	TypeArguments      []TypeRef `json:"typeArguments,omitempty"`
	// ArrayRank is 0 for non-arrays, 1 for T[], 2 for T[,], and so on.
	ArrayRank int  `json:"arrayRank,omitempty"`
	IsByRef   bool `json:"isByRef,omitempty"`
	IsPointer bool `json:"isPointer,omitempty"`
}

// GenericParameter is one declared generic parameter with its constraints
type GenericParameter struct {
	Name string `json:"name"`
	// HasReferenceConstraint is the class constraint
	HasReferenceConstraint bool `json:"classConstraint,omitempty"`
	// HasValueConstraint is the struct constraint
	HasValueConstraint bool `json:"structConstraint,omitempty"`
	// HasConstructorConstraint is the new() constraint
	HasConstructorConstraint bool `json:"newConstraint,omitempty"`
	// TypeConstraints are explicit base type or interface constraints,
	// as full type names
	TypeConstraints []string `json:"typeConstraints,omitempty"`
}

// ParameterDescriptor is one declared parameter
type ParameterDescriptor struct {
	Name     string        `json:"name"`
	Type     TypeRef       `json:"type"`
	Modifier ParamModifier `json:"modifier,omitempty"`
	// IsOptional marks a parameter with a default value
	IsOptional bool `json:"isOptional,omitempty"`
	// DefaultValue is the literal default: a string, number, bool, or
	// nil for an explicit null default
	DefaultValue interface{} `json:"defaultValue,omitempty"`
}

// MethodDescriptor is one declared method or constructor
type MethodDescriptor struct {
	Name          string        `json:"name"`
	Accessibility Accessibility `json:"accessibility"`
	IsStatic      bool          `json:"isStatic,omitempty"`
	IsVirtual     bool          `json:"isVirtual,omitempty"`
	IsAbstract    bool          `json:"isAbstract,omitempty"`
	IsOverride    bool          `json:"isOverride,omitempty"`
	IsSealed      bool          `json:"isSealed,omitempty"`
	// IsSpecialName marks accessor and operator infrastructure methods
	IsSpecialName bool `json:"isSpecialName,omitempty"`
	// BaseAccessibility is the accessibility of the overridden base
	// declaration, set only when IsOverride is true
	BaseAccessibility Accessibility         `json:"baseAccessibility,omitempty"`
	ReturnType        TypeRef               `json:"returnType"`
	GenericParameters []GenericParameter    `json:"genericParameters,omitempty"`
	Parameters        []ParameterDescriptor `json:"parameters,omitempty"`
	Attributes        []string              `json:"attributes,omitempty"`
}

// PropertyDescriptor is one declared property or indexer.
// Accessor accessibilities are nil when the accessor does not exist.
type PropertyDescriptor struct {
	Name             string                `json:"name"`
	Type             TypeRef               `json:"type"`
	GetAccessibility *Accessibility        `json:"getAccessibility,omitempty"`
	SetAccessibility *Accessibility        `json:"setAccessibility,omitempty"`
	IsStatic         bool                  `json:"isStatic,omitempty"`
	IsVirtual        bool                  `json:"isVirtual,omitempty"`
	IsAbstract       bool                  `json:"isAbstract,omitempty"`
	IsOverride       bool                  `json:"isOverride,omitempty"`
	BaseAccessibility Accessibility        `json:"baseAccessibility,omitempty"`
	Parameters       []ParameterDescriptor `json:"parameters,omitempty"` // indexer parameters
	Attributes       []string              `json:"attributes,omitempty"`
}

// Accessibility resolves the property's effective accessibility: the
// more visible of its accessors, or private when neither exists.
func (p *PropertyDescriptor) Accessibility() Accessibility {
	return accessorAccessibility(p.GetAccessibility, p.SetAccessibility)
}

// FieldDescriptor is one declared field
type FieldDescriptor struct {
	Name          string        `json:"name"`
	Type          TypeRef       `json:"type"`
	Accessibility Accessibility `json:"accessibility"`
	IsStatic      bool          `json:"isStatic,omitempty"`
	IsReadOnly    bool          `json:"isReadOnly,omitempty"`
	IsConst       bool          `json:"isConst,omitempty"`
	// ConstValue is the compile-time constant for const fields
	ConstValue interface{} `json:"constValue,omitempty"`
	Attributes []string    `json:"attributes,omitempty"`
}

// EventDescriptor is one declared event.
// Accessor accessibilities are nil when the accessor does not exist.
type EventDescriptor struct {
	Name                string         `json:"name"`
	Type                TypeRef        `json:"type"` // handler delegate type
	AddAccessibility    *Accessibility `json:"addAccessibility,omitempty"`
	RemoveAccessibility *Accessibility `json:"removeAccessibility,omitempty"`
	IsStatic            bool           `json:"isStatic,omitempty"`
	IsVirtual           bool           `json:"isVirtual,omitempty"`
	IsOverride          bool           `json:"isOverride,omitempty"`
	BaseAccessibility   Accessibility  `json:"baseAccessibility,omitempty"`
	Attributes          []string       `json:"attributes,omitempty"`
}

// Accessibility resolves the event's effective accessibility: the more
// visible of add/remove, or private when neither exists.
func (e *EventDescriptor) Accessibility() Accessibility {
	return accessorAccessibility(e.AddAccessibility, e.RemoveAccessibility)
}

func accessorAccessibility(a, b *Accessibility) Accessibility {
	switch {
	case a != nil && b != nil:
		return MoreVisible(*a, *b)
	case a != nil:
		return *a
	case b != nil:
		return *b
	default:
		return AccessPrivate
	}
}

// TypeDescriptor is one declared type with all of its members
type TypeDescriptor struct {
	// Name is the simple type name, carrying a backtick arity suffix
	// for generic definitions (e.g. "Repository`1")
	Name          string        `json:"name"`
	Namespace     string        `json:"namespace"`
	Kind          TypeKind      `json:"kind"`
	Accessibility Accessibility `json:"accessibility"`
	IsStatic      bool          `json:"isStatic,omitempty"`
	IsSealed      bool          `json:"isSealed,omitempty"`
	IsAbstract    bool          `json:"isAbstract,omitempty"`
	IsReadOnly    bool          `json:"isReadOnly,omitempty"`
	// IsCompilerGenerated is the explicit marker attribute flag; the
	// extractor additionally applies naming heuristics
	IsCompilerGenerated bool `json:"isCompilerGenerated,omitempty"`
	// IsSpecialName marks reflection-special infrastructure types
	IsSpecialName     bool               `json:"isSpecialName,omitempty"`
	BaseType          string             `json:"baseType,omitempty"`
	Interfaces        []string           `json:"interfaces,omitempty"`
	GenericParameters []GenericParameter `json:"genericParameters,omitempty"`
	Attributes        []string           `json:"attributes,omitempty"`

	Methods      []MethodDescriptor   `json:"methods,omitempty"`
	Properties   []PropertyDescriptor `json:"properties,omitempty"`
	Fields       []FieldDescriptor    `json:"fields,omitempty"`
	Events       []EventDescriptor    `json:"events,omitempty"`
	Constructors []MethodDescriptor   `json:"constructors,omitempty"`
}

// FullName returns the namespace-qualified type name
func (t *TypeDescriptor) FullName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// SimpleName returns the type name with any generic arity suffix stripped
func (t *TypeDescriptor) SimpleName() string {
	if idx := strings.Index(t.Name, "`"); idx >= 0 {
		return t.Name[:idx]
	}
	return t.Name
}

// Assembly is one loaded API surface
type Assembly struct {
	SchemaVersion int              `json:"schemaVersion"`
	Name          string           `json:"name"`
	Version       string           `json:"version,omitempty"`
	Types         []TypeDescriptor `json:"types"`
}

// Identifier returns a display identifier for the surface
func (a *Assembly) Identifier() string {
	if a.Version == "" {
		return a.Name
	}
	return a.Name + ", Version=" + a.Version
}
