package signature

import (
	"strings"

	"apidiff/internal/surface"
)

// keywordTypes maps runtime type names to their language keywords.
// Built-in primitives render as keywords, never as qualified names.
var keywordTypes = map[string]string{
	"System.Void":    "void",
	"System.Boolean": "bool",
	"System.Char":    "char",
	"System.String":  "string",
	"System.Object":  "object",
	"System.Byte":    "byte",
	"System.SByte":   "sbyte",
	"System.Int16":   "short",
	"System.UInt16":  "ushort",
	"System.Int32":   "int",
	"System.UInt32":  "uint",
	"System.Int64":   "long",
	"System.UInt64":  "ulong",
	"System.Single":  "float",
	"System.Double":  "double",
	"System.Decimal": "decimal",
}

// universalBase is the implicit base of every type; constraints against
// it are omitted and it never renders in a base list
const universalBase = "System.Object"

// nullableType wraps value types that render with the ? suffix
const nullableType = "System.Nullable"

// TypeName renders one type reference into its normalized signature form
func TypeName(r surface.TypeRef) string {
	name := elementName(r)

	if r.ArrayRank > 0 {
		name += "[" + strings.Repeat(",", r.ArrayRank-1) + "]"
	}
	if r.IsPointer {
		name += "*"
	}
	if r.IsByRef {
		name += "&"
	}

	return name
}

func elementName(r surface.TypeRef) string {
	if r.IsGenericParameter {
		return r.Name
	}

	base := stripArity(r.Name)

	// Nullable value types render as T?
	if base == nullableType && len(r.TypeArguments) == 1 {
		return TypeName(r.TypeArguments[0]) + "?"
	}

	if len(r.TypeArguments) == 0 {
		if kw, ok := keywordTypes[base]; ok {
			return kw
		}
		return base
	}

	args := make([]string, len(r.TypeArguments))
	for i, a := range r.TypeArguments {
		args[i] = TypeName(a)
	}
	return base + "<" + strings.Join(args, ", ") + ">"
}

// stripArity drops the backtick arity suffix from a generic type name
func stripArity(name string) string {
	if idx := strings.Index(name, "`"); idx >= 0 {
		return name[:idx]
	}
	return name
}

// plainTypeName renders a bare type name (base types, interfaces,
// constraint targets) with arity stripped and keywords applied
func plainTypeName(name string) string {
	base := stripArity(name)
	if kw, ok := keywordTypes[base]; ok {
		return kw
	}
	return base
}
