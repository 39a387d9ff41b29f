package signature

import (
	"testing"

	"apidiff/internal/logging"
	"apidiff/internal/surface"
)

func newTestBuilder() *Builder {
	return NewBuilder(logging.NopLogger())
}

func typeRef(name string) surface.TypeRef {
	return surface.TypeRef{Name: name}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		name string
		ref  surface.TypeRef
		want string
	}{
		{
			name: "primitive keyword",
			ref:  typeRef("System.Int32"),
			want: "int",
		},
		{
			name: "plain class",
			ref:  typeRef("Contoso.Core.Widget"),
			want: "Contoso.Core.Widget",
		},
		{
			name: "single-dimensional array",
			ref:  surface.TypeRef{Name: "System.String", ArrayRank: 1},
			want: "string[]",
		},
		{
			name: "multi-dimensional array",
			ref:  surface.TypeRef{Name: "System.Int32", ArrayRank: 2},
			want: "int[,]",
		},
		{
			name: "nullable value type",
			ref: surface.TypeRef{
				Name:          "System.Nullable`1",
				TypeArguments: []surface.TypeRef{typeRef("System.Int32")},
			},
			want: "int?",
		},
		{
			name: "generic instantiation",
			ref: surface.TypeRef{
				Name:          "System.Collections.Generic.List`1",
				TypeArguments: []surface.TypeRef{typeRef("System.String")},
			},
			want: "System.Collections.Generic.List<string>",
		},
		{
			name: "nested generic arguments",
			ref: surface.TypeRef{
				Name: "System.Collections.Generic.Dictionary`2",
				TypeArguments: []surface.TypeRef{
					typeRef("System.String"),
					{
						Name:          "System.Collections.Generic.List`1",
						TypeArguments: []surface.TypeRef{typeRef("System.Int32")},
					},
				},
			},
			want: "System.Collections.Generic.Dictionary<string, System.Collections.Generic.List<int>>",
		},
		{
			name: "generic parameter position",
			ref:  surface.TypeRef{Name: "T", IsGenericParameter: true},
			want: "T",
		},
		{
			name: "by-ref",
			ref:  surface.TypeRef{Name: "System.Int32", IsByRef: true},
			want: "int&",
		},
		{
			name: "pointer",
			ref:  surface.TypeRef{Name: "System.Byte", IsPointer: true},
			want: "byte*",
		},
		{
			name: "array of generic parameter",
			ref:  surface.TypeRef{Name: "T", IsGenericParameter: true, ArrayRank: 1},
			want: "T[]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeName(tt.ref); got != tt.want {
				t.Errorf("TypeName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeSignature(t *testing.T) {
	tests := []struct {
		name string
		td   surface.TypeDescriptor
		want string
	}{
		{
			name: "plain public class",
			td: surface.TypeDescriptor{
				Name: "Widget", Namespace: "Contoso", Kind: surface.KindClass,
				Accessibility: surface.AccessPublic,
			},
			want: "public class Widget",
		},
		{
			name: "universal base type omitted",
			td: surface.TypeDescriptor{
				Name: "Widget", Namespace: "Contoso", Kind: surface.KindClass,
				Accessibility: surface.AccessPublic, BaseType: "System.Object",
			},
			want: "public class Widget",
		},
		{
			name: "abstract class with base and interfaces",
			td: surface.TypeDescriptor{
				Name: "Handler", Namespace: "Contoso", Kind: surface.KindClass,
				Accessibility: surface.AccessPublic, IsAbstract: true,
				BaseType:   "Contoso.HandlerBase",
				Interfaces: []string{"System.IDisposable"},
			},
			want: "public abstract class Handler : Contoso.HandlerBase, System.IDisposable",
		},
		{
			name: "static class",
			td: surface.TypeDescriptor{
				Name: "Util", Namespace: "Contoso", Kind: surface.KindClass,
				Accessibility: surface.AccessPublic, IsStatic: true,
				IsAbstract: true, IsSealed: true,
			},
			want: "public static class Util",
		},
		{
			name: "sealed class",
			td: surface.TypeDescriptor{
				Name: "Final", Namespace: "Contoso", Kind: surface.KindClass,
				Accessibility: surface.AccessPublic, IsSealed: true,
			},
			want: "public sealed class Final",
		},
		{
			name: "readonly struct",
			td: surface.TypeDescriptor{
				Name: "Point", Namespace: "Contoso", Kind: surface.KindStruct,
				Accessibility: surface.AccessPublic, IsReadOnly: true,
			},
			want: "public readonly struct Point",
		},
		{
			name: "internal interface",
			td: surface.TypeDescriptor{
				Name: "IThing", Namespace: "Contoso", Kind: surface.KindInterface,
				Accessibility: surface.AccessInternal,
			},
			want: "internal interface IThing",
		},
		{
			name: "generic class with constraints",
			td: surface.TypeDescriptor{
				Name: "Repository`1", Namespace: "Contoso", Kind: surface.KindClass,
				Accessibility: surface.AccessPublic,
				GenericParameters: []surface.GenericParameter{
					{
						Name:                     "T",
						HasReferenceConstraint:   true,
						HasConstructorConstraint: true,
					},
				},
			},
			want: "public class Repository<T> where T : class, new()",
		},
		{
			name: "constraint against universal base omitted",
			td: surface.TypeDescriptor{
				Name: "Holder`1", Namespace: "Contoso", Kind: surface.KindClass,
				Accessibility: surface.AccessPublic,
				GenericParameters: []surface.GenericParameter{
					{Name: "T", TypeConstraints: []string{"System.Object"}},
				},
			},
			want: "public class Holder<T>",
		},
		{
			name: "enum",
			td: surface.TypeDescriptor{
				Name: "Color", Namespace: "Contoso", Kind: surface.KindEnum,
				Accessibility: surface.AccessPublic,
			},
			want: "public enum Color",
		},
	}

	b := newTestBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.TypeSignature(&tt.td); got != tt.want {
				t.Errorf("TypeSignature() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMethodSignature(t *testing.T) {
	tests := []struct {
		name string
		m    surface.MethodDescriptor
		want string
	}{
		{
			name: "plain method",
			m: surface.MethodDescriptor{
				Name: "Run", Accessibility: surface.AccessPublic,
				ReturnType: typeRef("System.Void"),
			},
			want: "public void Run()",
		},
		{
			name: "static method with parameters",
			m: surface.MethodDescriptor{
				Name: "Parse", Accessibility: surface.AccessPublic, IsStatic: true,
				ReturnType: typeRef("System.Int32"),
				Parameters: []surface.ParameterDescriptor{
					{Name: "input", Type: typeRef("System.String")},
				},
			},
			want: "public static int Parse(string input)",
		},
		{
			name: "override",
			m: surface.MethodDescriptor{
				Name: "ToString", Accessibility: surface.AccessPublic, IsOverride: true,
				ReturnType: typeRef("System.String"),
			},
			want: "public override string ToString()",
		},
		{
			name: "sealed override",
			m: surface.MethodDescriptor{
				Name: "Dispose", Accessibility: surface.AccessPublic,
				IsOverride: true, IsSealed: true,
				ReturnType: typeRef("System.Void"),
			},
			want: "public sealed override void Dispose()",
		},
		{
			name: "abstract wins over virtual",
			m: surface.MethodDescriptor{
				Name: "Handle", Accessibility: surface.AccessProtected,
				IsAbstract: true, IsVirtual: true,
				ReturnType: typeRef("System.Void"),
			},
			want: "protected abstract void Handle()",
		},
		{
			name: "out and params modifiers",
			m: surface.MethodDescriptor{
				Name: "TryParse", Accessibility: surface.AccessPublic, IsStatic: true,
				ReturnType: typeRef("System.Boolean"),
				Parameters: []surface.ParameterDescriptor{
					{Name: "input", Type: typeRef("System.String")},
					{Name: "value", Type: typeRef("System.Int32"), Modifier: surface.ParamOut},
				},
			},
			want: "public static bool TryParse(string input, out int value)",
		},
		{
			name: "optional parameter with default",
			m: surface.MethodDescriptor{
				Name: "Connect", Accessibility: surface.AccessPublic,
				ReturnType: typeRef("System.Void"),
				Parameters: []surface.ParameterDescriptor{
					{Name: "retries", Type: typeRef("System.Int32"), IsOptional: true, DefaultValue: float64(3)},
					{Name: "host", Type: typeRef("System.String"), IsOptional: true, DefaultValue: "localhost"},
				},
			},
			want: `public void Connect(int retries = 3, string host = "localhost")`,
		},
		{
			name: "null default",
			m: surface.MethodDescriptor{
				Name: "Log", Accessibility: surface.AccessPublic,
				ReturnType: typeRef("System.Void"),
				Parameters: []surface.ParameterDescriptor{
					{Name: "sink", Type: typeRef("Contoso.ISink"), IsOptional: true, DefaultValue: nil},
				},
			},
			want: "public void Log(Contoso.ISink sink = null)",
		},
		{
			name: "generic method with constraint",
			m: surface.MethodDescriptor{
				Name: "Create", Accessibility: surface.AccessPublic,
				ReturnType:        surface.TypeRef{Name: "T", IsGenericParameter: true},
				GenericParameters: []surface.GenericParameter{{Name: "T", HasValueConstraint: true}},
			},
			want: "public T Create<T>() where T : struct",
		},
	}

	b := newTestBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.MethodSignature(&tt.m); got != tt.want {
				t.Errorf("MethodSignature() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstructorSignature(t *testing.T) {
	declaring := surface.TypeDescriptor{Name: "Widget`1", Namespace: "Contoso"}

	ctor := surface.MethodDescriptor{
		Name: ".ctor", Accessibility: surface.AccessPublic,
		Parameters: []surface.ParameterDescriptor{
			{Name: "id", Type: typeRef("System.Int32")},
		},
	}

	b := newTestBuilder()
	got := b.ConstructorSignature(&declaring, &ctor)
	want := "public Widget(int id)"
	if got != want {
		t.Errorf("ConstructorSignature() = %q, want %q", got, want)
	}

	static := surface.MethodDescriptor{
		Name: ".cctor", Accessibility: surface.AccessPrivate, IsStatic: true,
	}
	got = b.ConstructorSignature(&declaring, &static)
	want = "private static Widget()"
	if got != want {
		t.Errorf("ConstructorSignature() = %q, want %q", got, want)
	}
}

func TestPropertySignature(t *testing.T) {
	pub := surface.AccessPublic
	priv := surface.AccessPrivate

	tests := []struct {
		name string
		p    surface.PropertyDescriptor
		want string
	}{
		{
			name: "read-only property",
			p: surface.PropertyDescriptor{
				Name: "Count", Type: typeRef("System.Int32"),
				GetAccessibility: &pub,
			},
			want: "public int Count { get; }",
		},
		{
			name: "read-write property",
			p: surface.PropertyDescriptor{
				Name: "Name", Type: typeRef("System.String"),
				GetAccessibility: &pub, SetAccessibility: &pub,
			},
			want: "public string Name { get; set; }",
		},
		{
			name: "effective accessibility from more visible accessor",
			p: surface.PropertyDescriptor{
				Name: "State", Type: typeRef("System.Int32"),
				GetAccessibility: &pub, SetAccessibility: &priv,
			},
			want: "public int State { get; set; }",
		},
		{
			name: "static property",
			p: surface.PropertyDescriptor{
				Name: "Default", Type: typeRef("Contoso.Widget"),
				GetAccessibility: &pub, IsStatic: true,
			},
			want: "public static Contoso.Widget Default { get; }",
		},
		{
			name: "indexer",
			p: surface.PropertyDescriptor{
				Name: "Item", Type: typeRef("System.String"),
				GetAccessibility: &pub,
				Parameters: []surface.ParameterDescriptor{
					{Name: "index", Type: typeRef("System.Int32")},
				},
			},
			want: "public string Item[int index] { get; }",
		},
	}

	b := newTestBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.PropertySignature(&tt.p); got != tt.want {
				t.Errorf("PropertySignature() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFieldSignature(t *testing.T) {
	tests := []struct {
		name string
		f    surface.FieldDescriptor
		want string
	}{
		{
			name: "const with value",
			f: surface.FieldDescriptor{
				Name: "MaxRetries", Type: typeRef("System.Int32"),
				Accessibility: surface.AccessPublic,
				IsConst:       true, IsStatic: true, ConstValue: float64(10),
			},
			want: "public const int MaxRetries = 10",
		},
		{
			name: "const string",
			f: surface.FieldDescriptor{
				Name: "Tag", Type: typeRef("System.String"),
				Accessibility: surface.AccessPublic,
				IsConst:       true, ConstValue: "core",
			},
			want: `public const string Tag = "core"`,
		},
		{
			name: "static readonly",
			f: surface.FieldDescriptor{
				Name: "Empty", Type: typeRef("Contoso.Widget"),
				Accessibility: surface.AccessPublic,
				IsStatic:      true, IsReadOnly: true,
			},
			want: "public static readonly Contoso.Widget Empty",
		},
		{
			name: "plain field",
			f: surface.FieldDescriptor{
				Name: "value", Type: typeRef("System.Double"),
				Accessibility: surface.AccessProtected,
			},
			want: "protected double value",
		},
	}

	b := newTestBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.FieldSignature(&tt.f); got != tt.want {
				t.Errorf("FieldSignature() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEventSignature(t *testing.T) {
	pub := surface.AccessPublic

	e := surface.EventDescriptor{
		Name: "Changed", Type: typeRef("System.EventHandler"),
		AddAccessibility: &pub, RemoveAccessibility: &pub,
	}

	b := newTestBuilder()
	got := b.EventSignature(&e)
	want := "public event System.EventHandler Changed"
	if got != want {
		t.Errorf("EventSignature() = %q, want %q", got, want)
	}
}

func TestSignatureDeterminism(t *testing.T) {
	m := surface.MethodDescriptor{
		Name: "Process", Accessibility: surface.AccessPublic,
		ReturnType: typeRef("System.Void"),
		Parameters: []surface.ParameterDescriptor{
			{Name: "items", Type: surface.TypeRef{Name: "System.String", ArrayRank: 1}},
		},
	}

	b := newTestBuilder()
	first := b.MethodSignature(&m)
	second := b.MethodSignature(&m)
	if first != second {
		t.Errorf("repeated rendering differs: %q vs %q", first, second)
	}

	// Any observable difference must change the string
	changed := m
	changed.Accessibility = surface.AccessInternal
	if b.MethodSignature(&changed) == first {
		t.Error("accessibility change did not change the signature")
	}
}
