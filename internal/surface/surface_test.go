package surface

import "testing"

func TestAccessibilityRankOrdering(t *testing.T) {
	ladder := []Accessibility{
		AccessPrivate,
		AccessPrivateProtected,
		AccessProtected,
		AccessInternal,
		AccessProtectedInternal,
		AccessPublic,
	}

	for i := 1; i < len(ladder); i++ {
		if ladder[i].Rank() <= ladder[i-1].Rank() {
			t.Errorf("expected %s to rank above %s, got %d <= %d",
				ladder[i], ladder[i-1], ladder[i].Rank(), ladder[i-1].Rank())
		}
	}

	if Accessibility("bogus").Rank() != -1 {
		t.Errorf("unknown accessibility should rank -1, got %d", Accessibility("bogus").Rank())
	}
}

func TestIsReducedAccessibility(t *testing.T) {
	all := []Accessibility{
		AccessPublic,
		AccessProtectedInternal,
		AccessInternal,
		AccessProtected,
		AccessPrivateProtected,
		AccessPrivate,
	}

	// Reduction holds exactly when the new rank is strictly lower
	for _, old := range all {
		for _, new_ := range all {
			want := new_.Rank() < old.Rank()
			if got := IsReducedAccessibility(old, new_); got != want {
				t.Errorf("IsReducedAccessibility(%s, %s) = %v, want %v", old, new_, got, want)
			}
		}
	}
}

func TestIsReducedAccessibilitySpotChecks(t *testing.T) {
	tests := []struct {
		name string
		old  Accessibility
		new  Accessibility
		want bool
	}{
		{"public to internal", AccessPublic, AccessInternal, true},
		{"public to protected internal", AccessPublic, AccessProtectedInternal, true},
		{"protected to private protected", AccessProtected, AccessPrivateProtected, true},
		{"internal to public widens", AccessInternal, AccessPublic, false},
		{"protected to protected internal widens", AccessProtected, AccessProtectedInternal, false},
		{"unchanged", AccessPublic, AccessPublic, false},
		{"private to private", AccessPrivate, AccessPrivate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsReducedAccessibility(tt.old, tt.new); got != tt.want {
				t.Errorf("IsReducedAccessibility(%s, %s) = %v, want %v", tt.old, tt.new, got, tt.want)
			}
		})
	}
}

func TestExternallyVisible(t *testing.T) {
	tests := []struct {
		acc  Accessibility
		want bool
	}{
		{AccessPublic, true},
		{AccessProtectedInternal, true},
		{AccessProtected, true},
		{AccessInternal, false},
		{AccessPrivateProtected, false},
		{AccessPrivate, false},
	}

	for _, tt := range tests {
		if got := tt.acc.ExternallyVisible(); got != tt.want {
			t.Errorf("%s.ExternallyVisible() = %v, want %v", tt.acc, got, tt.want)
		}
	}
}

func TestKeyword(t *testing.T) {
	tests := []struct {
		acc  Accessibility
		want string
	}{
		{AccessPublic, "public"},
		{AccessProtectedInternal, "protected internal"},
		{AccessPrivateProtected, "private protected"},
		{AccessInternal, "internal"},
	}

	for _, tt := range tests {
		if got := tt.acc.Keyword(); got != tt.want {
			t.Errorf("%s.Keyword() = %q, want %q", tt.acc, got, tt.want)
		}
	}
}

func TestPropertyAccessibility(t *testing.T) {
	pub := AccessPublic
	priv := AccessPrivate
	prot := AccessProtected

	tests := []struct {
		name string
		prop PropertyDescriptor
		want Accessibility
	}{
		{
			name: "getter only",
			prop: PropertyDescriptor{GetAccessibility: &pub},
			want: AccessPublic,
		},
		{
			name: "more visible accessor wins",
			prop: PropertyDescriptor{GetAccessibility: &pub, SetAccessibility: &priv},
			want: AccessPublic,
		},
		{
			name: "setter only",
			prop: PropertyDescriptor{SetAccessibility: &prot},
			want: AccessProtected,
		},
		{
			name: "no accessors",
			prop: PropertyDescriptor{},
			want: AccessPrivate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.prop.Accessibility(); got != tt.want {
				t.Errorf("Accessibility() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEventAccessibility(t *testing.T) {
	pub := AccessPublic
	priv := AccessPrivate

	ev := EventDescriptor{AddAccessibility: &priv, RemoveAccessibility: &pub}
	if got := ev.Accessibility(); got != AccessPublic {
		t.Errorf("Accessibility() = %s, want public", got)
	}

	empty := EventDescriptor{}
	if got := empty.Accessibility(); got != AccessPrivate {
		t.Errorf("Accessibility() = %s, want private", got)
	}
}

func TestTypeDescriptorNames(t *testing.T) {
	tests := []struct {
		name       string
		td         TypeDescriptor
		wantFull   string
		wantSimple string
	}{
		{
			name:       "plain type",
			td:         TypeDescriptor{Name: "Widget", Namespace: "Contoso.Core"},
			wantFull:   "Contoso.Core.Widget",
			wantSimple: "Widget",
		},
		{
			name:       "generic arity stripped from simple name",
			td:         TypeDescriptor{Name: "Repository`1", Namespace: "Contoso.Data"},
			wantFull:   "Contoso.Data.Repository`1",
			wantSimple: "Repository",
		},
		{
			name:       "no namespace",
			td:         TypeDescriptor{Name: "Global"},
			wantFull:   "Global",
			wantSimple: "Global",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.td.FullName(); got != tt.wantFull {
				t.Errorf("FullName() = %q, want %q", got, tt.wantFull)
			}
			if got := tt.td.SimpleName(); got != tt.wantSimple {
				t.Errorf("SimpleName() = %q, want %q", got, tt.wantSimple)
			}
		})
	}
}

func TestAssemblyIdentifier(t *testing.T) {
	asm := Assembly{Name: "Contoso.Core", Version: "2.1.0"}
	if got := asm.Identifier(); got != "Contoso.Core, Version=2.1.0" {
		t.Errorf("Identifier() = %q", got)
	}

	bare := Assembly{Name: "Contoso.Core"}
	if got := bare.Identifier(); got != "Contoso.Core" {
		t.Errorf("Identifier() = %q, want bare name", got)
	}
}
