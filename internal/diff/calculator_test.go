package diff

import (
	"strings"
	"testing"

	"apidiff/internal/logging"
	"apidiff/internal/signature"
	"apidiff/internal/surface"
)

func newTestCalculator() *Calculator {
	logger := logging.NopLogger()
	return NewCalculator(signature.NewBuilder(logger), logger)
}

func publicType(name string) *surface.TypeDescriptor {
	return &surface.TypeDescriptor{
		Name: name, Namespace: "Contoso", Kind: surface.KindClass,
		Accessibility: surface.AccessPublic,
	}
}

func TestAddedType(t *testing.T) {
	d := newTestCalculator().AddedType(publicType("Widget"))

	if d.ChangeType != ChangeAdded {
		t.Errorf("ChangeType = %s, want added", d.ChangeType)
	}
	if d.IsBreakingChange {
		t.Error("added type must default to non-breaking")
	}
	if d.Severity != SeverityInfo {
		t.Errorf("Severity = %s, want info", d.Severity)
	}
	if d.OldSignature != "" {
		t.Error("added type must not carry an old signature")
	}
	if d.NewSignature == "" {
		t.Error("added type must carry the new signature")
	}
}

func TestRemovedType(t *testing.T) {
	d := newTestCalculator().RemovedType(publicType("Widget"))

	if d.ChangeType != ChangeRemoved {
		t.Errorf("ChangeType = %s, want removed", d.ChangeType)
	}
	if !d.IsBreakingChange {
		t.Error("removed type must default to breaking")
	}
	if d.Severity != SeverityError {
		t.Errorf("Severity = %s, want error", d.Severity)
	}
	if d.NewSignature != "" {
		t.Error("removed type must not carry a new signature")
	}
}

func TestAddedAndRemovedMember(t *testing.T) {
	m := surface.ApiMember{
		Name: "Run", FullName: "Contoso.Widget.Run",
		DeclaringType: "Contoso.Widget",
		Signature:     "public void Run()",
		Kind:          surface.MemberMethod,
		Accessibility: surface.AccessPublic,
	}

	c := newTestCalculator()

	added := c.AddedMember(m)
	if added.IsBreakingChange || added.Severity != SeverityInfo || added.ElementKind != ElementMethod {
		t.Errorf("unexpected added member verdict: %+v", added)
	}

	removed := c.RemovedMember(m)
	if !removed.IsBreakingChange || removed.Severity != SeverityError {
		t.Errorf("unexpected removed member verdict: %+v", removed)
	}
}

func TestTypeChangesNilInput(t *testing.T) {
	c := newTestCalculator()
	if _, err := c.TypeChanges(nil, publicType("Widget"), false); err == nil {
		t.Error("expected error for nil old side")
	}
	if _, err := c.TypeChanges(publicType("Widget"), nil, false); err == nil {
		t.Error("expected error for nil new side")
	}
}

func TestTypeChangesAccessibility(t *testing.T) {
	c := newTestCalculator()

	t.Run("reduced accessibility is a breaking error", func(t *testing.T) {
		old := publicType("Widget")
		new_ := publicType("Widget")
		new_.Accessibility = surface.AccessInternal

		d, err := c.TypeChanges(old, new_, false)
		if err != nil {
			t.Fatalf("TypeChanges failed: %v", err)
		}
		if d == nil {
			t.Fatal("expected a difference")
		}
		if !d.IsBreakingChange || d.Severity != SeverityError {
			t.Errorf("reduced accessibility should be breaking error, got breaking=%v severity=%s", d.IsBreakingChange, d.Severity)
		}
		if !strings.Contains(d.Description, "public") || !strings.Contains(d.Description, "internal") {
			t.Errorf("description should name both accessibilities: %q", d.Description)
		}
	})

	t.Run("widened accessibility is informational", func(t *testing.T) {
		old := publicType("Widget")
		old.Accessibility = surface.AccessInternal
		new_ := publicType("Widget")

		d, err := c.TypeChanges(old, new_, false)
		if err != nil {
			t.Fatalf("TypeChanges failed: %v", err)
		}
		if d == nil {
			t.Fatal("expected a difference")
		}
		if d.IsBreakingChange || d.Severity != SeverityInfo {
			t.Errorf("widened accessibility should be non-breaking info, got breaking=%v severity=%s", d.IsBreakingChange, d.Severity)
		}
	})

	t.Run("accessibility change short-circuits signature analysis", func(t *testing.T) {
		old := publicType("Widget")
		new_ := publicType("Widget")
		new_.Accessibility = surface.AccessInternal
		new_.IsSealed = true

		d, err := c.TypeChanges(old, new_, false)
		if err != nil {
			t.Fatalf("TypeChanges failed: %v", err)
		}
		if !strings.Contains(d.Description, "Accessibility") {
			t.Errorf("accessibility verdict should win, got %q", d.Description)
		}
	})
}

func TestTypeChangesSignature(t *testing.T) {
	c := newTestCalculator()

	t.Run("identical types produce no difference", func(t *testing.T) {
		d, err := c.TypeChanges(publicType("Widget"), publicType("Widget"), false)
		if err != nil {
			t.Fatalf("TypeChanges failed: %v", err)
		}
		if d != nil {
			t.Errorf("expected nil difference, got %+v", d)
		}
	})

	t.Run("signature change is a breaking warning", func(t *testing.T) {
		old := publicType("Widget")
		new_ := publicType("Widget")
		new_.IsSealed = true

		d, err := c.TypeChanges(old, new_, false)
		if err != nil {
			t.Fatalf("TypeChanges failed: %v", err)
		}
		if d == nil {
			t.Fatal("expected a difference")
		}
		if !d.IsBreakingChange || d.Severity != SeverityWarning {
			t.Errorf("signature change should be breaking warning, got breaking=%v severity=%s", d.IsBreakingChange, d.Severity)
		}
	})

	t.Run("mapped equivalent pair is suppressed", func(t *testing.T) {
		old := publicType("OldWidget")
		new_ := publicType("NewWidget")

		d, err := c.TypeChanges(old, new_, true)
		if err != nil {
			t.Fatalf("TypeChanges failed: %v", err)
		}
		if d != nil {
			t.Errorf("mapped-equivalent pair should produce no difference, got %+v", d)
		}
	})
}

func TestMemberChanges(t *testing.T) {
	c := newTestCalculator()

	base := surface.ApiMember{
		Name: "Run", FullName: "Contoso.Widget.Run",
		DeclaringType: "Contoso.Widget",
		Signature:     "public void Run()",
		Kind:          surface.MemberMethod,
		Accessibility: surface.AccessPublic,
	}

	t.Run("identical signatures produce nil", func(t *testing.T) {
		if d := c.MemberChanges(base, base); d != nil {
			t.Errorf("expected nil, got %+v", d)
		}
	})

	t.Run("attribute-only change on identical signature is invisible", func(t *testing.T) {
		changed := base
		changed.Attributes = []string{"System.ObsoleteAttribute"}
		if d := c.MemberChanges(base, changed); d != nil {
			t.Errorf("attribute change without signature change must not surface, got %+v", d)
		}
	})

	t.Run("reduced accessibility is breaking error", func(t *testing.T) {
		changed := base
		changed.Accessibility = surface.AccessInternal
		changed.Signature = "internal void Run()"

		d := c.MemberChanges(base, changed)
		if d == nil {
			t.Fatal("expected a difference")
		}
		if !d.IsBreakingChange || d.Severity != SeverityError {
			t.Errorf("expected breaking error, got breaking=%v severity=%s", d.IsBreakingChange, d.Severity)
		}
		if !strings.Contains(d.Description, "accessibility changed") {
			t.Errorf("description should note the accessibility change: %q", d.Description)
		}
	})

	t.Run("widened accessibility is informational", func(t *testing.T) {
		old := base
		old.Accessibility = surface.AccessProtected
		old.Signature = "protected void Run()"

		d := c.MemberChanges(old, base)
		if d == nil {
			t.Fatal("expected a difference")
		}
		if d.IsBreakingChange || d.Severity != SeverityInfo {
			t.Errorf("expected non-breaking info, got breaking=%v severity=%s", d.IsBreakingChange, d.Severity)
		}
	})

	t.Run("unattributed signature change is breaking warning", func(t *testing.T) {
		changed := base
		changed.Signature = "public void Run(int count)"

		d := c.MemberChanges(base, changed)
		if d == nil {
			t.Fatal("expected a difference")
		}
		if !d.IsBreakingChange || d.Severity != SeverityWarning {
			t.Errorf("expected breaking warning, got breaking=%v severity=%s", d.IsBreakingChange, d.Severity)
		}
		if !strings.Contains(d.Description, "signature changed") {
			t.Errorf("description should note the signature change: %q", d.Description)
		}
	})

	t.Run("multiple causes collapse into one difference", func(t *testing.T) {
		old := base
		old.Attributes = []string{"A.OldAttribute"}
		changed := base
		changed.Accessibility = surface.AccessInternal
		changed.Signature = "internal void Run()"
		changed.Attributes = []string{"A.NewAttribute"}

		d := c.MemberChanges(old, changed)
		if d == nil {
			t.Fatal("expected a difference")
		}
		if !strings.Contains(d.Description, "accessibility changed") ||
			!strings.Contains(d.Description, "attributes added") ||
			!strings.Contains(d.Description, "attributes removed") {
			t.Errorf("expected all causes in one description: %q", d.Description)
		}
	})
}

func TestMovedType(t *testing.T) {
	old := publicType("Widget")
	new_ := &surface.TypeDescriptor{
		Name: "Widget", Namespace: "Contoso.V2", Kind: surface.KindClass,
		Accessibility: surface.AccessPublic,
	}

	d := newTestCalculator().MovedType(old, new_)
	if d.ChangeType != ChangeMoved {
		t.Errorf("ChangeType = %s, want moved", d.ChangeType)
	}
	if !d.IsBreakingChange || d.Severity != SeverityWarning {
		t.Errorf("moved type should be breaking warning, got breaking=%v severity=%s", d.IsBreakingChange, d.Severity)
	}
	if !strings.Contains(d.Description, "Contoso.Widget") || !strings.Contains(d.Description, "Contoso.V2.Widget") {
		t.Errorf("description should name both locations: %q", d.Description)
	}
}

func TestComputeSummary(t *testing.T) {
	diffs := []ApiDifference{
		{ChangeType: ChangeAdded},
		{ChangeType: ChangeAdded},
		{ChangeType: ChangeRemoved, IsBreakingChange: true},
		{ChangeType: ChangeModified, IsBreakingChange: true},
		{ChangeType: ChangeMoved, IsBreakingChange: true},
		{ChangeType: ChangeExcluded},
	}

	s := ComputeSummary(diffs)
	if s.AddedCount != 2 {
		t.Errorf("AddedCount = %d, want 2", s.AddedCount)
	}
	if s.RemovedCount != 1 {
		t.Errorf("RemovedCount = %d, want 1", s.RemovedCount)
	}
	if s.ModifiedCount != 2 {
		t.Errorf("ModifiedCount = %d, want 2 (moved counts as modified)", s.ModifiedCount)
	}
	if s.BreakingChangesCount != 3 {
		t.Errorf("BreakingChangesCount = %d, want 3", s.BreakingChangesCount)
	}
	if s.TotalCount != 6 {
		t.Errorf("TotalCount = %d, want 6", s.TotalCount)
	}
	if s.SemverAdvice != "major" {
		t.Errorf("SemverAdvice = %s, want major", s.SemverAdvice)
	}
}

func TestSemverAdvice(t *testing.T) {
	tests := []struct {
		name  string
		diffs []ApiDifference
		want  string
	}{
		{"breaking implies major", []ApiDifference{{ChangeType: ChangeRemoved, IsBreakingChange: true}}, "major"},
		{"additions imply minor", []ApiDifference{{ChangeType: ChangeAdded}}, "minor"},
		{"nothing implies patch", nil, "patch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeSummary(tt.diffs).SemverAdvice; got != tt.want {
				t.Errorf("SemverAdvice = %s, want %s", got, tt.want)
			}
		})
	}
}
