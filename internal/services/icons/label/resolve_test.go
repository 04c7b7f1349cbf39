package label

import (
	"slices"
	"testing"

	apperrors "github.com/louisbranch/icondex/internal/platform/errors"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		text       string
		isRef      bool
		target     string
		alias      int
		useDefault bool
	}{
		{"Car", false, "", 0, false},
		{"@label/car", true, "car", wholeLabel, false},
		{"@icd:label/car", true, "car", wholeLabel, true},
		{"@label/bike$1", true, "bike", 1, false},
		{"@icd:label/bike$0", true, "bike", 0, true},
	}
	for _, tc := range tests {
		ref, isRef, err := parseReference(tc.text)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.text, err)
		}
		if isRef != tc.isRef {
			t.Fatalf("parse %q: isRef = %v", tc.text, isRef)
		}
		if !isRef {
			continue
		}
		if ref.target != tc.target || ref.alias != tc.alias || ref.useDefault != tc.useDefault {
			t.Fatalf("parse %q: got %+v", tc.text, ref)
		}
	}

	for _, bad := range []string{"@label/bike$x", "@label/", "@label/a$-1"} {
		if _, _, err := parseReference(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestForwardReferences(t *testing.T) {
	c := New()
	load(t, c, `<list>
  <label name="auto">@label/car</label>
  <label name="vehicles">
    <alias>@label/car</alias>
    <alias>@label/bike</alias>
    <alias>Truck</alias>
  </label>
  <label name="cycle">@label/bike$1</label>
  <label name="car">Car</label>
  <label name="bike"><alias>Bike</alias><alias>Bicycle</alias></label>
</list>`, false)

	if got := mustFind(t, c, "auto").Text(); got != "Car" {
		t.Fatalf("expected auto to resolve to Car, got %q", got)
	}
	if got := mustFind(t, c, "cycle").Text(); got != "Bicycle" {
		t.Fatalf("expected alias reference, got %q", got)
	}

	// Literal aliases are appended during the scan, references after it.
	vehicles := mustFind(t, c, "vehicles")
	want := []string{"Truck", "Car", "Bike", "Bicycle"}
	if got := textsOf(vehicles.Aliases()); !slices.Equal(got, want) {
		t.Fatalf("expected aliases %v, got %v", want, got)
	}
	assertSorted(t, c)
}

func TestWholeAliasReferenceCopiesList(t *testing.T) {
	c := New()
	load(t, c, `<list>
  <label name="bike"><alias>Bike</alias><alias>Bicycle</alias></label>
  <label name="cycle">@label/bike</label>
</list>`, false)

	cycle := mustFind(t, c, "cycle")
	if !cycle.HasAliases() || len(cycle.Aliases()) != 2 {
		t.Fatalf("expected aliased copy, got %+v", cycle)
	}

	load(t, c, `<list><label name="bike"><alias>Vélo</alias></label></list>`, true)
	if got := len(mustFind(t, c, "cycle").Aliases()); got != 2 {
		t.Fatalf("expected copied aliases to stay independent, got %d", got)
	}
}

func TestChainedReferencesResolveInOrder(t *testing.T) {
	c := New()
	load(t, c, `<list>
  <label name="b">@label/a</label>
  <label name="c">@label/b</label>
  <label name="a">A</label>
</list>`, false)

	if got := mustFind(t, c, "c").Text(); got != "A" {
		t.Fatalf("expected chained reference to resolve to A, got %q", got)
	}
}

func TestChainedReferenceOutOfOrderFails(t *testing.T) {
	c := New()
	err := c.Load(xmlSource(`<list>
  <label name="c">@label/b</label>
  <label name="b">@label/a</label>
  <label name="a">A</label>
</list>`), false)
	if apperrors.GetCode(err) != apperrors.CodeUnresolvedReference {
		t.Fatalf("expected unresolved reference, got %v", err)
	}
}

func TestDefaultAndCurrentReferences(t *testing.T) {
	c := New()
	load(t, c, `<list><label name="a">X</label></list>`, false)
	load(t, c, `<list>
  <label name="a">Y</label>
  <label name="pinned">@icd:label/a</label>
  <label name="live">@label/a</label>
</list>`, true)

	if got := mustFind(t, c, "pinned").Text(); got != "X" {
		t.Fatalf("expected default reference X, got %q", got)
	}
	if got := mustFind(t, c, "live").Text(); got != "Y" {
		t.Fatalf("expected current reference Y, got %q", got)
	}
}

func TestDefaultReferenceWithoutOverwriteUsesCurrent(t *testing.T) {
	c := New()
	load(t, c, `<list><label name="a">X</label><label name="b">@icd:label/a</label></list>`, false)
	if got := mustFind(t, c, "b").Text(); got != "X" {
		t.Fatalf("expected current value, got %q", got)
	}
}

func TestReferenceOverwritesExistingLabel(t *testing.T) {
	c := New()
	load(t, c, `<list><label name="car">Car</label><label name="auto">Auto</label></list>`, false)
	auto, _ := c.Lookup("auto")

	load(t, c, `<list><label name="auto">@label/car</label></list>`, true)

	l, _ := c.Get(auto)
	if l.Text() != "Car" {
		t.Fatalf("expected reference to overwrite auto in place, got %q", l.Text())
	}
	if l.Default == nil || l.Default.Text() != "Auto" {
		t.Fatalf("expected default Auto, got %+v", l.Default)
	}
}

func TestUnresolvedReference(t *testing.T) {
	c := New()
	err := c.Load(xmlSource(`<list><label name="a">@label/nowhere</label></list>`), false)
	if !apperrors.IsCode(err, apperrors.CodeUnresolvedReference) {
		t.Fatalf("expected unresolved reference, got %v", err)
	}
}

func TestAliasIndexOutOfRange(t *testing.T) {
	c := New()
	err := c.Load(xmlSource(`<list>
  <label name="bike"><alias>Bike</alias></label>
  <label name="x">@label/bike$3</label>
</list>`), false)
	if !apperrors.IsCode(err, apperrors.CodeUnresolvedReference) {
		t.Fatalf("expected unresolved reference, got %v", err)
	}
}
