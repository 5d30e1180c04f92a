package graph

import (
	"reflect"
	"testing"
)

func TestNeighborSetAdd(t *testing.T) {
	set := NewNeighborSet()
	set.Add("Aspirin")
	set.Add("  Aspirin ")
	set.Add("Warfarin")
	set.Add("")
	set.Add("   ")

	if set.Len() != 2 {
		t.Errorf("expected 2 members, got %d", set.Len())
	}
	if !set.Contains("Aspirin") {
		t.Error("expected set to contain 'Aspirin'")
	}
	if !set.Contains("  Warfarin  ") {
		t.Error("expected Contains to normalize before lookup")
	}
}

func TestNeighborSetCaseSensitive(t *testing.T) {
	set := NewNeighborSet("Aspirin")
	if set.Contains("aspirin") {
		t.Error("membership must use exact-case equality")
	}
}

func TestNeighborSetValuesSorted(t *testing.T) {
	set := NewNeighborSet("c", "a", "b")
	want := []string{"a", "b", "c"}
	if got := set.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
}

func TestNeighborSetUnion(t *testing.T) {
	set := NewNeighborSet("x", "y")
	other := NewNeighborSet("y", "z")
	set.Union(other)

	want := []string{"x", "y", "z"}
	if got := set.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("union = %v, want %v", got, want)
	}
}

func TestNeighborSetIntersect(t *testing.T) {
	a := NewNeighborSet("x", "y", "z")
	b := NewNeighborSet("y", "z", "w")

	common := a.Intersect(b)
	want := []string{"y", "z"}
	if got := common.Values(); !reflect.DeepEqual(got, want) {
		t.Errorf("intersect = %v, want %v", got, want)
	}

	// 原集合不受影响
	if a.Len() != 3 || b.Len() != 3 {
		t.Error("Intersect must not mutate its operands")
	}
}

func TestNeighborSetIntersectDisjoint(t *testing.T) {
	a := NewNeighborSet("x")
	b := NewNeighborSet("y")
	if common := a.Intersect(b); !common.IsEmpty() {
		t.Errorf("expected empty intersection, got %v", common.Values())
	}
}

func TestNeighborSetNilSafe(t *testing.T) {
	var set *NeighborSet

	if set.Contains("x") {
		t.Error("nil set must not contain anything")
	}
	if set.Len() != 0 {
		t.Errorf("nil set Len() = %d, want 0", set.Len())
	}
	if !set.IsEmpty() {
		t.Error("nil set must be empty")
	}
	if values := set.Values(); len(values) != 0 {
		t.Errorf("nil set Values() = %v, want empty", values)
	}
	if common := set.Intersect(NewNeighborSet("x")); !common.IsEmpty() {
		t.Error("intersection with nil set must be empty")
	}
}

func TestNeighborSetClone(t *testing.T) {
	set := NewNeighborSet("x", "y")
	clone := set.Clone()
	clone.Add("z")

	if set.Contains("z") {
		t.Error("mutating a clone must not affect the original")
	}
	if clone.Len() != 3 {
		t.Errorf("expected clone to have 3 members, got %d", clone.Len())
	}
}
