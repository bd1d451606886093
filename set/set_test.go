package set

import (
	"slices"
	"testing"
)

func TestFromSlice(t *testing.T) {
	s := FromSlice([]string{"a", "b", "a", "c", "b"})
	if s.Size() != 3 {
		t.Errorf("Size() = %d, want 3", s.Size())
	}
	for _, item := range []string{"a", "b", "c"} {
		if !s.Contains(item) {
			t.Errorf("Contains(%q) = false, want true", item)
		}
	}
}

func TestAddRemove(t *testing.T) {
	s := New[int]()
	s.Add(1)
	s.Add(1)
	if s.Size() != 1 {
		t.Errorf("Size() after duplicate Add = %d, want 1", s.Size())
	}
	s.Remove(1)
	if s.Contains(1) {
		t.Error("Contains(1) = true after Remove")
	}
	// Removing a missing item is a no-op
	s.Remove(2)
	if s.Size() != 0 {
		t.Errorf("Size() = %d, want 0", s.Size())
	}
}

func TestUnion(t *testing.T) {
	a := FromSlice([]string{"x", "y"})
	b := FromSlice([]string{"y", "z"})
	got := a.Union(b).ToSlice()
	slices.Sort(got)
	want := []string{"x", "y", "z"}
	if !slices.Equal(got, want) {
		t.Errorf("Union() = %v, want %v", got, want)
	}
}
