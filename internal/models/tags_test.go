package models

import (
	"reflect"
	"testing"
)

func TestTagSet(t *testing.T) {
	var s TagSet
	if !s.Add(" review ") {
		t.Fatal("expected Add to insert new tag")
	}
	if s.Add("review") {
		t.Error("expected duplicate Add to be a no-op")
	}
	if s.Add("   ") {
		t.Error("expected blank tag to be ignored")
	}
	s.Add("done")

	if got, want := s.Values(), []string{"done", "review"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}

	s.Remove("review")
	if s.Contains("review") {
		t.Error("expected review to be removed")
	}

	cleared := s.Clear()
	if cleared.Len() != 0 {
		t.Errorf("Clear() len = %d, want 0", cleared.Len())
	}
	if s.Len() != 1 {
		t.Errorf("Clear() should not mutate receiver, len = %d", s.Len())
	}
}

func TestMergeKnownTags(t *testing.T) {
	known := []string{"b", "a"}
	got := MergeKnownTags(known, "c", "a", "")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeKnownTags() = %v, want %v", got, want)
	}
}
