package models

import (
	"sort"
	"strings"
)

// TagSet holds the tags attached to an entry while it is being composed.
// The zero value is an empty set.
type TagSet struct {
	tags map[string]struct{}
}

func NewTagSet(tags ...string) TagSet {
	var s TagSet
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

// Add inserts tag after trimming surrounding space. Blank tags are ignored.
func (s *TagSet) Add(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	if s.tags == nil {
		s.tags = make(map[string]struct{})
	}
	if _, ok := s.tags[tag]; ok {
		return false
	}
	s.tags[tag] = struct{}{}
	return true
}

func (s *TagSet) Remove(tag string) {
	delete(s.tags, strings.TrimSpace(tag))
}

func (s TagSet) Contains(tag string) bool {
	_, ok := s.tags[tag]
	return ok
}

func (s TagSet) Len() int {
	return len(s.tags)
}

// Values returns the tags sorted.
func (s TagSet) Values() []string {
	out := make([]string, 0, len(s.tags))
	for t := range s.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Clear returns an empty set; the receiver is left untouched.
func (s TagSet) Clear() TagSet {
	return TagSet{}
}

// MergeKnownTags adds tags to the known set. The known set only grows.
func MergeKnownTags(known []string, tags ...string) []string {
	set := NewTagSet(known...)
	for _, t := range tags {
		set.Add(t)
	}
	return set.Values()
}
