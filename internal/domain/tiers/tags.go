package tiers

import (
	"sort"
	"strings"

	"github.com/okian/modtier/internal/domain/catalog"
)

// TagSet is the set of eligibility tags an item exposes.
type TagSet map[string]struct{}

// NewTagSet builds a TagSet from tags, lower-casing each one.
func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s.add(t)
	}
	return s
}

func (s TagSet) add(tag string) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return
	}
	s[tag] = struct{}{}
}

// Has reports whether tag is in the set.
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Len returns the number of tags.
func (s TagSet) Len() int { return len(s) }

// Sorted returns the tags in lexical order.
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ClassTag turns a base-type class name into its tag form:
// "One Hand Sword" -> "one_hand_sword".
func ClassTag(className string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(className)), " ", "_")
}

// ResolveTags derives an item's tag set: the declared tags, plus the base
// type's own tags and class tag when the base type is known.
func ResolveTags(base catalog.BaseType, found bool, declared []string) TagSet {
	s := NewTagSet(declared...)
	if !found {
		return s
	}
	for _, t := range base.Tags {
		s.add(t)
	}
	s.add(ClassTag(base.ClassName))
	return s
}

// BaseTypeLookup resolves a base-type path. *catalog.Catalog satisfies it.
type BaseTypeLookup interface {
	LookupBaseType(path string) (catalog.BaseType, bool)
}

// Resolver derives tag sets from base-type paths.
type Resolver struct {
	lookup BaseTypeLookup
}

// NewResolver creates a Resolver backed by lookup.
func NewResolver(lookup BaseTypeLookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve returns the tag set for an item with the given base path and
// declared tags.
func (r *Resolver) Resolve(basePath string, declared []string) TagSet {
	if r == nil || r.lookup == nil {
		return ResolveTags(catalog.BaseType{}, false, declared)
	}
	base, ok := r.lookup.LookupBaseType(basePath)
	return ResolveTags(base, ok, declared)
}
