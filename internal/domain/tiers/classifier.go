package tiers

import "github.com/okian/modtier/internal/domain/catalog"

// UnknownTier marks a tier that could not be resolved.
const UnknownTier = -1

// Source tells where a resolved tier came from.
type Source string

// Tier sources.
const (
	SourceNone     Source = "unknown"
	SourceFamily   Source = "family"
	SourceFallback Source = "fallback"
)

// Result is the outcome of classifying one modifier.
type Result struct {
	Record     catalog.ModifierRecord `json:"record"`
	Tier       int                    `json:"tier"`
	TotalTiers int                    `json:"total_tiers"`
	// ValidTierKeys lists every accepted family member in walk order.
	ValidTierKeys []string `json:"valid_tier_keys"`
	Source        Source   `json:"source"`
}

// Known reports whether a tier was resolved.
func (r Result) Known() bool { return r.Tier != UnknownTier }

// IsBest reports a tier 1 roll.
func (r Result) IsBest() bool { return r.Tier == 1 }

// IsSecondBest reports a tier 2 roll.
func (r Result) IsSecondBest() bool { return r.Tier == 2 }

// OutOfRange reports a fallback tier larger than the family walk counted.
// Such tiers are passed through untouched.
func (r Result) OutOfRange() bool {
	return r.Source == SourceFallback && r.Tier > r.TotalTiers
}

// ValidTierSet returns ValidTierKeys as a set.
func (r Result) ValidTierSet() map[string]struct{} {
	s := make(map[string]struct{}, len(r.ValidTierKeys))
	for _, k := range r.ValidTierKeys {
		s[k] = struct{}{}
	}
	return s
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithEligibilityMode sets how spawn weights gate candidates.
func WithEligibilityMode(mode EligibilityMode) Option {
	return func(c *Classifier) {
		c.mode = mode
	}
}

// Classifier resolves modifier tiers against a Table.
type Classifier struct {
	table *Table
	mode  EligibilityMode
}

// NewClassifier creates a Classifier reading families from table.
func NewClassifier(table *Table, opts ...Option) *Classifier {
	c := &Classifier{table: table, mode: ModeAnyPositive}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the configured eligibility mode.
func (c *Classifier) Mode() EligibilityMode { return c.mode }

// Classify ranks target within its family for an item carrying tags.
// It never fails: unresolved tiers are UnknownTier and an unknown family
// yields TotalTiers 0.
func (c *Classifier) Classify(tags TagSet, target catalog.ModifierRecord) Result {
	res := Result{
		Record:        target,
		Tier:          UnknownTier,
		ValidTierKeys: []string{},
		Source:        SourceNone,
	}

	if family, ok := c.table.family(target.Group, target.Slot); ok {
		c.walk(family, tags, target, &res)
	}

	if res.Tier == UnknownTier && target.TierLabel != "" {
		if tier, ok := ParseTierLabel(target.TierLabel); ok {
			res.Tier = tier
			res.Source = SourceFallback
		}
	}
	return res
}

func (c *Classifier) walk(family Family, tags TagSet, target catalog.ModifierRecord, res *Result) {
	var dup collapser
	seen := make(map[string]struct{}, len(family))
	for _, candidate := range family {
		if !eligible(c.mode, candidate, target, tags) {
			continue
		}
		if dup.isDuplicate(candidate.Key) {
			continue
		}
		if _, ok := seen[candidate.Key]; ok {
			continue
		}
		seen[candidate.Key] = struct{}{}

		res.TotalTiers++
		res.ValidTierKeys = append(res.ValidTierKeys, candidate.Key)
		if candidate.Key == target.Key {
			res.Tier = res.TotalTiers
			res.Source = SourceFamily
		}
		dup.accept(candidate.Key)
	}
}
