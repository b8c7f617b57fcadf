package tiers

import "github.com/okian/modtier/internal/domain/catalog"

// EligibilityMode selects how a candidate's spawn weights are read.
type EligibilityMode int

const (
	// ModeAnyPositive accepts a candidate when any item tag has a positive weight.
	ModeAnyPositive EligibilityMode = iota
	// ModeFirstMatch lets the first weight entry whose tag the item carries
	// decide, so an explicit zero ahead of a positive "default" wins.
	ModeFirstMatch
)

// String implements fmt.Stringer.
func (m EligibilityMode) String() string {
	switch m {
	case ModeFirstMatch:
		return "first_match"
	default:
		return "any_positive"
	}
}

// ParseEligibilityMode parses "any_positive" or "first_match".
func ParseEligibilityMode(s string) (EligibilityMode, bool) {
	switch s {
	case "", "any_positive":
		return ModeAnyPositive, true
	case "first_match":
		return ModeFirstMatch, true
	default:
		return ModeAnyPositive, false
	}
}

// Eligible reports whether candidate could roll on an item with tags,
// given the domain of the target record being classified.
func Eligible(candidate, target catalog.ModifierRecord, tags TagSet) bool {
	return eligible(ModeAnyPositive, candidate, target, tags)
}

func eligible(mode EligibilityMode, candidate, target catalog.ModifierRecord, tags TagSet) bool {
	if candidate.Domain != target.Domain {
		return false
	}
	for _, tc := range candidate.TagChances {
		if !tags.Has(tc.Tag) {
			continue
		}
		if mode == ModeFirstMatch {
			return tc.Chance > 0
		}
		if tc.Chance > 0 {
			return true
		}
	}
	return false
}
