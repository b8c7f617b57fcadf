// Package catalog holds the static game data the tier engine reads:
// modifier records in canonical definition order and base item types.
package catalog

import "strings"

// AffixSlot is the affix position a modifier occupies on an item.
type AffixSlot string

// Known affix slots.
const (
	SlotPrefix AffixSlot = "prefix"
	SlotSuffix AffixSlot = "suffix"
	SlotOther  AffixSlot = "other"
)

// ParseAffixSlot maps catalog text to an AffixSlot. Unknown text is "other".
func ParseAffixSlot(s string) AffixSlot {
	switch AffixSlot(strings.ToLower(strings.TrimSpace(s))) {
	case SlotPrefix:
		return SlotPrefix
	case SlotSuffix:
		return SlotSuffix
	default:
		return SlotOther
	}
}

// Domain is the broad category a modifier applies to (item, area, ...).
// Domains are only ever compared for equality.
type Domain string

// Common domains found in modifier catalogs.
const (
	DomainItem    Domain = "item"
	DomainArea    Domain = "area"
	DomainFlask   Domain = "flask"
	DomainJewel   Domain = "jewel"
	DomainCrafted Domain = "crafted"
	DomainAtlas   Domain = "atlas"
	DomainOther   Domain = "other"
)

// ParseDomain normalizes catalog text into a Domain. Empty text is "other".
func ParseDomain(s string) Domain {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DomainOther
	}
	return Domain(s)
}

// TagChance is one spawn weight entry: the weight a modifier has to roll
// on items carrying Tag. A weight <= 0 means it cannot roll via that tag.
type TagChance struct {
	Tag    string `json:"tag" yaml:"tag"`
	Chance int    `json:"chance" yaml:"chance"`
}

// ModifierRecord is a single catalog modifier definition.
type ModifierRecord struct {
	Key        string      `json:"key"`
	Group      string      `json:"group"`
	Slot       AffixSlot   `json:"slot"`
	Domain     Domain      `json:"domain"`
	TierLabel  string      `json:"tier_label"`
	TagChances []TagChance `json:"tag_chances,omitempty"`
}

// BaseType is a base item classification.
type BaseType struct {
	Path      string
	ClassName string
	Tags      []string
}
