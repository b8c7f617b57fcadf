package tiers

import (
	"sort"

	"github.com/okian/modtier/internal/domain/catalog"
)

// FamilyKey identifies a modifier family.
type FamilyKey struct {
	Group string
	Slot  catalog.AffixSlot
}

// Family is the ordered list of records sharing a FamilyKey. Order is the
// catalog's definition order and drives tier numbering.
type Family []catalog.ModifierRecord

// Table groups catalog records into families. It is immutable once built.
type Table struct {
	families map[FamilyKey]Family
}

// NewTable groups records by (group, slot), preserving their order.
func NewTable(records []catalog.ModifierRecord) *Table {
	t := &Table{families: make(map[FamilyKey]Family)}
	for _, r := range records {
		k := FamilyKey{Group: r.Group, Slot: r.Slot}
		t.families[k] = append(t.families[k], r)
	}
	return t
}

// FamilyOf returns a copy of the family for (group, slot). A missing family
// is a normal outcome.
func (t *Table) FamilyOf(group string, slot catalog.AffixSlot) (Family, bool) {
	f, ok := t.family(group, slot)
	if !ok {
		return nil, false
	}
	out := make(Family, len(f))
	copy(out, f)
	return out, true
}

// family returns the stored family without copying; callers must not
// modify it.
func (t *Table) family(group string, slot catalog.AffixSlot) (Family, bool) {
	if t == nil {
		return nil, false
	}
	f, ok := t.families[FamilyKey{Group: group, Slot: slot}]
	return f, ok
}

// Len returns the number of families.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.families)
}

// Keys returns all family keys sorted by group then slot.
func (t *Table) Keys() []FamilyKey {
	if t == nil {
		return nil
	}
	keys := make([]FamilyKey, 0, len(t.families))
	for k := range t.families {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Group != keys[j].Group {
			return keys[i].Group < keys[j].Group
		}
		return keys[i].Slot < keys[j].Slot
	})
	return keys
}
