// Package inspect classifies every modifier on an item and summarizes the
// results into the badge counters an overlay draws.
package inspect

import "github.com/okian/modtier/internal/domain/catalog"

// ModInstance is one modifier present on an item, as read from the game.
type ModInstance struct {
	Key string `json:"key"`
}

// Item is the accessor view of an inspected item.
type Item struct {
	ID       string        `json:"id"`
	BasePath string        `json:"base_path"`
	Tags     []string      `json:"tags"`
	Mods     []ModInstance `json:"mods"`
}

// Catalog is the game data the inspector reads. *catalog.Catalog satisfies it.
type Catalog interface {
	LookupBaseType(path string) (catalog.BaseType, bool)
	LookupModifierRecord(key string) (catalog.ModifierRecord, bool)
}

// Snapshot resolves an item against the catalog once. Each accessor
// reports whether the capability is present instead of being looked up again.
type Snapshot struct {
	item     Item
	base     catalog.BaseType
	hasBase  bool
	records  []catalog.ModifierRecord
	resolved []bool
}

// NewSnapshot resolves item's base type and modifier records.
func NewSnapshot(c Catalog, item Item) *Snapshot {
	s := &Snapshot{
		item:     item,
		records:  make([]catalog.ModifierRecord, len(item.Mods)),
		resolved: make([]bool, len(item.Mods)),
	}
	s.base, s.hasBase = c.LookupBaseType(item.BasePath)
	for i, m := range item.Mods {
		s.records[i], s.resolved[i] = c.LookupModifierRecord(m.Key)
	}
	return s
}

// Item returns the underlying item.
func (s *Snapshot) Item() Item { return s.item }

// BaseType returns the item's base type if the catalog knows it.
func (s *Snapshot) BaseType() (catalog.BaseType, bool) { return s.base, s.hasBase }

// ModCount returns the number of modifier instances.
func (s *Snapshot) ModCount() int { return len(s.records) }

// Record returns the catalog record of the i-th modifier if it resolved.
func (s *Snapshot) Record(i int) (catalog.ModifierRecord, bool) {
	if i < 0 || i >= len(s.records) {
		return catalog.ModifierRecord{}, false
	}
	return s.records[i], s.resolved[i]
}
