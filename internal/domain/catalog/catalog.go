package catalog

import "fmt"

// Catalog is the read-only game data loaded once at startup.
type Catalog struct {
	records   []ModifierRecord
	byKey     map[string]int
	baseTypes map[string]BaseType
}

// New builds a Catalog. Record order is kept as given; it is the canonical
// order used for tier numbering. Empty or duplicate keys are rejected.
func New(records []ModifierRecord, baseTypes []BaseType) (*Catalog, error) {
	c := &Catalog{
		records:   make([]ModifierRecord, len(records)),
		byKey:     make(map[string]int, len(records)),
		baseTypes: make(map[string]BaseType, len(baseTypes)),
	}
	for i, r := range records {
		if r.Key == "" {
			return nil, fmt.Errorf("%w: record %d has empty key", ErrInvalidCatalog, i)
		}
		if _, dup := c.byKey[r.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate record key %q", ErrInvalidCatalog, r.Key)
		}
		r.TagChances = append([]TagChance(nil), r.TagChances...)
		c.records[i] = r
		c.byKey[r.Key] = i
	}
	for _, bt := range baseTypes {
		if bt.Path == "" {
			return nil, fmt.Errorf("%w: base type with empty path", ErrInvalidCatalog)
		}
		bt.Tags = append([]string(nil), bt.Tags...)
		c.baseTypes[bt.Path] = bt
	}
	return c, nil
}

// LookupBaseType returns the base type registered for path.
func (c *Catalog) LookupBaseType(path string) (BaseType, bool) {
	bt, ok := c.baseTypes[path]
	return bt, ok
}

// LookupModifierRecord returns the record with the given key.
func (c *Catalog) LookupModifierRecord(key string) (ModifierRecord, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return ModifierRecord{}, false
	}
	return c.records[i], true
}

// Records returns all records in canonical order.
func (c *Catalog) Records() []ModifierRecord {
	out := make([]ModifierRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the number of modifier records.
func (c *Catalog) Len() int { return len(c.records) }

// BaseTypeCount returns the number of base types.
func (c *Catalog) BaseTypeCount() int { return len(c.baseTypes) }
