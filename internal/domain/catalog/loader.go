package catalog

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type fileBaseType struct {
	Path      string   `yaml:"path"`
	ClassName string   `yaml:"class_name"`
	Tags      []string `yaml:"tags"`
}

type fileModifier struct {
	Key        string      `yaml:"key"`
	Group      string      `yaml:"group"`
	Slot       string      `yaml:"slot"`
	Domain     string      `yaml:"domain"`
	Tier       string      `yaml:"tier"`
	TagChances []TagChance `yaml:"tag_chances"`
}

type fileCatalog struct {
	BaseTypes []fileBaseType `yaml:"base_types"`
	Modifiers []fileModifier `yaml:"modifiers"`
}

// Load reads a YAML catalog file from path.
func Load(ctx context.Context, path string) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}

// Decode parses a YAML catalog document.
func Decode(r io.Reader) (*Catalog, error) {
	var doc fileCatalog
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return New(nil, nil)
		}
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}

	records := make([]ModifierRecord, 0, len(doc.Modifiers))
	for _, m := range doc.Modifiers {
		records = append(records, ModifierRecord{
			Key:        m.Key,
			Group:      m.Group,
			Slot:       ParseAffixSlot(m.Slot),
			Domain:     ParseDomain(m.Domain),
			TierLabel:  m.Tier,
			TagChances: m.TagChances,
		})
	}
	baseTypes := make([]BaseType, 0, len(doc.BaseTypes))
	for _, b := range doc.BaseTypes {
		baseTypes = append(baseTypes, BaseType(b))
	}
	return New(records, baseTypes)
}
