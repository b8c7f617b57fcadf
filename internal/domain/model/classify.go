package model

import "github.com/okian/modtier/internal/domain/catalog"

// ClassifyRequest asks for the tier of one modifier on one item.
type ClassifyRequest struct {
	BasePath string
	Tags     []string
	ModKey   string
}

// FamilyView is the canonical listing of one modifier family.
type FamilyView struct {
	Group   string                   `json:"group"`
	Slot    catalog.AffixSlot        `json:"slot"`
	Keys    []string                 `json:"keys"`
	Records []catalog.ModifierRecord `json:"records"`
}
