package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/modtier/internal/domain/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleCatalog = `
base_types:
  - path: Metadata/Items/Weapons/OneHandWeapons/OneHandSwords/OneHandSword1
    class_name: One Hand Sword
    tags: [sword, weapon]
modifiers:
  - key: LocalIncreasedAttackSpeed1
    group: IncreasedAttackSpeed
    slot: Suffix
    domain: item
    tier: "2"
    tag_chances:
      - {tag: sword, chance: 1000}
      - {tag: default, chance: 0}
  - key: LocalIncreasedAttackSpeed2
    group: IncreasedAttackSpeed
    slot: suffix
    domain: item
    tag_chances:
      - {tag: sword, chance: 500}
  - key: MapMonsterSpeed1
    group: MonsterSpeed
    slot: weird
    domain: ""
`

func TestDecode(t *testing.T) {
	Convey("Given a YAML catalog document", t, func() {
		c, err := catalog.Decode(strings.NewReader(sampleCatalog))
		So(err, ShouldBeNil)

		Convey("Then records keep their canonical order", func() {
			recs := c.Records()
			So(len(recs), ShouldEqual, 3)
			So(recs[0].Key, ShouldEqual, "LocalIncreasedAttackSpeed1")
			So(recs[1].Key, ShouldEqual, "LocalIncreasedAttackSpeed2")
			So(c.Len(), ShouldEqual, 3)
		})

		Convey("Then slots and domains are normalized", func() {
			r, ok := c.LookupModifierRecord("LocalIncreasedAttackSpeed1")
			So(ok, ShouldBeTrue)
			So(r.Slot, ShouldEqual, catalog.SlotSuffix)
			So(r.Domain, ShouldEqual, catalog.DomainItem)
			So(r.TierLabel, ShouldEqual, "2")

			m, ok := c.LookupModifierRecord("MapMonsterSpeed1")
			So(ok, ShouldBeTrue)
			So(m.Slot, ShouldEqual, catalog.SlotOther)
			So(m.Domain, ShouldEqual, catalog.DomainOther)
		})

		Convey("Then tag chances are readable in catalog order", func() {
			r, _ := c.LookupModifierRecord("LocalIncreasedAttackSpeed1")
			So(r.TagChances, ShouldResemble, []catalog.TagChance{{Tag: "sword", Chance: 1000}, {Tag: "default", Chance: 0}})
		})

		Convey("Then base types can be looked up by path", func() {
			bt, ok := c.LookupBaseType("Metadata/Items/Weapons/OneHandWeapons/OneHandSwords/OneHandSword1")
			So(ok, ShouldBeTrue)
			So(bt.ClassName, ShouldEqual, "One Hand Sword")
			So(c.BaseTypeCount(), ShouldEqual, 1)

			_, ok = c.LookupBaseType("Metadata/Nope")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given an empty document", t, func() {
		c, err := catalog.Decode(strings.NewReader(""))

		Convey("Then an empty catalog is returned", func() {
			So(err, ShouldBeNil)
			So(c.Len(), ShouldEqual, 0)
		})
	})

	Convey("Given malformed YAML", t, func() {
		_, err := catalog.Decode(strings.NewReader("modifiers: [\n"))

		Convey("Then a load error is returned", func() {
			So(errors.Is(err, catalog.ErrLoadCatalog), ShouldBeTrue)
		})
	})
}

func TestNew(t *testing.T) {
	Convey("Given records with a duplicate key", t, func() {
		_, err := catalog.New([]catalog.ModifierRecord{{Key: "A"}, {Key: "A"}}, nil)

		Convey("Then the catalog is rejected", func() {
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})
	})

	Convey("Given a record with an empty key", t, func() {
		_, err := catalog.New([]catalog.ModifierRecord{{Group: "G"}}, nil)

		Convey("Then the catalog is rejected", func() {
			So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
		})
	})

	Convey("Given records passed to New", t, func() {
		in := []catalog.ModifierRecord{{Key: "A", TagChances: []catalog.TagChance{{Tag: "sword", Chance: 1}}}}
		c, err := catalog.New(in, nil)
		So(err, ShouldBeNil)

		Convey("When the caller mutates its slice afterwards", func() {
			in[0].TagChances[0].Chance = 0
			in[0].Key = "B"

			Convey("Then the catalog is unaffected", func() {
				r, ok := c.LookupModifierRecord("A")
				So(ok, ShouldBeTrue)
				So(r.TagChances[0].Chance, ShouldEqual, 1)
			})
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a catalog file on disk", t, func() {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		So(os.WriteFile(path, []byte(sampleCatalog), 0o600), ShouldBeNil)

		Convey("Then Load parses it", func() {
			c, err := catalog.Load(context.Background(), path)
			So(err, ShouldBeNil)
			So(c.Len(), ShouldEqual, 3)
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := catalog.Load(context.Background(), "/non/existent/catalog.yaml")

		Convey("Then a load error is returned", func() {
			So(errors.Is(err, catalog.ErrLoadCatalog), ShouldBeTrue)
		})
	})
}

func TestParseAffixSlot(t *testing.T) {
	Convey("Given affix slot text", t, func() {
		So(catalog.ParseAffixSlot("PREFIX"), ShouldEqual, catalog.SlotPrefix)
		So(catalog.ParseAffixSlot(" suffix "), ShouldEqual, catalog.SlotSuffix)
		So(catalog.ParseAffixSlot(""), ShouldEqual, catalog.SlotOther)
		So(catalog.ParseAffixSlot("corrupted"), ShouldEqual, catalog.SlotOther)
	})
}
