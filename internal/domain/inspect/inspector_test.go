package inspect_test

import (
	"context"
	"strings"
	"testing"

	"github.com/okian/modtier/internal/domain/catalog"
	"github.com/okian/modtier/internal/domain/inspect"
	"github.com/okian/modtier/internal/domain/tiers"
	"github.com/okian/modtier/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const swordPath = "Metadata/Items/Weapons/OneHandSword1"

func testCatalog() *catalog.Catalog {
	sword := func(c int) []catalog.TagChance { return []catalog.TagChance{{Tag: "one_hand_sword", Chance: c}} }
	recs := []catalog.ModifierRecord{
		{Key: "LocalIncreasedAttackSpeed1", Group: "AttackSpeed", Slot: catalog.SlotSuffix, Domain: catalog.DomainItem, TagChances: sword(10)},
		{Key: "LocalIncreasedAttackSpeed2", Group: "AttackSpeed", Slot: catalog.SlotSuffix, Domain: catalog.DomainItem, TagChances: sword(10)},
		{Key: "ChaosResist1", Group: "ChaosResistance", Slot: catalog.SlotSuffix, Domain: catalog.DomainItem, TagChances: sword(10)},
		{Key: "ChaosResist2", Group: "ChaosResistance", Slot: catalog.SlotSuffix, Domain: catalog.DomainItem, TagChances: sword(10)},
		{Key: "Life1", Group: "Life", Slot: catalog.SlotPrefix, Domain: catalog.DomainItem, TagChances: []catalog.TagChance{{Tag: "ring", Chance: 10}}},
		{Key: "Life2", Group: "Life", Slot: catalog.SlotPrefix, Domain: catalog.DomainItem, TierLabel: "9", TagChances: []catalog.TagChance{{Tag: "ring", Chance: 10}}},
	}
	c, err := catalog.New(recs, []catalog.BaseType{{Path: swordPath, ClassName: "One Hand Sword"}})
	if err != nil {
		panic(err)
	}
	return c
}

func newInspector(c *catalog.Catalog, opts ...inspect.Option) *inspect.Inspector {
	return inspect.New(c, tiers.NewClassifier(tiers.NewTable(c.Records())), opts...)
}

func TestInspector_Inspect(t *testing.T) {
	Convey("Given an inspector over a small catalog", t, func() {
		c := testCatalog()
		in := newInspector(c, inspect.WithLogger(logger.Get()))
		ctx := context.Background()

		Convey("When inspecting a sword with two best rolls and a chaos resist", func() {
			rep, err := in.Inspect(ctx, inspect.Item{
				ID:       "item-1",
				BasePath: swordPath,
				Mods: []inspect.ModInstance{
					{Key: "LocalIncreasedAttackSpeed1"},
					{Key: "ChaosResist1"},
					{Key: "Life2"},
					{Key: "Missing"},
				},
			})

			Convey("Then every mod is classified", func() {
				So(err, ShouldBeNil)
				So(rep.ItemID, ShouldEqual, "item-1")
				So(rep.Tags, ShouldResemble, []string{"one_hand_sword"})
				So(len(rep.Mods), ShouldEqual, 3)
				So(rep.Mods[0].Tier, ShouldEqual, 1)
				So(rep.Mods[1].Tier, ShouldEqual, 1)
			})

			Convey("Then the ring-only mod falls back to its label", func() {
				So(rep.Mods[2].Tier, ShouldEqual, 9)
				So(rep.Mods[2].Source, ShouldEqual, tiers.SourceFallback)
			})

			Convey("Then the summary counts badges", func() {
				So(rep.Summary.BestRolls, ShouldEqual, 2)
				So(rep.Summary.SecondBestRolls, ShouldEqual, 0)
				So(rep.Summary.UnknownRolls, ShouldEqual, 1)
				So(rep.Summary.Markers, ShouldResemble, []string{"ChaosResist1"})
				So(rep.Summary.Highlight, ShouldBeTrue)
				So(rep.Unknown, ShouldResemble, []string{"Missing"})
			})

			Convey("Then debug lines and valid keys are exported", func() {
				So(rep.Lines(), ShouldResemble, []string{
					"LocalIncreasedAttackSpeed1 - 1 / 2",
					"ChaosResist1 - 1 / 2",
					"Life2 - 9 / 0",
				})
				So(rep.ValidTierKeys(), ShouldResemble, []string{
					"ChaosResist1", "ChaosResist2",
					"LocalIncreasedAttackSpeed1", "LocalIncreasedAttackSpeed2",
				})
			})
		})

		Convey("When the base type is unknown", func() {
			rep, err := in.Inspect(ctx, inspect.Item{
				BasePath: "Metadata/Unknown",
				Tags:     []string{"Ring"},
				Mods:     []inspect.ModInstance{{Key: "Life2"}},
			})

			Convey("Then declared tags alone drive eligibility", func() {
				So(err, ShouldBeNil)
				So(rep.Tags, ShouldResemble, []string{"ring"})
				So(rep.Mods[0].Tier, ShouldEqual, 2)
				So(rep.Summary.SecondBestRolls, ShouldEqual, 1)
				So(rep.Summary.Highlight, ShouldBeFalse)
			})
		})

		Convey("When custom markers are configured", func() {
			in := newInspector(c, inspect.WithMarkers([]string{"AttackSpeed"}))
			rep, _ := in.Inspect(ctx, inspect.Item{
				BasePath: swordPath,
				Mods:     []inspect.ModInstance{{Key: "LocalIncreasedAttackSpeed2"}, {Key: "ChaosResist2"}},
			})

			Convey("Then only matching keys are marked", func() {
				So(rep.Summary.Markers, ShouldResemble, []string{"LocalIncreasedAttackSpeed2"})
				So(rep.Summary.SecondBestRolls, ShouldEqual, 2)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := in.Inspect(cctx, inspect.Item{})

			Convey("Then the inspection is refused", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

const taggedCatalog = `
base_types:
  - path: Metadata/Items/Weapons/OneHandWeapons/OneHandSwords/OneHandSword1
    class_name: One Hand Sword
    tags: [sword, weapon, one_hand_weapon]
modifiers:
  - key: LocalIncreasedAttackSpeed1
    group: IncreasedAttackSpeed
    slot: suffix
    domain: item
    tier: "1"
    tag_chances:
      - {tag: sword, chance: 1000}
      - {tag: default, chance: 0}
  - key: LocalIncreasedAttackSpeed2
    group: IncreasedAttackSpeed
    slot: suffix
    domain: item
    tier: "2"
    tag_chances:
      - {tag: sword, chance: 1000}
      - {tag: default, chance: 0}
`

func TestInspector_BaseTypeTags(t *testing.T) {
	Convey("Given a catalog whose weights are keyed on base type tags", t, func() {
		c, err := catalog.Decode(strings.NewReader(taggedCatalog))
		So(err, ShouldBeNil)
		in := newInspector(c)

		Convey("When inspecting an item that only names its base path", func() {
			rep, err := in.Inspect(context.Background(), inspect.Item{
				BasePath: "Metadata/Items/Weapons/OneHandWeapons/OneHandSwords/OneHandSword1",
				Mods:     []inspect.ModInstance{{Key: "LocalIncreasedAttackSpeed2"}},
			})

			Convey("Then the base type tags drive eligibility", func() {
				So(err, ShouldBeNil)
				So(rep.Tags, ShouldResemble, []string{"one_hand_sword", "one_hand_weapon", "sword", "weapon"})
				So(rep.Mods[0].Tier, ShouldEqual, 2)
				So(rep.Mods[0].TotalTiers, ShouldEqual, 2)
				So(rep.Mods[0].Source, ShouldEqual, tiers.SourceFamily)
			})
		})
	})
}

func TestSnapshot(t *testing.T) {
	Convey("Given a snapshot of an item", t, func() {
		s := inspect.NewSnapshot(testCatalog(), inspect.Item{
			BasePath: swordPath,
			Mods:     []inspect.ModInstance{{Key: "Life1"}, {Key: "Nope"}},
		})

		Convey("Then accessors report presence", func() {
			bt, ok := s.BaseType()
			So(ok, ShouldBeTrue)
			So(bt.ClassName, ShouldEqual, "One Hand Sword")
			So(s.ModCount(), ShouldEqual, 2)

			r, ok := s.Record(0)
			So(ok, ShouldBeTrue)
			So(r.Key, ShouldEqual, "Life1")

			_, ok = s.Record(1)
			So(ok, ShouldBeFalse)
			_, ok = s.Record(5)
			So(ok, ShouldBeFalse)
			So(s.Item().BasePath, ShouldEqual, swordPath)
		})
	})
}
