package inspect

import (
	"fmt"
	"sort"

	"github.com/okian/modtier/internal/domain/tiers"
)

// Summary holds the per-item badge counters.
type Summary struct {
	BestRolls       int      `json:"best_rolls"`
	SecondBestRolls int      `json:"second_best_rolls"`
	UnknownRolls    int      `json:"unknown_rolls"`
	Markers         []string `json:"markers"`
	Highlight       bool     `json:"highlight"`
}

// Report is the classification of every modifier on one item.
type Report struct {
	ItemID  string         `json:"item_id"`
	Tags    []string       `json:"tags"`
	Mods    []tiers.Result `json:"mods"`
	Unknown []string       `json:"unknown"`
	Summary Summary        `json:"summary"`
}

// Lines renders one "<key> - <tier> / <total>" line per classified mod.
func (r Report) Lines() []string {
	out := make([]string, 0, len(r.Mods))
	for _, m := range r.Mods {
		out = append(out, fmt.Sprintf("%s - %d / %d", m.Record.Key, m.Tier, m.TotalTiers))
	}
	return out
}

// ValidTierKeys returns the sorted union of every mod's valid tier keys.
func (r Report) ValidTierKeys() []string {
	seen := make(map[string]struct{})
	for _, m := range r.Mods {
		for _, k := range m.ValidTierKeys {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
