package tiers

import "strings"

// minPrefixLen is the accepted-key length a prefix must exceed before
// a following key starting with it counts as a reskinned duplicate.
// Changing it changes tier counts for existing catalogs.
const minPrefixLen = 5

// collapser drops catalog entries that re-register an already accepted
// tier under a longer key, e.g. LocalIncreasedAttackSpeed2 followed by
// LocalIncreasedAttackSpeed2Royale____. This is a naming heuristic only.
type collapser struct {
	last string
}

func (c *collapser) isDuplicate(key string) bool {
	return len(c.last) > minPrefixLen && strings.HasPrefix(key, c.last)
}

func (c *collapser) accept(key string) { c.last = key }
