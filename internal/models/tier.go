package models

import "strings"

type Tier string

const (
	TierT1 Tier = "T1"
	TierT2 Tier = "T2"
	TierT3 Tier = "T3"
	TierT4 Tier = "T4"
	TierT5 Tier = "T5"

	// TierUnranked marks a player whose tier was removed.
	TierUnranked Tier = "None"
)

// RankedTiers is ordered from the highest tier to the lowest.
var RankedTiers = []Tier{TierT1, TierT2, TierT3, TierT4, TierT5}

// ParseTier trims and upper-cases raw before matching it against the ranked tiers.
func ParseTier(raw string) (Tier, bool) {
	t := Tier(strings.ToUpper(strings.TrimSpace(raw)))
	if t.Ranked() {
		return t, true
	}
	return "", false
}

func (t Tier) Ranked() bool {
	return t.Rank() > 0
}

// Rank is 1 for T1 and 5 for T5. Anything else ranks 0.
func (t Tier) Rank() int {
	for i, r := range RankedTiers {
		if t == r {
			return i + 1
		}
	}
	return 0
}

func (t Tier) String() string {
	return string(t)
}
