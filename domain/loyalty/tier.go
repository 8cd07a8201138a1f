package loyalty

import "fmt"

// Tier is a loyalty level. Tiers only move forward; there is no automatic
// downgrade.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
	TierDiamond  Tier = "diamond"
)

// tierConfig drives point earning and manual upgrades. upgradeCost is the
// point price of the next tier; nil on the top tier.
type tierConfig struct {
	level       int
	multiplier  float64
	upgradeCost *int
	next        Tier
}

func cost(points int) *int { return &points }

var tierTable = map[Tier]tierConfig{
	TierBronze:   {level: 0, multiplier: 1.0, upgradeCost: cost(50), next: TierSilver},
	TierSilver:   {level: 1, multiplier: 1.10, upgradeCost: cost(150), next: TierGold},
	TierGold:     {level: 2, multiplier: 1.25, upgradeCost: cost(250), next: TierPlatinum},
	TierPlatinum: {level: 3, multiplier: 1.75, upgradeCost: cost(500), next: TierDiamond},
	TierDiamond:  {level: 4, multiplier: 2.0},
}

// ParseTier validates a raw tier string.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if _, ok := tierTable[t]; !ok {
		return "", fmt.Errorf("unknown loyalty tier %q", s)
	}
	return t, nil
}

// Level returns the tier's position in the ordering, bronze=0 … diamond=4.
func (t Tier) Level() int { return tierTable[t].level }

// Multiplier is the factor applied to base points at order delivery.
func (t Tier) Multiplier() float64 { return tierTable[t].multiplier }

// UpgradeCost returns the point price of the next tier, nil at the top.
func (t Tier) UpgradeCost() *int {
	c := tierTable[t].upgradeCost
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

// Next returns the following tier, or false at the top.
func (t Tier) Next() (Tier, bool) {
	cfg := tierTable[t]
	if cfg.next == "" {
		return "", false
	}
	return cfg.next, true
}

// Meets reports whether t satisfies a required tier.
func (t Tier) Meets(required Tier) bool {
	return t.Level() >= required.Level()
}

func (t Tier) String() string { return string(t) }
