package loyalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierProgression(t *testing.T) {
	tests := []struct {
		tier       Tier
		level      int
		multiplier float64
		cost       *int
		next       Tier
	}{
		{TierBronze, 0, 1.0, intPtr(50), TierSilver},
		{TierSilver, 1, 1.10, intPtr(150), TierGold},
		{TierGold, 2, 1.25, intPtr(250), TierPlatinum},
		{TierPlatinum, 3, 1.75, intPtr(500), TierDiamond},
		{TierDiamond, 4, 2.0, nil, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, tt.tier.Level(), "tier %s", tt.tier)
		assert.Equal(t, tt.multiplier, tt.tier.Multiplier(), "tier %s", tt.tier)

		cost := tt.tier.UpgradeCost()
		if tt.cost == nil {
			assert.Nil(t, cost, "tier %s", tt.tier)
		} else {
			require.NotNil(t, cost, "tier %s", tt.tier)
			assert.Equal(t, *tt.cost, *cost, "tier %s", tt.tier)
		}

		next, ok := tt.tier.Next()
		if tt.next == "" {
			assert.False(t, ok, "tier %s", tt.tier)
		} else {
			require.True(t, ok, "tier %s", tt.tier)
			assert.Equal(t, tt.next, next, "tier %s", tt.tier)
		}
	}
}

func TestTierMeets(t *testing.T) {
	assert.True(t, TierGold.Meets(TierBronze))
	assert.True(t, TierGold.Meets(TierGold))
	assert.False(t, TierGold.Meets(TierPlatinum))
	assert.True(t, TierDiamond.Meets(TierBronze))
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("platinum")
	require.NoError(t, err)
	assert.Equal(t, TierPlatinum, tier)

	_, err = ParseTier("wood")
	assert.Error(t, err)
}

func intPtr(v int) *int { return &v }
