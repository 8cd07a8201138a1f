package loyalty

import (
	"testing"

	"cafeledger/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(t *testing.T) *Account {
	t.Helper()
	a, err := NewAccount("customer-1")
	require.NoError(t, err)
	return a
}

func TestNewAccountStartsAtBronze(t *testing.T) {
	a := newTestAccount(t)

	assert.Equal(t, TierBronze, a.Tier())
	assert.Equal(t, 0, a.Points())
	assert.Equal(t, 0, a.TotalEarned())
	assert.Equal(t, 0, a.TotalSpent())
	assert.True(t, a.IsNew())

	_, err := NewAccount("  ")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestAwardOrderPoints(t *testing.T) {
	a := newTestAccount(t)

	require.NoError(t, a.AwardOrderPoints(9, "ORD-20260830-AAAA1111"))
	assert.Equal(t, 9, a.Points())
	assert.Equal(t, 9, a.TotalEarned())

	events := a.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "loyalty.points_awarded", events[0].EventName())
}

func TestAwardZeroPointsIsValid(t *testing.T) {
	a := newTestAccount(t)

	// A sub-1-euro order floors to zero points but still counts as an earn.
	require.NoError(t, a.AwardOrderPoints(0, "ORD-20260830-BBBB2222"))
	assert.Equal(t, 0, a.Points())
	assert.Len(t, a.PullEvents(), 1)

	assert.Error(t, a.AwardOrderPoints(-1, "ORD-20260830-CCCC3333"))
}

func TestDeductPointsNeverNegative(t *testing.T) {
	a := newTestAccount(t)
	require.NoError(t, a.AddPoints(50))

	err := a.DeductPoints(100)
	require.ErrorIs(t, err, ErrInsufficientPoints)

	var insufficientErr *InsufficientPointsError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 100, insufficientErr.Required)
	assert.Equal(t, 50, insufficientErr.Available)

	assert.Equal(t, 50, a.Points(), "failed debit leaves the balance untouched")
	assert.Equal(t, 0, a.TotalSpent())

	require.NoError(t, a.DeductPoints(50))
	assert.Equal(t, 0, a.Points())
	assert.Equal(t, 50, a.TotalSpent())
}

func TestUpgradeConsumesFullBalance(t *testing.T) {
	a := newTestAccount(t)
	require.NoError(t, a.AddPoints(80))
	a.PullEvents()

	require.True(t, a.CanUpgrade())
	cost, err := a.Upgrade()
	require.NoError(t, err)

	assert.Equal(t, 50, cost)
	assert.Equal(t, TierSilver, a.Tier())
	assert.Equal(t, 0, a.Points(), "the whole balance is consumed, not just the cost")
	assert.Equal(t, 50, a.TotalSpent(), "lifetime spend grows by the cost only")
	assert.Equal(t, 80, a.TotalEarned())

	events := a.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "loyalty.tier_upgraded", events[0].EventName())
}

func TestUpgradeRequiresCost(t *testing.T) {
	a := newTestAccount(t)
	require.NoError(t, a.AddPoints(30))

	_, err := a.Upgrade()
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Equal(t, TierBronze, a.Tier())
	assert.Equal(t, 30, a.Points())
}

func TestUpgradeAtTopTier(t *testing.T) {
	a := RebuildFromDTO(ReconstructionDTO{
		ID: 1, CustomerID: "customer-1", Points: 10000, Tier: TierDiamond,
	})

	_, err := a.Upgrade()
	assert.ErrorIs(t, err, ErrMaxTierReached)
	assert.Nil(t, a.PointsToUpgrade())
}

func TestPointsToUpgrade(t *testing.T) {
	a := newTestAccount(t)
	require.NoError(t, a.AddPoints(30))

	missing := a.PointsToUpgrade()
	require.NotNil(t, missing)
	assert.Equal(t, 20, *missing)

	require.NoError(t, a.AddPoints(40))
	missing = a.PointsToUpgrade()
	require.NotNil(t, missing)
	assert.Equal(t, 0, *missing)
}

func TestRewardAvailabilityAndTierGate(t *testing.T) {
	silver := TierSilver
	stock := 1
	r := RebuildReward(RewardDTO{
		ID: 3, Name: "Branded mug", PointsCost: 250,
		RequiredTier: &silver, Active: true, StockQuantity: &stock,
	})

	assert.True(t, r.IsAvailable())
	assert.False(t, r.MeetsTier(TierBronze))
	assert.True(t, r.MeetsTier(TierGold))

	require.NoError(t, r.ConsumeStock())
	assert.False(t, r.IsAvailable(), "out of stock after the last unit")
	assert.ErrorIs(t, r.ConsumeStock(), shared.ErrNotAvailable)
}

func TestUntrackedRewardNeverRunsOut(t *testing.T) {
	r := RebuildReward(RewardDTO{
		ID: 1, Name: "Free espresso", PointsCost: 40, Active: true,
	})

	assert.False(t, r.TracksStock())
	for i := 0; i < 5; i++ {
		require.NoError(t, r.ConsumeStock())
	}
	assert.True(t, r.IsAvailable())
}
