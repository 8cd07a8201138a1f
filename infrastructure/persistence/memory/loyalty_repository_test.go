package memory

import (
	"context"
	"testing"
	"time"

	"cafeledger/domain/loyalty"
	"cafeledger/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewardSaveStockRejectsStaleCounter(t *testing.T) {
	now := time.Now()
	one := 1
	repo := NewRewardRepository()
	repo.Seed([]loyalty.RewardDTO{{
		ID: 1, Name: "Branded mug", PointsCost: 250, Active: true,
		StockQuantity: &one, CreatedAt: now, UpdatedAt: now,
	}})
	ctx := context.Background()

	first, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)

	// Two redemptions race for the last unit; only one may take it.
	require.NoError(t, first.ConsumeStock())
	require.NoError(t, repo.SaveStock(ctx, first))

	require.NoError(t, second.ConsumeStock())
	err = repo.SaveStock(ctx, second)
	require.ErrorIs(t, err, shared.ErrConflict)

	stored, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, stored.StockQuantity())
	assert.Equal(t, 0, *stored.StockQuantity())
	assert.False(t, stored.IsAvailable())
}
