package loyalty

import (
	"time"

	"cafeledger/domain/shared"
)

// Reward is a redeemable catalog entry. Stock is nullable: nil means the
// reward is not stock-tracked and never runs out. requiredTier gates
// redemption to accounts at or above that tier; nil means open to everyone.
type Reward struct {
	id            int64
	name          string
	description   string
	pointsCost    int
	requiredTier  *Tier
	active        bool
	stockQuantity *int
	createdAt     time.Time
	updatedAt     time.Time

	// loadedStockQuantity is the counter as it was read from the store,
	// the compare value for guarded stock writes.
	loadedStockQuantity *int
}

// RewardDTO rebuilds a Reward from the store. Repository use only.
type RewardDTO struct {
	ID            int64
	Name          string
	Description   string
	PointsCost    int
	RequiredTier  *Tier
	Active        bool
	StockQuantity *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RebuildReward reconstructs a Reward from persisted state.
func RebuildReward(dto RewardDTO) *Reward {
	return &Reward{
		id:                  dto.ID,
		name:                dto.Name,
		description:         dto.Description,
		pointsCost:          dto.PointsCost,
		requiredTier:        dto.RequiredTier,
		active:              dto.Active,
		stockQuantity:       dto.StockQuantity,
		createdAt:           dto.CreatedAt,
		updatedAt:           dto.UpdatedAt,
		loadedStockQuantity: copyRewardStock(dto.StockQuantity),
	}
}

func copyRewardStock(q *int) *int {
	if q == nil {
		return nil
	}
	c := *q
	return &c
}

// IsAvailable reports whether the reward can be redeemed at all: active and,
// when stock-tracked, in stock.
func (r *Reward) IsAvailable() bool {
	if !r.active {
		return false
	}
	if r.stockQuantity != nil && *r.stockQuantity <= 0 {
		return false
	}
	return true
}

// TracksStock reports whether this reward has a finite stock.
func (r *Reward) TracksStock() bool { return r.stockQuantity != nil }

// MeetsTier reports whether an account tier satisfies the reward's gate.
func (r *Reward) MeetsTier(tier Tier) bool {
	return r.requiredTier == nil || tier.Meets(*r.requiredTier)
}

// ConsumeStock decrements a stock-tracked reward by one. No-op when
// untracked; fails when already out of stock.
func (r *Reward) ConsumeStock() error {
	if r.stockQuantity == nil {
		return nil
	}
	if *r.stockQuantity <= 0 {
		return shared.NewNotAvailableError("reward", r.name)
	}
	q := *r.stockQuantity - 1
	r.stockQuantity = &q
	r.updatedAt = time.Now()
	return nil
}

func (r *Reward) ID() int64            { return r.id }
func (r *Reward) Name() string         { return r.name }
func (r *Reward) Description() string  { return r.description }
func (r *Reward) PointsCost() int      { return r.pointsCost }
func (r *Reward) Active() bool         { return r.active }
func (r *Reward) CreatedAt() time.Time { return r.createdAt }
func (r *Reward) UpdatedAt() time.Time { return r.updatedAt }

// RequiredTier returns the gate tier, nil when open to all tiers.
func (r *Reward) RequiredTier() *Tier {
	if r.requiredTier == nil {
		return nil
	}
	t := *r.requiredTier
	return &t
}

// StockQuantity returns the remaining stock, nil when untracked.
func (r *Reward) StockQuantity() *int {
	if r.stockQuantity == nil {
		return nil
	}
	q := *r.stockQuantity
	return &q
}

// LoadedStockQuantity returns the counter as it was read from the store,
// nil when it was untracked. Repository use only: it guards stock writes
// against a concurrent writer.
func (r *Reward) LoadedStockQuantity() *int { return copyRewardStock(r.loadedStockQuantity) }

// MarkStockSaved moves the guarded-write baseline to the current counter
// after a successful stock write. Called by the repositories, never by
// business code.
func (r *Reward) MarkStockSaved() { r.loadedStockQuantity = copyRewardStock(r.stockQuantity) }
