package loyalty

import "context"

// AccountRepository persists the Account aggregate.
type AccountRepository interface {
	// Save inserts a new account (assigning its numeric id) or updates an
	// existing one guarded by the optimistic-lock version; a stale version
	// fails with shared.ErrConflict and nothing is written.
	Save(ctx context.Context, a *Account) error

	// FindByCustomer loads the account for a customer, or ErrAccountNotFound.
	FindByCustomer(ctx context.Context, customerID string) (*Account, error)
}

// TransactionRepository persists the append-only point history.
type TransactionRepository interface {
	// Save appends one ledger entry, assigning its id.
	Save(ctx context.Context, t *Transaction) error

	// FindByAccount lists an account's entries, newest first, at most limit.
	FindByAccount(ctx context.Context, accountID int64, limit int) ([]*Transaction, error)
}

// RewardRepository reads the reward catalog and writes reward stock.
type RewardRepository interface {
	// FindByID loads a reward, or ErrRewardNotFound.
	FindByID(ctx context.Context, id int64) (*Reward, error)

	// FindAvailable lists redeemable rewards (active, in stock when
	// tracked), cheapest first.
	FindAvailable(ctx context.Context) ([]*Reward, error)

	// FindAffordable lists available rewards the given balance and tier can
	// redeem right now, cheapest first.
	FindAffordable(ctx context.Context, points int, tier Tier) ([]*Reward, error)

	// SaveStock writes back a reward's stock after a redemption.
	SaveStock(ctx context.Context, r *Reward) error
}
