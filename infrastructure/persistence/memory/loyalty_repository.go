package memory

import (
	"context"
	"sort"
	"sync"

	"cafeledger/domain/loyalty"
	"cafeledger/domain/shared"
)

// AccountRepository in-memory loyalty account store with optimistic version
// checks.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*loyalty.Account // keyed by customer id
	nextID   int64
}

// NewAccountRepository creates an empty account store.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]*loyalty.Account),
	}
}

// Save inserts or updates the aggregate. Updates are guarded by the stored
// version; a stale aggregate fails with shared.ErrConflict.
func (r *AccountRepository) Save(_ context.Context, a *loyalty.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.IsNew() {
		if _, exists := r.accounts[a.CustomerID()]; exists {
			return shared.NewConflictError("loyalty_account", "account already exists for customer")
		}
		r.nextID++
		a.AssignID(r.nextID)
		r.accounts[a.CustomerID()] = cloneAccount(a)
		a.ClearNewFlag()
		return nil
	}

	stored, exists := r.accounts[a.CustomerID()]
	if !exists {
		return loyalty.ErrAccountNotFound
	}
	if stored.Version() != a.Version() {
		return shared.NewConflictError("loyalty_account", "loyalty account was modified by another transaction, please retry")
	}
	a.IncrementVersionForSave()
	r.accounts[a.CustomerID()] = cloneAccount(a)
	return nil
}

// FindByCustomer loads the account for a customer.
func (r *AccountRepository) FindByCustomer(_ context.Context, customerID string) (*loyalty.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.accounts[customerID]
	if !exists {
		return nil, loyalty.ErrAccountNotFound
	}
	return cloneAccount(stored), nil
}

func cloneAccount(a *loyalty.Account) *loyalty.Account {
	return loyalty.RebuildFromDTO(loyalty.ReconstructionDTO{
		ID:          a.ID(),
		CustomerID:  a.CustomerID(),
		Points:      a.Points(),
		TotalEarned: a.TotalEarned(),
		TotalSpent:  a.TotalSpent(),
		Tier:        a.Tier(),
		Version:     a.Version(),
		CreatedAt:   a.CreatedAt(),
		UpdatedAt:   a.UpdatedAt(),
	})
}

var _ loyalty.AccountRepository = (*AccountRepository)(nil)

// TransactionRepository in-memory append-only point history.
type TransactionRepository struct {
	mu      sync.RWMutex
	entries []*loyalty.Transaction
	nextID  int64
}

// NewTransactionRepository creates an empty history.
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

// Save appends one ledger entry, assigning its id.
func (r *TransactionRepository) Save(_ context.Context, t *loyalty.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	t.AssignID(r.nextID)
	r.entries = append(r.entries, cloneTransaction(t))
	return nil
}

// FindByAccount lists an account's entries, newest first, at most limit.
func (r *TransactionRepository) FindByAccount(_ context.Context, accountID int64, limit int) ([]*loyalty.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*loyalty.Transaction, 0)
	for _, e := range r.entries {
		if e.AccountID() == accountID {
			entries = append(entries, cloneTransaction(e))
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt().Equal(entries[j].CreatedAt()) {
			return entries[i].ID() > entries[j].ID()
		}
		return entries[i].CreatedAt().After(entries[j].CreatedAt())
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func cloneTransaction(t *loyalty.Transaction) *loyalty.Transaction {
	return loyalty.RebuildTransaction(loyalty.TransactionDTO{
		ID:          t.ID(),
		AccountID:   t.AccountID(),
		Type:        t.Type(),
		Points:      t.Points(),
		Description: t.Description(),
		OrderID:     t.OrderID(),
		RewardID:    t.RewardID(),
		CreatedAt:   t.CreatedAt(),
	})
}

var _ loyalty.TransactionRepository = (*TransactionRepository)(nil)

// RewardRepository in-memory reward catalog.
type RewardRepository struct {
	mu      sync.RWMutex
	rewards map[int64]loyalty.RewardDTO
}

// NewRewardRepository creates an empty reward catalog.
func NewRewardRepository() *RewardRepository {
	return &RewardRepository{
		rewards: make(map[int64]loyalty.RewardDTO),
	}
}

// Seed loads reward rows, replacing entries with the same id.
func (r *RewardRepository) Seed(dtos []loyalty.RewardDTO) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dto := range dtos {
		r.rewards[dto.ID] = cloneRewardDTO(dto)
	}
}

// FindByID loads one reward.
func (r *RewardRepository) FindByID(_ context.Context, id int64) (*loyalty.Reward, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dto, exists := r.rewards[id]
	if !exists {
		return nil, loyalty.ErrRewardNotFound
	}
	return loyalty.RebuildReward(cloneRewardDTO(dto)), nil
}

// FindAvailable lists redeemable rewards, cheapest first.
func (r *RewardRepository) FindAvailable(_ context.Context) ([]*loyalty.Reward, error) {
	return r.filter(func(reward *loyalty.Reward) bool {
		return reward.IsAvailable()
	}), nil
}

// FindAffordable lists available rewards the given balance and tier can
// redeem right now, cheapest first.
func (r *RewardRepository) FindAffordable(_ context.Context, points int, tier loyalty.Tier) ([]*loyalty.Reward, error) {
	return r.filter(func(reward *loyalty.Reward) bool {
		return reward.IsAvailable() && reward.PointsCost() <= points && reward.MeetsTier(tier)
	}), nil
}

// SaveStock writes back a reward's stock after a redemption, guarded on the
// counter value the aggregate was loaded from.
func (r *RewardRepository) SaveStock(_ context.Context, reward *loyalty.Reward) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dto, exists := r.rewards[reward.ID()]
	if !exists {
		return loyalty.ErrRewardNotFound
	}
	if !stockMatches(dto.StockQuantity, reward.LoadedStockQuantity()) {
		return shared.NewConflictError("reward", "reward stock was modified by another transaction, please retry")
	}
	dto.StockQuantity = reward.StockQuantity()
	dto.UpdatedAt = reward.UpdatedAt()
	r.rewards[reward.ID()] = dto
	reward.MarkStockSaved()
	return nil
}

func (r *RewardRepository) filter(keep func(*loyalty.Reward) bool) []*loyalty.Reward {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rewards := make([]*loyalty.Reward, 0)
	for _, dto := range r.rewards {
		reward := loyalty.RebuildReward(cloneRewardDTO(dto))
		if keep(reward) {
			rewards = append(rewards, reward)
		}
	}
	sort.Slice(rewards, func(i, j int) bool {
		return rewards[i].PointsCost() < rewards[j].PointsCost()
	})
	return rewards
}

func cloneRewardDTO(dto loyalty.RewardDTO) loyalty.RewardDTO {
	if dto.RequiredTier != nil {
		t := *dto.RequiredTier
		dto.RequiredTier = &t
	}
	if dto.StockQuantity != nil {
		q := *dto.StockQuantity
		dto.StockQuantity = &q
	}
	return dto
}

var _ loyalty.RewardRepository = (*RewardRepository)(nil)
