package mysql

import (
	"context"
	"errors"

	"cafeledger/domain/loyalty"
	"cafeledger/domain/shared"
	"cafeledger/infrastructure/persistence"
	"cafeledger/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// AccountRepository GORM implementation of the loyalty account repository.
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates the account repository.
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save inserts a new account or applies a version-guarded update. Stale
// versions fail with a conflict so the unit of work can retry the operation
// against fresh state.
func (r *AccountRepository) Save(ctx context.Context, a *loyalty.Account) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return r.saveWithTx(tx, a)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.saveWithTx(tx, a)
	})
}

func (r *AccountRepository) saveWithTx(tx *gorm.DB, a *loyalty.Account) error {
	accountPO := po.FromAccountDomain(a)

	if a.IsNew() {
		if err := tx.Create(accountPO).Error; err != nil {
			return err
		}
		a.AssignID(accountPO.ID)
		a.ClearNewFlag()
		return nil
	}

	expectedVersion := a.Version()
	result := tx.Model(&po.LoyaltyAccountPO{}).
		Where("id = ? AND version = ?", a.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"points":       accountPO.Points,
			"total_earned": accountPO.TotalEarned,
			"total_spent":  accountPO.TotalSpent,
			"tier":         accountPO.Tier,
			"version":      expectedVersion + 1,
			"updated_at":   accountPO.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&po.LoyaltyAccountPO{}).Where("id = ?", a.ID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return loyalty.ErrAccountNotFound
		}
		return shared.NewConflictError("loyalty_account",
			"loyalty account was modified by another transaction, please retry")
	}

	a.IncrementVersionForSave()
	return nil
}

// FindByCustomer loads the account for a customer.
func (r *AccountRepository) FindByCustomer(ctx context.Context, customerID string) (*loyalty.Account, error) {
	var accountPO po.LoyaltyAccountPO
	result := r.getDB(ctx).First(&accountPO, "customer_id = ?", customerID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, loyalty.ErrAccountNotFound
		}
		return nil, result.Error
	}
	return accountPO.ToDomain(), nil
}

var _ loyalty.AccountRepository = (*AccountRepository)(nil)

// TransactionRepository GORM implementation of the append-only point
// history.
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates the transaction repository.
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Save appends one ledger entry. Entries are never updated.
func (r *TransactionRepository) Save(ctx context.Context, t *loyalty.Transaction) error {
	transactionPO := po.FromTransactionDomain(t)
	if err := r.getDB(ctx).Create(transactionPO).Error; err != nil {
		return err
	}
	t.AssignID(transactionPO.ID)
	return nil
}

// FindByAccount lists an account's entries, newest first, at most limit.
func (r *TransactionRepository) FindByAccount(ctx context.Context, accountID int64, limit int) ([]*loyalty.Transaction, error) {
	var transactionPOs []po.LoyaltyTransactionPO
	if err := r.getDB(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactionPOs).Error; err != nil {
		return nil, err
	}
	transactions := make([]*loyalty.Transaction, len(transactionPOs))
	for i := range transactionPOs {
		transactions[i] = transactionPOs[i].ToDomain()
	}
	return transactions, nil
}

var _ loyalty.TransactionRepository = (*TransactionRepository)(nil)

// RewardRepository GORM implementation of the reward catalog.
type RewardRepository struct {
	db *gorm.DB
}

// NewRewardRepository creates the reward repository.
func NewRewardRepository(db *gorm.DB) *RewardRepository {
	return &RewardRepository{db: db}
}

func (r *RewardRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// FindByID loads one reward.
func (r *RewardRepository) FindByID(ctx context.Context, id int64) (*loyalty.Reward, error) {
	var rewardPO po.LoyaltyRewardPO
	result := r.getDB(ctx).First(&rewardPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, loyalty.ErrRewardNotFound
		}
		return nil, result.Error
	}
	return rewardPO.ToDomain(), nil
}

// FindAvailable lists redeemable rewards, cheapest first.
func (r *RewardRepository) FindAvailable(ctx context.Context) ([]*loyalty.Reward, error) {
	var rewardPOs []po.LoyaltyRewardPO
	if err := r.getDB(ctx).
		Where("active = ? AND (stock_quantity IS NULL OR stock_quantity > 0)", true).
		Order("points_cost ASC").
		Find(&rewardPOs).Error; err != nil {
		return nil, err
	}
	return toRewards(rewardPOs), nil
}

// FindAffordable lists available rewards the balance and tier can redeem.
// The tier gate is hierarchical, so the filter matches any required tier at
// or below the account's level.
func (r *RewardRepository) FindAffordable(ctx context.Context, points int, tier loyalty.Tier) ([]*loyalty.Reward, error) {
	eligible := make([]string, 0, tier.Level()+1)
	for _, t := range []loyalty.Tier{
		loyalty.TierBronze, loyalty.TierSilver, loyalty.TierGold,
		loyalty.TierPlatinum, loyalty.TierDiamond,
	} {
		if tier.Meets(t) {
			eligible = append(eligible, t.String())
		}
	}

	var rewardPOs []po.LoyaltyRewardPO
	if err := r.getDB(ctx).
		Where("active = ? AND (stock_quantity IS NULL OR stock_quantity > 0)", true).
		Where("points_cost <= ?", points).
		Where("required_tier IS NULL OR required_tier IN ?", eligible).
		Order("points_cost ASC").
		Find(&rewardPOs).Error; err != nil {
		return nil, err
	}
	return toRewards(rewardPOs), nil
}

// SaveStock writes back a reward's stock after a redemption, guarded on the
// counter value that was loaded so concurrent redemptions cannot both take
// the last unit.
func (r *RewardRepository) SaveStock(ctx context.Context, reward *loyalty.Reward) error {
	query := r.getDB(ctx).Model(&po.LoyaltyRewardPO{}).Where("id = ?", reward.ID())
	if loaded := reward.LoadedStockQuantity(); loaded == nil {
		query = query.Where("stock_quantity IS NULL")
	} else {
		query = query.Where("stock_quantity = ?", *loaded)
	}
	result := query.Updates(map[string]interface{}{
		"stock_quantity": reward.StockQuantity(),
		"updated_at":     reward.UpdatedAt(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.getDB(ctx).Model(&po.LoyaltyRewardPO{}).Where("id = ?", reward.ID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return loyalty.ErrRewardNotFound
		}
		return shared.NewConflictError("reward", "reward stock was modified by another transaction, please retry")
	}
	reward.MarkStockSaved()
	return nil
}

func toRewards(rewardPOs []po.LoyaltyRewardPO) []*loyalty.Reward {
	rewards := make([]*loyalty.Reward, len(rewardPOs))
	for i := range rewardPOs {
		rewards[i] = rewardPOs[i].ToDomain()
	}
	return rewards
}

var _ loyalty.RewardRepository = (*RewardRepository)(nil)
