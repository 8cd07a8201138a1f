package po

import (
	"time"

	"cafeledger/domain/loyalty"
)

// LoyaltyAccountPO loyalty account row mapping.
type LoyaltyAccountPO struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	CustomerID  string    `gorm:"size:64;uniqueIndex;not null"`
	Points      int       `gorm:"default:0;not null"`
	TotalEarned int       `gorm:"default:0;not null"`
	TotalSpent  int       `gorm:"default:0;not null"`
	Tier        string    `gorm:"size:20;default:bronze;not null"`
	Version     int       `gorm:"default:0;not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (LoyaltyAccountPO) TableName() string { return "loyalty_accounts" }

// FromAccountDomain converts the aggregate to its row mapping.
func FromAccountDomain(a *loyalty.Account) *LoyaltyAccountPO {
	return &LoyaltyAccountPO{
		ID:          a.ID(),
		CustomerID:  a.CustomerID(),
		Points:      a.Points(),
		TotalEarned: a.TotalEarned(),
		TotalSpent:  a.TotalSpent(),
		Tier:        a.Tier().String(),
		Version:     a.Version(),
		CreatedAt:   a.CreatedAt(),
		UpdatedAt:   a.UpdatedAt(),
	}
}

// ToDomain converts the row back to the aggregate.
func (p *LoyaltyAccountPO) ToDomain() *loyalty.Account {
	return loyalty.RebuildFromDTO(loyalty.ReconstructionDTO{
		ID:          p.ID,
		CustomerID:  p.CustomerID,
		Points:      p.Points,
		TotalEarned: p.TotalEarned,
		TotalSpent:  p.TotalSpent,
		Tier:        loyalty.Tier(p.Tier),
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	})
}

// LoyaltyTransactionPO point-history row mapping. Append-only.
type LoyaltyTransactionPO struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	AccountID   int64     `gorm:"index;not null"`
	Type        string    `gorm:"size:20;not null"`
	Points      int       `gorm:"not null"`
	Description string    `gorm:"size:255"`
	OrderID     *int64    `gorm:""`
	RewardID    *int64    `gorm:""`
	CreatedAt   time.Time `gorm:"index;not null"`
}

func (LoyaltyTransactionPO) TableName() string { return "loyalty_transactions" }

// FromTransactionDomain converts a ledger entry to its row mapping.
func FromTransactionDomain(t *loyalty.Transaction) *LoyaltyTransactionPO {
	return &LoyaltyTransactionPO{
		ID:          t.ID(),
		AccountID:   t.AccountID(),
		Type:        string(t.Type()),
		Points:      t.Points(),
		Description: t.Description(),
		OrderID:     t.OrderID(),
		RewardID:    t.RewardID(),
		CreatedAt:   t.CreatedAt(),
	}
}

// ToDomain converts the row back to the ledger entry.
func (p *LoyaltyTransactionPO) ToDomain() *loyalty.Transaction {
	return loyalty.RebuildTransaction(loyalty.TransactionDTO{
		ID:          p.ID,
		AccountID:   p.AccountID,
		Type:        loyalty.TransactionType(p.Type),
		Points:      p.Points,
		Description: p.Description,
		OrderID:     p.OrderID,
		RewardID:    p.RewardID,
		CreatedAt:   p.CreatedAt,
	})
}

// LoyaltyRewardPO reward row mapping. StockQuantity NULL means unlimited,
// RequiredTier NULL means open to all tiers.
type LoyaltyRewardPO struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	Name          string    `gorm:"size:255;not null"`
	Description   string    `gorm:"size:500"`
	PointsCost    int       `gorm:"not null"`
	RequiredTier  *string   `gorm:"size:20"`
	Active        bool      `gorm:"default:true;not null"`
	StockQuantity *int      `gorm:""`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (LoyaltyRewardPO) TableName() string { return "loyalty_rewards" }

// ToDomain converts the row to the reward entity.
func (p *LoyaltyRewardPO) ToDomain() *loyalty.Reward {
	var tier *loyalty.Tier
	if p.RequiredTier != nil {
		t := loyalty.Tier(*p.RequiredTier)
		tier = &t
	}
	return loyalty.RebuildReward(loyalty.RewardDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		PointsCost:    p.PointsCost,
		RequiredTier:  tier,
		Active:        p.Active,
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	})
}
