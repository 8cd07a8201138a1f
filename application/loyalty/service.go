/*
Package loyalty implements the loyalty use cases: lazy account creation,
point accrual at order delivery, reward redemption, bonus credits, manual
adjustments and purchased tier upgrades. Every mutation runs inside a unit of
work and appends its ledger entry in the same transaction as the balance
change.
*/
package loyalty

import (
	"context"
	"errors"
	"fmt"
	"math"

	"cafeledger/domain/loyalty"
	"cafeledger/domain/shared"

	"go.uber.org/zap"
)

// Service exposes the loyalty application operations.
type Service struct {
	accounts     loyalty.AccountRepository
	transactions loyalty.TransactionRepository
	rewards      loyalty.RewardRepository
	uowFactory   shared.UnitOfWorkFactory
	logger       *zap.Logger
}

// NewService wires the loyalty service.
func NewService(
	accounts loyalty.AccountRepository,
	transactions loyalty.TransactionRepository,
	rewards loyalty.RewardRepository,
	uowFactory shared.UnitOfWorkFactory,
	logger *zap.Logger,
) *Service {
	return &Service{
		accounts:     accounts,
		transactions: transactions,
		rewards:      rewards,
		uowFactory:   uowFactory,
		logger:       logger,
	}
}

// AccountResult is the read model of a loyalty account, including the
// projection of what the next tier would cost.
type AccountResult struct {
	CustomerID      string  `json:"customer_id"`
	Points          int     `json:"points"`
	TotalEarned     int     `json:"total_earned"`
	TotalSpent      int     `json:"total_spent"`
	Tier            string  `json:"tier"`
	Multiplier      float64 `json:"multiplier"`
	NextTier        *string `json:"next_tier,omitempty"`
	UpgradeCost     *int    `json:"upgrade_cost,omitempty"`
	PointsToUpgrade *int    `json:"points_to_upgrade,omitempty"`
}

// RewardResult is the read model of a redeemable reward.
type RewardResult struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	PointsCost    int     `json:"points_cost"`
	RequiredTier  *string `json:"required_tier,omitempty"`
	StockQuantity *int    `json:"stock_quantity,omitempty"`
}

// TransactionResult is the read model of one point-history entry.
type TransactionResult struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Points      int    `json:"points"`
	Description string `json:"description"`
	OrderID     *int64 `json:"order_id,omitempty"`
	RewardID    *int64 `json:"reward_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// RedeemResult reports a completed redemption.
type RedeemResult struct {
	RewardName  string `json:"reward_name"`
	PointsSpent int    `json:"points_spent"`
	Balance     int    `json:"balance"`
}

// UpgradeResult reports a completed tier purchase.
type UpgradeResult struct {
	Tier       string `json:"tier"`
	PointsPaid int    `json:"points_paid"`
	Balance    int    `json:"balance"`
}

// GetOrCreateAccount returns the customer's account, creating it at bronze
// with zero balances on first contact.
func (s *Service) GetOrCreateAccount(ctx context.Context, customerID string) (*AccountResult, error) {
	account, err := s.accounts.FindByCustomer(ctx, customerID)
	if err == nil {
		return toAccountResult(account), nil
	}
	if !errors.Is(err, loyalty.ErrAccountNotFound) {
		return nil, err
	}

	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(txCtx context.Context) error {
		account, err = s.getOrCreate(txCtx, uow, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("loyalty account created",
		zap.String("customer_id", customerID))
	return toAccountResult(account), nil
}

// getOrCreate loads or lazily creates the account inside the caller's
// transaction, registering a fresh account with the unit of work.
func (s *Service) getOrCreate(ctx context.Context, uow shared.UnitOfWork, customerID string) (*loyalty.Account, error) {
	account, err := s.accounts.FindByCustomer(ctx, customerID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, loyalty.ErrAccountNotFound) {
		return nil, err
	}
	account, err = loyalty.NewAccount(customerID)
	if err != nil {
		return nil, err
	}
	uow.RegisterNew(account)
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// CalculatePointsForAmount computes the points an amount earns at a tier:
// whole currency units of the total, scaled by the tier multiplier, floored.
func (s *Service) CalculatePointsForAmount(amount shared.Money, tier loyalty.Tier) int {
	base := float64(amount.WholeUnits())
	return int(math.Floor(base * tier.Multiplier()))
}

// AwardPointsForOrder credits the points a delivered order earns, inside the
// caller's unit of work. The multiplier in effect is the account's tier at
// delivery time. Returns the points credited.
func (s *Service) AwardPointsForOrder(ctx context.Context, uow shared.UnitOfWork, customerID, orderNumber string, orderID int64, total shared.Money) (int, error) {
	account, err := s.getOrCreate(ctx, uow, customerID)
	if err != nil {
		return 0, err
	}

	tier := account.Tier()
	points := s.CalculatePointsForAmount(total, tier)
	if err := account.AwardOrderPoints(points, orderNumber); err != nil {
		return 0, err
	}
	if !account.IsNew() {
		uow.RegisterDirty(account)
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return 0, err
	}

	description := fmt.Sprintf("Points earned for order %s (x%.2f %s)", orderNumber, tier.Multiplier(), tier)
	tx := loyalty.NewTransaction(account.ID(), loyalty.TransactionEarn, points, description, &orderID, nil)
	if err := s.transactions.Save(ctx, tx); err != nil {
		return 0, err
	}

	s.logger.Info("loyalty points awarded",
		zap.String("customer_id", customerID),
		zap.String("order_number", orderNumber),
		zap.Int("points", points),
		zap.String("tier", tier.String()))
	return points, nil
}

// RedeemReward spends points on a reward. Checks run in a fixed order:
// reward availability, then point balance, then tier gate. Stock-tracked
// rewards are decremented in the same transaction.
func (s *Service) RedeemReward(ctx context.Context, customerID string, rewardID int64) (*RedeemResult, error) {
	var result *RedeemResult
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(txCtx context.Context) error {
		reward, err := s.rewards.FindByID(txCtx, rewardID)
		if err != nil {
			return err
		}
		if !reward.IsAvailable() {
			return shared.NewNotAvailableError("reward", fmt.Sprintf("reward %s is not available", reward.Name()))
		}

		account, err := s.getOrCreate(txCtx, uow, customerID)
		if err != nil {
			return err
		}
		if account.Points() < reward.PointsCost() {
			return loyalty.NewInsufficientPointsError(reward.PointsCost(), account.Points())
		}
		if required := reward.RequiredTier(); required != nil && !account.Tier().Meets(*required) {
			return loyalty.NewTierRequirementNotMetError(*required, account.Tier())
		}

		if err := account.DeductPoints(reward.PointsCost()); err != nil {
			return err
		}
		if !account.IsNew() {
			uow.RegisterDirty(account)
		}
		if err := s.accounts.Save(txCtx, account); err != nil {
			return err
		}

		if err := reward.ConsumeStock(); err != nil {
			return err
		}
		if reward.TracksStock() {
			if err := s.rewards.SaveStock(txCtx, reward); err != nil {
				return err
			}
		}

		description := fmt.Sprintf("Redeemed reward: %s", reward.Name())
		tx := loyalty.NewTransaction(account.ID(), loyalty.TransactionRedeem, reward.PointsCost(), description, nil, &rewardID)
		if err := s.transactions.Save(txCtx, tx); err != nil {
			return err
		}

		result = &RedeemResult{
			RewardName:  reward.Name(),
			PointsSpent: reward.PointsCost(),
			Balance:     account.Points(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("reward redeemed",
		zap.String("customer_id", customerID),
		zap.Int64("reward_id", rewardID),
		zap.Int("points_spent", result.PointsSpent))
	return result, nil
}

// AddBonusPoints credits promotional points outside the order flow.
func (s *Service) AddBonusPoints(ctx context.Context, customerID string, points int, description string) (*AccountResult, error) {
	if points <= 0 {
		return nil, shared.NewValidationError("loyalty_account", "points", "bonus must be positive")
	}
	var account *loyalty.Account
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(txCtx context.Context) error {
		var err error
		account, err = s.getOrCreate(txCtx, uow, customerID)
		if err != nil {
			return err
		}
		if err := account.AddPoints(points); err != nil {
			return err
		}
		if !account.IsNew() {
			uow.RegisterDirty(account)
		}
		if err := s.accounts.Save(txCtx, account); err != nil {
			return err
		}
		tx := loyalty.NewTransaction(account.ID(), loyalty.TransactionBonus, points, description, nil, nil)
		return s.transactions.Save(txCtx, tx)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("bonus points added",
		zap.String("customer_id", customerID),
		zap.Int("points", points))
	return toAccountResult(account), nil
}

// AdjustPoints applies a signed manual correction. The ledger entry records
// the magnitude; the sign lives in the balance movement.
func (s *Service) AdjustPoints(ctx context.Context, customerID string, points int, description string) (*AccountResult, error) {
	if points == 0 {
		return nil, shared.NewValidationError("loyalty_account", "points", "adjustment must not be zero")
	}
	var account *loyalty.Account
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(txCtx context.Context) error {
		var err error
		account, err = s.getOrCreate(txCtx, uow, customerID)
		if err != nil {
			return err
		}
		if points > 0 {
			err = account.AddPoints(points)
		} else {
			err = account.DeductPoints(-points)
		}
		if err != nil {
			return err
		}
		if !account.IsNew() {
			uow.RegisterDirty(account)
		}
		if err := s.accounts.Save(txCtx, account); err != nil {
			return err
		}
		magnitude := points
		if magnitude < 0 {
			magnitude = -magnitude
		}
		tx := loyalty.NewTransaction(account.ID(), loyalty.TransactionAdjustment, magnitude, description, nil, nil)
		return s.transactions.Save(txCtx, tx)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("points adjusted",
		zap.String("customer_id", customerID),
		zap.Int("points", points))
	return toAccountResult(account), nil
}

// UpgradeTier purchases the next tier with points. The balance is zeroed by
// the purchase; the ledger records the tier price as a redemption.
func (s *Service) UpgradeTier(ctx context.Context, customerID string) (*UpgradeResult, error) {
	var result *UpgradeResult
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(txCtx context.Context) error {
		account, err := s.getOrCreate(txCtx, uow, customerID)
		if err != nil {
			return err
		}
		cost, err := account.Upgrade()
		if err != nil {
			return err
		}
		if !account.IsNew() {
			uow.RegisterDirty(account)
		}
		if err := s.accounts.Save(txCtx, account); err != nil {
			return err
		}
		description := fmt.Sprintf("Upgraded to %s tier", account.Tier())
		tx := loyalty.NewTransaction(account.ID(), loyalty.TransactionRedeem, cost, description, nil, nil)
		if err := s.transactions.Save(txCtx, tx); err != nil {
			return err
		}
		result = &UpgradeResult{
			Tier:       account.Tier().String(),
			PointsPaid: cost,
			Balance:    account.Points(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("loyalty tier upgraded",
		zap.String("customer_id", customerID),
		zap.String("tier", result.Tier))
	return result, nil
}

// GetTransactionHistory lists the customer's ledger entries, newest first.
// limit caps the page; non-positive limits fall back to 50.
func (s *Service) GetTransactionHistory(ctx context.Context, customerID string, limit int) ([]*TransactionResult, error) {
	if limit <= 0 {
		limit = 50
	}
	account, err := s.accounts.FindByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, loyalty.ErrAccountNotFound) {
			return []*TransactionResult{}, nil
		}
		return nil, err
	}
	entries, err := s.transactions.FindByAccount(ctx, account.ID(), limit)
	if err != nil {
		return nil, err
	}
	results := make([]*TransactionResult, len(entries))
	for i, e := range entries {
		results[i] = toTransactionResult(e)
	}
	return results, nil
}

// ListAvailableRewards lists redeemable rewards, cheapest first.
func (s *Service) ListAvailableRewards(ctx context.Context) ([]*RewardResult, error) {
	rewards, err := s.rewards.FindAvailable(ctx)
	if err != nil {
		return nil, err
	}
	return toRewardResults(rewards), nil
}

// ListRewardsForTier lists available rewards a given tier may redeem,
// ignoring point balances.
func (s *Service) ListRewardsForTier(ctx context.Context, rawTier string) ([]*RewardResult, error) {
	tier, err := loyalty.ParseTier(rawTier)
	if err != nil {
		return nil, shared.NewValidationError("reward", "tier", err.Error())
	}
	rewards, err := s.rewards.FindAvailable(ctx)
	if err != nil {
		return nil, err
	}
	matching := make([]*loyalty.Reward, 0, len(rewards))
	for _, r := range rewards {
		if r.MeetsTier(tier) {
			matching = append(matching, r)
		}
	}
	return toRewardResults(matching), nil
}

// ListAffordableRewards lists the rewards the customer can redeem right now
// given their balance and tier.
func (s *Service) ListAffordableRewards(ctx context.Context, customerID string) ([]*RewardResult, error) {
	points := 0
	tier := loyalty.TierBronze
	account, err := s.accounts.FindByCustomer(ctx, customerID)
	if err == nil {
		points = account.Points()
		tier = account.Tier()
	} else if !errors.Is(err, loyalty.ErrAccountNotFound) {
		return nil, err
	}
	rewards, err := s.rewards.FindAffordable(ctx, points, tier)
	if err != nil {
		return nil, err
	}
	return toRewardResults(rewards), nil
}

func toAccountResult(a *loyalty.Account) *AccountResult {
	result := &AccountResult{
		CustomerID:  a.CustomerID(),
		Points:      a.Points(),
		TotalEarned: a.TotalEarned(),
		TotalSpent:  a.TotalSpent(),
		Tier:        a.Tier().String(),
		Multiplier:  a.Tier().Multiplier(),
	}
	if next, ok := a.Tier().Next(); ok {
		name := next.String()
		result.NextTier = &name
		result.UpgradeCost = a.Tier().UpgradeCost()
		result.PointsToUpgrade = a.PointsToUpgrade()
	}
	return result
}

func toRewardResults(rewards []*loyalty.Reward) []*RewardResult {
	results := make([]*RewardResult, len(rewards))
	for i, r := range rewards {
		result := &RewardResult{
			ID:            r.ID(),
			Name:          r.Name(),
			Description:   r.Description(),
			PointsCost:    r.PointsCost(),
			StockQuantity: r.StockQuantity(),
		}
		if t := r.RequiredTier(); t != nil {
			name := t.String()
			result.RequiredTier = &name
		}
		results[i] = result
	}
	return results
}

func toTransactionResult(t *loyalty.Transaction) *TransactionResult {
	return &TransactionResult{
		ID:          t.ID(),
		Type:        string(t.Type()),
		Points:      t.Points(),
		Description: t.Description(),
		OrderID:     t.OrderID(),
		RewardID:    t.RewardID(),
		CreatedAt:   t.CreatedAt().Format("2006-01-02 15:04:05"),
	}
}
