/*
Package loyalty contains the loyalty ledger: per-customer point accounts, the
append-only transaction history, rewards and the tier progression. Accounts
are created lazily at bronze the first time a customer touches the program.
Upgrades are purchased with points and zero the balance; lifetime counters
only ever grow.
*/
package loyalty

import (
	"strings"
	"time"

	"cafeledger/domain/shared"
)

// Account is the aggregate root of a customer's point balance. One account
// per customer; the numeric id is assigned by the store on first save.
type Account struct {
	id          int64
	customerID  string
	points      int
	totalEarned int
	totalSpent  int
	tier        Tier
	version     int
	createdAt   time.Time
	updatedAt   time.Time

	events []shared.DomainEvent
	isNew  bool
}

// NewAccount creates a fresh bronze account with zero balances.
func NewAccount(customerID string) (*Account, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, shared.NewValidationError("loyalty_account", "customerID", "customer reference is required")
	}
	now := time.Now()
	return &Account{
		customerID: customerID,
		tier:       TierBronze,
		version:    0,
		createdAt:  now,
		updatedAt:  now,
		events:     make([]shared.DomainEvent, 0),
		isNew:      true,
	}, nil
}

// AwardOrderPoints credits points earned for a delivered order and records
// the award event. Zero-point awards are a valid no-op credit (a cheap order
// can floor to zero) but still count as an earn.
func (a *Account) AwardOrderPoints(points int, orderNumber string) error {
	if points < 0 {
		return shared.NewValidationError("loyalty_account", "points", "award must not be negative")
	}
	a.credit(points)
	a.events = append(a.events, NewPointsAwardedEvent(a.customerID, orderNumber, points, a.points))
	return nil
}

// AddPoints credits points outside the order flow (bonus, positive
// adjustment).
func (a *Account) AddPoints(points int) error {
	if points <= 0 {
		return shared.NewValidationError("loyalty_account", "points", "credit must be positive")
	}
	a.credit(points)
	return nil
}

// DeductPoints debits points for a redemption, negative adjustment or tier
// purchase. The balance never goes negative.
func (a *Account) DeductPoints(points int) error {
	if points <= 0 {
		return shared.NewValidationError("loyalty_account", "points", "debit must be positive")
	}
	if a.points < points {
		return NewInsufficientPointsError(points, a.points)
	}
	a.points -= points
	a.totalSpent += points
	a.updatedAt = time.Now()
	return nil
}

func (a *Account) credit(points int) {
	a.points += points
	a.totalEarned += points
	a.updatedAt = time.Now()
}

// CanUpgrade reports whether the balance covers the next tier's price.
func (a *Account) CanUpgrade() bool {
	c := a.tier.UpgradeCost()
	return c != nil && a.points >= *c
}

// PointsToUpgrade returns how many points are still missing for the next
// tier, zero when affordable, nil at the top tier.
func (a *Account) PointsToUpgrade() *int {
	c := a.tier.UpgradeCost()
	if c == nil {
		return nil
	}
	missing := *c - a.points
	if missing < 0 {
		missing = 0
	}
	return &missing
}

// Upgrade purchases the next tier. The full balance is consumed, not just
// the upgrade cost; lifetime spend grows by the cost only. Returns the cost
// paid for the transaction record.
func (a *Account) Upgrade() (int, error) {
	next, ok := a.tier.Next()
	if !ok {
		return 0, ErrMaxTierReached
	}
	price := *a.tier.UpgradeCost()
	if a.points < price {
		return 0, NewInsufficientPointsError(price, a.points)
	}

	from := a.tier
	a.tier = next
	a.points = 0
	a.totalSpent += price
	a.updatedAt = time.Now()
	a.events = append(a.events, NewTierUpgradedEvent(a.customerID, from, next, price))
	return price, nil
}

// ReconstructionDTO rebuilds an Account from the store. Repository use only.
type ReconstructionDTO struct {
	ID          int64
	CustomerID  string
	Points      int
	TotalEarned int
	TotalSpent  int
	Tier        Tier
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RebuildFromDTO reconstructs an Account aggregate from persisted state.
func RebuildFromDTO(dto ReconstructionDTO) *Account {
	return &Account{
		id:          dto.ID,
		customerID:  dto.CustomerID,
		points:      dto.Points,
		totalEarned: dto.TotalEarned,
		totalSpent:  dto.TotalSpent,
		tier:        dto.Tier,
		version:     dto.Version,
		createdAt:   dto.CreatedAt,
		updatedAt:   dto.UpdatedAt,
		isNew:       false,
	}
}

// AssignID stores the numeric identity generated by the store on first save.
func (a *Account) AssignID(id int64) {
	if a.id == 0 {
		a.id = id
	}
}

// IncrementVersionForSave bumps the optimistic-lock version after a
// successful guarded update. Called by the repository, never by business
// code.
func (a *Account) IncrementVersionForSave() {
	a.version++
	a.isNew = false
}

// ClearNewFlag marks the aggregate as persisted after the first insert.
func (a *Account) ClearNewFlag() { a.isNew = false }

func (a *Account) ID() int64            { return a.id }
func (a *Account) CustomerID() string   { return a.customerID }
func (a *Account) Points() int          { return a.points }
func (a *Account) TotalEarned() int     { return a.totalEarned }
func (a *Account) TotalSpent() int      { return a.totalSpent }
func (a *Account) Tier() Tier           { return a.tier }
func (a *Account) Version() int         { return a.version }
func (a *Account) CreatedAt() time.Time { return a.createdAt }
func (a *Account) UpdatedAt() time.Time { return a.updatedAt }
func (a *Account) IsNew() bool          { return a.isNew }

// AggregateID implements shared.AggregateRoot using the customer reference,
// which is unique per account and exists before the store assigns the id.
func (a *Account) AggregateID() string { return a.customerID }

// PullEvents returns and clears the recorded domain events.
func (a *Account) PullEvents() []shared.DomainEvent {
	events := make([]shared.DomainEvent, len(a.events))
	copy(events, a.events)
	a.events = a.events[:0]
	return events
}

var _ shared.AggregateRoot = (*Account)(nil)
