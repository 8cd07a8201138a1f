package loyalty

import "time"

// TransactionType classifies an entry in the point ledger.
type TransactionType string

const (
	TransactionEarn       TransactionType = "earn"
	TransactionRedeem     TransactionType = "redeem"
	TransactionBonus      TransactionType = "bonus"
	TransactionExpired    TransactionType = "expired"
	TransactionAdjustment TransactionType = "adjustment"
)

// Transaction is one append-only entry in an account's point history.
// Entries are never updated or deleted; corrections are new adjustment
// entries. Points is always the absolute magnitude, the type carries the
// direction.
type Transaction struct {
	id          int64
	accountID   int64
	txType      TransactionType
	points      int
	description string
	orderID     *int64
	rewardID    *int64
	createdAt   time.Time
}

// NewTransaction records a ledger entry for an account. orderID and rewardID
// link the entry to its cause and may be nil.
func NewTransaction(accountID int64, txType TransactionType, points int, description string, orderID, rewardID *int64) *Transaction {
	return &Transaction{
		accountID:   accountID,
		txType:      txType,
		points:      points,
		description: description,
		orderID:     orderID,
		rewardID:    rewardID,
		createdAt:   time.Now(),
	}
}

// TransactionDTO rebuilds a Transaction from the store. Repository use only.
type TransactionDTO struct {
	ID          int64
	AccountID   int64
	Type        TransactionType
	Points      int
	Description string
	OrderID     *int64
	RewardID    *int64
	CreatedAt   time.Time
}

// RebuildTransaction reconstructs a ledger entry from persisted state.
func RebuildTransaction(dto TransactionDTO) *Transaction {
	return &Transaction{
		id:          dto.ID,
		accountID:   dto.AccountID,
		txType:      dto.Type,
		points:      dto.Points,
		description: dto.Description,
		orderID:     dto.OrderID,
		rewardID:    dto.RewardID,
		createdAt:   dto.CreatedAt,
	}
}

// AssignID stores the identity generated by the store on insert.
func (t *Transaction) AssignID(id int64) {
	if t.id == 0 {
		t.id = id
	}
}

func (t *Transaction) ID() int64             { return t.id }
func (t *Transaction) AccountID() int64      { return t.accountID }
func (t *Transaction) Type() TransactionType { return t.txType }
func (t *Transaction) Points() int           { return t.points }
func (t *Transaction) Description() string   { return t.description }
func (t *Transaction) CreatedAt() time.Time  { return t.createdAt }

func (t *Transaction) OrderID() *int64  { return copyID(t.orderID) }
func (t *Transaction) RewardID() *int64 { return copyID(t.rewardID) }

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
