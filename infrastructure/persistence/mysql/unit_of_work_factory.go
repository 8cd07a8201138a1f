package mysql

import (
	"cafeledger/domain/shared"
	"cafeledger/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

// UnitOfWorkFactory produces one UnitOfWork per operation; units of work
// hold per-operation state and must not be shared.
type UnitOfWorkFactory struct {
	db          *gorm.DB
	retryConfig retry.Config
}

// NewUnitOfWorkFactory creates the factory with the retry policy applied to
// every unit of work it produces.
func NewUnitOfWorkFactory(db *gorm.DB, retryConfig retry.Config) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		db:          db,
		retryConfig: retryConfig,
	}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.db)
	uow.SetRetryConfig(f.retryConfig)
	return uow
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
