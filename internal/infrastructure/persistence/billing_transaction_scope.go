package persistence

import (
	"context"

	appbilling "github.com/schoolerp/backend/internal/application/billing"
	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/enrollment"
	"gorm.io/gorm"
)

// GormTransactionScope implements the billing TransactionScope using GORM
// transactions. It provides atomic execution of multiple repository
// operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Schedules returns the payment schedule repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Schedules() billing.PaymentScheduleRepository {
	return NewGormPaymentScheduleRepository(r.tx)
}

// Obligations returns the payment obligation repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Obligations() billing.PaymentObligationRepository {
	return NewGormPaymentObligationRepository(r.tx)
}

// Settlements returns the settlement transaction repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Settlements() billing.SettlementTransactionRepository {
	return NewGormSettlementTransactionRepository(r.tx)
}

// Enrollments returns the enrollment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Enrollments() enrollment.Repository {
	return NewGormEnrollmentRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appbilling.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appbilling.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
