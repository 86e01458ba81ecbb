package billing

import (
	"context"

	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/enrollment"
)

// TransactionScope executes a unit of work atomically. Every repository
// obtained through TransactionalRepositories shares one underlying
// transaction: if fn returns an error all writes roll back, otherwise they
// commit together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories scoped to the current
// transaction
type TransactionalRepositories interface {
	Schedules() billing.PaymentScheduleRepository
	Obligations() billing.PaymentObligationRepository
	Settlements() billing.SettlementTransactionRepository
	Enrollments() enrollment.Repository
}
