package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
)

// PaymentScheduleRepository persists payment schedule aggregates
type PaymentScheduleRepository interface {
	shared.Repository[PaymentSchedule]
	// FindByEnrollmentID returns the enrollment's schedule or
	// shared.ErrNotFound; at most one schedule exists per enrollment.
	FindByEnrollmentID(ctx context.Context, enrollmentID uuid.UUID) (*PaymentSchedule, error)
	// Create inserts a new schedule. A concurrent insert for the same
	// enrollment surfaces as shared.ErrAlreadyExists (unique index on
	// enrollment_id) so callers can treat the conflict as idempotent
	// success.
	Create(ctx context.Context, schedule *PaymentSchedule) error
}

// PaymentObligationRepository persists the obligations owned by schedules
type PaymentObligationRepository interface {
	shared.Repository[PaymentObligation]
	FindByScheduleID(ctx context.Context, scheduleID uuid.UUID) ([]PaymentObligation, error)
	// FindOutstandingByStudent follows the obligation -> schedule ->
	// enrollment chain to list a student's unpaid obligations.
	FindOutstandingByStudent(ctx context.Context, studentID uuid.UUID) ([]PaymentObligation, error)
	CreateBatch(ctx context.Context, obligations []*PaymentObligation) error
}

// SettlementTransactionRepository persists the append-only settlement log
type SettlementTransactionRepository interface {
	Create(ctx context.Context, transaction *SettlementTransaction) error
	FindByReceiptNumber(ctx context.Context, receiptNumber string) ([]SettlementTransaction, error)
	FindByObligationID(ctx context.Context, obligationID uuid.UUID) ([]SettlementTransaction, error)
}
