package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ScheduleStatus represents the lifecycle status of a payment schedule
type ScheduleStatus string

const (
	ScheduleStatusActive    ScheduleStatus = "ACTIVE"
	ScheduleStatusCompleted ScheduleStatus = "COMPLETED"
)

// IsValid checks if the status is a valid ScheduleStatus
func (s ScheduleStatus) IsValid() bool {
	return s == ScheduleStatusActive || s == ScheduleStatusCompleted
}

// String returns the string representation of ScheduleStatus
func (s ScheduleStatus) String() string {
	return string(s)
}

// PaymentSchedule is the per-enrollment aggregate tracking billed versus
// paid totals. Exactly one schedule exists per enrollment; the total is
// finalized after its obligations are generated and only settlements mutate
// the paid amount afterwards.
type PaymentSchedule struct {
	shared.BaseAggregateRoot
	ScheduleNumber string          `json:"schedule_number"`
	EnrollmentID   uuid.UUID       `json:"enrollment_id"`
	AcademicYearID uuid.UUID       `json:"academic_year_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	Status         ScheduleStatus  `json:"status"`
	GeneratedAt    time.Time       `json:"generated_at"`
	ActivatedAt    time.Time       `json:"activated_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
}

// NewPaymentSchedule creates an active schedule for an enrollment with a
// placeholder zero total. The total is finalized once obligations exist.
func NewPaymentSchedule(enrollmentID, academicYearID uuid.UUID, at time.Time) (*PaymentSchedule, error) {
	if enrollmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENROLLMENT", "Enrollment ID cannot be empty")
	}
	if academicYearID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACADEMIC_YEAR", "Academic year ID cannot be empty")
	}

	return &PaymentSchedule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ScheduleNumber:    ScheduleNumber(academicYearID, enrollmentID, at),
		EnrollmentID:      enrollmentID,
		AcademicYearID:    academicYearID,
		TotalAmount:       decimal.Zero,
		PaidAmount:        decimal.Zero,
		Status:            ScheduleStatusActive,
		GeneratedAt:       at,
		ActivatedAt:       at,
	}, nil
}

// FinalizeTotal sets the billed total to the sum of the generated
// obligations. Only valid before any settlement has been applied.
func (ps *PaymentSchedule) FinalizeTotal(total valueobject.Money) error {
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Schedule total cannot be negative")
	}
	if ps.PaidAmount.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_STATE", "Cannot finalize total after settlements were applied")
	}
	ps.TotalAmount = total.Amount()
	ps.Touch(time.Now())
	ps.IncrementVersion()
	return nil
}

// ApplySettlement adds a settled amount to the paid total and derives the
// status: the schedule completes exactly when paid >= total.
func (ps *PaymentSchedule) ApplySettlement(amount valueobject.Money, at time.Time) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Settled amount cannot be negative")
	}
	if ps.Status == ScheduleStatusCompleted {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Schedule %s is already completed", ps.ScheduleNumber))
	}

	ps.PaidAmount = ps.PaidAmount.Add(amount.Amount())
	if ps.PaidAmount.GreaterThanOrEqual(ps.TotalAmount) {
		ps.Status = ScheduleStatusCompleted
		ps.CompletedAt = &at
	}
	ps.Touch(at)
	ps.IncrementVersion()
	return nil
}

// OutstandingAmount returns the unpaid remainder
func (ps *PaymentSchedule) OutstandingAmount() decimal.Decimal {
	return ps.TotalAmount.Sub(ps.PaidAmount)
}

// IsActive returns true while the schedule still has unpaid obligations
func (ps *PaymentSchedule) IsActive() bool {
	return ps.Status == ScheduleStatusActive
}

// IsCompleted returns true once paid has reached total
func (ps *PaymentSchedule) IsCompleted() bool {
	return ps.Status == ScheduleStatusCompleted
}

// GetTotalAmountMoney returns the billed total as Money
func (ps *PaymentSchedule) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUGX(ps.TotalAmount)
}

// GetPaidAmountMoney returns the paid total as Money
func (ps *PaymentSchedule) GetPaidAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUGX(ps.PaidAmount)
}
