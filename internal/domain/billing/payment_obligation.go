package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ObligationStatus represents the payment status of an obligation
type ObligationStatus string

const (
	ObligationStatusPending ObligationStatus = "PENDING"
	ObligationStatusPartial ObligationStatus = "PARTIAL"
	ObligationStatusPaid    ObligationStatus = "PAID"
)

// IsValid checks if the status is a valid ObligationStatus
func (s ObligationStatus) IsValid() bool {
	switch s {
	case ObligationStatusPending, ObligationStatusPartial, ObligationStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of ObligationStatus
func (s ObligationStatus) String() string {
	return string(s)
}

// PaymentObligation is one billable line item owned by a payment schedule.
// NetAmount is the amount actually due; it equals Amount at creation since
// no discount path exists, and batch settlement always settles it in full.
type PaymentObligation struct {
	shared.BaseEntity
	ScheduleID        uuid.UUID        `json:"schedule_id"`
	FeeDefinitionID   uuid.UUID        `json:"fee_definition_id"`
	Description       string           `json:"description"`
	Amount            decimal.Decimal  `json:"amount"`
	NetAmount         decimal.Decimal  `json:"net_amount"`
	DueDate           time.Time        `json:"due_date"`
	InstallmentNumber *int             `json:"installment_number,omitempty"`
	Status            ObligationStatus `json:"status"`
	PaidAmount        decimal.Decimal  `json:"paid_amount"`
	PaymentDate       *time.Time       `json:"payment_date,omitempty"`
}

// NewPaymentObligation materializes an obligation draft under a schedule
func NewPaymentObligation(scheduleID uuid.UUID, draft ObligationDraft) (*PaymentObligation, error) {
	if scheduleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "Schedule ID cannot be empty")
	}
	if draft.FeeDefinitionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FEE_DEFINITION", "Fee definition ID cannot be empty")
	}

	return &PaymentObligation{
		BaseEntity:        shared.NewBaseEntity(),
		ScheduleID:        scheduleID,
		FeeDefinitionID:   draft.FeeDefinitionID,
		Description:       draft.Description,
		Amount:            draft.Amount.Amount(),
		NetAmount:         draft.NetAmount.Amount(),
		DueDate:           draft.DueDate,
		InstallmentNumber: draft.InstallmentNumber,
		Status:            ObligationStatusPending,
		PaidAmount:        decimal.Zero,
	}, nil
}

// MarkPaid settles the obligation for its full net amount. Settling an
// already-paid obligation is rejected so the owning schedule's paid total
// can never exceed its billed total through this path.
func (po *PaymentObligation) MarkPaid(at time.Time) error {
	if po.Status == ObligationStatusPaid {
		return shared.NewDomainError("INVALID_STATE",
			"Obligation "+po.ID.String()+" is already paid")
	}
	po.Status = ObligationStatusPaid
	po.PaidAmount = po.NetAmount
	po.PaymentDate = &at
	po.Touch(at)
	return nil
}

// IsPaid returns true once the obligation has been settled
func (po *PaymentObligation) IsPaid() bool {
	return po.Status == ObligationStatusPaid
}

// GetNetAmountMoney returns the net amount due as Money
func (po *PaymentObligation) GetNetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUGX(po.NetAmount)
}
