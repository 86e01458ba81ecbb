package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the status of a settlement transaction
type TransactionStatus string

const (
	// TransactionStatusCompleted is the only status the batch settlement
	// path produces; the record is append-only.
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
)

// PaymentMethod identifies how a settlement was paid
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodMobileMoney, PaymentMethodBankTransfer, PaymentMethodCheque:
		return true
	}
	return false
}

// SettlementTransaction records the settlement of one obligation. All
// transactions created by a single batch share one receipt number. The
// student id is denormalized from the obligation's schedule -> enrollment
// chain so receipts can be queried without joins.
type SettlementTransaction struct {
	shared.BaseEntity
	ObligationID    uuid.UUID         `json:"obligation_id"`
	StudentID       uuid.UUID         `json:"student_id"`
	Amount          decimal.Decimal   `json:"amount"`
	PaymentMethod   PaymentMethod     `json:"payment_method"`
	ReferenceNumber string            `json:"reference_number"`
	Notes           string            `json:"notes"`
	Status          TransactionStatus `json:"status"`
	TransactionDate time.Time         `json:"transaction_date"`
	ReceiptNumber   string            `json:"receipt_number"`
}

// NewSettlementTransaction records a completed settlement of an obligation's
// full net amount
func NewSettlementTransaction(
	obligationID uuid.UUID,
	studentID uuid.UUID,
	amount valueobject.Money,
	method PaymentMethod,
	referenceNumber string,
	notes string,
	transactionDate time.Time,
	receiptNumber string,
) (*SettlementTransaction, error) {
	if obligationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OBLIGATION", "Obligation ID cannot be empty")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}

	return &SettlementTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		ObligationID:    obligationID,
		StudentID:       studentID,
		Amount:          amount.Amount(),
		PaymentMethod:   method,
		ReferenceNumber: referenceNumber,
		Notes:           notes,
		Status:          TransactionStatusCompleted,
		TransactionDate: transactionDate,
		ReceiptNumber:   receiptNumber,
	}, nil
}

// GetAmountMoney returns the settled amount as Money
func (st *SettlementTransaction) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUGX(st.Amount)
}
