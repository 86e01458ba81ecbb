package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// PaymentScheduleModel is the persistence model for the PaymentSchedule
// aggregate root. The unique index on enrollment_id enforces the
// one-schedule-per-enrollment invariant at the database level.
type PaymentScheduleModel struct {
	AggregateModel
	ScheduleNumber string                 `gorm:"type:varchar(60);not null;uniqueIndex"`
	EnrollmentID   uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:idx_payment_schedules_enrollment"`
	AcademicYearID uuid.UUID              `gorm:"type:uuid;not null;index"`
	TotalAmount    decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	PaidAmount     decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Status         billing.ScheduleStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	GeneratedAt    time.Time              `gorm:"not null"`
	ActivatedAt    time.Time              `gorm:"not null"`
	CompletedAt    *time.Time
}

// TableName returns the table name for GORM
func (PaymentScheduleModel) TableName() string {
	return "payment_schedules"
}

// ToDomain converts the persistence model to a domain PaymentSchedule entity.
func (m *PaymentScheduleModel) ToDomain() *billing.PaymentSchedule {
	return &billing.PaymentSchedule{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ScheduleNumber:    m.ScheduleNumber,
		EnrollmentID:      m.EnrollmentID,
		AcademicYearID:    m.AcademicYearID,
		TotalAmount:       m.TotalAmount,
		PaidAmount:        m.PaidAmount,
		Status:            m.Status,
		GeneratedAt:       m.GeneratedAt,
		ActivatedAt:       m.ActivatedAt,
		CompletedAt:       m.CompletedAt,
	}
}

// FromDomain populates the persistence model from a domain PaymentSchedule entity.
func (m *PaymentScheduleModel) FromDomain(ps *billing.PaymentSchedule) {
	m.FromDomainAggregateRoot(ps.BaseAggregateRoot)
	m.ScheduleNumber = ps.ScheduleNumber
	m.EnrollmentID = ps.EnrollmentID
	m.AcademicYearID = ps.AcademicYearID
	m.TotalAmount = ps.TotalAmount
	m.PaidAmount = ps.PaidAmount
	m.Status = ps.Status
	m.GeneratedAt = ps.GeneratedAt
	m.ActivatedAt = ps.ActivatedAt
	m.CompletedAt = ps.CompletedAt
}

// PaymentScheduleModelFromDomain creates a new persistence model from a domain PaymentSchedule.
func PaymentScheduleModelFromDomain(ps *billing.PaymentSchedule) *PaymentScheduleModel {
	m := &PaymentScheduleModel{}
	m.FromDomain(ps)
	return m
}

// PaymentObligationModel is the persistence model for PaymentObligation.
type PaymentObligationModel struct {
	BaseModel
	ScheduleID        uuid.UUID                `gorm:"type:uuid;not null;index"`
	FeeDefinitionID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	Description       string                   `gorm:"type:varchar(300);not null"`
	Amount            decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	NetAmount         decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	DueDate           time.Time                `gorm:"not null;index"`
	InstallmentNumber *int
	Status            billing.ObligationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaidAmount        decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	PaymentDate       *time.Time
}

// TableName returns the table name for GORM
func (PaymentObligationModel) TableName() string {
	return "payment_obligations"
}

// ToDomain converts the persistence model to a domain PaymentObligation entity.
func (m *PaymentObligationModel) ToDomain() *billing.PaymentObligation {
	return &billing.PaymentObligation{
		BaseEntity:        m.BaseModel.ToDomain(),
		ScheduleID:        m.ScheduleID,
		FeeDefinitionID:   m.FeeDefinitionID,
		Description:       m.Description,
		Amount:            m.Amount,
		NetAmount:         m.NetAmount,
		DueDate:           m.DueDate,
		InstallmentNumber: m.InstallmentNumber,
		Status:            m.Status,
		PaidAmount:        m.PaidAmount,
		PaymentDate:       m.PaymentDate,
	}
}

// FromDomain populates the persistence model from a domain PaymentObligation entity.
func (m *PaymentObligationModel) FromDomain(po *billing.PaymentObligation) {
	m.FromDomainBaseEntity(po.BaseEntity)
	m.ScheduleID = po.ScheduleID
	m.FeeDefinitionID = po.FeeDefinitionID
	m.Description = po.Description
	m.Amount = po.Amount
	m.NetAmount = po.NetAmount
	m.DueDate = po.DueDate
	m.InstallmentNumber = po.InstallmentNumber
	m.Status = po.Status
	m.PaidAmount = po.PaidAmount
	m.PaymentDate = po.PaymentDate
}

// PaymentObligationModelFromDomain creates a new persistence model from a domain PaymentObligation.
func PaymentObligationModelFromDomain(po *billing.PaymentObligation) *PaymentObligationModel {
	m := &PaymentObligationModel{}
	m.FromDomain(po)
	return m
}

// SettlementTransactionModel is the persistence model for the append-only
// settlement transaction log.
type SettlementTransactionModel struct {
	BaseModel
	ObligationID    uuid.UUID                 `gorm:"type:uuid;not null;index"`
	StudentID       uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	PaymentMethod   billing.PaymentMethod     `gorm:"type:varchar(20);not null"`
	ReferenceNumber string                    `gorm:"type:varchar(100)"`
	Notes           string                    `gorm:"type:text"`
	Status          billing.TransactionStatus `gorm:"type:varchar(20);not null"`
	TransactionDate time.Time                 `gorm:"not null;index"`
	ReceiptNumber   string                    `gorm:"type:varchar(40);not null;index"`
}

// TableName returns the table name for GORM
func (SettlementTransactionModel) TableName() string {
	return "settlement_transactions"
}

// ToDomain converts the persistence model to a domain SettlementTransaction entity.
func (m *SettlementTransactionModel) ToDomain() *billing.SettlementTransaction {
	return &billing.SettlementTransaction{
		BaseEntity:      m.BaseModel.ToDomain(),
		ObligationID:    m.ObligationID,
		StudentID:       m.StudentID,
		Amount:          m.Amount,
		PaymentMethod:   m.PaymentMethod,
		ReferenceNumber: m.ReferenceNumber,
		Notes:           m.Notes,
		Status:          m.Status,
		TransactionDate: m.TransactionDate,
		ReceiptNumber:   m.ReceiptNumber,
	}
}

// FromDomain populates the persistence model from a domain SettlementTransaction entity.
func (m *SettlementTransactionModel) FromDomain(st *billing.SettlementTransaction) {
	m.FromDomainBaseEntity(st.BaseEntity)
	m.ObligationID = st.ObligationID
	m.StudentID = st.StudentID
	m.Amount = st.Amount
	m.PaymentMethod = st.PaymentMethod
	m.ReferenceNumber = st.ReferenceNumber
	m.Notes = st.Notes
	m.Status = st.Status
	m.TransactionDate = st.TransactionDate
	m.ReceiptNumber = st.ReceiptNumber
}

// SettlementTransactionModelFromDomain creates a new persistence model from a domain SettlementTransaction.
func SettlementTransactionModelFromDomain(st *billing.SettlementTransaction) *SettlementTransactionModel {
	m := &SettlementTransactionModel{}
	m.FromDomain(st)
	return m
}
