package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
)

// FeeDefinitionModel is the persistence model for FeeDefinition.
// The base amount is stored as the raw authored string; parsing and
// validation happen at planning time in the domain.
type FeeDefinitionModel struct {
	BaseModel
	Name               string                  `gorm:"type:varchar(200);not null"`
	BaseAmount         string                  `gorm:"type:varchar(50);not null"`
	Frequency          fees.FeeFrequency       `gorm:"type:varchar(20);not null;index"`
	CustomInstallments fees.CustomInstallments `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (FeeDefinitionModel) TableName() string {
	return "fee_definitions"
}

// ToDomain converts the persistence model to a domain FeeDefinition entity.
func (m *FeeDefinitionModel) ToDomain() *fees.FeeDefinition {
	return &fees.FeeDefinition{
		BaseEntity:         m.BaseModel.ToDomain(),
		Name:               m.Name,
		BaseAmount:         m.BaseAmount,
		Frequency:          m.Frequency,
		CustomInstallments: m.CustomInstallments,
	}
}

// FromDomain populates the persistence model from a domain FeeDefinition entity.
func (m *FeeDefinitionModel) FromDomain(fd *fees.FeeDefinition) {
	m.FromDomainBaseEntity(fd.BaseEntity)
	m.Name = fd.Name
	m.BaseAmount = fd.BaseAmount
	m.Frequency = fd.Frequency
	m.CustomInstallments = fd.CustomInstallments
}

// FeeDefinitionModelFromDomain creates a new persistence model from a domain FeeDefinition.
func FeeDefinitionModelFromDomain(fd *fees.FeeDefinition) *FeeDefinitionModel {
	m := &FeeDefinitionModel{}
	m.FromDomain(fd)
	return m
}

// FeeAssignmentModel is the persistence model for FeeAssignment.
type FeeAssignmentModel struct {
	BaseModel
	FeeDefinitionID uuid.UUID             `gorm:"type:uuid;not null;index"`
	Target          fees.AssignmentTarget `gorm:"type:varchar(20);not null;index"`
	ClassID         *uuid.UUID            `gorm:"type:uuid;index"`
	TransportStopID *uuid.UUID            `gorm:"type:uuid;index"`
	StartDate       *time.Time            `gorm:"index"`
	EndDate         *time.Time            `gorm:"index"`
}

// TableName returns the table name for GORM
func (FeeAssignmentModel) TableName() string {
	return "fee_assignments"
}

// ToDomain converts the persistence model to a domain FeeAssignment entity.
func (m *FeeAssignmentModel) ToDomain() *fees.FeeAssignment {
	return &fees.FeeAssignment{
		BaseEntity:      m.BaseModel.ToDomain(),
		FeeDefinitionID: m.FeeDefinitionID,
		Target:          m.Target,
		ClassID:         m.ClassID,
		TransportStopID: m.TransportStopID,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
	}
}

// FromDomain populates the persistence model from a domain FeeAssignment entity.
func (m *FeeAssignmentModel) FromDomain(fa *fees.FeeAssignment) {
	m.FromDomainBaseEntity(fa.BaseEntity)
	m.FeeDefinitionID = fa.FeeDefinitionID
	m.Target = fa.Target
	m.ClassID = fa.ClassID
	m.TransportStopID = fa.TransportStopID
	m.StartDate = fa.StartDate
	m.EndDate = fa.EndDate
}

// FeeAssignmentModelFromDomain creates a new persistence model from a domain FeeAssignment.
func FeeAssignmentModelFromDomain(fa *fees.FeeAssignment) *FeeAssignmentModel {
	m := &FeeAssignmentModel{}
	m.FromDomain(fa)
	return m
}
