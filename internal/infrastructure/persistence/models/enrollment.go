package models

import (
	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/enrollment"
)

// EnrollmentModel is the persistence model for Enrollment. The
// administration sub-record is flattened to its pickup stop column.
type EnrollmentModel struct {
	BaseModel
	StudentID         uuid.UUID                    `gorm:"type:uuid;not null;index"`
	ClassID           *uuid.UUID                   `gorm:"type:uuid;index"`
	AcademicYearID    uuid.UUID                    `gorm:"type:uuid;not null;index"`
	AdmissionType     enrollment.AdmissionType     `gorm:"type:varchar(20);not null"`
	PaymentPreference enrollment.PaymentPreference `gorm:"type:varchar(20);not null"`
	PickupStopID      *uuid.UUID                   `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (EnrollmentModel) TableName() string {
	return "enrollments"
}

// ToDomain converts the persistence model to a domain Enrollment entity.
func (m *EnrollmentModel) ToDomain() *enrollment.Enrollment {
	e := &enrollment.Enrollment{
		BaseEntity:        m.BaseModel.ToDomain(),
		StudentID:         m.StudentID,
		ClassID:           m.ClassID,
		AcademicYearID:    m.AcademicYearID,
		AdmissionType:     m.AdmissionType,
		PaymentPreference: m.PaymentPreference,
	}
	if m.PickupStopID != nil {
		e.Administration = &enrollment.Administration{PickupStopID: m.PickupStopID}
	}
	return e
}

// FromDomain populates the persistence model from a domain Enrollment entity.
func (m *EnrollmentModel) FromDomain(e *enrollment.Enrollment) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.StudentID = e.StudentID
	m.ClassID = e.ClassID
	m.AcademicYearID = e.AcademicYearID
	m.AdmissionType = e.AdmissionType
	m.PaymentPreference = e.PaymentPreference
	if e.Administration != nil {
		m.PickupStopID = e.Administration.PickupStopID
	} else {
		m.PickupStopID = nil
	}
}

// EnrollmentModelFromDomain creates a new persistence model from a domain Enrollment.
func EnrollmentModelFromDomain(e *enrollment.Enrollment) *EnrollmentModel {
	m := &EnrollmentModel{}
	m.FromDomain(e)
	return m
}
