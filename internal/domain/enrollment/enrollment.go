package enrollment

import (
	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
)

// AdmissionType classifies how a student was admitted
type AdmissionType string

const (
	AdmissionDay       AdmissionType = "Day"
	AdmissionBoarding  AdmissionType = "Boarding"
	AdmissionTransport AdmissionType = "Transport"
)

// IsValid checks if the admission type is valid
func (a AdmissionType) IsValid() bool {
	switch a {
	case AdmissionDay, AdmissionBoarding, AdmissionTransport:
		return true
	}
	return false
}

// PaymentPreference is the guardian's chosen payment mode for the enrollment
type PaymentPreference string

const (
	PreferenceFull         PaymentPreference = "full"
	PreferenceInstallments PaymentPreference = "installments"
)

// IsValid checks if the payment preference is valid
func (p PaymentPreference) IsValid() bool {
	return p == PreferenceFull || p == PreferenceInstallments
}

// Administration is the enrollment's administration sub-record. It carries
// the resolved pickup stop when the student is transport-admitted.
type Administration struct {
	PickupStopID *uuid.UUID `json:"pickup_stop_id,omitempty"`
}

// Enrollment is a student's enrollment for an academic year. It is created
// and owned by the administration app; the billing engine only reads it.
type Enrollment struct {
	shared.BaseEntity
	StudentID         uuid.UUID         `json:"student_id"`
	ClassID           *uuid.UUID        `json:"class_id,omitempty"`
	AcademicYearID    uuid.UUID         `json:"academic_year_id"`
	AdmissionType     AdmissionType     `json:"admission_type"`
	PaymentPreference PaymentPreference `json:"payment_preference"`
	Administration    *Administration   `json:"administration,omitempty"`
}

// PickupStopID returns the resolved pickup stop for transport-admitted
// students, or nil when the enrollment has none.
func (e *Enrollment) PickupStopID() *uuid.UUID {
	if e.AdmissionType != AdmissionTransport || e.Administration == nil {
		return nil
	}
	return e.Administration.PickupStopID
}
