package fees

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
)

// AssignmentTarget identifies what a fee assignment is bound to
type AssignmentTarget string

const (
	TargetClass         AssignmentTarget = "CLASS"
	TargetTransportStop AssignmentTarget = "TRANSPORT_STOP"
)

// IsValid checks if the target is valid
func (t AssignmentTarget) IsValid() bool {
	return t == TargetClass || t == TargetTransportStop
}

// FeeAssignment binds a FeeDefinition to a class or a transport pickup stop,
// optionally limited to a validity window. Many assignments may reference the
// same definition. Authored externally, read-only to the engine.
type FeeAssignment struct {
	shared.BaseEntity
	FeeDefinitionID uuid.UUID        `json:"fee_definition_id"`
	Target          AssignmentTarget `json:"target"`
	ClassID         *uuid.UUID       `json:"class_id,omitempty"`
	TransportStopID *uuid.UUID       `json:"transport_stop_id,omitempty"`
	StartDate       *time.Time       `json:"start_date,omitempty"`
	EndDate         *time.Time       `json:"end_date,omitempty"`
}

// IsActiveAt reports whether the assignment's validity window contains the
// given instant. A nil bound is open-ended: both bounds nil means the
// assignment is always active. Both bounds must hold: an assignment outside
// either bound is not active.
func (fa *FeeAssignment) IsActiveAt(at time.Time) bool {
	if fa.StartDate != nil && fa.StartDate.After(at) {
		return false
	}
	if fa.EndDate != nil && fa.EndDate.Before(at) {
		return false
	}
	return true
}
