package fees

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FeeDefinitionRepository provides read access to authored fee definitions
type FeeDefinitionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FeeDefinition, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]FeeDefinition, error)
}

// FeeAssignmentRepository provides read access to authored fee assignments
type FeeAssignmentRepository interface {
	// FindActiveForClass returns class-bound assignments whose validity
	// window contains the given instant (either bound may be open-ended).
	FindActiveForClass(ctx context.Context, classID uuid.UUID, at time.Time) ([]FeeAssignment, error)
	// FindForTransportStop returns stop-bound assignments with no date
	// filter: transport fees stay active once assigned.
	FindForTransportStop(ctx context.Context, stopID uuid.UUID) ([]FeeAssignment, error)
}
