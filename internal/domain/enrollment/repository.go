package enrollment

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides read access to enrollments and their administration
// sub-records. Enrollments are never written by the billing engine.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Enrollment, error)
}
