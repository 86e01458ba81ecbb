package shared

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the base contract for aggregate repositories: lookup by id
// and full-row save. Concrete repository interfaces embed it and add their
// aggregate-specific queries.
type Repository[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	Save(ctx context.Context, entity *T) error
}
