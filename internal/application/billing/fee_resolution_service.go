package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/schoolerp/backend/internal/domain/enrollment"
	"github.com/schoolerp/backend/internal/domain/fees"
	"go.uber.org/zap"
)

// FeeResolutionService resolves which fee assignments apply to an
// enrollment on the current date. It is read-only.
type FeeResolutionService struct {
	assignmentRepo fees.FeeAssignmentRepository
	logger         *zap.Logger
}

// NewFeeResolutionService creates a new FeeResolutionService
func NewFeeResolutionService(assignmentRepo fees.FeeAssignmentRepository, logger *zap.Logger) *FeeResolutionService {
	return &FeeResolutionService{
		assignmentRepo: assignmentRepo,
		logger:         logger,
	}
}

// ResolveApplicableFees returns the assignments active for the enrollment
// now: class-bound assignments inside their validity window plus, for
// transport-admitted students with a resolved pickup stop, stop-bound
// assignments with no date filter (transport fees stay active once
// assigned). Results are concatenated without de-duplication: an
// assignment reachable through both paths represents two distinct billable
// obligations. An empty result is not an error; the caller generates a
// zero-obligation schedule.
func (s *FeeResolutionService) ResolveApplicableFees(ctx context.Context, enr *enrollment.Enrollment) ([]fees.FeeAssignment, error) {
	now := time.Now()
	var resolved []fees.FeeAssignment

	if enr.ClassID != nil {
		classAssignments, err := s.assignmentRepo.FindActiveForClass(ctx, *enr.ClassID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve class fees: %w", err)
		}
		resolved = append(resolved, classAssignments...)
	}

	if stopID := enr.PickupStopID(); stopID != nil {
		stopAssignments, err := s.assignmentRepo.FindForTransportStop(ctx, *stopID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve transport fees: %w", err)
		}
		resolved = append(resolved, stopAssignments...)
	}

	s.logger.Debug("resolved applicable fees",
		zap.String("enrollment_id", enr.ID.String()),
		zap.Int("assignments", len(resolved)),
	)

	return resolved, nil
}
