package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/enrollment"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ScheduleService creates and reads per-enrollment payment schedules.
// Creation is idempotent: the same enrollment always ends up with exactly
// one schedule and one set of obligations, even under concurrent calls.
type ScheduleService struct {
	enrollmentRepo enrollment.Repository
	definitionRepo fees.FeeDefinitionRepository
	scheduleRepo   billing.PaymentScheduleRepository
	obligationRepo billing.PaymentObligationRepository
	resolution     *FeeResolutionService
	planner        *billing.InstallmentPlanner
	txScope        TransactionScope
	validate       *validator.Validate
	logger         *zap.Logger
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(
	enrollmentRepo enrollment.Repository,
	definitionRepo fees.FeeDefinitionRepository,
	scheduleRepo billing.PaymentScheduleRepository,
	obligationRepo billing.PaymentObligationRepository,
	resolution *FeeResolutionService,
	txScope TransactionScope,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		enrollmentRepo: enrollmentRepo,
		definitionRepo: definitionRepo,
		scheduleRepo:   scheduleRepo,
		obligationRepo: obligationRepo,
		resolution:     resolution,
		planner:        billing.NewInstallmentPlanner(),
		txScope:        txScope,
		validate:       validator.New(),
		logger:         logger,
	}
}

// CreateScheduleRequest identifies the enrollment to bill
type CreateScheduleRequest struct {
	EnrollmentID uuid.UUID `validate:"required"`
}

// CreateSchedule resolves the enrollment's fees, generates its obligations
// and persists the schedule. Calling it again for the same enrollment
// returns the existing schedule unchanged. Schedule, obligations and the
// finalized total are written inside one transaction scope so a failure
// never leaves a partially initialized schedule behind.
func (s *ScheduleService) CreateSchedule(ctx context.Context, req CreateScheduleRequest) (*billing.PaymentSchedule, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	// Fast idempotency probe. The unique index on enrollment_id closes the
	// window between this check and the insert below.
	if existing, err := s.scheduleRepo.FindByEnrollmentID(ctx, req.EnrollmentID); err == nil {
		s.logger.Info("schedule already exists for enrollment",
			zap.String("enrollment_id", req.EnrollmentID.String()),
			zap.String("schedule_number", existing.ScheduleNumber),
		)
		return existing, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing schedule: %w", err)
	}

	enr, err := s.enrollmentRepo.FindByID(ctx, req.EnrollmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollment %s: %w", req.EnrollmentID, err)
	}

	assignments, err := s.resolution.ResolveApplicableFees(ctx, enr)
	if err != nil {
		return nil, err
	}

	definitions, err := s.loadDefinitions(ctx, assignments)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	drafts, total, err := s.planner.Plan(definitions, enr.PaymentPreference, now)
	if err != nil {
		return nil, err
	}
	s.warnUnplannedFees(definitions, drafts)

	schedule, err := billing.NewPaymentSchedule(enr.ID, enr.AcademicYearID, now)
	if err != nil {
		return nil, err
	}

	var existing *billing.PaymentSchedule
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Schedules().Create(ctx, schedule); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				// A concurrent caller won the race; their schedule is the
				// schedule.
				won, findErr := repos.Schedules().FindByEnrollmentID(ctx, enr.ID)
				if findErr != nil {
					return findErr
				}
				existing = won
				return nil
			}
			return err
		}

		obligations := make([]*billing.PaymentObligation, 0, len(drafts))
		for _, draft := range drafts {
			obligation, err := billing.NewPaymentObligation(schedule.ID, draft)
			if err != nil {
				return err
			}
			obligations = append(obligations, obligation)
		}
		if len(obligations) > 0 {
			if err := repos.Obligations().CreateBatch(ctx, obligations); err != nil {
				return err
			}
		}

		if err := schedule.FinalizeTotal(total); err != nil {
			return err
		}
		return repos.Schedules().Save(ctx, schedule)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule for enrollment %s: %w", enr.ID, err)
	}
	if existing != nil {
		return existing, nil
	}

	s.logger.Info("payment schedule created",
		zap.String("enrollment_id", enr.ID.String()),
		zap.String("schedule_number", schedule.ScheduleNumber),
		zap.Int("obligations", len(drafts)),
		zap.String("total_amount", schedule.TotalAmount.String()),
	)

	return schedule, nil
}

// ScheduleDetails bundles a schedule with its obligations
type ScheduleDetails struct {
	Schedule    *billing.PaymentSchedule    `json:"schedule"`
	Obligations []billing.PaymentObligation `json:"obligations"`
}

// GetScheduleForEnrollment returns the enrollment's schedule with its
// obligations, or shared.ErrNotFound when none exists yet
func (s *ScheduleService) GetScheduleForEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*ScheduleDetails, error) {
	schedule, err := s.scheduleRepo.FindByEnrollmentID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	obligations, err := s.obligationRepo.FindByScheduleID(ctx, schedule.ID)
	if err != nil {
		return nil, err
	}
	return &ScheduleDetails{Schedule: schedule, Obligations: obligations}, nil
}

// warnUnplannedFees flags definitions the planner produced no drafts for,
// such as an unknown frequency under the installments preference. The fee
// contributes nothing; the schedule itself still generates.
func (s *ScheduleService) warnUnplannedFees(definitions []fees.FeeDefinition, drafts []billing.ObligationDraft) {
	planned := make(map[uuid.UUID]struct{}, len(drafts))
	for _, draft := range drafts {
		planned[draft.FeeDefinitionID] = struct{}{}
	}
	for i := range definitions {
		if _, ok := planned[definitions[i].ID]; ok {
			continue
		}
		planned[definitions[i].ID] = struct{}{}
		s.logger.Warn("fee produced no obligations",
			zap.String("fee_definition_id", definitions[i].ID.String()),
			zap.String("fee_name", definitions[i].Name),
			zap.String("frequency", definitions[i].Frequency.String()),
		)
	}
}

// loadDefinitions maps each assignment to its fee definition, preserving
// order and duplicates: two assignments referencing the same definition are
// two distinct billable fees. Assignments whose definition cannot be
// resolved are skipped.
func (s *ScheduleService) loadDefinitions(ctx context.Context, assignments []fees.FeeAssignment) ([]fees.FeeDefinition, error) {
	if len(assignments) == 0 {
		return nil, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(assignments))
	ids := make([]uuid.UUID, 0, len(assignments))
	for _, fa := range assignments {
		if _, ok := seen[fa.FeeDefinitionID]; !ok {
			seen[fa.FeeDefinitionID] = struct{}{}
			ids = append(ids, fa.FeeDefinitionID)
		}
	}

	found, err := s.definitionRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load fee definitions: %w", err)
	}
	byID := make(map[uuid.UUID]fees.FeeDefinition, len(found))
	for _, fd := range found {
		byID[fd.ID] = fd
	}

	definitions := make([]fees.FeeDefinition, 0, len(assignments))
	for _, fa := range assignments {
		fd, ok := byID[fa.FeeDefinitionID]
		if !ok {
			s.logger.Warn("skipping assignment with unresolved fee definition",
				zap.String("assignment_id", fa.ID.String()),
				zap.String("fee_definition_id", fa.FeeDefinitionID.String()),
			)
			continue
		}
		definitions = append(definitions, fd)
	}
	return definitions, nil
}
