package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/enrollment"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/stretchr/testify/mock"
)

// Mock implementations shared by the service tests

type mockFeeAssignmentRepository struct {
	mock.Mock
}

func (m *mockFeeAssignmentRepository) FindActiveForClass(ctx context.Context, classID uuid.UUID, at time.Time) ([]fees.FeeAssignment, error) {
	args := m.Called(ctx, classID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fees.FeeAssignment), args.Error(1)
}

func (m *mockFeeAssignmentRepository) FindForTransportStop(ctx context.Context, stopID uuid.UUID) ([]fees.FeeAssignment, error) {
	args := m.Called(ctx, stopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fees.FeeAssignment), args.Error(1)
}

type mockFeeDefinitionRepository struct {
	mock.Mock
}

func (m *mockFeeDefinitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*fees.FeeDefinition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fees.FeeDefinition), args.Error(1)
}

func (m *mockFeeDefinitionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]fees.FeeDefinition, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fees.FeeDefinition), args.Error(1)
}

type mockEnrollmentRepository struct {
	mock.Mock
}

func (m *mockEnrollmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*enrollment.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.Enrollment), args.Error(1)
}

type mockScheduleRepository struct {
	mock.Mock
}

func (m *mockScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PaymentSchedule), args.Error(1)
}

func (m *mockScheduleRepository) FindByEnrollmentID(ctx context.Context, enrollmentID uuid.UUID) (*billing.PaymentSchedule, error) {
	args := m.Called(ctx, enrollmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PaymentSchedule), args.Error(1)
}

func (m *mockScheduleRepository) Create(ctx context.Context, schedule *billing.PaymentSchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *mockScheduleRepository) Save(ctx context.Context, schedule *billing.PaymentSchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

type mockObligationRepository struct {
	mock.Mock
}

func (m *mockObligationRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentObligation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PaymentObligation), args.Error(1)
}

func (m *mockObligationRepository) FindByScheduleID(ctx context.Context, scheduleID uuid.UUID) ([]billing.PaymentObligation, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.PaymentObligation), args.Error(1)
}

func (m *mockObligationRepository) FindOutstandingByStudent(ctx context.Context, studentID uuid.UUID) ([]billing.PaymentObligation, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.PaymentObligation), args.Error(1)
}

func (m *mockObligationRepository) CreateBatch(ctx context.Context, obligations []*billing.PaymentObligation) error {
	args := m.Called(ctx, obligations)
	return args.Error(0)
}

func (m *mockObligationRepository) Save(ctx context.Context, obligation *billing.PaymentObligation) error {
	args := m.Called(ctx, obligation)
	return args.Error(0)
}

type mockSettlementRepository struct {
	mock.Mock
}

func (m *mockSettlementRepository) Create(ctx context.Context, transaction *billing.SettlementTransaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *mockSettlementRepository) FindByReceiptNumber(ctx context.Context, receiptNumber string) ([]billing.SettlementTransaction, error) {
	args := m.Called(ctx, receiptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.SettlementTransaction), args.Error(1)
}

func (m *mockSettlementRepository) FindByObligationID(ctx context.Context, obligationID uuid.UUID) ([]billing.SettlementTransaction, error) {
	args := m.Called(ctx, obligationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.SettlementTransaction), args.Error(1)
}

// fakeTxScope runs the unit of work against the supplied repositories
// without a real transaction. Rollback semantics are asserted through the
// mocks: on error no further writes may have been issued.
type fakeTxScope struct {
	repos TransactionalRepositories
}

func (f *fakeTxScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(f.repos)
}

type fakeRepos struct {
	schedules   billing.PaymentScheduleRepository
	obligations billing.PaymentObligationRepository
	settlements billing.SettlementTransactionRepository
	enrollments enrollment.Repository
}

func (r *fakeRepos) Schedules() billing.PaymentScheduleRepository {
	return r.schedules
}

func (r *fakeRepos) Obligations() billing.PaymentObligationRepository {
	return r.obligations
}

func (r *fakeRepos) Settlements() billing.SettlementTransactionRepository {
	return r.settlements
}

func (r *fakeRepos) Enrollments() enrollment.Repository {
	return r.enrollments
}
