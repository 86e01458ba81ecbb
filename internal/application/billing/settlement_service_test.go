package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type settlementServiceFixture struct {
	enrollmentRepo *mockEnrollmentRepository
	scheduleRepo   *mockScheduleRepository
	obligationRepo *mockObligationRepository
	settlementRepo *mockSettlementRepository
	service        *SettlementService
}

func newSettlementServiceFixture() *settlementServiceFixture {
	f := &settlementServiceFixture{
		enrollmentRepo: new(mockEnrollmentRepository),
		scheduleRepo:   new(mockScheduleRepository),
		obligationRepo: new(mockObligationRepository),
		settlementRepo: new(mockSettlementRepository),
	}
	txScope := &fakeTxScope{repos: &fakeRepos{
		schedules:   f.scheduleRepo,
		obligations: f.obligationRepo,
		settlements: f.settlementRepo,
		enrollments: f.enrollmentRepo,
	}}
	f.service = NewSettlementService(txScope, zap.NewNop())
	return f
}

// stage wires a finalized schedule with pending obligations into the
// fixture's read-side mocks.
func (f *settlementServiceFixture) stage(t *testing.T, total int64, amounts ...int64) (*billing.PaymentSchedule, []*billing.PaymentObligation) {
	t.Helper()

	enr := dayEnrollment(uuid.New())
	schedule, err := billing.NewPaymentSchedule(enr.ID, enr.AcademicYearID, time.Now())
	require.NoError(t, err)
	require.NoError(t, schedule.FinalizeTotal(valueobject.NewMoneyUGX(decimal.NewFromInt(total))))

	obligations := make([]*billing.PaymentObligation, 0, len(amounts))
	for i, amount := range amounts {
		installment := i + 1
		draft := billing.ObligationDraft{
			FeeDefinitionID:   uuid.New(),
			Description:       "Tuition",
			Amount:            valueobject.NewMoneyUGX(decimal.NewFromInt(amount)),
			NetAmount:         valueobject.NewMoneyUGX(decimal.NewFromInt(amount)),
			DueDate:           time.Now(),
			InstallmentNumber: &installment,
		}
		obligation, err := billing.NewPaymentObligation(schedule.ID, draft)
		require.NoError(t, err)
		obligations = append(obligations, obligation)
		f.obligationRepo.On("FindByID", mock.Anything, obligation.ID).Return(obligation, nil)
	}

	f.scheduleRepo.On("FindByID", mock.Anything, schedule.ID).Return(schedule, nil)
	f.enrollmentRepo.On("FindByID", mock.Anything, enr.ID).Return(enr, nil)

	return schedule, obligations
}

func TestSettlementService_SettleBatch_SingleSchedule(t *testing.T) {
	f := newSettlementServiceFixture()
	schedule, obligations := f.stage(t, 900, 300, 300)

	f.settlementRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.SettlementTransaction")).Return(nil)
	f.obligationRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.PaymentObligation")).Return(nil)
	f.scheduleRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.PaymentSchedule")).Return(nil)

	result, err := f.service.SettleBatch(context.Background(), SettleBatchRequest{
		ObligationIDs: []uuid.UUID{obligations[0].ID, obligations[1].ID},
		PaymentMethod: billing.PaymentMethodCash,
	})

	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.True(t, result.TotalAmount.Equal(decimal.NewFromInt(600)))

	// Every transaction in the batch shares one receipt number.
	assert.NotEmpty(t, result.ReceiptNumber)
	for _, tx := range result.Transactions {
		assert.Equal(t, result.ReceiptNumber, tx.ReceiptNumber)
	}

	assert.True(t, obligations[0].IsPaid())
	assert.True(t, obligations[1].IsPaid())

	// 600 of 900 paid: still active, one schedule write for the whole batch.
	assert.True(t, schedule.PaidAmount.Equal(decimal.NewFromInt(600)))
	assert.True(t, schedule.IsActive())
	f.scheduleRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestSettlementService_SettleBatch_CompletesSchedule(t *testing.T) {
	f := newSettlementServiceFixture()
	schedule, obligations := f.stage(t, 900, 450, 450)

	f.settlementRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.SettlementTransaction")).Return(nil)
	f.obligationRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.PaymentObligation")).Return(nil)
	f.scheduleRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.PaymentSchedule")).Return(nil)

	_, err := f.service.SettleBatch(context.Background(), SettleBatchRequest{
		ObligationIDs: []uuid.UUID{obligations[0].ID, obligations[1].ID},
		PaymentMethod: billing.PaymentMethodMobileMoney,
	})

	require.NoError(t, err)
	assert.True(t, schedule.IsCompleted())
	require.NotNil(t, schedule.CompletedAt)
	assert.True(t, schedule.PaidAmount.Equal(schedule.TotalAmount))
}

func TestSettlementService_SettleBatch_OneShortStaysActive(t *testing.T) {
	f := newSettlementServiceFixture()
	schedule, obligations := f.stage(t, 900, 899)

	f.settlementRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.SettlementTransaction")).Return(nil)
	f.obligationRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.PaymentObligation")).Return(nil)
	f.scheduleRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.PaymentSchedule")).Return(nil)

	_, err := f.service.SettleBatch(context.Background(), SettleBatchRequest{
		ObligationIDs: []uuid.UUID{obligations[0].ID},
		PaymentMethod: billing.PaymentMethodCash,
	})

	require.NoError(t, err)
	assert.True(t, schedule.IsActive())
	assert.Nil(t, schedule.CompletedAt)
	assert.True(t, schedule.OutstandingAmount().Equal(decimal.NewFromInt(1)))
}

func TestSettlementService_SettleBatch_MissingObligationAbortsBatch(t *testing.T) {
	f := newSettlementServiceFixture()
	_, obligations := f.stage(t, 900, 450)

	missingID := uuid.New()
	f.obligationRepo.On("FindByID", mock.Anything, missingID).Return(nil, shared.ErrNotFound)
	f.settlementRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.SettlementTransaction")).Return(nil)
	f.obligationRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.PaymentObligation")).Return(nil)

	result, err := f.service.SettleBatch(context.Background(), SettleBatchRequest{
		ObligationIDs: []uuid.UUID{obligations[0].ID, missingID},
		PaymentMethod: billing.PaymentMethodCash,
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Contains(t, err.Error(), missingID.String())

	// The schedule aggregate is only written after the whole batch loads.
	f.scheduleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSettlementService_SettleBatch_AlreadyPaidRejected(t *testing.T) {
	f := newSettlementServiceFixture()
	_, obligations := f.stage(t, 900, 450)
	require.NoError(t, obligations[0].MarkPaid(time.Now()))

	f.settlementRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.SettlementTransaction")).Return(nil)

	result, err := f.service.SettleBatch(context.Background(), SettleBatchRequest{
		ObligationIDs: []uuid.UUID{obligations[0].ID},
		PaymentMethod: billing.PaymentMethodCash,
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	f.scheduleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSettlementService_SettleBatch_InvalidPaymentMethod(t *testing.T) {
	f := newSettlementServiceFixture()

	result, err := f.service.SettleBatch(context.Background(), SettleBatchRequest{
		ObligationIDs: []uuid.UUID{uuid.New()},
		PaymentMethod: billing.PaymentMethod("BARTER"),
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PAYMENT_METHOD", domainErr.Code)
	f.obligationRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestSettlementService_SettleBatch_EmptyBatchRejected(t *testing.T) {
	f := newSettlementServiceFixture()

	result, err := f.service.SettleBatch(context.Background(), SettleBatchRequest{
		PaymentMethod: billing.PaymentMethodCash,
	})

	require.Error(t, err)
	assert.Nil(t, result)
	f.obligationRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestSettlementService_SettleBatch_TwoSchedules(t *testing.T) {
	f := newSettlementServiceFixture()
	scheduleA, obligationsA := f.stage(t, 500, 500)
	scheduleB, obligationsB := f.stage(t, 800, 200)

	f.settlementRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.SettlementTransaction")).Return(nil)
	f.obligationRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.PaymentObligation")).Return(nil)
	f.scheduleRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.PaymentSchedule")).Return(nil)

	result, err := f.service.SettleBatch(context.Background(), SettleBatchRequest{
		ObligationIDs: []uuid.UUID{obligationsA[0].ID, obligationsB[0].ID},
		PaymentMethod: billing.PaymentMethodBankTransfer,
	})

	require.NoError(t, err)
	assert.True(t, result.TotalAmount.Equal(decimal.NewFromInt(700)))
	assert.True(t, scheduleA.IsCompleted())
	assert.True(t, scheduleB.IsActive())
	assert.True(t, scheduleB.PaidAmount.Equal(decimal.NewFromInt(200)))
	f.scheduleRepo.AssertNumberOfCalls(t, "Save", 2)
}

func TestSettlementService_SettleBatch_DistinctReceiptsAcrossBatches(t *testing.T) {
	f := newSettlementServiceFixture()
	_, obligationsA := f.stage(t, 600, 300)
	_, obligationsB := f.stage(t, 600, 300)

	f.settlementRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.SettlementTransaction")).Return(nil)
	f.obligationRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.PaymentObligation")).Return(nil)
	f.scheduleRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.PaymentSchedule")).Return(nil)

	first, err := f.service.SettleBatch(context.Background(), SettleBatchRequest{
		ObligationIDs: []uuid.UUID{obligationsA[0].ID},
		PaymentMethod: billing.PaymentMethodCash,
	})
	require.NoError(t, err)

	second, err := f.service.SettleBatch(context.Background(), SettleBatchRequest{
		ObligationIDs: []uuid.UUID{obligationsB[0].ID},
		PaymentMethod: billing.PaymentMethodCash,
	})
	require.NoError(t, err)

	// Sharing holds within a batch, never across batches.
	assert.NotEqual(t, first.ReceiptNumber, second.ReceiptNumber)
}

func TestSettlementService_SettleBatch_ExplicitPaymentDate(t *testing.T) {
	f := newSettlementServiceFixture()
	_, obligations := f.stage(t, 500, 500)

	f.settlementRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.SettlementTransaction")).Return(nil)
	f.obligationRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.PaymentObligation")).Return(nil)
	f.scheduleRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.PaymentSchedule")).Return(nil)

	paidOn := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	result, err := f.service.SettleBatch(context.Background(), SettleBatchRequest{
		ObligationIDs: []uuid.UUID{obligations[0].ID},
		PaymentMethod: billing.PaymentMethodCheque,
		PaymentDate:   paidOn,
	})

	require.NoError(t, err)
	assert.Equal(t, paidOn, result.Transactions[0].TransactionDate)
	require.NotNil(t, obligations[0].PaymentDate)
	assert.Equal(t, paidOn, *obligations[0].PaymentDate)
	assert.Contains(t, result.ReceiptNumber, "RCT-20260302")
}
