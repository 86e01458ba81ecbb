package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	appbilling "github.com/schoolerp/backend/internal/application/billing"
	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope_CommitsOnSuccess(t *testing.T) {
	db := setupBillingTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	schedule := newTestSchedule(t)
	obligation := newTestObligation(t, schedule.ID, 500, time.Now().AddDate(0, 0, 15), 1)

	err := scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
		if err := repos.Schedules().Create(ctx, schedule); err != nil {
			return err
		}
		return repos.Obligations().CreateBatch(ctx, []*billing.PaymentObligation{obligation})
	})
	require.NoError(t, err)

	found, err := NewGormPaymentScheduleRepository(db).FindByID(ctx, schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.ScheduleNumber, found.ScheduleNumber)

	obligations, err := NewGormPaymentObligationRepository(db).FindByScheduleID(ctx, schedule.ID)
	require.NoError(t, err)
	assert.Len(t, obligations, 1)
}

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	db := setupBillingTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	schedule := newTestSchedule(t)
	boom := errors.New("obligation generation failed")

	err := scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
		if err := repos.Schedules().Create(ctx, schedule); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// The schedule written before the failure must not survive.
	_, err = NewGormPaymentScheduleRepository(db).FindByID(ctx, schedule.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTransactionScope_SettlementsAndEnrollmentsScoped(t *testing.T) {
	db := setupBillingTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	schedule := newTestSchedule(t)
	obligation := newTestObligation(t, schedule.ID, 500, time.Now().AddDate(0, 0, 15), 1)

	transaction, err := billing.NewSettlementTransaction(
		obligation.ID,
		uuid.New(),
		valueobject.NewMoneyUGX(decimal.NewFromInt(500)),
		billing.PaymentMethodCash,
		"",
		"",
		time.Now(),
		"RCT-20260415-A1B2C3D4",
	)
	require.NoError(t, err)

	err = scope.Execute(ctx, func(repos appbilling.TransactionalRepositories) error {
		if err := repos.Schedules().Create(ctx, schedule); err != nil {
			return err
		}
		if err := repos.Obligations().CreateBatch(ctx, []*billing.PaymentObligation{obligation}); err != nil {
			return err
		}
		if err := repos.Settlements().Create(ctx, transaction); err != nil {
			return err
		}
		_, err := repos.Enrollments().FindByID(ctx, uuid.New())
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		return nil
	})
	require.NoError(t, err)

	settlements, err := NewGormSettlementTransactionRepository(db).FindByReceiptNumber(ctx, transaction.ReceiptNumber)
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	assert.Equal(t, obligation.ID, settlements[0].ObligationID)
}
