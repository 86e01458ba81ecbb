package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSchedule(t *testing.T, total int64) *PaymentSchedule {
	t.Helper()
	ps, err := NewPaymentSchedule(uuid.New(), uuid.New(), time.Now())
	require.NoError(t, err)
	err = ps.FinalizeTotal(valueobject.NewMoneyUGX(decimal.NewFromInt(total)))
	require.NoError(t, err)
	return ps
}

func TestNewPaymentSchedule(t *testing.T) {
	t.Run("starts active with zero totals", func(t *testing.T) {
		at := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
		ps, err := NewPaymentSchedule(uuid.New(), uuid.New(), at)
		require.NoError(t, err)

		assert.Equal(t, ScheduleStatusActive, ps.Status)
		assert.True(t, ps.TotalAmount.IsZero())
		assert.True(t, ps.PaidAmount.IsZero())
		assert.Equal(t, at, ps.GeneratedAt)
		assert.Equal(t, at, ps.ActivatedAt)
		assert.NotEmpty(t, ps.ScheduleNumber)
	})

	t.Run("rejects empty enrollment", func(t *testing.T) {
		_, err := NewPaymentSchedule(uuid.Nil, uuid.New(), time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects empty academic year", func(t *testing.T) {
		_, err := NewPaymentSchedule(uuid.New(), uuid.Nil, time.Now())
		assert.Error(t, err)
	})
}

func TestPaymentSchedule_FinalizeTotal(t *testing.T) {
	t.Run("sets the billed total", func(t *testing.T) {
		ps, err := NewPaymentSchedule(uuid.New(), uuid.New(), time.Now())
		require.NoError(t, err)

		err = ps.FinalizeTotal(valueobject.NewMoneyUGX(decimal.NewFromInt(900)))
		require.NoError(t, err)
		assert.Equal(t, "900", ps.TotalAmount.String())
	})

	t.Run("rejects negative totals", func(t *testing.T) {
		ps, err := NewPaymentSchedule(uuid.New(), uuid.New(), time.Now())
		require.NoError(t, err)
		err = ps.FinalizeTotal(valueobject.NewMoneyUGX(decimal.NewFromInt(-1)))
		assert.Error(t, err)
	})

	t.Run("rejects finalize after a settlement", func(t *testing.T) {
		ps := createTestSchedule(t, 900)
		require.NoError(t, ps.ApplySettlement(valueobject.NewMoneyUGX(decimal.NewFromInt(100)), time.Now()))
		err := ps.FinalizeTotal(valueobject.NewMoneyUGX(decimal.NewFromInt(1000)))
		assert.Error(t, err)
	})
}

func TestPaymentSchedule_ApplySettlement(t *testing.T) {
	t.Run("stays active below the total", func(t *testing.T) {
		ps := createTestSchedule(t, 900)

		err := ps.ApplySettlement(valueobject.NewMoneyUGX(decimal.NewFromInt(899)), time.Now())
		require.NoError(t, err)

		assert.Equal(t, ScheduleStatusActive, ps.Status)
		assert.Equal(t, "899", ps.PaidAmount.String())
		assert.Nil(t, ps.CompletedAt)
	})

	t.Run("completes exactly when paid reaches total", func(t *testing.T) {
		ps := createTestSchedule(t, 900)
		at := time.Now()

		require.NoError(t, ps.ApplySettlement(valueobject.NewMoneyUGX(decimal.NewFromInt(899)), at))
		assert.True(t, ps.IsActive())

		require.NoError(t, ps.ApplySettlement(valueobject.NewMoneyUGX(decimal.NewFromInt(1)), at))
		assert.True(t, ps.IsCompleted())
		require.NotNil(t, ps.CompletedAt)
		assert.True(t, ps.OutstandingAmount().IsZero())
	})

	t.Run("completes when paid exceeds total", func(t *testing.T) {
		ps := createTestSchedule(t, 900)
		err := ps.ApplySettlement(valueobject.NewMoneyUGX(decimal.NewFromInt(901)), time.Now())
		require.NoError(t, err)
		assert.True(t, ps.IsCompleted())
	})

	t.Run("rejects settlement on a completed schedule", func(t *testing.T) {
		ps := createTestSchedule(t, 100)
		require.NoError(t, ps.ApplySettlement(valueobject.NewMoneyUGX(decimal.NewFromInt(100)), time.Now()))

		err := ps.ApplySettlement(valueobject.NewMoneyUGX(decimal.NewFromInt(1)), time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		ps := createTestSchedule(t, 100)
		err := ps.ApplySettlement(valueobject.NewMoneyUGX(decimal.NewFromInt(-5)), time.Now())
		assert.Error(t, err)
	})
}

func TestScheduleNumber(t *testing.T) {
	yearID := uuid.New()
	enrollmentID := uuid.New()
	at := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	n := ScheduleNumber(yearID, enrollmentID, at)
	assert.Contains(t, n, "PS-")
	assert.Equal(t, n, ScheduleNumber(yearID, enrollmentID, at), "derivation is deterministic")

	other := ScheduleNumber(yearID, uuid.New(), at)
	assert.NotEqual(t, n, other)
}

func TestReceiptNumber(t *testing.T) {
	at := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	a := ReceiptNumber(at)
	b := ReceiptNumber(at)
	assert.Contains(t, a, "RCT-20260301-")
	assert.NotEqual(t, a, b, "receipt numbers differ across batches")
}
