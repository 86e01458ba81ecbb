package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettlementService settles batches of payment obligations atomically.
// Obligations are always settled for their full net amount; the batch path
// has no partial-payment mechanism.
type SettlementService struct {
	txScope  TransactionScope
	validate *validator.Validate
	logger   *zap.Logger
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(txScope TransactionScope, logger *zap.Logger) *SettlementService {
	return &SettlementService{
		txScope:  txScope,
		validate: validator.New(),
		logger:   logger,
	}
}

// SettleBatchRequest describes one settlement batch
type SettleBatchRequest struct {
	ObligationIDs   []uuid.UUID           `validate:"required,min=1"`
	PaymentMethod   billing.PaymentMethod `validate:"required"`
	ReferenceNumber string
	Notes           string
	PaymentDate     time.Time
}

// SettlementResult is the outcome of a committed settlement batch
type SettlementResult struct {
	Transactions  []*billing.SettlementTransaction `json:"transactions"`
	ReceiptNumber string                           `json:"receipt_number"`
	TotalAmount   decimal.Decimal                  `json:"total_amount"`
}

// SettleBatch settles the given obligations in the order supplied, inside a
// single transaction scope. Per obligation it records one settlement
// transaction (all sharing one batch receipt number) and marks the
// obligation paid; each affected schedule's paid total is accumulated
// locally and written exactly once after the loop, flipping the schedule to
// completed when paid reaches total. Any failure, including a missing
// obligation id, rolls back every write of the batch.
func (s *SettlementService) SettleBatch(ctx context.Context, req SettleBatchRequest) (*SettlementResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if !req.PaymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD",
			fmt.Sprintf("Payment method %q is not valid", req.PaymentMethod))
	}

	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	// One receipt number per batch, shared by every transaction below.
	receiptNumber := billing.ReceiptNumber(paymentDate)

	transactions := make([]*billing.SettlementTransaction, 0, len(req.ObligationIDs))
	total := valueobject.ZeroUGX()

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		schedules := make(map[uuid.UUID]*billing.PaymentSchedule)
		students := make(map[uuid.UUID]uuid.UUID) // schedule id -> student id
		settled := make(map[uuid.UUID]valueobject.Money)
		var scheduleOrder []uuid.UUID

		for _, obligationID := range req.ObligationIDs {
			obligation, err := repos.Obligations().FindByID(ctx, obligationID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return fmt.Errorf("obligation %s: %w", obligationID, err)
				}
				return fmt.Errorf("failed to load obligation %s: %w", obligationID, err)
			}

			schedule, ok := schedules[obligation.ScheduleID]
			if !ok {
				schedule, err = repos.Schedules().FindByID(ctx, obligation.ScheduleID)
				if err != nil {
					return fmt.Errorf("failed to load schedule for obligation %s: %w", obligationID, err)
				}
				enr, err := repos.Enrollments().FindByID(ctx, schedule.EnrollmentID)
				if err != nil {
					return fmt.Errorf("failed to load enrollment for schedule %s: %w", schedule.ID, err)
				}
				schedules[schedule.ID] = schedule
				students[schedule.ID] = enr.StudentID
				settled[schedule.ID] = valueobject.ZeroUGX()
				scheduleOrder = append(scheduleOrder, schedule.ID)
			}

			amount := obligation.GetNetAmountMoney()
			transaction, err := billing.NewSettlementTransaction(
				obligation.ID,
				students[obligation.ScheduleID],
				amount,
				req.PaymentMethod,
				req.ReferenceNumber,
				req.Notes,
				paymentDate,
				receiptNumber,
			)
			if err != nil {
				return err
			}
			if err := repos.Settlements().Create(ctx, transaction); err != nil {
				return fmt.Errorf("failed to record transaction for obligation %s: %w", obligationID, err)
			}

			if err := obligation.MarkPaid(paymentDate); err != nil {
				return err
			}
			if err := repos.Obligations().Save(ctx, obligation); err != nil {
				return fmt.Errorf("failed to update obligation %s: %w", obligationID, err)
			}

			transactions = append(transactions, transaction)
			settled[obligation.ScheduleID] = settled[obligation.ScheduleID].MustAdd(amount)
			total = total.MustAdd(amount)
		}

		// Write each schedule aggregate once: accumulating locally avoids
		// N read-modify-write round trips against stale paid totals when a
		// batch settles several obligations of the same schedule.
		for _, scheduleID := range scheduleOrder {
			schedule := schedules[scheduleID]
			if err := schedule.ApplySettlement(settled[scheduleID], paymentDate); err != nil {
				return err
			}
			if err := repos.Schedules().Save(ctx, schedule); err != nil {
				return fmt.Errorf("failed to update schedule %s: %w", scheduleID, err)
			}
		}

		return nil
	})
	if err != nil {
		// Nothing was committed; the error carries the failing obligation
		// id so the caller can retry the whole batch.
		return nil, err
	}

	s.logger.Info("settlement batch committed",
		zap.String("receipt_number", receiptNumber),
		zap.Int("obligations", len(transactions)),
		zap.String("total_amount", total.Amount().String()),
	)

	return &SettlementResult{
		Transactions:  transactions,
		ReceiptNumber: receiptNumber,
		TotalAmount:   total.Amount(),
	}, nil
}
