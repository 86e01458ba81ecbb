package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentObligationRepository implements PaymentObligationRepository using GORM
type GormPaymentObligationRepository struct {
	db *gorm.DB
}

// NewGormPaymentObligationRepository creates a new GormPaymentObligationRepository
func NewGormPaymentObligationRepository(db *gorm.DB) *GormPaymentObligationRepository {
	return &GormPaymentObligationRepository{db: db}
}

// FindByID finds a payment obligation by its ID
func (r *GormPaymentObligationRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentObligation, error) {
	var model models.PaymentObligationModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByScheduleID lists a schedule's obligations in due date order
func (r *GormPaymentObligationRepository) FindByScheduleID(ctx context.Context, scheduleID uuid.UUID) ([]billing.PaymentObligation, error) {
	var obligationModels []models.PaymentObligationModel
	if err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("due_date ASC, installment_number ASC").
		Find(&obligationModels).Error; err != nil {
		return nil, err
	}
	obligations := make([]billing.PaymentObligation, len(obligationModels))
	for i, model := range obligationModels {
		obligations[i] = *model.ToDomain()
	}
	return obligations, nil
}

// FindOutstandingByStudent lists a student's unpaid obligations across all
// their schedules, following the obligation -> schedule -> enrollment chain.
func (r *GormPaymentObligationRepository) FindOutstandingByStudent(ctx context.Context, studentID uuid.UUID) ([]billing.PaymentObligation, error) {
	var obligationModels []models.PaymentObligationModel
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentObligationModel{}).
		Joins("JOIN payment_schedules ON payment_schedules.id = payment_obligations.schedule_id").
		Joins("JOIN enrollments ON enrollments.id = payment_schedules.enrollment_id").
		Where("enrollments.student_id = ?", studentID).
		Where("payment_obligations.status IN ?",
			[]billing.ObligationStatus{billing.ObligationStatusPending, billing.ObligationStatusPartial}).
		Order("payment_obligations.due_date ASC").
		Find(&obligationModels).Error; err != nil {
		return nil, err
	}
	obligations := make([]billing.PaymentObligation, len(obligationModels))
	for i, model := range obligationModels {
		obligations[i] = *model.ToDomain()
	}
	return obligations, nil
}

// CreateBatch inserts all obligations of a schedule in one statement
func (r *GormPaymentObligationRepository) CreateBatch(ctx context.Context, obligations []*billing.PaymentObligation) error {
	if len(obligations) == 0 {
		return nil
	}
	obligationModels := make([]*models.PaymentObligationModel, len(obligations))
	for i, obligation := range obligations {
		obligationModels[i] = models.PaymentObligationModelFromDomain(obligation)
	}
	return r.db.WithContext(ctx).Create(&obligationModels).Error
}

// Save updates an existing obligation
func (r *GormPaymentObligationRepository) Save(ctx context.Context, obligation *billing.PaymentObligation) error {
	model := models.PaymentObligationModelFromDomain(obligation)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormPaymentObligationRepository implements PaymentObligationRepository
var _ billing.PaymentObligationRepository = (*GormPaymentObligationRepository)(nil)
