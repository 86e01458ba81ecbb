package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentScheduleRepository implements PaymentScheduleRepository using GORM
type GormPaymentScheduleRepository struct {
	db *gorm.DB
}

// NewGormPaymentScheduleRepository creates a new GormPaymentScheduleRepository
func NewGormPaymentScheduleRepository(db *gorm.DB) *GormPaymentScheduleRepository {
	return &GormPaymentScheduleRepository{db: db}
}

// FindByID finds a payment schedule by its ID
func (r *GormPaymentScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentSchedule, error) {
	var model models.PaymentScheduleModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEnrollmentID finds the schedule owned by an enrollment. At most one
// exists, enforced by the unique index on enrollment_id.
func (r *GormPaymentScheduleRepository) FindByEnrollmentID(ctx context.Context, enrollmentID uuid.UUID) (*billing.PaymentSchedule, error) {
	var model models.PaymentScheduleModel
	if err := r.db.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a new schedule. A unique index collision on enrollment_id
// means a concurrent caller inserted first; it surfaces as
// shared.ErrAlreadyExists so the caller can fetch the winner.
func (r *GormPaymentScheduleRepository) Create(ctx context.Context, schedule *billing.PaymentSchedule) error {
	model := models.PaymentScheduleModelFromDomain(schedule)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save updates an existing schedule
func (r *GormPaymentScheduleRepository) Save(ctx context.Context, schedule *billing.PaymentSchedule) error {
	model := models.PaymentScheduleModelFromDomain(schedule)
	return r.db.WithContext(ctx).Save(model).Error
}

// isUniqueViolation reports whether err is a unique constraint violation,
// either translated by GORM or raw from the postgres driver (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Ensure GormPaymentScheduleRepository implements PaymentScheduleRepository
var _ billing.PaymentScheduleRepository = (*GormPaymentScheduleRepository)(nil)
