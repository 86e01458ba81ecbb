package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFeeAssignmentRepository implements FeeAssignmentRepository using GORM
type GormFeeAssignmentRepository struct {
	db *gorm.DB
}

// NewGormFeeAssignmentRepository creates a new GormFeeAssignmentRepository
func NewGormFeeAssignmentRepository(db *gorm.DB) *GormFeeAssignmentRepository {
	return &GormFeeAssignmentRepository{db: db}
}

// FindActiveForClass returns class-bound assignments whose validity window
// contains the given instant. A NULL bound is open-ended; both date
// predicates are combined with AND.
func (r *GormFeeAssignmentRepository) FindActiveForClass(ctx context.Context, classID uuid.UUID, at time.Time) ([]fees.FeeAssignment, error) {
	var assignmentModels []models.FeeAssignmentModel
	if err := r.db.WithContext(ctx).
		Where("target = ? AND class_id = ?", fees.TargetClass, classID).
		Where("start_date IS NULL OR start_date <= ?", at).
		Where("end_date IS NULL OR end_date >= ?", at).
		Order("created_at ASC").
		Find(&assignmentModels).Error; err != nil {
		return nil, err
	}
	assignments := make([]fees.FeeAssignment, len(assignmentModels))
	for i, model := range assignmentModels {
		assignments[i] = *model.ToDomain()
	}
	return assignments, nil
}

// FindForTransportStop returns stop-bound assignments without any date
// filter: transport fees stay active once assigned.
func (r *GormFeeAssignmentRepository) FindForTransportStop(ctx context.Context, stopID uuid.UUID) ([]fees.FeeAssignment, error) {
	var assignmentModels []models.FeeAssignmentModel
	if err := r.db.WithContext(ctx).
		Where("target = ? AND transport_stop_id = ?", fees.TargetTransportStop, stopID).
		Order("created_at ASC").
		Find(&assignmentModels).Error; err != nil {
		return nil, err
	}
	assignments := make([]fees.FeeAssignment, len(assignmentModels))
	for i, model := range assignmentModels {
		assignments[i] = *model.ToDomain()
	}
	return assignments, nil
}

// Ensure GormFeeAssignmentRepository implements FeeAssignmentRepository
var _ fees.FeeAssignmentRepository = (*GormFeeAssignmentRepository)(nil)
