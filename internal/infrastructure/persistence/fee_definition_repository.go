package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFeeDefinitionRepository implements FeeDefinitionRepository using GORM
type GormFeeDefinitionRepository struct {
	db *gorm.DB
}

// NewGormFeeDefinitionRepository creates a new GormFeeDefinitionRepository
func NewGormFeeDefinitionRepository(db *gorm.DB) *GormFeeDefinitionRepository {
	return &GormFeeDefinitionRepository{db: db}
}

// FindByID finds a fee definition by its ID
func (r *GormFeeDefinitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*fees.FeeDefinition, error) {
	var model models.FeeDefinitionModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds fee definitions for a set of IDs. Missing IDs are simply
// absent from the result; the caller decides how to handle them.
func (r *GormFeeDefinitionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]fees.FeeDefinition, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var definitionModels []models.FeeDefinitionModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&definitionModels).Error; err != nil {
		return nil, err
	}
	definitions := make([]fees.FeeDefinition, len(definitionModels))
	for i, model := range definitionModels {
		definitions[i] = *model.ToDomain()
	}
	return definitions, nil
}

// Ensure GormFeeDefinitionRepository implements FeeDefinitionRepository
var _ fees.FeeDefinitionRepository = (*GormFeeDefinitionRepository)(nil)
