package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/billing"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSettlementTransactionRepository implements SettlementTransactionRepository
// using GORM. The transaction log is append-only; there is no update path.
type GormSettlementTransactionRepository struct {
	db *gorm.DB
}

// NewGormSettlementTransactionRepository creates a new GormSettlementTransactionRepository
func NewGormSettlementTransactionRepository(db *gorm.DB) *GormSettlementTransactionRepository {
	return &GormSettlementTransactionRepository{db: db}
}

// Create appends a settlement transaction to the log
func (r *GormSettlementTransactionRepository) Create(ctx context.Context, transaction *billing.SettlementTransaction) error {
	model := models.SettlementTransactionModelFromDomain(transaction)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByReceiptNumber lists all transactions of one settlement batch
func (r *GormSettlementTransactionRepository) FindByReceiptNumber(ctx context.Context, receiptNumber string) ([]billing.SettlementTransaction, error) {
	var transactionModels []models.SettlementTransactionModel
	if err := r.db.WithContext(ctx).
		Where("receipt_number = ?", receiptNumber).
		Order("created_at ASC").
		Find(&transactionModels).Error; err != nil {
		return nil, err
	}
	transactions := make([]billing.SettlementTransaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// FindByObligationID lists the settlement history of one obligation
func (r *GormSettlementTransactionRepository) FindByObligationID(ctx context.Context, obligationID uuid.UUID) ([]billing.SettlementTransaction, error) {
	var transactionModels []models.SettlementTransactionModel
	if err := r.db.WithContext(ctx).
		Where("obligation_id = ?", obligationID).
		Order("created_at ASC").
		Find(&transactionModels).Error; err != nil {
		return nil, err
	}
	transactions := make([]billing.SettlementTransaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// Ensure GormSettlementTransactionRepository implements SettlementTransactionRepository
var _ billing.SettlementTransactionRepository = (*GormSettlementTransactionRepository)(nil)
