package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/models"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository persists the coordinator's view of submitted
// transactions so pending ones survive a restart and can be re-polled.
type TransactionRepository interface {
	Upsert(ctx context.Context, tx *models.LedgerTransaction) error
	FindByHash(ctx context.Context, hash string) (*models.LedgerTransaction, error)
	FindPending(ctx context.Context) ([]models.LedgerTransaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Upsert(ctx context.Context, tx *models.LedgerTransaction) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "hash"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"block_number", "gas_used", "gas_price", "status", "confirmations", "updated_at",
		}),
	}).Create(tx).Error
}

func (r *transactionRepository) FindByHash(ctx context.Context, hash string) (*models.LedgerTransaction, error) {
	var tx models.LedgerTransaction
	if err := r.db.WithContext(ctx).First(&tx, "hash = ?", hash).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) FindPending(ctx context.Context) ([]models.LedgerTransaction, error) {
	var txs []models.LedgerTransaction
	err := r.db.WithContext(ctx).
		Where("status = ?", models.TransactionStatusPending).
		Order("created_at ASC").
		Find(&txs).Error
	return txs, err
}
