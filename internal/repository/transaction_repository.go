package repository

import (
	"context"
	"database/sql"

	"github.com/fintrack/tracker/shared/apperr"
	"github.com/fintrack/tracker/shared/models"
)

// TransactionWriteRepository handles all state-mutating operations for transactions.
// It operates exclusively against the PostgreSQL write store (source of truth).
type TransactionWriteRepository struct {
	db *sql.DB
}

func NewTransactionWriteRepository(db *sql.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db}
}

// Create stores the transaction with its amount exactly as given.
func (r *TransactionWriteRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, owner_id, date, description, category, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		transaction.ID, nullString(transaction.OwnerID), transaction.Date,
		transaction.Description, transaction.Category, transaction.Amount,
		transaction.CreatedAt,
	)
	if err != nil {
		return apperr.Store("failed to create transaction", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
