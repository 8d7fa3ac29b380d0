package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fintrack/tracker/shared/apperr"
	"github.com/fintrack/tracker/shared/models"
	sharedredis "github.com/fintrack/tracker/shared/redis"
)

const TransactionViewKeyPrefix = "transaction:view:"

const transactionColumns = `id, owner_id, date, description, category, amount, created_at`

// TransactionReadRepository handles all read operations for transactions.
// Single records come from Redis first, falling back to PostgreSQL on a miss;
// listings always read PostgreSQL. A nil cache disables the Redis layer.
type TransactionReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.TransactionView]
}

func NewTransactionReadRepository(db *sql.DB, cache *sharedredis.ViewCache[models.TransactionView]) *TransactionReadRepository {
	return &TransactionReadRepository{db: db, cache: cache}
}

// GetByID returns a TransactionView by attempting Redis first, then PostgreSQL.
func (r *TransactionReadRepository) GetByID(ctx context.Context, id string) (*models.TransactionView, error) {
	if r.cache != nil {
		if view, ok := r.cache.Get(ctx, id); ok {
			return view, nil
		}
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	view, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Transaction not found")
	}
	if err != nil {
		return nil, apperr.Store("failed to get transaction", err)
	}

	// Warm the cache
	r.CacheTransactionView(ctx, view)
	return view, nil
}

// List returns transactions most recent first. A non-empty ownerID restricts
// the result to that owner; an empty one returns the whole ledger.
func (r *TransactionReadRepository) List(ctx context.Context, ownerID string) ([]models.TransactionView, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if ownerID != "" {
		query := `SELECT ` + transactionColumns + ` FROM transactions WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`
		rows, err = r.db.QueryContext(ctx, query, ownerID)
	} else {
		query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY created_at DESC, id DESC`
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, apperr.Store("failed to list transactions", err)
	}
	defer rows.Close()

	views := make([]models.TransactionView, 0)
	for rows.Next() {
		view, err := scanTransaction(rows)
		if err != nil {
			return nil, apperr.Store("failed to scan transaction", err)
		}
		views = append(views, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("failed to list transactions", err)
	}
	return views, nil
}

// CacheTransactionView stores the read model for a transaction in Redis.
// Called by the command service immediately after a successful Create.
func (r *TransactionReadRepository) CacheTransactionView(ctx context.Context, view *models.TransactionView) {
	if r.cache == nil {
		return
	}
	r.cache.Set(ctx, view.ID, view)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.TransactionView, error) {
	var view models.TransactionView
	var ownerID sql.NullString
	if err := row.Scan(
		&view.ID, &ownerID, &view.Date, &view.Description,
		&view.Category, &view.Amount, &view.CreatedAt,
	); err != nil {
		return nil, err
	}
	view.OwnerID = ownerID.String
	return &view, nil
}
