// Package command holds the write side of the tracker: signup and adding
// ledger entries. Each command persists to PostgreSQL, refreshes the Redis
// read model and publishes a stream event; the last two are best effort.
package command

import (
	"context"

	"github.com/fintrack/tracker/shared/models"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type UserViewCache interface {
	CacheUserView(ctx context.Context, view *models.UserView)
}

type TransactionStore interface {
	Create(ctx context.Context, transaction *models.Transaction) error
}

type TransactionViewCache interface {
	CacheTransactionView(ctx context.Context, view *models.TransactionView)
}

// EventPublisher appends an event to a Redis stream.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}
