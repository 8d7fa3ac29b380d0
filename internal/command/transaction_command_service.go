package command

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fintrack/tracker/shared/apperr"
	"github.com/fintrack/tracker/shared/cqrs"
	"github.com/fintrack/tracker/shared/events"
	"github.com/fintrack/tracker/shared/models"
	"github.com/fintrack/tracker/shared/utils"
)

// TransactionCommandService records ledger entries. The amount's sign is
// the caller's responsibility and is stored as given.
type TransactionCommandService struct {
	writeRepo TransactionStore
	readRepo  TransactionViewCache
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewTransactionCommandService(
	writeRepo TransactionStore,
	readRepo TransactionViewCache,
	publisher EventPublisher,
	logger *slog.Logger,
) *TransactionCommandService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionCommandService{
		writeRepo: writeRepo,
		readRepo:  readRepo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// AddTransaction stores a new entry owned by cmd.OwnerID, or unowned when
// that is empty. A zero amount is accepted.
func (s *TransactionCommandService) AddTransaction(ctx context.Context, cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	description := strings.TrimSpace(cmd.Description)
	category := strings.TrimSpace(cmd.Category)
	switch {
	case cmd.Date.IsZero():
		return nil, apperr.Validation("Date is required")
	case description == "":
		return nil, apperr.Validation("Description is required")
	case category == "":
		return nil, apperr.Validation("Category is required")
	case cmd.Amount == nil:
		return nil, apperr.Validation("Amount is required")
	}

	transaction := &models.Transaction{
		ID:          utils.GenerateID("tan"),
		Date:        cmd.Date,
		Description: description,
		Category:    category,
		Amount:      *cmd.Amount,
		OwnerID:     cmd.OwnerID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.writeRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	s.readRepo.CacheTransactionView(ctx, transaction.View())
	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID: transaction.ID,
		OwnerID:       transaction.OwnerID,
		Date:          transaction.Date.String(),
		Category:      transaction.Category,
		Amount:        transaction.Amount,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "type", events.TransactionCreated, "transaction_id", transaction.ID, "error", err)
	}

	return transaction, nil
}
