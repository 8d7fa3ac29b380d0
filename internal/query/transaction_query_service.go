package query

import (
	"context"

	"github.com/fintrack/tracker/shared/apperr"
	"github.com/fintrack/tracker/shared/cqrs"
	"github.com/fintrack/tracker/shared/ledger"
	"github.com/fintrack/tracker/shared/models"
)

type TransactionReader interface {
	GetByID(ctx context.Context, id string) (*models.TransactionView, error)
	List(ctx context.Context, ownerID string) ([]models.TransactionView, error)
}

// TransactionQueryService serves ledger reads. Identified callers only see
// their own records; anonymous callers see the whole ledger.
type TransactionQueryService struct {
	readRepo TransactionReader
}

func NewTransactionQueryService(readRepo TransactionReader) *TransactionQueryService {
	return &TransactionQueryService{readRepo: readRepo}
}

// ListTransactions returns the ledger most recent first, never nil.
func (s *TransactionQueryService) ListTransactions(ctx context.Context, q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	views, err := s.readRepo.List(ctx, q.OwnerID)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []models.TransactionView{}
	}
	return views, nil
}

// GetTransaction reports someone else's record as not found rather than
// forbidden.
func (s *TransactionQueryService) GetTransaction(ctx context.Context, q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
	view, err := s.readRepo.GetByID(ctx, q.TransactionID)
	if err != nil {
		return nil, err
	}
	if q.OwnerID != "" && view.OwnerID != q.OwnerID {
		return nil, apperr.NotFound("Transaction not found")
	}
	return view, nil
}

// Summarize totals the caller's ledger over the requested period.
func (s *TransactionQueryService) Summarize(ctx context.Context, q cqrs.SummaryQuery) (ledger.Summary, error) {
	if q.Period.Month < 0 || q.Period.Month > 12 {
		return ledger.Summary{}, apperr.Validation("Month must be between 1 and 12")
	}
	if q.Period.Year < 0 {
		return ledger.Summary{}, apperr.Validation("Year must be positive")
	}

	views, err := s.readRepo.List(ctx, q.OwnerID)
	if err != nil {
		return ledger.Summary{}, err
	}
	return ledger.Summarize(ledger.Filter(views, q.Period)), nil
}
