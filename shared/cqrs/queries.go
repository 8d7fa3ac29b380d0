package cqrs

import "github.com/fintrack/tracker/shared/ledger"

// ---------- User queries ----------

// GetUserQuery fetches the profile of an authenticated user.
type GetUserQuery struct {
	UserID string
}

// ---------- Transaction queries ----------

// GetTransactionQuery fetches a single transaction. A non-empty OwnerID hides
// records owned by someone else.
type GetTransactionQuery struct {
	TransactionID string
	OwnerID       string
}

// ListTransactionsQuery fetches the ledger; an empty OwnerID lists every
// transaction.
type ListTransactionsQuery struct {
	OwnerID string
}

// SummaryQuery totals the ledger over an optional month/year.
type SummaryQuery struct {
	OwnerID string
	Period  ledger.Period
}
