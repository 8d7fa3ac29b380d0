package cqrs

import "github.com/fintrack/tracker/shared/models"

type SignupCommand struct {
	Username string
	Email    string
	Password string
	Confirm  string
}

type LoginCommand struct {
	Email    string
	Password string
}

// ProviderLoginCommand carries a third-party identity provider callback.
type ProviderLoginCommand struct {
	Provider string
	Code     string
}

type RefreshTokenCommand struct {
	Token string
}

// CreateTransactionCommand adds a ledger entry. Amount is nil when the caller
// omitted it; OwnerID is empty for anonymous callers.
type CreateTransactionCommand struct {
	Date        models.Date
	Description string
	Category    string
	Amount      *float64
	OwnerID     string
}
