package events

import "time"

// Event types
const (
	UserCreated        = "user.created"
	TransactionCreated = "transaction.created"
)

// Stream names
const (
	UserEventsStream        = "user.events"
	TransactionEventsStream = "transaction.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type UserCreatedEvent struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TransactionCreatedEvent mirrors the stored record; OwnerID is empty for
// unscoped entries.
type TransactionCreatedEvent struct {
	TransactionID string  `json:"transactionId"`
	OwnerID       string  `json:"ownerId,omitempty"`
	Date          string  `json:"date"`
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
}
