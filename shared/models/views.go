package models

import "time"

// UserView is the read-optimised projection of a user.
// It never exposes PasswordHash.
type UserView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSummary is the {id, email} pair returned by signup and login.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// TransactionView is the read-optimised projection of a transaction.
type TransactionView struct {
	ID          string    `json:"id"`
	Date        Date      `json:"date"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	OwnerID     string    `json:"ownerId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (u *User) View() *UserView {
	return &UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func (u *UserView) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email}
}

func (t *Transaction) View() *TransactionView {
	return &TransactionView{
		ID:          t.ID,
		Date:        t.Date,
		Description: t.Description,
		Category:    t.Category,
		Amount:      t.Amount,
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreatedAt,
	}
}
