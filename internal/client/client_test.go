package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fintrack/tracker/shared/ledger"
	"github.com/fintrack/tracker/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records the last add request and serves a fixed ledger.
type fakeAPI struct {
	lastAdd    map[string]any
	lastAuth   string
	ledger     []models.TransactionView
	failList   bool
	failStatus int
	failBody   string
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/signup", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] == "taken@example.com" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"User already exists"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"message":"User created successfully","user":{"id":"usr-001","email":"` + body["email"] + `"}}`))
	})
	mux.HandleFunc("POST /user/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Login successful","token":"tok-1","user":{"id":"usr-001","email":"alice@example.com"}}`))
	})
	mux.HandleFunc("POST /tracker/addTransaction", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&f.lastAdd)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "tan-001", "date": f.lastAdd["date"], "description": f.lastAdd["description"],
			"category": f.lastAdd["category"], "amount": f.lastAdd["amount"], "createdAt": time.Now().UTC(),
		})
	})
	mux.HandleFunc("GET /tracker/viewTransaction", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		if f.failList {
			w.WriteHeader(f.failStatus)
			_, _ = w.Write([]byte(f.failBody))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(f.ledger)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSignup(t *testing.T) {
	api := &fakeAPI{}
	c := New(api.server(t).URL)

	user, err := c.Signup(context.Background(), SignupRequest{Username: "alice", Email: "alice@example.com", Password: "pw", Confirm: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "usr-001", user.ID)

	_, err = c.Signup(context.Background(), SignupRequest{Username: "bob", Email: "taken@example.com", Password: "pw", Confirm: "pw"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "User already exists", apiErr.Message)
}

func TestLoginStoresToken(t *testing.T) {
	api := &fakeAPI{}
	c := New(api.server(t).URL + "/")

	user, err := c.Login(context.Background(), "alice@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "tok-1", c.Token())

	_, err = c.ListTransactions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", api.lastAuth)
}

func TestAddTransaction_SignsAmount(t *testing.T) {
	tests := []struct {
		name   string
		kind   ledger.Kind
		cat    string
		amount float64
		want   float64
	}{
		{"expense becomes negative", ledger.Expense, "Food", 5, -5},
		{"negative expense stays negative", ledger.Expense, "Food", -5, -5},
		{"income stays positive", ledger.Income, "Salary", 1500, 1500},
		{"negative income is made positive", ledger.Income, "Gift", -20, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			c := New(api.server(t).URL, WithToken("tok-1"))

			created, err := c.AddTransaction(context.Background(), NewTransaction{
				Date: models.NewDate(2024, time.January, 15), Description: "entry", Category: tt.cat,
				Kind: tt.kind, Amount: tt.amount,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.want, api.lastAdd["amount"])
			assert.Equal(t, "2024-01-15", api.lastAdd["date"])
			assert.NotContains(t, api.lastAdd, "type")
			assert.Equal(t, tt.want, created.Amount)
			assert.Equal(t, "Bearer tok-1", api.lastAuth)
		})
	}
}

func TestAddTransaction_ClientSideChecks(t *testing.T) {
	api := &fakeAPI{}
	c := New(api.server(t).URL)

	_, err := c.AddTransaction(context.Background(), NewTransaction{Kind: "transfer", Category: "Food"})
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = c.AddTransaction(context.Background(), NewTransaction{Kind: ledger.Income, Category: "Food"})
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.Nil(t, api.lastAdd)
}

func TestSummary(t *testing.T) {
	api := &fakeAPI{ledger: []models.TransactionView{
		{ID: "tan-3", Date: models.NewDate(2025, time.January, 4), Amount: 100},
		{ID: "tan-2", Date: models.NewDate(2024, time.March, 9), Amount: -40},
		{ID: "tan-1", Date: models.NewDate(2024, time.January, 2), Amount: -10},
	}}
	c := New(api.server(t).URL)

	txs, summary, err := c.Summary(context.Background(), ledger.Period{})
	require.NoError(t, err)
	assert.Len(t, txs, 3)
	assert.Equal(t, ledger.Summary{TotalIncome: 100, TotalExpenses: 50, Balance: 50, Count: 3}, summary)

	txs, _, err = c.Summary(context.Background(), ledger.Period{Month: 1})
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	txs, summary, err = c.Summary(context.Background(), ledger.Period{Month: 1, Year: 2024})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "tan-1", txs[0].ID)
	assert.Equal(t, -10.0, summary.Balance)
}

func TestFailureMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"ledger envelope", http.StatusBadRequest, `{"success":false,"message":"failed to list transactions"}`, "failed to list transactions"},
		{"html gateway error", http.StatusBadGateway, `<html>bad gateway</html>`, ServerError},
		{"empty body", http.StatusInternalServerError, ``, ServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{failList: true, failStatus: tt.status, failBody: tt.body}
			c := New(api.server(t).URL)

			_, err := c.ListTransactions(context.Background())

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}
