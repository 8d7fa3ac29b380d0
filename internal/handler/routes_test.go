package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fintrack/tracker/internal/command"
	"github.com/fintrack/tracker/internal/query"
	"github.com/fintrack/tracker/shared/apperr"
	"github.com/fintrack/tracker/shared/auth"
	"github.com/fintrack/tracker/shared/models"
	"github.com/gin-gonic/gin"
)

// memStore backs every repository interface with maps so the full
// handler → service → store path can run without Postgres or Redis.
type memStore struct {
	mu           sync.Mutex
	users        map[string]*models.User
	transactions []models.TransactionView
}

func newMemStore() *memStore { return &memStore{users: map[string]*models.User{}} }

func (m *memStore) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return apperr.Conflict("User already exists")
	}
	m.users[u.Email] = u
	return nil
}

func (m *memStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[email]
	return ok, nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("User not found")
}

type memUserReader struct{ *memStore }

func (m memUserReader) GetByID(_ context.Context, id string) (*models.UserView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u.View(), nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

type memLedger struct{ *memStore }

func (m memLedger) Create(_ context.Context, t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append([]models.TransactionView{*t.View()}, m.transactions...)
	return nil
}

func (m memLedger) GetByID(_ context.Context, id string) (*models.TransactionView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.transactions {
		if m.transactions[i].ID == id {
			v := m.transactions[i]
			return &v, nil
		}
	}
	return nil, apperr.NotFound("Transaction not found")
}

func (m memLedger) List(_ context.Context, ownerID string) ([]models.TransactionView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TransactionView
	for _, v := range m.transactions {
		if ownerID == "" || v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

type noCache struct{}

func (noCache) CacheUserView(context.Context, *models.UserView)               {}
func (noCache) CacheTransactionView(context.Context, *models.TransactionView) {}

type noEvents struct{}

func (noEvents) Publish(context.Context, string, string, any) error { return nil }

func newAppRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := newMemStore()
	tokens := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)

	authHandler := NewAuthHandler(
		command.NewUserCommandService(store, noCache{}, noEvents{}, nil),
		query.NewAuthQueryService(store, tokens, nil),
		query.NewUserQueryService(memUserReader{store}),
	)
	txHandler := NewTransactionHandler(
		command.NewTransactionCommandService(memLedger{store}, noCache{}, noEvents{}, nil),
		query.NewTransactionQueryService(memLedger{store}),
	)

	r := gin.New()
	RegisterRoutes(r, Routes{Auth: authHandler, Transactions: txHandler, Tokens: tokens})
	return r
}

func doAuthed(router *gin.Engine, method, url, token string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestScenario_SignupTwice(t *testing.T) {
	router := newAppRouter()
	body := map[string]string{"username": "alice", "email": "alice@example.com", "password": "pw", "confirm": "pw"}

	first := doRequest(router, http.MethodPost, "/user/signup", body)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d; body: %s", first.Code, first.Body.String())
	}
	if !strings.Contains(first.Body.String(), `"email":"alice@example.com"`) {
		t.Errorf("unexpected body %s", first.Body.String())
	}

	second := doRequest(router, http.MethodPost, "/user/signup", body)
	if second.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d; body: %s", second.Code, second.Body.String())
	}
	if second.Body.String() != `{"message":"User already exists"}` {
		t.Errorf("unexpected body %s", second.Body.String())
	}
}

func TestScenario_AddThenView(t *testing.T) {
	router := newAppRouter()

	add := doRequest(router, http.MethodPost, "/tracker/addTransaction",
		map[string]any{"date": "2024-01-15", "description": "Coffee", "category": "Food", "amount": -5})
	if add.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d; body: %s", add.Code, add.Body.String())
	}

	view := doRequest(router, http.MethodGet, "/tracker/viewTransaction", nil)
	if view.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d; body: %s", view.Code, view.Body.String())
	}
	var txs []models.TransactionView
	if err := json.Unmarshal(view.Body.Bytes(), &txs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(txs) != 1 || txs[0].Amount != -5 || txs[0].Description != "Coffee" {
		t.Errorf("unexpected ledger %+v", txs)
	}
}

func TestScenario_LoginScopesLedger(t *testing.T) {
	router := newAppRouter()

	doRequest(router, http.MethodPost, "/user/signup",
		map[string]string{"username": "alice", "email": "alice@example.com", "password": "pw", "confirm": "pw"})
	login := doRequest(router, http.MethodPost, "/user/login",
		map[string]string{"email": "Alice@Example.com", "password": "pw"})
	if login.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d; body: %s", login.Code, login.Body.String())
	}
	var res LoginResponse
	if err := json.Unmarshal(login.Body.Bytes(), &res); err != nil || res.Token == "" {
		t.Fatalf("no token in login response: %s", login.Body.String())
	}

	// One anonymous and two owned entries.
	doRequest(router, http.MethodPost, "/tracker/addTransaction",
		map[string]any{"date": "2024-02-01", "description": "Lottery", "category": "Gift", "amount": 1000})
	doAuthed(router, http.MethodPost, "/tracker/addTransaction", res.Token,
		map[string]any{"date": "2024-01-10", "description": "Salary", "category": "Salary", "amount": 100})
	doAuthed(router, http.MethodPost, "/tracker/addTransaction", res.Token,
		map[string]any{"date": "2024-01-12", "description": "Rent", "category": "Housing", "amount": -40})

	own := doAuthed(router, http.MethodGet, "/tracker/viewTransaction", res.Token, nil)
	var txs []models.TransactionView
	_ = json.Unmarshal(own.Body.Bytes(), &txs)
	if len(txs) != 2 || txs[0].Description != "Rent" {
		t.Errorf("expected own entries newest first, got %+v", txs)
	}

	summary := doAuthed(router, http.MethodGet, "/tracker/summary?month=1&year=2024", res.Token, nil)
	if summary.Body.String() != `{"totalIncome":100,"totalExpenses":40,"balance":60,"count":2}` {
		t.Errorf("unexpected summary %s", summary.Body.String())
	}

	me := doAuthed(router, http.MethodGet, "/user/me", res.Token, nil)
	if me.Code != http.StatusOK || !strings.Contains(me.Body.String(), `"username":"alice"`) {
		t.Errorf("unexpected profile %d %s", me.Code, me.Body.String())
	}

	bad := doAuthed(router, http.MethodGet, "/tracker/viewTransaction", "forged", nil)
	if bad.Code != http.StatusUnauthorized {
		t.Errorf("invalid token must not fall back to the global ledger, got %d", bad.Code)
	}
}

func TestScenario_Health(t *testing.T) {
	w := doRequest(newAppRouter(), http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK || w.Body.String() != `{"status":"ok"}` {
		t.Errorf("unexpected health response %d %s", w.Code, w.Body.String())
	}
}
