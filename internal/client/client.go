// Package client is the Go client for the tracker HTTP API. It signs the
// amount of new entries from their kind and computes ledger totals locally
// from the listed transactions.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fintrack/tracker/shared/ledger"
	"github.com/fintrack/tracker/shared/models"
)

// ServerError is shown when a failure response carries no usable message.
const ServerError = "Server error"

var (
	ErrInvalidKind     = errors.New("type must be income or expense")
	ErrInvalidCategory = errors.New("category is not offered for this type")
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the bearer token sent with ledger requests, if any.
func (c *Client) Token() string { return c.token }

func (c *Client) SetToken(token string) { c.token = token }

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type authResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Token   string             `json:"token"`
	User    models.UserSummary `json:"user"`
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (models.UserSummary, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/user/signup", req, &resp); err != nil {
		return models.UserSummary{}, err
	}
	return resp.User, nil
}

// Login authenticates and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (models.UserSummary, error) {
	var resp authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/user/login", body, &resp); err != nil {
		return models.UserSummary{}, err
	}
	c.token = resp.Token
	return resp.User, nil
}

// NewTransaction is an entry as a person enters it: a kind and a positive
// magnitude.
type NewTransaction struct {
	Date        models.Date
	Description string
	Category    string
	Kind        ledger.Kind
	Amount      float64
}

type addTransactionRequest struct {
	Date        models.Date `json:"date"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Amount      float64     `json:"amount"`
}

func (c *Client) AddTransaction(ctx context.Context, tx NewTransaction) (*models.Transaction, error) {
	if _, ok := ledger.ParseKind(string(tx.Kind)); !ok {
		return nil, ErrInvalidKind
	}
	if !ledger.ValidCategory(tx.Kind, tx.Category) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, tx.Category)
	}

	req := addTransactionRequest{
		Date:        tx.Date,
		Description: tx.Description,
		Category:    tx.Category,
		Amount:      ledger.SignedAmount(tx.Kind, tx.Amount),
	}
	var created models.Transaction
	if err := c.do(ctx, http.MethodPost, "/tracker/addTransaction", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListTransactions returns the ledger visible to the current token, most
// recent first.
func (c *Client) ListTransactions(ctx context.Context) ([]models.TransactionView, error) {
	var txs []models.TransactionView
	if err := c.do(ctx, http.MethodGet, "/tracker/viewTransaction", nil, &txs); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []models.TransactionView{}
	}
	return txs, nil
}

// Summary lists the ledger and totals the entries within p.
func (c *Client) Summary(ctx context.Context, p ledger.Period) ([]models.TransactionView, ledger.Summary, error) {
	txs, err := c.ListTransactions(ctx)
	if err != nil {
		return nil, ledger.Summary{}, err
	}
	filtered := ledger.Filter(txs, p)
	return filtered, ledger.Summarize(filtered), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: failureMessage(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func failureMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.Message == "" {
		return ServerError
	}
	return body.Message
}
