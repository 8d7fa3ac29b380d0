package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/fintrack/tracker/shared/apperr"
	"github.com/fintrack/tracker/shared/cqrs"
	"github.com/fintrack/tracker/shared/ledger"
	"github.com/fintrack/tracker/shared/middleware"
	"github.com/fintrack/tracker/shared/models"
	"github.com/gin-gonic/gin"
)

// TransactionCommander defines the write-side operations used by TransactionHandler.
type TransactionCommander interface {
	AddTransaction(context.Context, cqrs.CreateTransactionCommand) (*models.Transaction, error)
}

// TransactionQuerier defines the read-side operations used by TransactionHandler.
type TransactionQuerier interface {
	GetTransaction(context.Context, cqrs.GetTransactionQuery) (*models.TransactionView, error)
	ListTransactions(context.Context, cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
	Summarize(context.Context, cqrs.SummaryQuery) (ledger.Summary, error)
}

// TransactionHandler serves the /tracker routes. Every failure uses the
// {success:false, message} envelope.
type TransactionHandler struct {
	commands TransactionCommander
	queries  TransactionQuerier
}

// AddTransactionRequest is the body of POST /tracker/addTransaction. Amount
// is signed by the client; a "type" field, if sent, is ignored.
type AddTransactionRequest struct {
	Date        string   `json:"date" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Amount      *float64 `json:"amount" validate:"required"`
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries}
}

func (h *TransactionHandler) AddTransaction(c *gin.Context) {
	var req AddTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithFailure(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		first := validationErrors[0]
		middleware.RespondWithFailure(c, http.StatusBadRequest, first.Field+": "+first.Message)
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		middleware.RespondWithFailure(c, http.StatusBadRequest, err.Error())
		return
	}

	transaction, err := h.commands.AddTransaction(c.Request.Context(), cqrs.CreateTransactionCommand{
		Date:        date,
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
		OwnerID:     middleware.OwnerID(c),
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) ViewTransactions(c *gin.Context) {
	views, err := h.queries.ListTransactions(c.Request.Context(), cqrs.ListTransactionsQuery{
		OwnerID: middleware.OwnerID(c),
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	view, err := h.queries.GetTransaction(c.Request.Context(), cqrs.GetTransactionQuery{
		TransactionID: c.Param("id"),
		OwnerID:       middleware.OwnerID(c),
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			middleware.RespondWithFailure(c, http.StatusNotFound, "Transaction not found")
			return
		}
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Summary totals the caller's ledger, optionally for ?month= and ?year=.
func (h *TransactionHandler) Summary(c *gin.Context) {
	var period ledger.Period
	if err := c.ShouldBindQuery(&period); err != nil {
		middleware.RespondWithFailure(c, http.StatusBadRequest, "month and year must be numbers")
		return
	}
	if validationErrors := middleware.ValidateRequest(period); validationErrors != nil {
		first := validationErrors[0]
		middleware.RespondWithFailure(c, http.StatusBadRequest, first.Field+": "+first.Message)
		return
	}

	summary, err := h.queries.Summarize(c.Request.Context(), cqrs.SummaryQuery{
		OwnerID: middleware.OwnerID(c),
		Period:  period,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func respondLedgerError(c *gin.Context, err error) {
	if errors.Is(err, apperr.ErrStore) {
		_ = c.Error(err)
	}
	middleware.RespondWithFailure(c, http.StatusBadRequest, apperr.Message(err, "Server error"))
}
