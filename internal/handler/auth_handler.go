package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/fintrack/tracker/internal/query"
	"github.com/fintrack/tracker/shared/apperr"
	"github.com/fintrack/tracker/shared/cqrs"
	"github.com/fintrack/tracker/shared/middleware"
	"github.com/fintrack/tracker/shared/models"
	"github.com/gin-gonic/gin"
)

// UserCommander defines the write-side operations used by AuthHandler.
type UserCommander interface {
	Signup(context.Context, cqrs.SignupCommand) (*models.UserView, error)
}

// AuthQuerier defines the read-side operations used by AuthHandler.
type AuthQuerier interface {
	Login(context.Context, cqrs.LoginCommand) (*query.LoginResult, error)
	LoginWithProvider(context.Context, cqrs.ProviderLoginCommand) (*query.LoginResult, error)
	RefreshToken(context.Context, cqrs.RefreshTokenCommand) (string, error)
}

// UserQuerier defines the profile lookup used by AuthHandler.
type UserQuerier interface {
	GetUser(context.Context, cqrs.GetUserQuery) (*models.UserView, error)
}

// AuthHandler serves the /user routes.
type AuthHandler struct {
	commands UserCommander
	auth     AuthQuerier
	users    UserQuerier
}

type SignupRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Confirm  string `json:"confirm" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type ProviderCallbackRequest struct {
	Code string `json:"code" validate:"required"`
}

type SignupResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	User    models.UserSummary `json:"user"`
}

type LoginResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Token   string             `json:"token"`
	User    models.UserSummary `json:"user"`
}

type RefreshResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

func NewAuthHandler(commands UserCommander, auth AuthQuerier, users UserQuerier) *AuthHandler {
	return &AuthHandler{commands: commands, auth: auth, users: users}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.commands.Signup(c.Request.Context(), cqrs.SignupCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Confirm:  req.Confirm,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrConflict):
			middleware.RespondWithError(c, http.StatusBadRequest, apperr.Message(err, "Invalid request"))
		default:
			_ = c.Error(err)
			middleware.RespondWithFailure(c, http.StatusInternalServerError, "Server error")
		}
		return
	}

	c.JSON(http.StatusCreated, SignupResponse{
		Success: true,
		Message: "User created successfully",
		User:    view.Summary(),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), cqrs.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondLoginError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   result.Token,
		User:    result.User,
	})
}

// ProviderCallback completes a third-party sign-in for an existing account.
func (h *AuthHandler) ProviderCallback(c *gin.Context) {
	var req ProviderCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	result, err := h.auth.LoginWithProvider(c.Request.Context(), cqrs.ProviderLoginCommand{
		Provider: c.Param("provider"),
		Code:     req.Code,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, apperr.Message(err, "User not found"))
			return
		}
		respondLoginError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   result.Token,
		User:    result.User,
	})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	token, err := h.auth.RefreshToken(c.Request.Context(), cqrs.RefreshTokenCommand{
		Token: req.Token,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrAuth) {
			middleware.RespondWithError(c, http.StatusUnauthorized, apperr.Message(err, "Invalid token"))
			return
		}
		_ = c.Error(err)
		middleware.RespondWithError(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{Success: true, Token: token})
}

// Me returns the profile of the authenticated caller.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.OwnerID(c)

	view, err := h.users.GetUser(c.Request.Context(), cqrs.GetUserQuery{UserID: userID})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		_ = c.Error(err)
		middleware.RespondWithError(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusOK, view)
}

func respondLoginError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		middleware.RespondWithError(c, http.StatusBadRequest, "User not found")
	case errors.Is(err, apperr.ErrAuth):
		middleware.RespondWithError(c, http.StatusUnauthorized, apperr.Message(err, "Invalid credentials"))
	case errors.Is(err, apperr.ErrValidation):
		middleware.RespondWithError(c, http.StatusBadRequest, apperr.Message(err, "Invalid request"))
	default:
		_ = c.Error(err)
		middleware.RespondWithError(c, http.StatusInternalServerError, "Server error")
	}
}
