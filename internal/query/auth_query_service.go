package query

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fintrack/tracker/internal/identity"
	"github.com/fintrack/tracker/shared/apperr"
	"github.com/fintrack/tracker/shared/auth"
	"github.com/fintrack/tracker/shared/cqrs"
	"github.com/fintrack/tracker/shared/models"
	"github.com/fintrack/tracker/shared/utils"
)

type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type TokenService interface {
	Issue(userID, email string) (string, error)
	Parse(token string) (auth.Identity, error)
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token string
	User  models.UserSummary
}

// AuthQueryService handles login and token refresh. There's no CommandService
// for auth because these operations don't mutate application state.
type AuthQueryService struct {
	users     CredentialStore
	tokens    TokenService
	verifiers map[string]identity.Verifier
	logger    *slog.Logger
}

func NewAuthQueryService(users CredentialStore, tokens TokenService, logger *slog.Logger) *AuthQueryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthQueryService{
		users:     users,
		tokens:    tokens,
		verifiers: map[string]identity.Verifier{},
		logger:    logger,
	}
}

// RegisterProvider enables LoginWithProvider for name.
func (s *AuthQueryService) RegisterProvider(name string, v identity.Verifier) {
	s.verifiers[name] = v
}

func (s *AuthQueryService) Login(ctx context.Context, cmd cqrs.LoginCommand) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, utils.NormalizeEmail(cmd.Email))
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		s.logger.InfoContext(ctx, "login rejected", "user_id", user.ID)
		return nil, apperr.Auth("Invalid credentials")
	}
	return s.issue(user)
}

// LoginWithProvider signs in an existing user whose email a third-party
// provider has verified. It never creates accounts.
func (s *AuthQueryService) LoginWithProvider(ctx context.Context, cmd cqrs.ProviderLoginCommand) (*LoginResult, error) {
	verifier, ok := s.verifiers[cmd.Provider]
	if !ok {
		return nil, apperr.Validation("Unsupported identity provider")
	}

	email, err := verifier.VerifyCallback(ctx, cmd.Code)
	if err != nil {
		s.logger.WarnContext(ctx, "provider verification failed", "provider", cmd.Provider, "error", err)
		if errors.Is(err, identity.ErrEmailUnverified) {
			return nil, apperr.Auth("Email address is not verified")
		}
		return nil, apperr.Auth("Identity verification failed")
	}

	user, err := s.users.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthQueryService) RefreshToken(ctx context.Context, cmd cqrs.RefreshTokenCommand) (string, error) {
	id, err := s.tokens.Parse(cmd.Token)
	if err != nil {
		return "", apperr.Auth("Invalid or expired token")
	}
	return s.tokens.Issue(id.UserID, id.Email)
}

func (s *AuthQueryService) issue(user *models.User) (*LoginResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token: token,
		User:  models.UserSummary{ID: user.ID, Email: user.Email},
	}, nil
}
