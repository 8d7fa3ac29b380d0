package command

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fintrack/tracker/shared/apperr"
	"github.com/fintrack/tracker/shared/cqrs"
	"github.com/fintrack/tracker/shared/events"
	"github.com/fintrack/tracker/shared/models"
	"github.com/fintrack/tracker/shared/utils"
)

// UserCommandService registers users in PostgreSQL and keeps the Redis
// read model up to date.
type UserCommandService struct {
	writeRepo UserStore
	readRepo  UserViewCache
	publisher EventPublisher
	logger    *slog.Logger

	now          func() time.Time
	hashPassword func(string) (string, error)
}

func NewUserCommandService(
	writeRepo UserStore,
	readRepo UserViewCache,
	publisher EventPublisher,
	logger *slog.Logger,
) *UserCommandService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserCommandService{
		writeRepo:    writeRepo,
		readRepo:     readRepo,
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,
		hashPassword: utils.HashPassword,
	}
}

// Signup creates an account. The email is normalised before the existence
// check and the insert, so addresses differing only in case collide.
func (s *UserCommandService) Signup(ctx context.Context, cmd cqrs.SignupCommand) (*models.UserView, error) {
	if cmd.Password != cmd.Confirm {
		return nil, apperr.Validation("Passwords do not match")
	}

	email := utils.NormalizeEmail(cmd.Email)
	username := strings.TrimSpace(cmd.Username)
	if username == "" || email == "" || cmd.Password == "" {
		return nil, apperr.Validation("Username, email and password are required")
	}

	exists, err := s.writeRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("User already exists")
	}

	passwordHash, err := s.hashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           utils.GenerateID("usr"),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.writeRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	view := user.View()
	s.readRepo.CacheUserView(ctx, view)
	if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserCreated, events.UserCreatedEvent{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "type", events.UserCreated, "user_id", user.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return view, nil
}
