package query

import (
	"context"

	"github.com/fintrack/tracker/shared/cqrs"
	"github.com/fintrack/tracker/shared/models"
)

type UserReader interface {
	GetByID(ctx context.Context, id string) (*models.UserView, error)
}

// UserQueryService reads user views from the Redis cache (with a Postgres fallback).
type UserQueryService struct {
	readRepo UserReader
}

func NewUserQueryService(readRepo UserReader) *UserQueryService {
	return &UserQueryService{readRepo: readRepo}
}

func (s *UserQueryService) GetUser(ctx context.Context, q cqrs.GetUserQuery) (*models.UserView, error) {
	return s.readRepo.GetByID(ctx, q.UserID)
}
