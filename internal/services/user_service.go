package services

import (
	"context"

	"go.uber.org/zap"

	"procurement-system/internal/entities"
	"procurement-system/internal/repositories"
)

type UserServiceInterface interface {
	GetByID(ctx context.Context, id int64) (*entities.User, error)
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	return s.userRepo.FindByID(ctx, id)
}
