package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"procurement-system/internal/entities"
	"procurement-system/internal/repositories"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/service"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (*TokenPair, *entities.User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type AuthService struct {
	userRepo repositories.UserRepositoryInterface
	jwtSvc   service.JWTService
	logger   *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepositoryInterface, jwtSvc service.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, jwtSvc: jwtSvc, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, *entities.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same answer as a bad password so the endpoint does not leak
			// which emails exist.
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	access, refresh, err := s.jwtSvc.GenerateTokens(int(user.ID), int(user.RoleID))
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user logged in", zap.Int64("userID", user.ID))
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, user, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtSvc.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	user, err := s.userRepo.FindByID(ctx, int64(claims.UserID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}

	access, refresh, err := s.jwtSvc.GenerateTokens(int(user.ID), int(user.RoleID))
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
