package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"procurement-system/internal/repositories"
	apperrors "procurement-system/pkg/errors"
)

const amountThresholdCacheKey = "settings:approval_amount_threshold"

type SettingsServiceInterface interface {
	// GetAmountThreshold returns the boundary between the short and the
	// full signature chain. Falls back to the configured default when no
	// explicit value has been stored.
	GetAmountThreshold(ctx context.Context) (float64, error)
	SetAmountThreshold(ctx context.Context, value float64) error
}

type SettingsService struct {
	settingsRepo     repositories.SettingsRepositoryInterface
	cacheRepo        repositories.CacheRepositoryInterface
	defaultThreshold float64
	cacheTTL         time.Duration
	logger           *zap.Logger
}

func NewSettingsService(
	settingsRepo repositories.SettingsRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	defaultThreshold float64,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *SettingsService {
	return &SettingsService{
		settingsRepo:     settingsRepo,
		cacheRepo:        cacheRepo,
		defaultThreshold: defaultThreshold,
		cacheTTL:         cacheTTL,
		logger:           logger,
	}
}

func (s *SettingsService) GetAmountThreshold(ctx context.Context) (float64, error) {
	if cached, err := s.cacheRepo.Get(ctx, amountThresholdCacheKey); err == nil {
		if value, err := strconv.ParseFloat(cached, 64); err == nil {
			return value, nil
		}
		s.logger.Warn("corrupt threshold cache entry", zap.String("value", cached))
	}

	value, err := s.settingsRepo.GetAmountThreshold(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.defaultThreshold, nil
		}
		return 0, err
	}

	raw := strconv.FormatFloat(value, 'f', -1, 64)
	if err := s.cacheRepo.Set(ctx, amountThresholdCacheKey, raw, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache amount threshold", zap.Error(err))
	}
	return value, nil
}

func (s *SettingsService) SetAmountThreshold(ctx context.Context, value float64) error {
	if value < 0 {
		return apperrors.NewInvalidInputError("amount threshold must not be negative")
	}
	if err := s.settingsRepo.SetAmountThreshold(ctx, value); err != nil {
		return err
	}
	// Drop instead of rewrite so a failed Set cannot leave a stale value
	// pinned for a full TTL.
	if err := s.cacheRepo.Del(ctx, amountThresholdCacheKey); err != nil {
		s.logger.Warn("failed to invalidate threshold cache", zap.Error(err))
	}
	return nil
}
