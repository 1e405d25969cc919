package repositories

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	apperrors "procurement-system/pkg/errors"
)

const SettingAmountThreshold = "approval_amount_threshold"

type SettingsRepositoryInterface interface {
	GetAmountThreshold(ctx context.Context) (float64, error)
	SetAmountThreshold(ctx context.Context, value float64) error
}

type settingsRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewSettingsRepository(storage *pgxpool.Pool, logger *zap.Logger) SettingsRepositoryInterface {
	return &settingsRepository{storage: storage, logger: logger}
}

func (r *settingsRepository) GetAmountThreshold(ctx context.Context) (float64, error) {
	var raw string
	err := r.storage.QueryRow(ctx,
		`SELECT setting_value FROM app_settings WHERE setting_key = $1`,
		SettingAmountThreshold,
	).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("failed to load amount threshold: %w", err)
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("amount threshold setting %q is not a number: %w", raw, err)
	}
	return value, nil
}

func (r *settingsRepository) SetAmountThreshold(ctx context.Context, value float64) error {
	query := `
		INSERT INTO app_settings (setting_key, setting_value, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (setting_key)
		DO UPDATE SET setting_value = EXCLUDED.setting_value, updated_at = NOW()`

	raw := strconv.FormatFloat(value, 'f', -1, 64)
	if _, err := r.storage.Exec(ctx, query, SettingAmountThreshold, raw); err != nil {
		return fmt.Errorf("failed to store amount threshold: %w", err)
	}
	return nil
}
