package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"procurement-system/internal/approval"
	"procurement-system/internal/entities"
	db "procurement-system/internal/infrastructure/bd"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/types"
)

var allowedTemplateFilters = map[string]string{
	"template_name": "template_name",
	"entity_type":   "entity_type",
	"role_name":     "role_name",
	"is_active":     "is_active",
}

type ApprovalConfigurationRepositoryInterface interface {
	// Resolve returns the active configuration rows for a document,
	// ordered by signature level ascending. An empty result means no
	// signatures are required ("not configured yet").
	Resolve(ctx context.Context, entityType string, entityID int64) ([]approval.ConfigRow, error)
	GetConfigurations(ctx context.Context, entityType string, entityID int64) ([]entities.ApprovalConfiguration, error)

	// DeactivateInTx and InsertRowsInTx implement the
	// deactivate-then-insert reconfiguration; they always run inside one
	// transaction so a concurrent signer never observes a half-applied
	// configuration.
	DeactivateInTx(ctx context.Context, tx pgx.Tx, entityType string, entityID int64) error
	InsertRowsInTx(ctx context.Context, tx pgx.Tx, entityType string, entityID int64, rows []approval.ConfigRow) error

	GetTemplateRows(ctx context.Context, templateName, entityType string) ([]approval.ConfigRow, error)
	ListTemplates(ctx context.Context, filter types.Filter) ([]entities.ApprovalTemplate, uint64, error)
	CreateTemplate(ctx context.Context, templateName, entityType string, rows []approval.ConfigRow) error
}

type approvalConfigurationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewApprovalConfigurationRepository(storage *pgxpool.Pool, logger *zap.Logger) ApprovalConfigurationRepositoryInterface {
	return &approvalConfigurationRepository{storage: storage, logger: logger}
}

func (r *approvalConfigurationRepository) Resolve(ctx context.Context, entityType string, entityID int64) ([]approval.ConfigRow, error) {
	query := `
		SELECT signature_level, role_name, is_required
		FROM approval_configurations
		WHERE entity_type = $1 AND entity_id = $2 AND is_active
		ORDER BY signature_level ASC`

	rows, err := r.storage.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve approval configuration: %w", err)
	}
	defer rows.Close()

	config := make([]approval.ConfigRow, 0, 4)
	for rows.Next() {
		var row approval.ConfigRow
		if err := rows.Scan(&row.Level, &row.Role, &row.Required); err != nil {
			return nil, fmt.Errorf("failed to scan approval configuration row: %w", err)
		}
		config = append(config, row)
	}
	return config, rows.Err()
}

func (r *approvalConfigurationRepository) GetConfigurations(ctx context.Context, entityType string, entityID int64) ([]entities.ApprovalConfiguration, error) {
	query := `
		SELECT id, entity_type, entity_id, signature_level, role_name, is_required, is_active, created_at, updated_at
		FROM approval_configurations
		WHERE entity_type = $1 AND entity_id = $2 AND is_active
		ORDER BY signature_level ASC`

	rows, err := r.storage.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load approval configurations: %w", err)
	}
	defer rows.Close()

	list := make([]entities.ApprovalConfiguration, 0, 4)
	for rows.Next() {
		var c entities.ApprovalConfiguration
		if err := rows.Scan(&c.ID, &c.EntityType, &c.EntityID, &c.SignatureLevel, &c.RoleName,
			&c.IsRequired, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan approval configuration: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// DeactivateInTx supersedes existing rows instead of deleting them: rows
// that already back recorded signatures must stay queryable.
func (r *approvalConfigurationRepository) DeactivateInTx(ctx context.Context, tx pgx.Tx, entityType string, entityID int64) error {
	query := `
		UPDATE approval_configurations
		SET is_active = FALSE, updated_at = NOW()
		WHERE entity_type = $1 AND entity_id = $2 AND is_active`

	if _, err := tx.Exec(ctx, query, entityType, entityID); err != nil {
		return fmt.Errorf("failed to deactivate approval configurations: %w", err)
	}
	return nil
}

func (r *approvalConfigurationRepository) InsertRowsInTx(ctx context.Context, tx pgx.Tx, entityType string, entityID int64, rows []approval.ConfigRow) error {
	query := `
		INSERT INTO approval_configurations (entity_type, entity_id, signature_level, role_name, is_required, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW(), NOW())`

	for _, row := range rows {
		if _, err := tx.Exec(ctx, query, entityType, entityID, row.Level, row.Role, row.Required); err != nil {
			return fmt.Errorf("failed to insert approval configuration row: %w", err)
		}
	}
	return nil
}

func (r *approvalConfigurationRepository) GetTemplateRows(ctx context.Context, templateName, entityType string) ([]approval.ConfigRow, error) {
	query := `
		SELECT signature_level, role_name, is_required
		FROM approval_templates
		WHERE template_name = $1 AND entity_type = $2 AND is_active
		ORDER BY signature_level ASC`

	rows, err := r.storage.Query(ctx, query, templateName, entityType)
	if err != nil {
		return nil, fmt.Errorf("failed to load template rows: %w", err)
	}
	defer rows.Close()

	config := make([]approval.ConfigRow, 0, 4)
	for rows.Next() {
		var row approval.ConfigRow
		if err := rows.Scan(&row.Level, &row.Role, &row.Required); err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		config = append(config, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(config) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return config, nil
}

func (r *approvalConfigurationRepository) ListTemplates(ctx context.Context, filter types.Filter) ([]entities.ApprovalTemplate, uint64, error) {
	countBuilder := sq.Select("COUNT(*)").From("approval_templates").
		Where(sq.Eq{"is_active": true}).
		PlaceholderFormat(sq.Dollar)
	countBuilder = db.ApplyListParams(countBuilder, types.Filter{Filter: filter.Filter}, allowedTemplateFilters)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build template count query: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count templates: %w", err)
	}

	builder := sq.Select("id", "template_name", "entity_type", "signature_level", "role_name", "is_required", "is_active", "created_at", "updated_at").
		From("approval_templates").
		Where(sq.Eq{"is_active": true}).
		OrderBy("template_name ASC", "entity_type ASC", "signature_level ASC").
		PlaceholderFormat(sq.Dollar)
	builder = db.ApplyListParams(builder, filter, allowedTemplateFilters)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build template list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	list := make([]entities.ApprovalTemplate, 0)
	for rows.Next() {
		var t entities.ApprovalTemplate
		if err := rows.Scan(&t.ID, &t.TemplateName, &t.EntityType, &t.SignatureLevel, &t.RoleName,
			&t.IsRequired, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan template: %w", err)
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

func (r *approvalConfigurationRepository) CreateTemplate(ctx context.Context, templateName, entityType string, rows []approval.ConfigRow) error {
	query := `
		INSERT INTO approval_templates (template_name, entity_type, signature_level, role_name, is_required, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW(), NOW())
		ON CONFLICT (template_name, entity_type, signature_level)
		DO UPDATE SET role_name = EXCLUDED.role_name, is_required = EXCLUDED.is_required, is_active = TRUE, updated_at = NOW()`

	for _, row := range rows {
		if _, err := r.storage.Exec(ctx, query, templateName, entityType, row.Level, row.Role, row.Required); err != nil {
			return fmt.Errorf("failed to upsert template row: %w", err)
		}
	}
	return nil
}
