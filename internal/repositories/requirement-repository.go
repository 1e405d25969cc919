package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"procurement-system/internal/entities"
	db "procurement-system/internal/infrastructure/bd"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/types"
)

var allowedRequirementFilters = map[string]string{
	"number":     "number",
	"status":     "status",
	"department": "department",
	"creator_id": "creator_id",
	"created_at": "created_at",
	"amount":     "amount",
}

type RequirementRepositoryInterface interface {
	Create(ctx context.Context, q Querier, requirement *entities.Requirement) (int64, error)
	FindByID(ctx context.Context, id int64) (*entities.Requirement, error)
	List(ctx context.Context, filter types.Filter) ([]entities.Requirement, uint64, error)
	Update(ctx context.Context, requirement *entities.Requirement) error
	SoftDelete(ctx context.Context, id int64) error
}

type requirementRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRequirementRepository(storage *pgxpool.Pool, logger *zap.Logger) RequirementRepositoryInterface {
	return &requirementRepository{storage: storage, logger: logger}
}

func requirementSelectColumns() []string {
	cols := []string{"id", "number", "description", "department", "needed_by", "amount", "status", "creator_id"}
	cols = append(cols, signatureColumns...)
	return append(cols, "created_at", "updated_at")
}

func scanRequirement(row pgx.Row) (*entities.Requirement, error) {
	var r entities.Requirement
	dest := []interface{}{&r.ID, &r.Number, &r.Description, &r.Department, &r.NeededBy, &r.Amount, &r.Status, &r.CreatorID}
	dest = append(dest, scanSignatureDest(&r.SignatureSlots)...)
	dest = append(dest, &r.CreatedAt, &r.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *requirementRepository) Create(ctx context.Context, q Querier, requirement *entities.Requirement) (int64, error) {
	query := `
		INSERT INTO requirements (number, description, department, needed_by, amount, status, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id`

	var id int64
	err := q.QueryRow(ctx, query,
		requirement.Number, requirement.Description, requirement.Department,
		requirement.NeededBy, requirement.Amount, requirement.Status, requirement.CreatorID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create requirement: %w", err)
	}
	return id, nil
}

func (r *requirementRepository) FindByID(ctx context.Context, id int64) (*entities.Requirement, error) {
	builder := sq.Select(requirementSelectColumns()...).
		From("requirements").
		Where(sq.Eq{"id": id}).
		Where("deleted_at IS NULL").
		PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build requirement query: %w", err)
	}

	req, err := scanRequirement(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find requirement %d: %w", id, err)
	}
	return req, nil
}

func (r *requirementRepository) List(ctx context.Context, filter types.Filter) ([]entities.Requirement, uint64, error) {
	countBuilder := sq.Select("COUNT(*)").From("requirements").
		Where("deleted_at IS NULL").
		PlaceholderFormat(sq.Dollar)
	countBuilder = db.ApplyListParams(countBuilder, types.Filter{Filter: filter.Filter}, allowedRequirementFilters)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build requirement count query: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count requirements: %w", err)
	}

	builder := sq.Select(requirementSelectColumns()...).
		From("requirements").
		Where("deleted_at IS NULL").
		OrderBy("id DESC").
		PlaceholderFormat(sq.Dollar)
	builder = db.ApplyListParams(builder, filter, allowedRequirementFilters)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build requirement list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list requirements: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Requirement, 0)
	for rows.Next() {
		req, err := scanRequirement(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan requirement: %w", err)
		}
		list = append(list, *req)
	}
	return list, total, rows.Err()
}

// Update rewrites the editable fields only; signature columns are owned by
// the signature repository and never touched here.
func (r *requirementRepository) Update(ctx context.Context, requirement *entities.Requirement) error {
	query := `
		UPDATE requirements
		SET description = $1, department = $2, needed_by = $3, amount = $4, updated_at = NOW()
		WHERE id = $5 AND status = 'PENDING' AND deleted_at IS NULL`

	tag, err := r.storage.Exec(ctx, query,
		requirement.Description, requirement.Department, requirement.NeededBy,
		requirement.Amount, requirement.ID)
	if err != nil {
		return fmt.Errorf("failed to update requirement %d: %w", requirement.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}
	return nil
}

func (r *requirementRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE requirements SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING' AND deleted_at IS NULL`

	tag, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete requirement %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}
	return nil
}
