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

var allowedQuotationFilters = map[string]string{
	"number":        "number",
	"status":        "status",
	"supplier_name": "supplier_name",
	"creator_id":    "creator_id",
	"created_at":    "created_at",
	"amount":        "amount",
}

type QuotationRepositoryInterface interface {
	Create(ctx context.Context, q Querier, quotation *entities.Quotation) (int64, error)
	FindByID(ctx context.Context, id int64) (*entities.Quotation, error)
	List(ctx context.Context, filter types.Filter) ([]entities.Quotation, uint64, error)
	Update(ctx context.Context, quotation *entities.Quotation) error
	SoftDelete(ctx context.Context, id int64) error
}

type quotationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewQuotationRepository(storage *pgxpool.Pool, logger *zap.Logger) QuotationRepositoryInterface {
	return &quotationRepository{storage: storage, logger: logger}
}

func quotationSelectColumns() []string {
	cols := []string{"id", "number", "description", "supplier_name", "valid_until", "amount", "status", "creator_id"}
	cols = append(cols, signatureColumns...)
	return append(cols, "created_at", "updated_at")
}

func scanQuotation(row pgx.Row) (*entities.Quotation, error) {
	var q entities.Quotation
	dest := []interface{}{&q.ID, &q.Number, &q.Description, &q.SupplierName, &q.ValidUntil, &q.Amount, &q.Status, &q.CreatorID}
	dest = append(dest, scanSignatureDest(&q.SignatureSlots)...)
	dest = append(dest, &q.CreatedAt, &q.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quotationRepository) Create(ctx context.Context, q Querier, quotation *entities.Quotation) (int64, error) {
	query := `
		INSERT INTO quotations (number, description, supplier_name, valid_until, amount, status, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id`

	var id int64
	err := q.QueryRow(ctx, query,
		quotation.Number, quotation.Description, quotation.SupplierName,
		quotation.ValidUntil, quotation.Amount, quotation.Status, quotation.CreatorID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create quotation: %w", err)
	}
	return id, nil
}

func (r *quotationRepository) FindByID(ctx context.Context, id int64) (*entities.Quotation, error) {
	builder := sq.Select(quotationSelectColumns()...).
		From("quotations").
		Where(sq.Eq{"id": id}).
		Where("deleted_at IS NULL").
		PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build quotation query: %w", err)
	}

	quotation, err := scanQuotation(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find quotation %d: %w", id, err)
	}
	return quotation, nil
}

func (r *quotationRepository) List(ctx context.Context, filter types.Filter) ([]entities.Quotation, uint64, error) {
	countBuilder := sq.Select("COUNT(*)").From("quotations").
		Where("deleted_at IS NULL").
		PlaceholderFormat(sq.Dollar)
	countBuilder = db.ApplyListParams(countBuilder, types.Filter{Filter: filter.Filter}, allowedQuotationFilters)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build quotation count query: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count quotations: %w", err)
	}

	builder := sq.Select(quotationSelectColumns()...).
		From("quotations").
		Where("deleted_at IS NULL").
		OrderBy("id DESC").
		PlaceholderFormat(sq.Dollar)
	builder = db.ApplyListParams(builder, filter, allowedQuotationFilters)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build quotation list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quotations: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Quotation, 0)
	for rows.Next() {
		quotation, err := scanQuotation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan quotation: %w", err)
		}
		list = append(list, *quotation)
	}
	return list, total, rows.Err()
}

func (r *quotationRepository) Update(ctx context.Context, quotation *entities.Quotation) error {
	query := `
		UPDATE quotations
		SET description = $1, supplier_name = $2, valid_until = $3, amount = $4, updated_at = NOW()
		WHERE id = $5 AND status = 'PENDING' AND deleted_at IS NULL`

	tag, err := r.storage.Exec(ctx, query,
		quotation.Description, quotation.SupplierName, quotation.ValidUntil,
		quotation.Amount, quotation.ID)
	if err != nil {
		return fmt.Errorf("failed to update quotation %d: %w", quotation.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}
	return nil
}

func (r *quotationRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE quotations SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING' AND deleted_at IS NULL`

	tag, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete quotation %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}
	return nil
}
