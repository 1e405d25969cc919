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

var allowedPurchaseOrderFilters = map[string]string{
	"number":        "number",
	"status":        "status",
	"supplier_name": "supplier_name",
	"currency":      "currency",
	"creator_id":    "creator_id",
	"created_at":    "created_at",
	"amount":        "amount",
}

type PurchaseOrderRepositoryInterface interface {
	Create(ctx context.Context, q Querier, order *entities.PurchaseOrder) (int64, error)
	FindByID(ctx context.Context, id int64) (*entities.PurchaseOrder, error)
	List(ctx context.Context, filter types.Filter) ([]entities.PurchaseOrder, uint64, error)
	Update(ctx context.Context, order *entities.PurchaseOrder) error
	SoftDelete(ctx context.Context, id int64) error
}

type purchaseOrderRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewPurchaseOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) PurchaseOrderRepositoryInterface {
	return &purchaseOrderRepository{storage: storage, logger: logger}
}

func purchaseOrderSelectColumns() []string {
	cols := []string{"id", "number", "description", "supplier_name", "currency", "delivery_date", "amount", "status", "creator_id"}
	cols = append(cols, signatureColumns...)
	return append(cols, "created_at", "updated_at")
}

func scanPurchaseOrder(row pgx.Row) (*entities.PurchaseOrder, error) {
	var o entities.PurchaseOrder
	dest := []interface{}{&o.ID, &o.Number, &o.Description, &o.SupplierName, &o.Currency, &o.DeliveryDate, &o.Amount, &o.Status, &o.CreatorID}
	dest = append(dest, scanSignatureDest(&o.SignatureSlots)...)
	dest = append(dest, &o.CreatedAt, &o.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *purchaseOrderRepository) Create(ctx context.Context, q Querier, order *entities.PurchaseOrder) (int64, error) {
	query := `
		INSERT INTO purchase_orders (number, description, supplier_name, currency, delivery_date, amount, status, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id`

	var id int64
	err := q.QueryRow(ctx, query,
		order.Number, order.Description, order.SupplierName, order.Currency,
		order.DeliveryDate, order.Amount, order.Status, order.CreatorID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create purchase order: %w", err)
	}
	return id, nil
}

func (r *purchaseOrderRepository) FindByID(ctx context.Context, id int64) (*entities.PurchaseOrder, error) {
	builder := sq.Select(purchaseOrderSelectColumns()...).
		From("purchase_orders").
		Where(sq.Eq{"id": id}).
		Where("deleted_at IS NULL").
		PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build purchase order query: %w", err)
	}

	order, err := scanPurchaseOrder(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find purchase order %d: %w", id, err)
	}
	return order, nil
}

func (r *purchaseOrderRepository) List(ctx context.Context, filter types.Filter) ([]entities.PurchaseOrder, uint64, error) {
	countBuilder := sq.Select("COUNT(*)").From("purchase_orders").
		Where("deleted_at IS NULL").
		PlaceholderFormat(sq.Dollar)
	countBuilder = db.ApplyListParams(countBuilder, types.Filter{Filter: filter.Filter}, allowedPurchaseOrderFilters)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build purchase order count query: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count purchase orders: %w", err)
	}

	builder := sq.Select(purchaseOrderSelectColumns()...).
		From("purchase_orders").
		Where("deleted_at IS NULL").
		OrderBy("id DESC").
		PlaceholderFormat(sq.Dollar)
	builder = db.ApplyListParams(builder, filter, allowedPurchaseOrderFilters)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build purchase order list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	defer rows.Close()

	list := make([]entities.PurchaseOrder, 0)
	for rows.Next() {
		order, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		list = append(list, *order)
	}
	return list, total, rows.Err()
}

func (r *purchaseOrderRepository) Update(ctx context.Context, order *entities.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET description = $1, supplier_name = $2, currency = $3, delivery_date = $4, amount = $5, updated_at = NOW()
		WHERE id = $6 AND status = 'PENDING' AND deleted_at IS NULL`

	tag, err := r.storage.Exec(ctx, query,
		order.Description, order.SupplierName, order.Currency,
		order.DeliveryDate, order.Amount, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update purchase order %d: %w", order.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}
	return nil
}

func (r *purchaseOrderRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE purchase_orders SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING' AND deleted_at IS NULL`

	tag, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}
	return nil
}
