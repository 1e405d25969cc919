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

var allowedFuelControlFilters = map[string]string{
	"number":        "number",
	"status":        "status",
	"vehicle_plate": "vehicle_plate",
	"creator_id":    "creator_id",
	"created_at":    "created_at",
	"control_date":  "control_date",
	"amount":        "amount",
}

type FuelControlRepositoryInterface interface {
	Create(ctx context.Context, q Querier, fuelControl *entities.FuelControl) (int64, error)
	FindByID(ctx context.Context, id int64) (*entities.FuelControl, error)
	List(ctx context.Context, filter types.Filter) ([]entities.FuelControl, uint64, error)
	Update(ctx context.Context, fuelControl *entities.FuelControl) error
	SoftDelete(ctx context.Context, id int64) error
}

type fuelControlRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewFuelControlRepository(storage *pgxpool.Pool, logger *zap.Logger) FuelControlRepositoryInterface {
	return &fuelControlRepository{storage: storage, logger: logger}
}

func fuelControlSelectColumns() []string {
	cols := []string{"id", "number", "description", "vehicle_plate", "liters", "control_date", "amount", "status", "creator_id"}
	cols = append(cols, signatureColumns...)
	return append(cols, "created_at", "updated_at")
}

func scanFuelControl(row pgx.Row) (*entities.FuelControl, error) {
	var f entities.FuelControl
	dest := []interface{}{&f.ID, &f.Number, &f.Description, &f.VehiclePlate, &f.Liters, &f.ControlDate, &f.Amount, &f.Status, &f.CreatorID}
	dest = append(dest, scanSignatureDest(&f.SignatureSlots)...)
	dest = append(dest, &f.CreatedAt, &f.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fuelControlRepository) Create(ctx context.Context, q Querier, fuelControl *entities.FuelControl) (int64, error) {
	query := `
		INSERT INTO fuel_controls (number, description, vehicle_plate, liters, control_date, amount, status, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id`

	var id int64
	err := q.QueryRow(ctx, query,
		fuelControl.Number, fuelControl.Description, fuelControl.VehiclePlate,
		fuelControl.Liters, fuelControl.ControlDate, fuelControl.Amount,
		fuelControl.Status, fuelControl.CreatorID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create fuel control: %w", err)
	}
	return id, nil
}

func (r *fuelControlRepository) FindByID(ctx context.Context, id int64) (*entities.FuelControl, error) {
	builder := sq.Select(fuelControlSelectColumns()...).
		From("fuel_controls").
		Where(sq.Eq{"id": id}).
		Where("deleted_at IS NULL").
		PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build fuel control query: %w", err)
	}

	fuelControl, err := scanFuelControl(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fuel control %d: %w", id, err)
	}
	return fuelControl, nil
}

func (r *fuelControlRepository) List(ctx context.Context, filter types.Filter) ([]entities.FuelControl, uint64, error) {
	countBuilder := sq.Select("COUNT(*)").From("fuel_controls").
		Where("deleted_at IS NULL").
		PlaceholderFormat(sq.Dollar)
	countBuilder = db.ApplyListParams(countBuilder, types.Filter{Filter: filter.Filter}, allowedFuelControlFilters)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build fuel control count query: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count fuel controls: %w", err)
	}

	builder := sq.Select(fuelControlSelectColumns()...).
		From("fuel_controls").
		Where("deleted_at IS NULL").
		OrderBy("id DESC").
		PlaceholderFormat(sq.Dollar)
	builder = db.ApplyListParams(builder, filter, allowedFuelControlFilters)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build fuel control list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list fuel controls: %w", err)
	}
	defer rows.Close()

	list := make([]entities.FuelControl, 0)
	for rows.Next() {
		fuelControl, err := scanFuelControl(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan fuel control: %w", err)
		}
		list = append(list, *fuelControl)
	}
	return list, total, rows.Err()
}

func (r *fuelControlRepository) Update(ctx context.Context, fuelControl *entities.FuelControl) error {
	query := `
		UPDATE fuel_controls
		SET description = $1, vehicle_plate = $2, liters = $3, control_date = $4, amount = $5, updated_at = NOW()
		WHERE id = $6 AND status = 'PENDING' AND deleted_at IS NULL`

	tag, err := r.storage.Exec(ctx, query,
		fuelControl.Description, fuelControl.VehiclePlate, fuelControl.Liters,
		fuelControl.ControlDate, fuelControl.Amount, fuelControl.ID)
	if err != nil {
		return fmt.Errorf("failed to update fuel control %d: %w", fuelControl.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}
	return nil
}

func (r *fuelControlRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE fuel_controls SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING' AND deleted_at IS NULL`

	tag, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete fuel control %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}
	return nil
}
