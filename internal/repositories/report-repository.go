package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"procurement-system/pkg/constants"
)

// ApprovalReportRow is one document line in the approvals report,
// flattened across all four document tables.
type ApprovalReportRow struct {
	EntityType  string
	EntityID    int64
	Number      string
	Description string
	Amount      float64
	Status      string
	CreatorID   int64
	SignedCount int
	CreatedAt   time.Time
}

type ReportRepositoryInterface interface {
	ApprovalRows(ctx context.Context, from, to time.Time, status string) ([]ApprovalReportRow, error)
}

type reportRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewReportRepository(storage *pgxpool.Pool, logger *zap.Logger) ReportRepositoryInterface {
	return &reportRepository{storage: storage, logger: logger}
}

func (r *reportRepository) ApprovalRows(ctx context.Context, from, to time.Time, status string) ([]ApprovalReportRow, error) {
	part := func(entityType, table string) string {
		return fmt.Sprintf(`
			SELECT '%s' AS entity_type, id, number, description, amount, status, creator_id,
				(CASE WHEN sig1 IS NOT NULL THEN 1 ELSE 0 END
				+ CASE WHEN sig2 IS NOT NULL THEN 1 ELSE 0 END
				+ CASE WHEN sig3 IS NOT NULL THEN 1 ELSE 0 END
				+ CASE WHEN sig4 IS NOT NULL THEN 1 ELSE 0 END) AS signed_count,
				created_at
			FROM %s
			WHERE deleted_at IS NULL
				AND created_at >= $1 AND created_at < $2
				AND ($3 = '' OR status = $3)`, entityType, table)
	}

	query := part(constants.EntityRequirement, "requirements") +
		" UNION ALL " + part(constants.EntityQuotation, "quotations") +
		" UNION ALL " + part(constants.EntityFuelControl, "fuel_controls") +
		" UNION ALL " + part(constants.EntityPurchaseOrder, "purchase_orders") +
		" ORDER BY created_at ASC"

	rows, err := r.storage.Query(ctx, query, from, to, status)
	if err != nil {
		return nil, fmt.Errorf("failed to load approval report rows: %w", err)
	}
	defer rows.Close()

	report := make([]ApprovalReportRow, 0)
	for rows.Next() {
		var row ApprovalReportRow
		if err := rows.Scan(&row.EntityType, &row.EntityID, &row.Number, &row.Description,
			&row.Amount, &row.Status, &row.CreatorID, &row.SignedCount, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan approval report row: %w", err)
		}
		report = append(report, row)
	}
	return report, rows.Err()
}
