package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"procurement-system/internal/approval"
	"procurement-system/internal/entities"
	"procurement-system/pkg/constants"
	apperrors "procurement-system/pkg/errors"
)

// entityTables is the closed mapping from entity type to document table.
// Table names are never taken from request input.
var entityTables = map[string]string{
	constants.EntityRequirement:   "requirements",
	constants.EntityQuotation:     "quotations",
	constants.EntityFuelControl:   "fuel_controls",
	constants.EntityPurchaseOrder: "purchase_orders",
}

type DocumentSignatureRepositoryInterface interface {
	FindForApproval(ctx context.Context, entityType string, entityID int64) (*approval.Document, error)

	// ApplySignature persists one signature slot with a conditional
	// UPDATE. Zero affected rows means another writer got there first
	// (slot taken, document rejected or already terminal) and surfaces
	// as ErrConflict, the only retriable outcome.
	ApplySignature(ctx context.Context, entityType string, entityID int64, level int, signature string, signerID int64, signedAt time.Time, newStatus string) error

	ApplyRejection(ctx context.Context, entityType string, entityID int64, reason string, rejectedBy int64, rejectedAt time.Time, newStatus string) error
	Cancel(ctx context.Context, entityType string, entityID int64, newStatus string) error
}

type documentSignatureRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDocumentSignatureRepository(storage *pgxpool.Pool, logger *zap.Logger) DocumentSignatureRepositoryInterface {
	return &documentSignatureRepository{storage: storage, logger: logger}
}

func tableFor(entityType string) (string, error) {
	table, ok := entityTables[entityType]
	if !ok {
		return "", apperrors.NewInvalidInputError("unknown entity type %q", entityType)
	}
	return table, nil
}

func (r *documentSignatureRepository) FindForApproval(ctx context.Context, entityType string, entityID int64) (*approval.Document, error) {
	table, err := tableFor(entityType)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, amount, status, creator_id,
			sig1, signer1, signed1_at,
			sig2, signer2, signed2_at,
			sig3, signer3, signed3_at,
			sig4, signer4, signed4_at,
			reject_reason, rejected_by, rejected_at
		FROM %s
		WHERE id = $1 AND deleted_at IS NULL`, table)

	doc := &approval.Document{EntityType: entityType, Slots: &entities.SignatureSlots{}}
	slots := doc.Slots
	err = r.storage.QueryRow(ctx, query, entityID).Scan(
		&doc.EntityID, &doc.Amount, &doc.Status, &doc.CreatorID,
		&slots.Slots[0].Signature, &slots.Slots[0].SignerID, &slots.Slots[0].SignedAt,
		&slots.Slots[1].Signature, &slots.Slots[1].SignerID, &slots.Slots[1].SignedAt,
		&slots.Slots[2].Signature, &slots.Slots[2].SignerID, &slots.Slots[2].SignedAt,
		&slots.Slots[3].Signature, &slots.Slots[3].SignerID, &slots.Slots[3].SignedAt,
		&slots.Rejection.Reason, &slots.Rejection.RejectedBy, &slots.Rejection.RejectedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load %s %d for approval: %w", entityType, entityID, err)
	}
	return doc, nil
}

func (r *documentSignatureRepository) ApplySignature(ctx context.Context, entityType string, entityID int64, level int, signature string, signerID int64, signedAt time.Time, newStatus string) error {
	table, err := tableFor(entityType)
	if err != nil {
		return err
	}
	if level < constants.MinSignatureLevel || level > constants.MaxSignatureLevel {
		return apperrors.NewInvalidInputError("signature level %d out of range", level)
	}

	query := fmt.Sprintf(`
		UPDATE %[1]s
		SET sig%[2]d = $1, signer%[2]d = $2, signed%[2]d_at = $3, status = $4, updated_at = NOW()
		WHERE id = $5
			AND sig%[2]d IS NULL
			AND reject_reason IS NULL
			AND status NOT IN ('REJECTED', 'CANCELLED', 'APPROVED')
			AND deleted_at IS NULL`, table, level)

	tag, err := r.storage.Exec(ctx, query, signature, signerID, signedAt, newStatus, entityID)
	if err != nil {
		return fmt.Errorf("failed to apply signature on %s %d: %w", entityType, entityID, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("signature lost conditional update",
			zap.String("entity_type", entityType),
			zap.Int64("entity_id", entityID),
			zap.Int("level", level))
		return apperrors.ErrConflict
	}
	return nil
}

func (r *documentSignatureRepository) ApplyRejection(ctx context.Context, entityType string, entityID int64, reason string, rejectedBy int64, rejectedAt time.Time, newStatus string) error {
	table, err := tableFor(entityType)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET reject_reason = $1, rejected_by = $2, rejected_at = $3, status = $4, updated_at = NOW()
		WHERE id = $5
			AND reject_reason IS NULL
			AND status NOT IN ('REJECTED', 'CANCELLED', 'APPROVED')
			AND deleted_at IS NULL`, table)

	tag, err := r.storage.Exec(ctx, query, reason, rejectedBy, rejectedAt, newStatus, entityID)
	if err != nil {
		return fmt.Errorf("failed to reject %s %d: %w", entityType, entityID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

func (r *documentSignatureRepository) Cancel(ctx context.Context, entityType string, entityID int64, newStatus string) error {
	table, err := tableFor(entityType)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'PENDING' AND deleted_at IS NULL`, table)

	tag, err := r.storage.Exec(ctx, query, newStatus, entityID)
	if err != nil {
		return fmt.Errorf("failed to cancel %s %d: %w", entityType, entityID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}
