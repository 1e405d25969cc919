package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"procurement-system/internal/approval"
	"procurement-system/internal/entities"
	"procurement-system/internal/repositories"
	"procurement-system/pkg/constants"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/types"
)

// SignOutcome reports what a successful signature did to the document.
type SignOutcome struct {
	EntityType     string `json:"entity_type"`
	EntityID       int64  `json:"entity_id"`
	Level          int    `json:"level"`
	Status         string `json:"status"`
	BecameApproved bool   `json:"became_approved"`
}

// ProgressReport is the read-side view of an approval chain.
type ProgressReport struct {
	EntityType   string `json:"entity_type"`
	EntityID     int64  `json:"entity_id"`
	Status       string `json:"status"`
	Progress     int    `json:"progress"`
	ActiveLevels int    `json:"active_levels"`
	SignedLevels int    `json:"signed_levels"`
	Rejected     bool   `json:"rejected"`
	RejectReason string `json:"reject_reason,omitempty"`
}

type ApprovalServiceInterface interface {
	GetConfiguration(ctx context.Context, entityType string, entityID int64) ([]entities.ApprovalConfiguration, error)
	ApplyTemplate(ctx context.Context, entityType string, entityID int64, templateName string) error
	ApplyCustomConfiguration(ctx context.Context, entityType string, entityID int64, rows []approval.ConfigRow) error
	SetupForNewDocumentInTx(ctx context.Context, tx pgx.Tx, entityType string, entityID int64, amount float64) error

	EvaluateEligibility(ctx context.Context, entityType string, entityID int64, actorID int64, capabilities map[string]bool) (approval.Decision, error)
	Sign(ctx context.Context, entityType string, entityID int64, actorID int64, capabilities map[string]bool, signatureBlob string) (*SignOutcome, error)
	Reject(ctx context.Context, entityType string, entityID int64, actorID int64, capabilities map[string]bool, reason string) (string, error)
	Progress(ctx context.Context, entityType string, entityID int64) (*ProgressReport, error)

	ListTemplates(ctx context.Context, filter types.Filter) ([]entities.ApprovalTemplate, uint64, error)
	CreateTemplate(ctx context.Context, templateName, entityType string, rows []approval.ConfigRow) error
}

type ApprovalService struct {
	configRepo  repositories.ApprovalConfigurationRepositoryInterface
	sigRepo     repositories.DocumentSignatureRepositoryInterface
	settingsSvc SettingsServiceInterface
	txManager   repositories.TxManagerInterface
	logger      *zap.Logger
}

func NewApprovalService(
	configRepo repositories.ApprovalConfigurationRepositoryInterface,
	sigRepo repositories.DocumentSignatureRepositoryInterface,
	settingsSvc SettingsServiceInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) *ApprovalService {
	return &ApprovalService{
		configRepo:  configRepo,
		sigRepo:     sigRepo,
		settingsSvc: settingsSvc,
		txManager:   txManager,
		logger:      logger,
	}
}

func validateEntityType(entityType string) error {
	if !constants.IsValidEntityType(entityType) {
		return apperrors.NewInvalidInputError("unknown entity type %q", entityType)
	}
	return nil
}

// validateConfigRows enforces the shape every configuration must have:
// levels within 1..4, no duplicates, known roles.
func validateConfigRows(rows []approval.ConfigRow) error {
	if len(rows) == 0 {
		return apperrors.NewInvalidInputError("configuration must contain at least one row")
	}
	if len(rows) > constants.MaxSignatureLevel {
		return apperrors.NewInvalidInputError("configuration cannot exceed %d rows", constants.MaxSignatureLevel)
	}

	seen := map[int]bool{}
	for _, row := range rows {
		if row.Level < constants.MinSignatureLevel || row.Level > constants.MaxSignatureLevel {
			return apperrors.NewInvalidInputError("signature level %d out of range", row.Level)
		}
		if seen[row.Level] {
			return apperrors.NewInvalidInputError("duplicate signature level %d", row.Level)
		}
		seen[row.Level] = true
		if !constants.IsValidApprovalRole(row.Role) {
			return apperrors.NewInvalidInputError("unknown approval role %q", row.Role)
		}
	}
	return nil
}

func (s *ApprovalService) GetConfiguration(ctx context.Context, entityType string, entityID int64) ([]entities.ApprovalConfiguration, error) {
	if err := validateEntityType(entityType); err != nil {
		return nil, err
	}
	if _, err := s.sigRepo.FindForApproval(ctx, entityType, entityID); err != nil {
		return nil, err
	}
	return s.configRepo.GetConfigurations(ctx, entityType, entityID)
}

func (s *ApprovalService) ApplyTemplate(ctx context.Context, entityType string, entityID int64, templateName string) error {
	if err := validateEntityType(entityType); err != nil {
		return err
	}

	doc, err := s.sigRepo.FindForApproval(ctx, entityType, entityID)
	if err != nil {
		return err
	}
	// Mid-chain documents may be reconfigured: old rows are superseded,
	// recorded signatures stay on the document. Terminal chains are frozen.
	if constants.IsTerminalStatus(doc.Status) {
		return apperrors.ErrInvalidState
	}

	rows, err := s.configRepo.GetTemplateRows(ctx, templateName, entityType)
	if err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.configRepo.DeactivateInTx(ctx, tx, entityType, entityID); err != nil {
			return err
		}
		return s.configRepo.InsertRowsInTx(ctx, tx, entityType, entityID, rows)
	})
}

func (s *ApprovalService) ApplyCustomConfiguration(ctx context.Context, entityType string, entityID int64, rows []approval.ConfigRow) error {
	if err := validateEntityType(entityType); err != nil {
		return err
	}
	if err := validateConfigRows(rows); err != nil {
		return err
	}

	doc, err := s.sigRepo.FindForApproval(ctx, entityType, entityID)
	if err != nil {
		return err
	}
	if constants.IsTerminalStatus(doc.Status) {
		return apperrors.ErrInvalidState
	}

	sorted := make([]approval.ConfigRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.configRepo.DeactivateInTx(ctx, tx, entityType, entityID); err != nil {
			return err
		}
		return s.configRepo.InsertRowsInTx(ctx, tx, entityType, entityID, sorted)
	})
}

// SetupForNewDocumentInTx materializes the LOW or FULL template for a
// freshly created document, inside the creating transaction. A missing
// template is not an error: the document simply starts unconfigured.
func (s *ApprovalService) SetupForNewDocumentInTx(ctx context.Context, tx pgx.Tx, entityType string, entityID int64, amount float64) error {
	threshold, err := s.settingsSvc.GetAmountThreshold(ctx)
	if err != nil {
		return err
	}

	templateName := constants.TemplateFull
	if approval.SelectTier(amount, threshold) == approval.TierLow {
		templateName = constants.TemplateLow
	}

	rows, err := s.configRepo.GetTemplateRows(ctx, templateName, entityType)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("no approval template for new document",
				zap.String("entity_type", entityType),
				zap.String("template", templateName))
			return nil
		}
		return err
	}
	return s.configRepo.InsertRowsInTx(ctx, tx, entityType, entityID, rows)
}

func (s *ApprovalService) EvaluateEligibility(ctx context.Context, entityType string, entityID int64, actorID int64, capabilities map[string]bool) (approval.Decision, error) {
	if err := validateEntityType(entityType); err != nil {
		return approval.Decision{}, err
	}

	doc, err := s.sigRepo.FindForApproval(ctx, entityType, entityID)
	if err != nil {
		return approval.Decision{}, err
	}
	cfg, err := s.configRepo.Resolve(ctx, entityType, entityID)
	if err != nil {
		return approval.Decision{}, err
	}
	threshold, err := s.settingsSvc.GetAmountThreshold(ctx)
	if err != nil {
		return approval.Decision{}, err
	}

	return approval.Evaluate(*doc, actorID, capabilities, cfg, threshold), nil
}

// Sign runs the full eligibility check, computes the would-be status and
// persists the slot with a conditional update. A concurrent writer surfaces
// as ErrConflict; the caller refetches and retries.
func (s *ApprovalService) Sign(ctx context.Context, entityType string, entityID int64, actorID int64, capabilities map[string]bool, signatureBlob string) (*SignOutcome, error) {
	if err := validateEntityType(entityType); err != nil {
		return nil, err
	}

	doc, err := s.sigRepo.FindForApproval(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.configRepo.Resolve(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	threshold, err := s.settingsSvc.GetAmountThreshold(ctx)
	if err != nil {
		return nil, err
	}

	decision := approval.Evaluate(*doc, actorID, capabilities, cfg, threshold)
	if !decision.CanSign {
		return nil, apperrors.NewHttpError(403, decision.Reason, apperrors.ErrForbidden, map[string]interface{}{
			"entity_type": entityType,
			"entity_id":   entityID,
		})
	}

	signedAt := time.Now()
	result, err := approval.Apply(*doc, decision.Level, actorID, signatureBlob, signedAt, cfg, threshold)
	if err != nil {
		return nil, err
	}

	if err := s.sigRepo.ApplySignature(ctx, entityType, entityID, decision.Level, signatureBlob, actorID, signedAt, result.Status); err != nil {
		return nil, err
	}

	s.logger.Info("document signed",
		zap.String("entity_type", entityType),
		zap.Int64("entity_id", entityID),
		zap.Int("level", decision.Level),
		zap.Int64("signer", actorID),
		zap.String("status", result.Status))

	return &SignOutcome{
		EntityType:     entityType,
		EntityID:       entityID,
		Level:          decision.Level,
		Status:         result.Status,
		BecameApproved: result.BecameApproved,
	}, nil
}

// Reject marks the document rejected. Any signer configured at an active
// level of the chain may reject, regardless of whose turn it is.
func (s *ApprovalService) Reject(ctx context.Context, entityType string, entityID int64, actorID int64, capabilities map[string]bool, reason string) (string, error) {
	if err := validateEntityType(entityType); err != nil {
		return "", err
	}
	if reason == "" {
		return "", apperrors.NewInvalidInputError("rejection reason is required")
	}

	doc, err := s.sigRepo.FindForApproval(ctx, entityType, entityID)
	if err != nil {
		return "", err
	}
	cfg, err := s.configRepo.Resolve(ctx, entityType, entityID)
	if err != nil {
		return "", err
	}
	threshold, err := s.settingsSvc.GetAmountThreshold(ctx)
	if err != nil {
		return "", err
	}

	allowed := false
	for _, row := range approval.ActiveRows(cfg, approval.SelectTier(doc.Amount, threshold)) {
		if row.Role == constants.RoleSolicitante {
			if doc.CreatorID == actorID {
				allowed = true
				break
			}
			continue
		}
		if capabilities[approval.SignPermission(entityType, row.Role)] {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", apperrors.NewHttpError(403, "no permission to reject this document", apperrors.ErrForbidden, nil)
	}

	rejectedAt := time.Now()
	newStatus, err := approval.ApplyRejection(*doc, reason, actorID, rejectedAt)
	if err != nil {
		return "", err
	}

	if err := s.sigRepo.ApplyRejection(ctx, entityType, entityID, reason, actorID, rejectedAt, newStatus); err != nil {
		return "", err
	}

	s.logger.Info("document rejected",
		zap.String("entity_type", entityType),
		zap.Int64("entity_id", entityID),
		zap.Int64("rejected_by", actorID))
	return newStatus, nil
}

func (s *ApprovalService) Progress(ctx context.Context, entityType string, entityID int64) (*ProgressReport, error) {
	if err := validateEntityType(entityType); err != nil {
		return nil, err
	}

	doc, err := s.sigRepo.FindForApproval(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.configRepo.Resolve(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	threshold, err := s.settingsSvc.GetAmountThreshold(ctx)
	if err != nil {
		return nil, err
	}

	active := approval.ActiveRows(cfg, approval.SelectTier(doc.Amount, threshold))
	signed := 0
	for _, row := range active {
		if doc.Slots.IsSlotSet(row.Level) {
			signed++
		}
	}

	report := &ProgressReport{
		EntityType:   entityType,
		EntityID:     entityID,
		Status:       doc.Status,
		Progress:     approval.Progress(active, doc.Slots),
		ActiveLevels: len(active),
		SignedLevels: signed,
		Rejected:     doc.Slots.IsRejected(),
	}
	if report.Rejected {
		report.RejectReason = doc.Slots.Rejection.Reason.String
	}
	return report, nil
}

func (s *ApprovalService) ListTemplates(ctx context.Context, filter types.Filter) ([]entities.ApprovalTemplate, uint64, error) {
	return s.configRepo.ListTemplates(ctx, filter)
}

func (s *ApprovalService) CreateTemplate(ctx context.Context, templateName, entityType string, rows []approval.ConfigRow) error {
	if templateName == "" {
		return apperrors.NewInvalidInputError("template name is required")
	}
	if err := validateEntityType(entityType); err != nil {
		return err
	}
	if err := validateConfigRows(rows); err != nil {
		return err
	}
	return s.configRepo.CreateTemplate(ctx, templateName, entityType, rows)
}
