package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"procurement-system/internal/dto"
	"procurement-system/internal/entities"
	"procurement-system/internal/repositories"
	"procurement-system/pkg/constants"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/types"
)

// documentNumber builds a short human-readable number like REQ-7F3A21C9.
func documentNumber(prefix string) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%s-%s", prefix, raw[:8])
}

type RequirementServiceInterface interface {
	Create(ctx context.Context, creatorID int64, payload dto.CreateRequirementDTO) (*entities.Requirement, error)
	GetByID(ctx context.Context, id int64) (*entities.Requirement, error)
	List(ctx context.Context, filter types.Filter) ([]entities.Requirement, uint64, error)
	Update(ctx context.Context, id int64, actorID int64, payload dto.UpdateRequirementDTO) (*entities.Requirement, error)
	Delete(ctx context.Context, id int64, actorID int64) error
	Cancel(ctx context.Context, id int64, actorID int64) (*entities.Requirement, error)
}

type RequirementService struct {
	repo        repositories.RequirementRepositoryInterface
	sigRepo     repositories.DocumentSignatureRepositoryInterface
	approvalSvc ApprovalServiceInterface
	txManager   repositories.TxManagerInterface
	logger      *zap.Logger
}

func NewRequirementService(
	repo repositories.RequirementRepositoryInterface,
	sigRepo repositories.DocumentSignatureRepositoryInterface,
	approvalSvc ApprovalServiceInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) *RequirementService {
	return &RequirementService{
		repo:        repo,
		sigRepo:     sigRepo,
		approvalSvc: approvalSvc,
		txManager:   txManager,
		logger:      logger,
	}
}

// Create inserts the document and materializes its approval chain in one
// transaction, so no document is ever visible without its configuration.
func (s *RequirementService) Create(ctx context.Context, creatorID int64, payload dto.CreateRequirementDTO) (*entities.Requirement, error) {
	requirement := &entities.Requirement{
		Number:      documentNumber("REQ"),
		Description: payload.Description,
		Department:  payload.Department,
		NeededBy:    payload.NeededBy,
		Amount:      payload.Amount,
		Status:      constants.StatusPending,
		CreatorID:   creatorID,
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.repo.Create(ctx, tx, requirement)
		if err != nil {
			return err
		}
		requirement.ID = id
		return s.approvalSvc.SetupForNewDocumentInTx(ctx, tx, constants.EntityRequirement, id, requirement.Amount)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("requirement created",
		zap.Int64("id", requirement.ID),
		zap.String("number", requirement.Number),
		zap.Int64("creator", creatorID))
	return s.repo.FindByID(ctx, requirement.ID)
}

func (s *RequirementService) GetByID(ctx context.Context, id int64) (*entities.Requirement, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *RequirementService) List(ctx context.Context, filter types.Filter) ([]entities.Requirement, uint64, error) {
	return s.repo.List(ctx, filter)
}

func (s *RequirementService) Update(ctx context.Context, id int64, actorID int64, payload dto.UpdateRequirementDTO) (*entities.Requirement, error) {
	requirement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if requirement.CreatorID != actorID {
		return nil, apperrors.ErrForbidden
	}
	if requirement.Status != constants.StatusPending {
		return nil, apperrors.ErrInvalidState
	}

	if payload.Description != nil {
		requirement.Description = *payload.Description
	}
	if payload.Department != nil {
		requirement.Department = payload.Department
	}
	if payload.NeededBy != nil {
		requirement.NeededBy = payload.NeededBy
	}
	if payload.Amount != nil {
		requirement.Amount = *payload.Amount
	}

	if err := s.repo.Update(ctx, requirement); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *RequirementService) Delete(ctx context.Context, id int64, actorID int64) error {
	requirement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if requirement.CreatorID != actorID {
		return apperrors.ErrForbidden
	}
	if requirement.Status != constants.StatusPending {
		return apperrors.ErrInvalidState
	}
	return s.repo.SoftDelete(ctx, id)
}

// Cancel withdraws a document that nobody has signed yet. Creator only;
// anything past PENDING must go through rejection instead.
func (s *RequirementService) Cancel(ctx context.Context, id int64, actorID int64) (*entities.Requirement, error) {
	requirement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if requirement.CreatorID != actorID {
		return nil, apperrors.ErrForbidden
	}
	if requirement.Status != constants.StatusPending {
		return nil, apperrors.ErrInvalidState
	}

	if err := s.sigRepo.Cancel(ctx, constants.EntityRequirement, id, constants.StatusCancelled); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}
