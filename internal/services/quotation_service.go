package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"procurement-system/internal/dto"
	"procurement-system/internal/entities"
	"procurement-system/internal/repositories"
	"procurement-system/pkg/constants"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/types"
)

type QuotationServiceInterface interface {
	Create(ctx context.Context, creatorID int64, payload dto.CreateQuotationDTO) (*entities.Quotation, error)
	GetByID(ctx context.Context, id int64) (*entities.Quotation, error)
	List(ctx context.Context, filter types.Filter) ([]entities.Quotation, uint64, error)
	Update(ctx context.Context, id int64, actorID int64, payload dto.UpdateQuotationDTO) (*entities.Quotation, error)
	Delete(ctx context.Context, id int64, actorID int64) error
	Cancel(ctx context.Context, id int64, actorID int64) (*entities.Quotation, error)
}

type QuotationService struct {
	repo        repositories.QuotationRepositoryInterface
	sigRepo     repositories.DocumentSignatureRepositoryInterface
	approvalSvc ApprovalServiceInterface
	txManager   repositories.TxManagerInterface
	logger      *zap.Logger
}

func NewQuotationService(
	repo repositories.QuotationRepositoryInterface,
	sigRepo repositories.DocumentSignatureRepositoryInterface,
	approvalSvc ApprovalServiceInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		repo:        repo,
		sigRepo:     sigRepo,
		approvalSvc: approvalSvc,
		txManager:   txManager,
		logger:      logger,
	}
}

func (s *QuotationService) Create(ctx context.Context, creatorID int64, payload dto.CreateQuotationDTO) (*entities.Quotation, error) {
	quotation := &entities.Quotation{
		Number:       documentNumber("QUO"),
		Description:  payload.Description,
		SupplierName: payload.SupplierName,
		ValidUntil:   payload.ValidUntil,
		Amount:       payload.Amount,
		Status:       constants.StatusPending,
		CreatorID:    creatorID,
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.repo.Create(ctx, tx, quotation)
		if err != nil {
			return err
		}
		quotation.ID = id
		return s.approvalSvc.SetupForNewDocumentInTx(ctx, tx, constants.EntityQuotation, id, quotation.Amount)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quotation created",
		zap.Int64("id", quotation.ID),
		zap.String("number", quotation.Number),
		zap.Int64("creator", creatorID))
	return s.repo.FindByID(ctx, quotation.ID)
}

func (s *QuotationService) GetByID(ctx context.Context, id int64) (*entities.Quotation, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *QuotationService) List(ctx context.Context, filter types.Filter) ([]entities.Quotation, uint64, error) {
	return s.repo.List(ctx, filter)
}

func (s *QuotationService) Update(ctx context.Context, id int64, actorID int64, payload dto.UpdateQuotationDTO) (*entities.Quotation, error) {
	quotation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation.CreatorID != actorID {
		return nil, apperrors.ErrForbidden
	}
	if quotation.Status != constants.StatusPending {
		return nil, apperrors.ErrInvalidState
	}

	if payload.Description != nil {
		quotation.Description = *payload.Description
	}
	if payload.SupplierName != nil {
		quotation.SupplierName = payload.SupplierName
	}
	if payload.ValidUntil != nil {
		quotation.ValidUntil = payload.ValidUntil
	}
	if payload.Amount != nil {
		quotation.Amount = *payload.Amount
	}

	if err := s.repo.Update(ctx, quotation); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *QuotationService) Delete(ctx context.Context, id int64, actorID int64) error {
	quotation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if quotation.CreatorID != actorID {
		return apperrors.ErrForbidden
	}
	if quotation.Status != constants.StatusPending {
		return apperrors.ErrInvalidState
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *QuotationService) Cancel(ctx context.Context, id int64, actorID int64) (*entities.Quotation, error) {
	quotation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation.CreatorID != actorID {
		return nil, apperrors.ErrForbidden
	}
	if quotation.Status != constants.StatusPending {
		return nil, apperrors.ErrInvalidState
	}

	if err := s.sigRepo.Cancel(ctx, constants.EntityQuotation, id, constants.StatusCancelled); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}
