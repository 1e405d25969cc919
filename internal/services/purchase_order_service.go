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

type PurchaseOrderServiceInterface interface {
	Create(ctx context.Context, creatorID int64, payload dto.CreatePurchaseOrderDTO) (*entities.PurchaseOrder, error)
	GetByID(ctx context.Context, id int64) (*entities.PurchaseOrder, error)
	List(ctx context.Context, filter types.Filter) ([]entities.PurchaseOrder, uint64, error)
	Update(ctx context.Context, id int64, actorID int64, payload dto.UpdatePurchaseOrderDTO) (*entities.PurchaseOrder, error)
	Delete(ctx context.Context, id int64, actorID int64) error
	Cancel(ctx context.Context, id int64, actorID int64) (*entities.PurchaseOrder, error)
}

type PurchaseOrderService struct {
	repo        repositories.PurchaseOrderRepositoryInterface
	sigRepo     repositories.DocumentSignatureRepositoryInterface
	approvalSvc ApprovalServiceInterface
	txManager   repositories.TxManagerInterface
	logger      *zap.Logger
}

func NewPurchaseOrderService(
	repo repositories.PurchaseOrderRepositoryInterface,
	sigRepo repositories.DocumentSignatureRepositoryInterface,
	approvalSvc ApprovalServiceInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		repo:        repo,
		sigRepo:     sigRepo,
		approvalSvc: approvalSvc,
		txManager:   txManager,
		logger:      logger,
	}
}

func (s *PurchaseOrderService) Create(ctx context.Context, creatorID int64, payload dto.CreatePurchaseOrderDTO) (*entities.PurchaseOrder, error) {
	order := &entities.PurchaseOrder{
		Number:       documentNumber("PO"),
		Description:  payload.Description,
		SupplierName: payload.SupplierName,
		Currency:     payload.Currency,
		DeliveryDate: payload.DeliveryDate,
		Amount:       payload.Amount,
		Status:       constants.StatusPending,
		CreatorID:    creatorID,
	}
	if order.Currency == "" {
		order.Currency = "PEN"
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.repo.Create(ctx, tx, order)
		if err != nil {
			return err
		}
		order.ID = id
		return s.approvalSvc.SetupForNewDocumentInTx(ctx, tx, constants.EntityPurchaseOrder, id, order.Amount)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.Int64("id", order.ID),
		zap.String("number", order.Number),
		zap.Int64("creator", creatorID))
	return s.repo.FindByID(ctx, order.ID)
}

func (s *PurchaseOrderService) GetByID(ctx context.Context, id int64) (*entities.PurchaseOrder, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PurchaseOrderService) List(ctx context.Context, filter types.Filter) ([]entities.PurchaseOrder, uint64, error) {
	return s.repo.List(ctx, filter)
}

func (s *PurchaseOrderService) Update(ctx context.Context, id int64, actorID int64, payload dto.UpdatePurchaseOrderDTO) (*entities.PurchaseOrder, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.CreatorID != actorID {
		return nil, apperrors.ErrForbidden
	}
	if order.Status != constants.StatusPending {
		return nil, apperrors.ErrInvalidState
	}

	if payload.Description != nil {
		order.Description = *payload.Description
	}
	if payload.SupplierName != nil {
		order.SupplierName = payload.SupplierName
	}
	if payload.Currency != nil {
		order.Currency = *payload.Currency
	}
	if payload.DeliveryDate != nil {
		order.DeliveryDate = payload.DeliveryDate
	}
	if payload.Amount != nil {
		order.Amount = *payload.Amount
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *PurchaseOrderService) Delete(ctx context.Context, id int64, actorID int64) error {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if order.CreatorID != actorID {
		return apperrors.ErrForbidden
	}
	if order.Status != constants.StatusPending {
		return apperrors.ErrInvalidState
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *PurchaseOrderService) Cancel(ctx context.Context, id int64, actorID int64) (*entities.PurchaseOrder, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.CreatorID != actorID {
		return nil, apperrors.ErrForbidden
	}
	if order.Status != constants.StatusPending {
		return nil, apperrors.ErrInvalidState
	}

	if err := s.sigRepo.Cancel(ctx, constants.EntityPurchaseOrder, id, constants.StatusCancelled); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}
