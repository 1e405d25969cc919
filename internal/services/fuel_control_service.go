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

type FuelControlServiceInterface interface {
	Create(ctx context.Context, creatorID int64, payload dto.CreateFuelControlDTO) (*entities.FuelControl, error)
	GetByID(ctx context.Context, id int64) (*entities.FuelControl, error)
	List(ctx context.Context, filter types.Filter) ([]entities.FuelControl, uint64, error)
	Update(ctx context.Context, id int64, actorID int64, payload dto.UpdateFuelControlDTO) (*entities.FuelControl, error)
	Delete(ctx context.Context, id int64, actorID int64) error
	Cancel(ctx context.Context, id int64, actorID int64) (*entities.FuelControl, error)
}

type FuelControlService struct {
	repo        repositories.FuelControlRepositoryInterface
	sigRepo     repositories.DocumentSignatureRepositoryInterface
	approvalSvc ApprovalServiceInterface
	txManager   repositories.TxManagerInterface
	logger      *zap.Logger
}

func NewFuelControlService(
	repo repositories.FuelControlRepositoryInterface,
	sigRepo repositories.DocumentSignatureRepositoryInterface,
	approvalSvc ApprovalServiceInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) *FuelControlService {
	return &FuelControlService{
		repo:        repo,
		sigRepo:     sigRepo,
		approvalSvc: approvalSvc,
		txManager:   txManager,
		logger:      logger,
	}
}

func (s *FuelControlService) Create(ctx context.Context, creatorID int64, payload dto.CreateFuelControlDTO) (*entities.FuelControl, error) {
	fuelControl := &entities.FuelControl{
		Number:       documentNumber("FUE"),
		Description:  payload.Description,
		VehiclePlate: payload.VehiclePlate,
		Liters:       payload.Liters,
		ControlDate:  payload.ControlDate,
		Amount:       payload.Amount,
		Status:       constants.StatusPending,
		CreatorID:    creatorID,
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.repo.Create(ctx, tx, fuelControl)
		if err != nil {
			return err
		}
		fuelControl.ID = id
		return s.approvalSvc.SetupForNewDocumentInTx(ctx, tx, constants.EntityFuelControl, id, fuelControl.Amount)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("fuel control created",
		zap.Int64("id", fuelControl.ID),
		zap.String("number", fuelControl.Number),
		zap.Int64("creator", creatorID))
	return s.repo.FindByID(ctx, fuelControl.ID)
}

func (s *FuelControlService) GetByID(ctx context.Context, id int64) (*entities.FuelControl, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *FuelControlService) List(ctx context.Context, filter types.Filter) ([]entities.FuelControl, uint64, error) {
	return s.repo.List(ctx, filter)
}

func (s *FuelControlService) Update(ctx context.Context, id int64, actorID int64, payload dto.UpdateFuelControlDTO) (*entities.FuelControl, error) {
	fuelControl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fuelControl.CreatorID != actorID {
		return nil, apperrors.ErrForbidden
	}
	if fuelControl.Status != constants.StatusPending {
		return nil, apperrors.ErrInvalidState
	}

	if payload.Description != nil {
		fuelControl.Description = *payload.Description
	}
	if payload.VehiclePlate != nil {
		fuelControl.VehiclePlate = payload.VehiclePlate
	}
	if payload.Liters != nil {
		fuelControl.Liters = payload.Liters
	}
	if payload.ControlDate != nil {
		fuelControl.ControlDate = payload.ControlDate
	}
	if payload.Amount != nil {
		fuelControl.Amount = *payload.Amount
	}

	if err := s.repo.Update(ctx, fuelControl); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *FuelControlService) Delete(ctx context.Context, id int64, actorID int64) error {
	fuelControl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if fuelControl.CreatorID != actorID {
		return apperrors.ErrForbidden
	}
	if fuelControl.Status != constants.StatusPending {
		return apperrors.ErrInvalidState
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *FuelControlService) Cancel(ctx context.Context, id int64, actorID int64) (*entities.FuelControl, error) {
	fuelControl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fuelControl.CreatorID != actorID {
		return nil, apperrors.ErrForbidden
	}
	if fuelControl.Status != constants.StatusPending {
		return nil, apperrors.ErrInvalidState
	}

	if err := s.sigRepo.Cancel(ctx, constants.EntityFuelControl, id, constants.StatusCancelled); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}
