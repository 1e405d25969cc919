package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"procurement-system/internal/dto"
	"procurement-system/internal/services"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/utils"
)

type SettingsController struct {
	service services.SettingsServiceInterface
	logger  *zap.Logger
}

func NewSettingsController(service services.SettingsServiceInterface, logger *zap.Logger) *SettingsController {
	return &SettingsController{service: service, logger: logger}
}

func (c *SettingsController) GetAmountThreshold(ctx echo.Context) error {
	value, err := c.service.GetAmountThreshold(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]float64{"value": value}, "amount threshold", http.StatusOK)
}

func (c *SettingsController) SetAmountThreshold(ctx echo.Context) error {
	var payload dto.SetThresholdDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.service.SetAmountThreshold(ctx.Request().Context(), payload.Value); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]float64{"value": payload.Value}, "amount threshold updated", http.StatusOK)
}
