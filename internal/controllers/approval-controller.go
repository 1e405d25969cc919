package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"procurement-system/internal/approval"
	"procurement-system/internal/dto"
	"procurement-system/internal/services"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/utils"
)

type ApprovalController struct {
	service services.ApprovalServiceInterface
	logger  *zap.Logger
}

func NewApprovalController(service services.ApprovalServiceInterface, logger *zap.Logger) *ApprovalController {
	return &ApprovalController{service: service, logger: logger}
}

func (c *ApprovalController) entityRef(ctx echo.Context) (string, int64, error) {
	entityType := ctx.Param("entityType")
	id, err := parseIDParam(ctx)
	if err != nil {
		return "", 0, err
	}
	return entityType, id, nil
}

func (c *ApprovalController) GetConfiguration(ctx echo.Context) error {
	entityType, id, err := c.entityRef(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	config, err := c.service.GetConfiguration(ctx.Request().Context(), entityType, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, config, "approval configuration", http.StatusOK)
}

func (c *ApprovalController) ApplyTemplate(ctx echo.Context) error {
	entityType, id, err := c.entityRef(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.ApplyTemplateDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.service.ApplyTemplate(ctx.Request().Context(), entityType, id, payload.TemplateName); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "template applied", http.StatusOK)
}

func configRowsFromDTO(rows []dto.ConfigurationRowDTO) []approval.ConfigRow {
	out := make([]approval.ConfigRow, 0, len(rows))
	for _, row := range rows {
		required := true
		if row.Required != nil {
			required = *row.Required
		}
		out = append(out, approval.ConfigRow{Level: row.Level, Role: row.Role, Required: required})
	}
	return out
}

func (c *ApprovalController) ApplyCustomConfiguration(ctx echo.Context) error {
	entityType, id, err := c.entityRef(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.ApplyCustomConfigurationDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	err = c.service.ApplyCustomConfiguration(ctx.Request().Context(), entityType, id, configRowsFromDTO(payload.Rows))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "configuration applied", http.StatusOK)
}

// Eligibility answers whether the caller may sign right now without
// mutating anything; the UI uses it to show or hide the sign button.
func (c *ApprovalController) Eligibility(ctx echo.Context) error {
	entityType, id, err := c.entityRef(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	permissions, err := utils.GetPermissionsMapFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	decision, err := c.service.EvaluateEligibility(ctx.Request().Context(), entityType, id, int64(userID), permissions)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, decision, "eligibility", http.StatusOK)
}

func (c *ApprovalController) Sign(ctx echo.Context) error {
	entityType, id, err := c.entityRef(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	permissions, err := utils.GetPermissionsMapFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.SignDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	outcome, err := c.service.Sign(ctx.Request().Context(), entityType, id, int64(userID), permissions, payload.Signature)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, outcome, "document signed", http.StatusOK)
}

func (c *ApprovalController) Reject(ctx echo.Context) error {
	entityType, id, err := c.entityRef(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	permissions, err := utils.GetPermissionsMapFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.RejectDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	status, err := c.service.Reject(ctx.Request().Context(), entityType, id, int64(userID), permissions, payload.Reason)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]string{"status": status}, "document rejected", http.StatusOK)
}

func (c *ApprovalController) Progress(ctx echo.Context) error {
	entityType, id, err := c.entityRef(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	report, err := c.service.Progress(ctx.Request().Context(), entityType, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "approval progress", http.StatusOK)
}

func (c *ApprovalController) ListTemplates(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	templates, total, err := c.service.ListTemplates(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, templates, "approval templates", http.StatusOK, total)
}

func (c *ApprovalController) CreateTemplate(ctx echo.Context) error {
	var payload dto.CreateTemplateDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	err := c.service.CreateTemplate(ctx.Request().Context(), payload.TemplateName, payload.EntityType, configRowsFromDTO(payload.Rows))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "template created", http.StatusCreated)
}
