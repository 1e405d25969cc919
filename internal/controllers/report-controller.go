package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"procurement-system/internal/services"
	apperrors "procurement-system/pkg/errors"
	"procurement-system/pkg/utils"
)

type ReportController struct {
	service services.ReportServiceInterface
	logger  *zap.Logger
}

func NewReportController(service services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{service: service, logger: logger}
}

// ApprovalsExcel streams an xlsx export for ?from=YYYY-MM-DD&to=YYYY-MM-DD
// with an optional status filter. Defaults to the last 30 days.
func (c *ReportController) ApprovalsExcel(ctx echo.Context) error {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := ctx.QueryParam("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("invalid from date %q", raw), c.logger)
		}
		from = parsed
	}
	if raw := ctx.QueryParam("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("invalid to date %q", raw), c.logger)
		}
		// Inclusive end date.
		to = parsed.AddDate(0, 0, 1)
	}

	buf, err := c.service.ApprovalsExcel(ctx.Request().Context(), from, to, ctx.QueryParam("status"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filename := fmt.Sprintf("approvals_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
