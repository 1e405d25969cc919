package routes

import (
	"github.com/labstack/echo/v4"

	"procurement-system/internal/controllers"
	"procurement-system/pkg/middleware"
)

type Controllers struct {
	Auth          *controllers.AuthController
	Requirement   *controllers.RequirementController
	Quotation     *controllers.QuotationController
	FuelControl   *controllers.FuelControlController
	PurchaseOrder *controllers.PurchaseOrderController
	Approval      *controllers.ApprovalController
	Settings      *controllers.SettingsController
	Report        *controllers.ReportController
}

func InitRouter(e *echo.Echo, c Controllers, authMW *middleware.AuthMiddleware) {
	api := e.Group("/api/v1")

	registerAuthRoutes(api, c.Auth, authMW)

	protected := api.Group("", authMW.Auth)
	registerDocumentRoutes(protected, c)
	registerApprovalRoutes(protected, c.Approval)
	registerSettingsRoutes(protected, c.Settings)
	registerReportRoutes(protected, c.Report)
}
