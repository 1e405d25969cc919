package routes

import (
	"github.com/labstack/echo/v4"

	"procurement-system/internal/controllers"
)

func registerReportRoutes(g *echo.Group, c *controllers.ReportController) {
	reports := g.Group("/reports")
	reports.GET("/approvals", c.ApprovalsExcel)
}
