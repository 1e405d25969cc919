package routes

import (
	"github.com/labstack/echo/v4"

	"procurement-system/internal/controllers"
)

func registerSettingsRoutes(g *echo.Group, c *controllers.SettingsController) {
	settings := g.Group("/settings")
	settings.GET("/amount-threshold", c.GetAmountThreshold)
	settings.PUT("/amount-threshold", c.SetAmountThreshold)
}
