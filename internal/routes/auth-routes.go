package routes

import (
	"github.com/labstack/echo/v4"

	"procurement-system/internal/controllers"
	"procurement-system/pkg/middleware"
)

func registerAuthRoutes(g *echo.Group, c *controllers.AuthController, authMW *middleware.AuthMiddleware) {
	auth := g.Group("/auth")
	auth.POST("/login", c.Login)
	auth.POST("/refresh", c.Refresh)
	auth.GET("/me", c.Me, authMW.Auth)
}
