package routes

import (
	"github.com/labstack/echo/v4"

	"procurement-system/internal/controllers"
)

func registerApprovalRoutes(g *echo.Group, c *controllers.ApprovalController) {
	approval := g.Group("/approval")
	approval.GET("/templates", c.ListTemplates)
	approval.POST("/templates", c.CreateTemplate)

	entity := approval.Group("/:entityType/:id")
	entity.GET("/configuration", c.GetConfiguration)
	entity.POST("/template", c.ApplyTemplate)
	entity.POST("/configuration", c.ApplyCustomConfiguration)
	entity.GET("/eligibility", c.Eligibility)
	entity.POST("/sign", c.Sign)
	entity.POST("/reject", c.Reject)
	entity.GET("/progress", c.Progress)
}
