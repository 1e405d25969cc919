package routes

import "github.com/labstack/echo/v4"

func registerDocumentRoutes(g *echo.Group, c Controllers) {
	requirements := g.Group("/requirements")
	requirements.POST("", c.Requirement.Create)
	requirements.GET("", c.Requirement.List)
	requirements.GET("/:id", c.Requirement.GetByID)
	requirements.PUT("/:id", c.Requirement.Update)
	requirements.DELETE("/:id", c.Requirement.Delete)
	requirements.POST("/:id/cancel", c.Requirement.Cancel)

	quotations := g.Group("/quotations")
	quotations.POST("", c.Quotation.Create)
	quotations.GET("", c.Quotation.List)
	quotations.GET("/:id", c.Quotation.GetByID)
	quotations.PUT("/:id", c.Quotation.Update)
	quotations.DELETE("/:id", c.Quotation.Delete)
	quotations.POST("/:id/cancel", c.Quotation.Cancel)

	fuelControls := g.Group("/fuel-controls")
	fuelControls.POST("", c.FuelControl.Create)
	fuelControls.GET("", c.FuelControl.List)
	fuelControls.GET("/:id", c.FuelControl.GetByID)
	fuelControls.PUT("/:id", c.FuelControl.Update)
	fuelControls.DELETE("/:id", c.FuelControl.Delete)
	fuelControls.POST("/:id/cancel", c.FuelControl.Cancel)

	purchaseOrders := g.Group("/purchase-orders")
	purchaseOrders.POST("", c.PurchaseOrder.Create)
	purchaseOrders.GET("", c.PurchaseOrder.List)
	purchaseOrders.GET("/:id", c.PurchaseOrder.GetByID)
	purchaseOrders.PUT("/:id", c.PurchaseOrder.Update)
	purchaseOrders.DELETE("/:id", c.PurchaseOrder.Delete)
	purchaseOrders.POST("/:id/cancel", c.PurchaseOrder.Cancel)
}
