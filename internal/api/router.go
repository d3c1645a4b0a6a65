package api

import (
	"net/http"

	"distance-shipping/internal/modules/quotes"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all the API endpoints for the application.
func SetupRoutes(e *echo.Echo, quoteHandler *quotes.Handler) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Distance based shipping rates service"})
	})

	apiGroup := e.Group("/api")
	{
		// Shipping quote calculation for the order platform.
		apiGroup.POST("/quotes", quoteHandler.GetShippingQuote)

		// Rate table settings surface.
		apiGroup.GET("/settings/rates", quoteHandler.GetRateTable)
		apiGroup.POST("/settings/rates", quoteHandler.SaveRateTable)
	}
}
