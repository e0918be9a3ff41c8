// Package http provides the HTTP handler layer for the booking API.
package http

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all booking API routes.
// It creates a versioned API group and attaches the handler methods.
func RegisterRoutes(e *echo.Echo, h *BookingHandler) {
	// Health check endpoint (no version prefix)
	e.GET("/health", h.Health)

	// API v1 group
	api := e.Group("/api/v1")

	// Offer search opens a session
	offers := api.Group("/offers")
	offers.POST("/search", h.SearchOffers)

	// Everything else operates on an existing session
	sessions := api.Group("/sessions")
	sessions.POST("/:id/refine", h.RefineOffers)
	sessions.PUT("/:id/selection", h.SelectOffer)
	sessions.DELETE("/:id/selection/:category", h.ClearSelection)
	sessions.GET("/:id/quote", h.GetQuote)

	sessions.POST("/:id/checkout", h.StartCheckout)
	sessions.GET("/:id/checkout", h.GetCheckout)
	sessions.POST("/:id/checkout/contact", h.SubmitContact)
	sessions.POST("/:id/checkout/passengers", h.SubmitPassengers)
	sessions.POST("/:id/checkout/payment", h.SubmitPayment)
	sessions.POST("/:id/checkout/back", h.CheckoutBack)
	sessions.GET("/:id/receipt", h.GetReceipt)
}

// RegisterRoutesWithMiddleware registers routes with custom middleware.
// This allows for endpoint-specific middleware configuration.
func RegisterRoutesWithMiddleware(e *echo.Echo, h *BookingHandler, middleware ...echo.MiddlewareFunc) {
	// Health check endpoint (no version prefix, no middleware)
	e.GET("/health", h.Health)

	api := e.Group("/api/v1", middleware...)

	offers := api.Group("/offers")
	offers.POST("/search", h.SearchOffers)

	sessions := api.Group("/sessions")
	sessions.POST("/:id/refine", h.RefineOffers)
	sessions.PUT("/:id/selection", h.SelectOffer)
	sessions.DELETE("/:id/selection/:category", h.ClearSelection)
	sessions.GET("/:id/quote", h.GetQuote)

	sessions.POST("/:id/checkout", h.StartCheckout)
	sessions.GET("/:id/checkout", h.GetCheckout)
	sessions.POST("/:id/checkout/contact", h.SubmitContact)
	sessions.POST("/:id/checkout/passengers", h.SubmitPassengers)
	sessions.POST("/:id/checkout/payment", h.SubmitPayment)
	sessions.POST("/:id/checkout/back", h.CheckoutBack)
	sessions.GET("/:id/receipt", h.GetReceipt)
}
