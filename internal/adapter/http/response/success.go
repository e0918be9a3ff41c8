// Package response provides standardized HTTP response builders for the booking API.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status"`

	// Store reports booking store connectivity ("ok" or "degraded").
	Store string `json:"store,omitempty"`
}

// Health writes a health check response.
func Health(c echo.Context, store string) error {
	return c.JSON(http.StatusOK, &HealthResponse{
		Status: "ok",
		Store:  store,
	})
}

// SearchResults writes a 200 OK response with search results.
func SearchResults(c echo.Context, results interface{}) error {
	return c.JSON(http.StatusOK, results)
}
