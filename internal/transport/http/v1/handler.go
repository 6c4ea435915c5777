// Package v1 provides the HTTP handlers for the chat API.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Jaaziel-Polanco/bot-claro/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the chat API routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Chat API (for the widget)
	e.POST("/v1/chat/resolve", h.ResolveMessage)
	e.POST("/v1/chat/disambiguate", h.Disambiguate)
	e.GET("/v1/intents", h.SuggestIntents)
	e.GET("/v1/sessions/:session_id/messages", h.GetSessionMessages)

	// Admin API
	e.POST("/v1/admin/learn", h.Learn)
	e.POST("/v1/admin/reload", h.ReloadCatalog)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
