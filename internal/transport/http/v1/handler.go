// Package v1 provides the read-only HTTP history API.
package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hrassist/chathub/internal/auth"
	"github.com/hrassist/chathub/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service  *service.Service
	verifier auth.Verifier
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service, verifier auth.Verifier) *Handler {
	return &Handler{
		service:  svc,
		verifier: verifier,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/v1", h.bearerAuth)
	g.GET("/chat/history/:username", h.GetLatestHistory)
	g.GET("/chat/sessions/:username", h.GetSessions)
	g.GET("/chat/session-messages/:session_id", h.GetSessionMessages)
	g.POST("/menu/reload", h.ReloadMenu)

	e.GET("/health", h.Health)
}

// bearerAuth rejects requests without a valid bearer token.
func (h *Handler) bearerAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
		}
		if err := h.verifier.Verify(token); err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		}
		return next(c)
	}
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// ReloadMenu drops the cached menu snapshot after configuration edits.
// POST /v1/menu/reload
func (h *Handler) ReloadMenu(c echo.Context) error {
	h.service.ReloadMenu()
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
