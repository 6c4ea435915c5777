package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Jaaziel-Polanco/bot-claro/internal/domain"
	"github.com/Jaaziel-Polanco/bot-claro/internal/service"
)

// SuggestIntents returns ranked intent suggestions for a query. With no
// query the full catalog is returned in catalog order.
// GET /v1/intents?q=...
func (h *Handler) SuggestIntents(c echo.Context) error {
	intents := h.service.Suggest(c.QueryParam("q"))
	if intents == nil {
		intents = []domain.Intent{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"intents": intents,
	})
}

// Learn feeds one confirmed (utterance, intent) pair directly into the
// online learning loop.
// POST /v1/admin/learn
func (h *Handler) Learn(c echo.Context) error {
	var req domain.LearnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Message == "" || req.IntentID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message and intent_id are required"})
	}

	ctx := c.Request().Context()

	if err := h.service.Learn(ctx, req.Message, req.IntentID, service.SourceAdmin); err != nil {
		if errors.Is(err, service.ErrCorrectionRejected) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Aprendizaje completado"})
}

// ReloadCatalog re-imports the intent catalog and retrains the
// classifier.
// POST /v1/admin/reload
func (h *Handler) ReloadCatalog(c echo.Context) error {
	ctx := c.Request().Context()

	info, err := h.service.ReloadCatalog(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, info)
}
