package v1

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Jaaziel-Polanco/bot-claro/internal/nlp"
	"github.com/Jaaziel-Polanco/bot-claro/internal/service"
	"github.com/Jaaziel-Polanco/bot-claro/internal/store"
)

// ResolveRequest is the body for POST /v1/chat/resolve.
type ResolveRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
}

// DisambiguateRequest is the body for POST /v1/chat/disambiguate. The
// message is optional: when omitted the session's pending correction is
// learned instead.
type DisambiguateRequest struct {
	SessionID string `json:"session_id"`
	IntentID  string `json:"intent_id"`
	Message   string `json:"message,omitempty"`
}

// ResolveMessage classifies one user utterance and returns either the
// answer or the ambiguous candidate list.
// POST /v1/chat/resolve
func (h *Handler) ResolveMessage(c echo.Context) error {
	var req ResolveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "session_id is required"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	ctx := c.Request().Context()

	resolution, err := h.service.Resolve(ctx, req.SessionID, req.UserID, req.Message)
	if err != nil {
		if errors.Is(err, nlp.ErrNotReady) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"error":  "classifier not trained yet",
				"answer": service.ConnectionErrorMessage,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":  err.Error(),
			"answer": service.ConnectionErrorMessage,
		})
	}

	return c.JSON(http.StatusOK, resolution)
}

// Disambiguate resolves a pending ambiguous turn with the intent the
// user picked and feeds the correction back into the classifier.
// POST /v1/chat/disambiguate
func (h *Handler) Disambiguate(c echo.Context) error {
	var req DisambiguateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "session_id is required"})
	}
	if req.IntentID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "intent_id is required"})
	}

	ctx := c.Request().Context()

	resolution, err := h.service.ConfirmDisambiguation(ctx, req.SessionID, req.IntentID, req.Message)
	if err != nil {
		if errors.Is(err, store.ErrIntentNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "intent not found"})
		}
		if errors.Is(err, service.ErrNoPendingCorrection) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "nothing to disambiguate for this session"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":  err.Error(),
			"answer": service.ConnectionErrorMessage,
		})
	}

	return c.JSON(http.StatusOK, map[string]string{"answer": resolution.Answer})
}

// GetSessionMessages retrieves the transcript for a session.
// GET /v1/sessions/:session_id/messages
func (h *Handler) GetSessionMessages(c echo.Context) error {
	sessionID := c.Param("session_id")
	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}

	ctx := c.Request().Context()

	messages, err := h.service.GetMessages(ctx, sessionID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}
