package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/Jaaziel-Polanco/bot-claro/internal/domain"
)

func getIntents(t *testing.T, e *echo.Echo, h *Handler, query string) []domain.Intent {
	t.Helper()
	target := "/v1/intents"
	if query != "" {
		target += "?q=" + query
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.SuggestIntents(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Intents []domain.Intent `json:"intents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.Intents
}

func TestSuggestIntentsDefault(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	intents := getIntents(t, e, h, "")
	assert.Len(t, intents, 3)
	assert.Equal(t, "billing_issue", intents[0].ID)
}

func TestSuggestIntentsFiltered(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	intents := getIntents(t, e, h, "copia")
	assert.NotEmpty(t, intents)
	assert.Equal(t, "invoice_copy", intents[0].ID)
}

func TestLearnEndpoint(t *testing.T) {
	e := echo.New()
	h, svc := newTestHandler(t)

	c, rec := postJSON(t, e, "/v1/admin/learn", domain.LearnRequest{
		Message:  "se me daño el decodificador",
		IntentID: "no_signal",
	})
	assert.NoError(t, h.Learn(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	assert.Equal(t, "Aprendizaje completado", resp["message"])

	// The learned utterance now classifies to the corrected intent.
	res, err := svc.Resolve(c.Request().Context(), "s1", "u1", "se me daño el decodificador")
	assert.NoError(t, err)
	assert.Equal(t, "no_signal", res.IntentID)
}

func TestLearnEndpointValidation(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	c, rec := postJSON(t, e, "/v1/admin/learn", domain.LearnRequest{Message: "algo"})
	assert.NoError(t, h.Learn(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
