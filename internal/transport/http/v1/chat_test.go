package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/Jaaziel-Polanco/bot-claro/internal/domain"
)

func postJSON(t *testing.T, e *echo.Echo, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestResolveMessageAnswer(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	c, rec := postJSON(t, e, "/v1/chat/resolve", ResolveRequest{
		SessionID: "s1", UserID: "u1", Message: "mi teléfono no tiene señal",
	})
	assert.NoError(t, h.ResolveMessage(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp domain.Resolution
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	assert.Equal(t, domain.ResolutionAnswered, resp.Kind)
	assert.Equal(t, "no_signal", resp.IntentID)
	assert.Equal(t, "Reinicia el equipo y verifica el modo avión.", resp.Answer)
	assert.GreaterOrEqual(t, resp.Score, 0.5)
}

func TestResolveMessageAmbiguous(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	c, rec := postJSON(t, e, "/v1/chat/resolve", ResolveRequest{
		SessionID: "s1", UserID: "u1", Message: "factura",
	})
	assert.NoError(t, h.ResolveMessage(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp domain.Resolution
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	assert.Equal(t, domain.ResolutionAmbiguous, resp.Kind)
	assert.Len(t, resp.Candidates, 2)
	for _, cand := range resp.Candidates {
		assert.NotEmpty(t, cand.ID)
		assert.NotEmpty(t, cand.Title)
	}
}

func TestResolveMessageValidation(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	c, rec := postJSON(t, e, "/v1/chat/resolve", ResolveRequest{SessionID: "s1"})
	assert.NoError(t, h.ResolveMessage(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = postJSON(t, e, "/v1/chat/resolve", ResolveRequest{Message: "hola"})
	assert.NoError(t, h.ResolveMessage(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = postJSON(t, e, "/v1/chat/resolve", ResolveRequest{SessionID: "s1", UserID: "u1", Message: "   "})
	assert.NoError(t, h.ResolveMessage(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDisambiguateWithoutPending(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	c, rec := postJSON(t, e, "/v1/chat/disambiguate", DisambiguateRequest{
		SessionID: "s1", IntentID: "billing_issue",
	})
	assert.NoError(t, h.Disambiguate(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDisambiguateFlow(t *testing.T) {
	e := echo.New()
	h, svc := newTestHandler(t)

	c, rec := postJSON(t, e, "/v1/chat/resolve", ResolveRequest{
		SessionID: "s1", UserID: "u1", Message: "factura",
	})
	assert.NoError(t, h.ResolveMessage(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = postJSON(t, e, "/v1/chat/disambiguate", DisambiguateRequest{
		SessionID: "s1", IntentID: "billing_issue",
	})
	assert.NoError(t, h.Disambiguate(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	assert.Equal(t, "Revisa el detalle de tu factura en Mi Claro.", resp["answer"])

	// The correction was consumed.
	_, pending := svc.PendingFor("s1")
	assert.False(t, pending)
}

func TestDisambiguateUnknownIntent(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	c, rec := postJSON(t, e, "/v1/chat/disambiguate", DisambiguateRequest{
		SessionID: "s1", IntentID: "nope",
	})
	assert.NoError(t, h.Disambiguate(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSessionMessages(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	c, rec := postJSON(t, e, "/v1/chat/resolve", ResolveRequest{
		SessionID: "s1", UserID: "u1", Message: "mi teléfono no tiene señal",
	})
	assert.NoError(t, h.ResolveMessage(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/s1/messages", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("session_id")
	c.SetParamValues("s1")

	assert.NoError(t, h.GetSessionMessages(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []domain.Message `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	assert.Len(t, resp.Messages, 2)
	assert.Equal(t, domain.RoleBot, resp.Messages[1].Role)
	assert.NotEqual(t, "Procesando...", resp.Messages[1].Content)
}
