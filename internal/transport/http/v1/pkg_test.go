package v1

import (
	"context"
	"testing"

	"github.com/Jaaziel-Polanco/bot-claro/internal/config"
	"github.com/Jaaziel-Polanco/bot-claro/internal/domain"
	"github.com/Jaaziel-Polanco/bot-claro/internal/nlp"
	"github.com/Jaaziel-Polanco/bot-claro/internal/policy"
	"github.com/Jaaziel-Polanco/bot-claro/internal/service"
	"github.com/Jaaziel-Polanco/bot-claro/tests/helpers"
)

func testIntents() []domain.Intent {
	return []domain.Intent{
		{
			ID:       "billing_issue",
			Title:    "Problemas de facturación",
			Examples: []string{"no puedo pagar mi factura"},
			Response: "Revisa el detalle de tu factura en Mi Claro.",
		},
		{
			ID:       "invoice_copy",
			Title:    "Copia de factura",
			Examples: []string{"quiero una copia de mi factura"},
			Response: "Descarga la copia de tu factura desde Mi Claro.",
		},
		{
			ID:       "no_signal",
			Title:    "Sin señal",
			Examples: []string{"mi teléfono no tiene señal"},
			Response: "Reinicia el equipo y verifica el modo avión.",
		},
	}
}

func newTestHandler(t *testing.T) (*Handler, *service.Service) {
	t.Helper()
	st := helpers.NewTestSQLiteStore(t)
	ctx := context.Background()

	if err := st.ReplaceIntents(ctx, testIntents()); err != nil {
		t.Fatalf("ReplaceIntents failed: %v", err)
	}

	engine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create policy engine: %v", err)
	}

	svc := service.New(st, nlp.NewClassifier(), engine, &config.Config{})
	if _, err := svc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	return NewHandler(svc), svc
}
