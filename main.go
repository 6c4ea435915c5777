package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jaaziel-Polanco/bot-claro/internal/catalog"
	"github.com/Jaaziel-Polanco/bot-claro/internal/config"
	"github.com/Jaaziel-Polanco/bot-claro/internal/nlp"
	"github.com/Jaaziel-Polanco/bot-claro/internal/policy"
	"github.com/Jaaziel-Polanco/bot-claro/internal/service"
	handler "github.com/Jaaziel-Polanco/bot-claro/internal/transport/http"
	"github.com/Jaaziel-Polanco/bot-claro/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting support-chat service...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Catalog: %s", cfg.CatalogPath)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	// Seed the intent catalog on first start
	if err := catalog.EnsureSeeded(ctx, db, cfg.CatalogPath); err != nil {
		log.Fatalf("Failed to seed intent catalog: %v", err)
	}

	// Initialize learning policy engine
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize learning policy: %v", err)
	}

	// Initialize service and train the classifier from the catalog
	svc := service.New(db, nlp.NewClassifier(), policyEngine, cfg)
	info, err := svc.Refresh(ctx)
	if err != nil {
		log.Fatalf("Failed to train classifier: %v", err)
	}
	log.Printf("Classifier trained: %d intents, %d examples", info.Intents, info.Examples)

	// Create HTTP server
	server := handler.NewServer(svc)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Chat API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Service stopped")
}
