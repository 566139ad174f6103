package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/agentd-io/agentd/api"
	"github.com/agentd-io/agentd/config"
	"github.com/agentd-io/agentd/internal/engine"
	"github.com/agentd-io/agentd/internal/llm"
	"github.com/agentd-io/agentd/internal/registry"
	"github.com/agentd-io/agentd/internal/tools"
	"github.com/agentd-io/agentd/policy"
	"github.com/agentd-io/agentd/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting agentd...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("LLM Gateway: %s", cfg.LLMBaseURL)

	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	policyEngine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// All tools are registered before the server starts serving runs;
	// the registry is read-only from here on.
	reg := registry.NewRegistry()
	tools.RegisterBuiltins(reg, tools.Deps{
		Policy:    policyEngine,
		WorkDir:   cfg.WorkDir,
		SearchURL: cfg.SearchURL,
		SMTPAddr:  cfg.SMTPAddr,
		SMTPFrom:  cfg.SMTPFrom,
	})

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMTimeout)
	eng, err := engine.New(llmClient, reg)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}

	h := api.NewHandler(db, eng, reg, cfg)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	h.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("agentd started on port %d", cfg.HTTPPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down agentd...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}
	log.Println("agentd stopped")
}
