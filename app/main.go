package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/astrolearn/app/api"
	"github.com/lysyi3m/astrolearn/app/auth"
	"github.com/lysyi3m/astrolearn/app/backoff"
	"github.com/lysyi3m/astrolearn/app/catalog"
	"github.com/lysyi3m/astrolearn/app/cfg"
	"github.com/lysyi3m/astrolearn/app/chatbot"
	"github.com/lysyi3m/astrolearn/app/database"
	"github.com/lysyi3m/astrolearn/app/nasa"
	"github.com/lysyi3m/astrolearn/app/survey"
	"github.com/lysyi3m/astrolearn/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting AstroLearn", "version", appCfg.Version)

	ctx := context.Background()

	db, err := database.Open(ctx, appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Database ready", "path", appCfg.DBPath)

	objectRepo := database.NewObjectRepository(db)
	categoryRepo := database.NewCategoryRepository(db)
	adminRepo := database.NewAdminRepository(db)
	surveyRepo := database.NewSurveyRepository(db)

	authService := auth.NewService(adminRepo, appCfg.SessionSecret, appCfg.GetSessionTTL())
	if appCfg.AdminPassword != "" {
		created, err := authService.EnsureAdmin(ctx, appCfg.AdminHandle, appCfg.AdminPassword)
		if err != nil {
			slog.Error("Failed to seed administrator", "handle", appCfg.AdminHandle, "error", err)
			os.Exit(1)
		}
		if created {
			slog.Info("Administrator account created", "handle", appCfg.AdminHandle)
		}
	} else {
		slog.Warn("ADMIN_PASSWORD not set, no administrator account seeded")
	}

	policy := backoff.DefaultPolicy()
	policy.MaxAttempts = appCfg.RetryAttempts
	policy.BaseDelay = appCfg.GetRetryBaseDelay()

	httpClient := &http.Client{}
	nasaClient := nasa.NewClient(httpClient, appCfg.NasaSearchURL, appCfg.UserAgent, appCfg.GetFetchTimeout(), policy)
	ingester := tasks.NewIngester(nasaClient, objectRepo, categoryRepo, appCfg.NasaAssetHost, time.Now)

	var responder api.ResponderInterface
	if appCfg.GeminiAPIKey != "" {
		gemini, err := chatbot.NewGemini(ctx, appCfg.GeminiAPIKey, appCfg.ChatbotModel)
		if err != nil {
			slog.Error("Failed to create chatbot client", "error", err)
			os.Exit(1)
		}
		responder = chatbot.NewResponder(gemini, policy)
		slog.Info("Chatbot enabled", "model", appCfg.ChatbotModel)
	} else {
		slog.Info("Chatbot disabled (GEMINI_API_KEY not set)")
	}

	handler := api.NewHandler(
		catalog.NewService(objectRepo, categoryRepo),
		authService,
		survey.NewService(surveyRepo, objectRepo, appCfg.SurveyFormURL),
		ingester,
		responder,
		objectRepo, categoryRepo, surveyRepo,
		api.IngestDefaults{SearchTerm: appCfg.IngestSearchTerm, MaxPages: appCfg.IngestMaxPages},
	)

	// POST /admin/ingest runs the whole ingestion before responding
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("AstroLearn shutdown complete")
}
