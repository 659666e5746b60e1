package main

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/mkowalik/dailybite/internal/apiclient"
	"github.com/mkowalik/dailybite/internal/catalog"
	catalogremote "github.com/mkowalik/dailybite/internal/catalog/remote"
	"github.com/mkowalik/dailybite/internal/config"
	"github.com/mkowalik/dailybite/internal/db"
	"github.com/mkowalik/dailybite/internal/ledger"
	ledgerremote "github.com/mkowalik/dailybite/internal/ledger/remote"
	"github.com/mkowalik/dailybite/internal/logging"
	"github.com/mkowalik/dailybite/internal/mealplan"
	"github.com/mkowalik/dailybite/internal/mediastore"
	medialocal "github.com/mkowalik/dailybite/internal/mediastore/local"
	"github.com/mkowalik/dailybite/internal/recognition"
	clauderec "github.com/mkowalik/dailybite/internal/recognition/claude"
	geminirec "github.com/mkowalik/dailybite/internal/recognition/gemini"
	ollamarec "github.com/mkowalik/dailybite/internal/recognition/ollama"
	"github.com/mkowalik/dailybite/internal/session"
	"github.com/mkowalik/dailybite/internal/store"
	"github.com/mkowalik/dailybite/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	sess := session.New(cfg.APIToken, nil)
	httpClient := &http.Client{}

	remoteCatalog := catalogremote.New(cfg.CatalogURL, httpClient, sess, logger)
	productStore := store.NewProductStore(database, logger)
	cachedCatalog := catalog.NewCached(remoteCatalog, productStore, logger)

	ledgerBackend := ledgerremote.New(cfg.LedgerURL, httpClient, sess, logger)
	nutritionLedger := ledger.New(ledgerBackend, cachedCatalog, logger)

	recognizer := newRecognizer(cfg, logger)
	if recognizer == nil {
		return
	}

	planClient := mealplan.NewRemote(apiclient.New(cfg.MealPlanURL, httpClient, sess, logger))
	poller := mealplan.NewPoller(planClient, cfg.PollInterval, logger)

	var media mediastore.MediaStore
	if cfg.MediaPath != "" {
		media, err = medialocal.NewLocalMediaStore(cfg.MediaPath, logger)
		if err != nil {
			logger.Error("failed to initialize media store", "error", err)
			return
		}
	}

	server := web.NewServer(nutritionLedger, cachedCatalog, recognizer, planClient, poller, media, logger)
	defer server.Close()

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newRecognizer(cfg *config.Config, logger *slog.Logger) recognition.Recognizer {
	switch cfg.RecognitionBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when RECOGNITION_BACKEND=claude")
			return nil
		}
		logger.Info("using Claude recognition backend", "model", cfg.ClaudeModel)
		return clauderec.New(cfg.ClaudeAPIKey, cfg.ClaudeModel, logger)
	case "ollama":
		logger.Info("using Ollama recognition backend", "model", cfg.OllamaModel)
		return ollamarec.New(cfg.OllamaHost, cfg.OllamaModel)
	default:
		if cfg.GeminiAPIKey == "" {
			logger.Error("GEMINI_API_KEY is required when RECOGNITION_BACKEND=gemini")
			return nil
		}
		logger.Info("using Gemini recognition backend", "model", cfg.GeminiModel)
		return geminirec.New(cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	}
}
