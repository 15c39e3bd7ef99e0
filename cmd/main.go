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

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"translatebot/clients"
	anthropicclient "translatebot/clients/anthropic"
	deeplclient "translatebot/clients/deepl"
	slackclient "translatebot/clients/slack"
	"translatebot/config"
	"translatebot/db"
	"translatebot/handlers"
	"translatebot/services/dedup"
	"translatebot/services/resolver"
	"translatebot/services/trigger"
	"translatebot/usecases/translate"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	slackAPI := slackclient.NewClient(cfg.SlackConfig.BotToken, cfg.SlackConfig.UserToken)

	// Discover the bot's own identity; mention mode needs the user ID and
	// startup is the right time to find out the token is bad.
	botUserID := cfg.SlackConfig.BotUserID
	if botUserID == "" {
		authResp, err := slackAPI.AuthTest(context.Background())
		if err != nil {
			return fmt.Errorf("failed to verify Slack bot token: %w", err)
		}
		botUserID = authResp.UserID
		log.Printf("✅ Authenticated to Slack as %s (team %s)", botUserID, authResp.TeamID)
	}

	translator, err := buildTranslator(cfg.TranslateConfig)
	if err != nil {
		return err
	}

	dedupStore, closeDB, err := buildDedupStore(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	triggerEvaluator, err := trigger.NewEvaluator(
		cfg.TriggerConfig.Mode,
		cfg.TriggerConfig.Prefix,
		cfg.TriggerConfig.ReactionEmoji,
		botUserID,
		cfg.SlackConfig.ChannelIDs,
	)
	if err != nil {
		return err
	}
	log.Printf("✅ Trigger mode: %s", cfg.TriggerConfig.Mode)

	messageResolver := resolver.NewResolver(slackAPI)

	translateUseCase := translate.NewTranslateUseCase(
		slackAPI,
		translator,
		dedupStore,
		triggerEvaluator,
		messageResolver,
		cfg.TriggerConfig.ExtractPhrases,
	)

	slackHandler := handlers.NewSlackEventsHandler(cfg.SlackConfig.SigningSecret, translateUseCase)

	router := mux.NewRouter()
	slackHandler.SetupEndpoints(router)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.CORSAllowedOrigins},
		AllowedMethods: []string{"GET", "POST"},
	}).Handler(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: corsHandler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("✅ Listening on http://localhost:%s/slack/events", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("⚠️ Received signal %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	log.Printf("✅ Server stopped")
	return nil
}

func buildTranslator(cfg config.TranslateConfig) (clients.Translator, error) {
	switch cfg.Backend {
	case "deepl":
		log.Printf("✅ Translation backend: DeepL")
		return deeplclient.NewClient(cfg.DeepLAPIKey), nil
	case "anthropic":
		log.Printf("✅ Translation backend: Claude")
		return anthropicclient.NewClient(cfg.AnthropicAPIKey), nil
	default:
		return nil, fmt.Errorf("unknown translation backend: %q", cfg.Backend)
	}
}

// buildDedupStore returns the Postgres-backed store when DB_URL is
// configured, and the in-process store otherwise. Dedup state is allowed to
// reset on restart either way; the database option exists for multi-instance
// deployments.
func buildDedupStore(cfg *config.AppConfig) (dedup.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Printf("✅ Using in-memory dedup store")
		return dedup.NewMemoryStore(), func() {}, nil
	}

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	repo := db.NewPostgresProcessedEventsRepository(dbConn, cfg.DatabaseSchema)
	log.Printf("✅ Using Postgres dedup store (schema %s)", cfg.DatabaseSchema)
	closeDB := func() {
		if err := dbConn.Close(); err != nil {
			log.Printf("⚠️ Failed to close database connection: %v", err)
		}
	}
	return dedup.NewPostgresStore(repo), closeDB, nil
}
