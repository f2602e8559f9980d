package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"genesis_architect/api"
	"genesis_architect/config"
	"genesis_architect/internal/ai"
	handlers "genesis_architect/internal/api"
	"genesis_architect/internal/session"
	"genesis_architect/internal/view"
)

func main() {
	// --- Load .env file ---
	// Must happen before viper reads the environment.
	err := godotenv.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		} else {
			log.Println("Info: .env file not found, relying on system environment variables.")
		}
	} else {
		log.Println("Info: Loaded environment variables from .env file.")
	}

	// --- Configuration Loading ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	// --- Dependency Initialization ---
	aiGenerator, err := ai.NewGenerator(ai.Options{
		Provider:        cfg.AIProvider,
		GenerationModel: cfg.GenerationModel,
		SpeechModel:     cfg.SpeechModel,
		OpenAIBaseURL:   cfg.OpenAIBaseURL,
		GenerationKey:   config.APIKey(cfg.AIProvider),
		SpeechKey:       config.APIKey(cfg.AIProvider),
	})
	if err != nil {
		log.Fatalf("Cannot initialize AI generator: %v", err)
	}
	log.Printf("Info: AI backend %s, generation model %s, speech model %s", aiGenerator.Provider(), aiGenerator.Model(), aiGenerator.SpeechModel())

	sessions := session.NewStore(cfg.SessionCapacity, cfg.SessionTTL, view.NewState)

	apiHandler := handlers.NewAPIHandler(aiGenerator, sessions, handlers.Options{
		SpeechTextLimit:  cfg.SpeechTextLimit,
		ContentLineLimit: cfg.ContentLineLimit,
		SecureCookie:     cfg.AppEnv == "production",
	})

	// --- Start API Server ---
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in Gin Debug Mode")
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Only needed when a separate frontend origin calls the JSON API.
	if corsHandler, ok := api.CORS(cfg.CORSAllowedOrigins); ok {
		router.Use(corsHandler)
		log.Printf("Info: CORS enabled for %v", cfg.CORSAllowedOrigins)
	}

	if err := api.RegisterRoutes(router, apiHandler); err != nil {
		log.Fatalf("Cannot register routes: %v", err)
	}

	// No write timeout: generation waits on the model for as long as it takes.
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s\n", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server listen error: %s\n", err)
		}
		log.Println("Server has stopped listening.")
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("Received signal: %s. Shutting down server...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown error: %v", err)
	} else {
		log.Println("Server gracefully stopped.")
	}

	log.Println("Application exiting.")
}
