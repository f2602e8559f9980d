package api

import (
	"fmt"
	"net/http"
	"time"

	handlers "genesis_architect/internal/api"
	"genesis_architect/internal/view"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the page, the JSON API and the embedded assets.
func RegisterRoutes(router *gin.Engine, h *handlers.APIHandler) error {
	if err := handlers.RegisterValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}
	tmpl, err := view.Templates()
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/static", http.FS(view.Static()))

	// --- Page ---
	// Every action is a form post answered with a redirect back to the page.
	router.GET("/", h.Index)
	router.POST("/generate", h.Generate)
	router.POST("/select", h.Select)
	router.POST("/tab/:tab", h.SwitchTab)

	voiceGroup := router.Group("/voice")
	{
		voiceGroup.POST("", h.Voice)
		voiceGroup.POST("/settings", h.VoiceSettings)
		voiceGroup.POST("/playback", h.VoicePlayback)
		voiceGroup.POST("/ended", h.VoiceEnded)
	}

	// --- JSON API ---
	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/options", h.Options)
		apiGroup.POST("/architecture", h.GenerateArchitecture)
		apiGroup.POST("/speech", h.Speech)
	}

	// --- Simple Health Check ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return nil
}

// CORS allows browsers on origins to call the JSON API. ok is false when no
// origin is configured and nothing should be installed.
func CORS(origins []string) (handler gin.HandlerFunc, ok bool) {
	if len(origins) == 0 {
		return nil, false
	}
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}), true
}
