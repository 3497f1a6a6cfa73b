// Package app wires shared HTTP routes for both local and Lambda execution.
package app

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ashonting/promptiv/app/config"
	"github.com/ashonting/promptiv/auth"
)

// NewRouter builds the shared HTTP router for both local and Lambda execution.
func NewRouter() (*gin.Engine, error) {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/api/health", Health)
	router.GET("/api/llm_count", LLMCount)
	router.POST("/api/contact", Contact)
	router.POST("/api/paddle/webhook", PaddleWebhook)

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	verifier, err := auth.NewVerifierFromEnv()
	if err != nil {
		if !cfg.UseDummyUser {
			return nil, err
		}
		// Dummy-user mode runs without an identity provider.
		log.Printf("auth verifier not configured, continuing with dummy user: %v", err)
	}

	// Rewrite and identity endpoints accept either a bearer token or an
	// anonymous device hash.
	optional := router.Group("/")
	optional.Use(auth.OptionalMiddleware(verifier))
	optional.POST("/api/rewrite", RewritePrompt)
	optional.POST("/api/user", GetOrCreateUser)
	optional.POST("/api/user/device", GetOrCreateUser)

	// Billing endpoints require a verified account.
	protected := router.Group("/")
	protected.Use(auth.Middleware(verifier))
	protected.POST("/api/paddle/checkout-link", PaddleCheckoutLink)
	protected.POST("/api/paddle/manage-link", PaddleManageLink)

	return router, nil
}
