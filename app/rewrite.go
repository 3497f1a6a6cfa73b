// Package app orchestrates the quota-gated rewrite pipeline.
package app

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/ashonting/promptiv/app/config"
	"github.com/ashonting/promptiv/app/llm"
	"github.com/ashonting/promptiv/app/models"
)

// MustInitLLM wires the global chat client from the environment.
func MustInitLLM() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config for llm: %v", err)
	}
	if cfg.OpenAI.APIKey == "" {
		log.Fatal("OPENAI_API_KEY must be set")
	}
	llmClient = llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey: cfg.OpenAI.APIKey,
		Model:  cfg.OpenAI.Model,
	})
}

// RewritePrompt handles POST /api/rewrite. Pipeline order is fixed: resolve
// identity, quota gate, classify, generate all three variants, increment
// quota, best-effort history, respond. The quota gate runs strictly before
// any LLM call so over-quota requests incur no cost.
func RewritePrompt(c *gin.Context) {
	var req models.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Field 'prompt' is required and must be a string."})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Field 'prompt' is required and must be a string."})
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("rewrite config load failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load config"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	user, err := resolveIdentity(ctx, cfg, req.DeviceHash)
	if err != nil {
		if errors.Is(err, errNoIdentity) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errNoIdentity.Error()})
			return
		}
		log.Printf("identity resolution failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
		return
	}

	if cfg.RewriteGate {
		info, err := GetQuotaInfo(ctx, user.ID)
		if err != nil {
			log.Printf("quota lookup failed user=%s err=%v", user.ID, err)
			status := http.StatusInternalServerError
			if errors.Is(err, sql.ErrNoRows) {
				status = http.StatusUnauthorized
			}
			c.JSON(status, gin.H{"error": "failed to load quota"})
			return
		}
		if err := checkQuota(info); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
	}

	cls, clsTokens := ClassifyPrompt(ctx, req.Prompt)

	// The three style calls depend only on the classification, not on each
	// other, so they run concurrently into fixed slots to keep the required
	// response order.
	var variants [len(variantStyles)]models.Variant
	g, gctx := errgroup.WithContext(ctx)
	for i, style := range variantStyles {
		g.Go(func() error {
			variants[i] = GenerateVariant(gctx, req.Prompt, style, cls.BestLLM, cls.Rationale)
			return nil
		})
	}
	_ = g.Wait() // variant generation degrades, never errors

	totalTokens := clsTokens
	for _, v := range variants {
		totalTokens += v.TotalTokens
	}

	if cfg.RewriteGate {
		// One rewrite attempt consumes one quota unit regardless of how many
		// variants degraded.
		if err := IncrementQuota(ctx, user.ID, 1); err != nil {
			log.Printf("quota increment failed user=%s err=%v", user.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update quota"})
			return
		}
	}

	resp := models.PromptResponse{
		Input:    req.Prompt,
		Model:    cls.BestLLM,
		Variants: variants[:],
	}

	logHistory(ctx, user.ID, cfg.OpenAI.Model, resp, totalTokens)

	log.Printf("rewrite complete user=%s task=%s model=%s tokens=%d", user.ID, cls.TaskType, cls.BestLLM, totalTokens)
	c.JSON(http.StatusOK, resp)
}
