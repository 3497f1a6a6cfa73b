// Package app provides public health, model-list and identity endpoints.
package app

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashonting/promptiv/app/config"
)

// Health is a public health check endpoint with no external dependencies.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// LLMCount returns the distinct set of candidate target models.
func LLMCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"models": CandidateModels(),
	})
}

type userRequest struct {
	DeviceHash string `json:"device_hash"`
}

// GetOrCreateUser resolves the caller to an identity, creating it on first
// contact, and returns its tier and quota snapshot. Serves both /api/user and
// /api/user/device.
func GetOrCreateUser(c *gin.Context) {
	var req userRequest
	// Body is optional for authenticated callers.
	_ = c.ShouldBindJSON(&req)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("user config load failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load config"})
		return
	}

	user, err := resolveIdentity(c.Request.Context(), cfg, req.DeviceHash)
	if err != nil {
		if errors.Is(err, errNoIdentity) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errNoIdentity.Error()})
			return
		}
		log.Printf("user resolution failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
		return
	}

	info, err := GetQuotaInfo(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("user quota lookup failed id=%s err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load quota"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                     user.ID,
		"email":                  user.Email,
		"tier":                   info.Tier,
		"quota_used":             info.QuotaUsed,
		"quota_limit":            info.QuotaTotal,
		"paddle_subscription_id": user.PaddleSubscriptionID,
	})
}

type contactForm struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// Contact accepts a contact-form submission and acknowledges it.
func Contact(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "name, email and message are required"})
		return
	}

	msg := form.Message
	if len(msg) > 120 {
		msg = msg[:120]
	}
	log.Printf("contact form received from %s: %s - %s", form.Email, form.Name, msg)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
