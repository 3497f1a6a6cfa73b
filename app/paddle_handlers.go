package app

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashonting/promptiv/app/config"
	"github.com/ashonting/promptiv/app/models"
	"github.com/ashonting/promptiv/auth"
)

// PaddleCheckoutLink returns a hosted checkout URL for the authenticated user.
func PaddleCheckoutLink(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
		return
	}

	user, err := EnsureUserByID(c.Request.Context(), claims.Subject, claims.Email)
	if err != nil {
		log.Printf("checkout user lookup failed sub=%s err=%v", claims.Subject, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	email := user.Email
	if email == "" {
		email = claims.Email
	}
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email required for checkout"})
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("checkout config load failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "billing not configured"})
		return
	}

	link, err := checkoutLink(cfg, email)
	if err != nil {
		log.Printf("checkout link failed sub=%s err=%v", claims.Subject, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "billing not configured"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": link})
}

// PaddleManageLink returns a subscription-management portal URL for the
// authenticated user.
func PaddleManageLink(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
		return
	}

	user, err := store.GetUserByID(c.Request.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no subscription id"})
			return
		}
		log.Printf("manage link lookup failed sub=%s err=%v", claims.Subject, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}
	if user.PaddleSubscriptionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no subscription id"})
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("manage link config load failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "billing not configured"})
		return
	}

	link, err := manageLink(c.Request.Context(), cfg, user.PaddleSubscriptionID)
	if err != nil {
		log.Printf("manage link failed sub=%s err=%v", claims.Subject, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create manage link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": link})
}

// PaddleWebhook handles Paddle subscription events and updates user tiers.
// Paddle retries on non-2xx, so soft failures (missing email, unknown user)
// answer 200 with success=false.
func PaddleWebhook(c *gin.Context) {
	eventType := c.PostForm("alert_name")
	subscriptionID := c.PostForm("subscription_id")
	email := c.PostForm("email")
	log.Printf("paddle webhook event=%s sub=%s email=%s", eventType, subscriptionID, email)

	if email == "" {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "missing email"})
		return
	}

	if _, err := store.GetUserByEmail(c.Request.Context(), email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("paddle webhook: no user for email=%s", email)
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "user not found"})
			return
		}
		log.Printf("paddle webhook lookup failed email=%s err=%v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	update := SubscriptionUpdate{SubscriptionID: subscriptionID}
	switch eventType {
	case "subscription_payment_succeeded":
		update.Tier = models.TierPro
		update.Status = "active"
	case "subscription_cancelled":
		update.Tier = models.TierBasic
		update.Status = "cancelled"
	case "subscription_updated":
		update.Status = "updated"
	default:
		// Intentionally ignore unhandled events.
	}

	if err := store.UpdateSubscriptionByEmail(c.Request.Context(), email, update); err != nil {
		log.Printf("paddle webhook update failed email=%s err=%v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
