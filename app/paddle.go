// Package app integrates with the Paddle billing provider.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ashonting/promptiv/app/config"
)

var httpc = &http.Client{Timeout: 12 * time.Second}

const paddleManageAPIURL = "https://vendors.paddle.com/api/2.0/subscription/users_manage"

// checkoutLink returns the hosted Paddle checkout URL for the product with
// the buyer's email prefilled.
func checkoutLink(cfg *config.Config, email string) (string, error) {
	if cfg.Paddle.ProductID == "" {
		return "", errors.New("PADDLE_PRODUCT_ID not set")
	}
	return fmt.Sprintf("https://pay.paddle.com/checkout/%s?email=%s",
		cfg.Paddle.ProductID, url.QueryEscape(email)), nil
}

type paddleManageResponse struct {
	Success  bool `json:"success"`
	Response struct {
		URL string `json:"url"`
	} `json:"response"`
	Error json.RawMessage `json:"error"`
}

// manageLink asks the Paddle vendor API for a customer portal URL for the
// given subscription.
func manageLink(ctx context.Context, cfg *config.Config, subscriptionID string) (string, error) {
	if cfg.Paddle.VendorID == "" || cfg.Paddle.APIKey == "" {
		return "", errors.New("paddle credentials not set")
	}
	if subscriptionID == "" {
		return "", errors.New("subscription id is required")
	}

	form := url.Values{}
	form.Set("vendor_id", cfg.Paddle.VendorID)
	form.Set("vendor_auth_code", cfg.Paddle.APIKey)
	form.Set("subscription_id", subscriptionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, paddleManageAPIURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paddle api http %d", res.StatusCode)
	}

	var out paddleManageResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	if !out.Success {
		return "", fmt.Errorf("paddle api error: %s", string(out.Error))
	}
	return out.Response.URL, nil
}
