// Package app records rewrite usage and cost for audit.
package app

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ashonting/promptiv/app/models"
)

// pricePer1KTable maps the model actually invoked to its USD price per 1k
// tokens. Unlisted models are billed at defaultPricePer1K.
var pricePer1KTable = map[string]float64{
	"gpt-4o":      0.005,
	"gpt-4o-mini": 0.00015,
	"gpt-4-turbo": 0.01,
}

const defaultPricePer1K = 0.005

// HistoryRecord is one immutable audit row per rewrite attempt.
type HistoryRecord struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Input       string    `db:"input"`
	Model       string    `db:"model"`
	Variants    []byte    `db:"variants"` // response variants as JSON
	TotalTokens int       `db:"total_tokens"`
	CostUSD     float64   `db:"cost_usd"`
	CreatedAt   time.Time `db:"created_at"`
}

func pricePer1K(model string) float64 {
	if price, ok := pricePer1KTable[model]; ok {
		return price
	}
	return defaultPricePer1K
}

// computeCost derives the USD cost of a rewrite from its total token usage.
func computeCost(totalTokens int, model string) float64 {
	return float64(totalTokens) / 1000 * pricePer1K(model)
}

// logHistory writes the audit row best-effort. Failures are logged and
// swallowed: history must never fail the user-facing response.
func logHistory(ctx context.Context, userID, callModel string, resp models.PromptResponse, totalTokens int) {
	variants, err := json.Marshal(resp.Variants)
	if err != nil {
		log.Printf("history marshal failed user=%s err=%v", userID, err)
		return
	}

	rec := HistoryRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		Input:       resp.Input,
		Model:       resp.Model,
		Variants:    variants,
		TotalTokens: totalTokens,
		CostUSD:     computeCost(totalTokens, callModel),
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.InsertHistory(ctx, rec); err != nil {
		log.Printf("history insert failed user=%s err=%v", userID, err)
	}
}
