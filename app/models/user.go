// Package models defines user tier and quota tracking fields.
package models

import "time"

type Tier string

const (
	TierAnonymous Tier = "anonymous"
	TierBasic     Tier = "basic"
	TierPremium   Tier = "premium"
	TierPro       Tier = "pro"
)

// User is a quota-tracked identity: an authenticated account or an anonymous
// device. DeviceHash is set only for anonymous users and is unique per device.
type User struct {
	ID                   string    `db:"id" json:"id"`
	Tier                 Tier      `db:"tier" json:"tier"`
	QuotaUsed            int       `db:"quota_used" json:"quota_used"`
	DeviceHash           string    `db:"device_hash" json:"device_hash,omitempty"`
	Email                string    `db:"email" json:"email,omitempty"`
	PaddleSubscriptionID string    `db:"paddle_subscription_id" json:"paddle_subscription_id,omitempty"`
	SubscriptionStatus   string    `db:"subscription_status" json:"subscription_status,omitempty"`
	CreatedAt            time.Time `db:"created_at" json:"created_at,omitempty"`
}

// QuotaInfo is the tier/usage snapshot returned to callers and checked
// before any rewrite work starts.
type QuotaInfo struct {
	Tier       Tier `json:"tier"`
	QuotaUsed  int  `json:"quota_used"`
	QuotaTotal int  `json:"quota_total"`
}
