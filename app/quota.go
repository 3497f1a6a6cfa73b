// Package app enforces per-tier rewrite quotas.
package app

import (
	"context"
	"fmt"

	"github.com/ashonting/promptiv/app/models"
)

// tierQuotas maps each tier to its lifetime rewrite allowance. Unrecognized
// tiers fall back to the anonymous limit.
var tierQuotas = map[models.Tier]int{
	models.TierAnonymous: 1,
	models.TierBasic:     3,
	models.TierPremium:   30,
	models.TierPro:       100,
}

type quotaError struct {
	Limit int
	Used  int
}

func (e quotaError) Error() string {
	return fmt.Sprintf("quota exceeded (%d/%d); upgrade your plan or wait for more quota", e.Used, e.Limit)
}

// QuotaTotal returns the allowance for a tier.
func QuotaTotal(tier models.Tier) int {
	if total, ok := tierQuotas[tier]; ok {
		return total
	}
	return tierQuotas[models.TierAnonymous]
}

// GetQuotaInfo returns the tier, used and total quota for a user. Missing
// users surface as sql.ErrNoRows from the store.
func GetQuotaInfo(ctx context.Context, userID string) (models.QuotaInfo, error) {
	user, err := store.GetUserByID(ctx, userID)
	if err != nil {
		return models.QuotaInfo{}, err
	}
	return models.QuotaInfo{
		Tier:       user.Tier,
		QuotaUsed:  user.QuotaUsed,
		QuotaTotal: QuotaTotal(user.Tier),
	}, nil
}

// IncrementQuota bumps quota_used by the given amount. Read-then-write on
// purpose: enforcement happens as a gate before the expensive work, so
// concurrent requests racing here may under-count slightly. Upgrading to an
// atomic increment at the storage layer is the escalation path if strict
// enforcement is ever required.
func IncrementQuota(ctx context.Context, userID string, by int) error {
	if by < 0 {
		by = 0
	}
	user, err := store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	return store.UpdateQuotaUsed(ctx, userID, user.QuotaUsed+by)
}

// checkQuota returns a quotaError when the user has exhausted its allowance.
func checkQuota(info models.QuotaInfo) error {
	if info.QuotaUsed >= info.QuotaTotal {
		return quotaError{Limit: info.QuotaTotal, Used: info.QuotaUsed}
	}
	return nil
}
