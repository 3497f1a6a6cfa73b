// Package app resolves caller identities for quota tracking.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/ashonting/promptiv/app/config"
	"github.com/ashonting/promptiv/app/models"
	"github.com/ashonting/promptiv/auth"
)

// dummyUserID is the fixed identity returned when USE_DUMMY_USER is enabled.
const dummyUserID = "00000000-0000-0000-0000-000000000000"

var errNoIdentity = errors.New("user not found or not authenticated")

// EnsureUserByID looks up an authenticated user, creating a basic-tier row on
// first contact. A companion profile row is always ensured; when the token
// carries no email a placeholder is synthesized so the column stays non-null.
func EnsureUserByID(ctx context.Context, id, email string) (models.User, error) {
	user, err := store.GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		user, err = store.InsertUser(ctx, models.User{
			ID:        id,
			Tier:      models.TierBasic,
			QuotaUsed: 0,
			Email:     email,
		})
	}
	if err != nil {
		return models.User{}, fmt.Errorf("ensure user %s: %w", id, err)
	}

	if err := store.EnsureProfile(ctx, user.ID, profileEmail(email, user.ID)); err != nil {
		return models.User{}, fmt.Errorf("ensure profile %s: %w", id, err)
	}
	return user, nil
}

// GetOrCreateUserByDevice looks up an anonymous user by its device hash,
// creating an anonymous-tier row on first contact. Idempotent: repeat calls
// with the same hash return the same identity.
func GetOrCreateUserByDevice(ctx context.Context, deviceHash string) (models.User, error) {
	user, err := store.GetUserByDevice(ctx, deviceHash)
	if errors.Is(err, sql.ErrNoRows) {
		user, err = store.InsertUser(ctx, models.User{
			Tier:       models.TierAnonymous,
			QuotaUsed:  0,
			DeviceHash: deviceHash,
		})
		if err == nil {
			log.Printf("created anonymous user id=%s", user.ID)
		}
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get or create device user: %w", err)
	}

	if err := store.EnsureProfile(ctx, user.ID, profileEmail("", deviceHash)); err != nil {
		return models.User{}, fmt.Errorf("ensure device profile: %w", err)
	}
	return user, nil
}

// resolveIdentity maps a request to a user: dummy escape hatch first, then
// verified bearer claims, then the supplied device hash. errNoIdentity when
// none of the three apply.
func resolveIdentity(ctx context.Context, cfg *config.Config, deviceHash string) (models.User, error) {
	if cfg.UseDummyUser {
		user, err := store.GetUserByID(ctx, dummyUserID)
		if errors.Is(err, sql.ErrNoRows) {
			user, err = store.InsertUser(ctx, models.User{
				ID:   dummyUserID,
				Tier: models.TierPremium,
			})
		}
		return user, err
	}

	if claims, ok := auth.ClaimsFromContext(ctx); ok && claims.Subject != "" {
		return EnsureUserByID(ctx, claims.Subject, claims.Email)
	}

	if deviceHash != "" {
		return GetOrCreateUserByDevice(ctx, deviceHash)
	}

	return models.User{}, errNoIdentity
}

func profileEmail(email, suffix string) string {
	if email != "" {
		return email
	}
	return fmt.Sprintf("%s@anon.promptiv.io", suffix)
}
