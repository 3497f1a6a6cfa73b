package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/ashonting/promptiv/app/config"
	"github.com/ashonting/promptiv/app/models"
)

// SubscriptionUpdate carries billing webhook changes. Empty fields are left
// untouched.
type SubscriptionUpdate struct {
	SubscriptionID string
	Tier           models.Tier
	Status         string
}

// Store is the durable keyed store behind identity, quota and history. Missing
// rows are reported as sql.ErrNoRows by every implementation.
type Store interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByDevice(ctx context.Context, deviceHash string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	// InsertUser creates a user row, generating an id when absent, and
	// returns the stored row.
	InsertUser(ctx context.Context, user models.User) (models.User, error)
	UpdateQuotaUsed(ctx context.Context, id string, used int) error
	UpdateSubscriptionByEmail(ctx context.Context, email string, update SubscriptionUpdate) error
	// EnsureProfile creates the companion profile row if missing.
	EnsureProfile(ctx context.Context, id, email string) error
	InsertHistory(ctx context.Context, rec HistoryRecord) error
}

var store Store

// MustInitStore wires the global store. Postgres when configured, otherwise an
// in-memory stand-in that is only suitable for a single dev instance.
func MustInitStore() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if cfg.DB.URL == "" {
		log.Print("POSTGRES_URL not set; using in-memory store (dev only, not for multi-instance deployment)")
		store = newMemStore()
		return
	}

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s",
		cfg.DB.Username,
		cfg.DB.Password,
		cfg.DB.URL,
		cfg.DB.Port,
	)

	d, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("sql.Open: %v", err)
	}
	if err := d.Ping(); err != nil {
		log.Fatalf("db.Ping: %v", err)
	}

	log.Println("Connected to Postgres")
	store = &postgresStore{db: d}
}

// ---- Postgres ----

type postgresStore struct {
	db *sql.DB
}

const userColumns = `id, tier, quota_used, COALESCE(device_hash, ''), COALESCE(email, ''),
	COALESCE(paddle_subscription_id, ''), COALESCE(subscription_status, '')`

func (s *postgresStore) scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Tier,
		&u.QuotaUsed,
		&u.DeviceHash,
		&u.Email,
		&u.PaddleSubscriptionID,
		&u.SubscriptionStatus,
	)
	return u, err
}

func (s *postgresStore) GetUserByID(ctx context.Context, id string) (models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1;
	`, id))
}

func (s *postgresStore) GetUserByDevice(ctx context.Context, deviceHash string) (models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE device_hash = $1;
	`, deviceHash))
}

func (s *postgresStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1;
	`, email))
}

func (s *postgresStore) InsertUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, tier, quota_used, device_hash, email)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		ON CONFLICT (id) DO NOTHING;
	`, user.ID, user.Tier, user.QuotaUsed, user.DeviceHash, user.Email)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *postgresStore) UpdateQuotaUsed(ctx context.Context, id string, used int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET quota_used = $1
		WHERE id = $2;
	`, used, id)
	return err
}

func (s *postgresStore) UpdateSubscriptionByEmail(ctx context.Context, email string, update SubscriptionUpdate) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET paddle_subscription_id = COALESCE(NULLIF($1, ''), paddle_subscription_id),
		    tier                   = COALESCE(NULLIF($2, ''), tier),
		    subscription_status    = COALESCE(NULLIF($3, ''), subscription_status)
		WHERE email = $4;
	`, update.SubscriptionID, string(update.Tier), update.Status, email)
	return err
}

func (s *postgresStore) EnsureProfile(ctx context.Context, id, email string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, email, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO NOTHING;
	`, id, email)
	return err
}

func (s *postgresStore) InsertHistory(ctx context.Context, rec HistoryRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prompt_history (id, user_id, input, model, variants, total_tokens, cost_usd, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`, rec.ID, rec.UserID, rec.Input, rec.Model, rec.Variants, rec.TotalTokens, rec.CostUSD, rec.CreatedAt)
	return err
}

// ---- In-memory (dev/test) ----

type memStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	profiles map[string]string
	history  []HistoryRecord
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]models.User),
		profiles: make(map[string]string),
	}
}

func (s *memStore) GetUserByID(ctx context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *memStore) GetUserByDevice(ctx context.Context, deviceHash string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.DeviceHash == deviceHash {
			return u, nil
		}
	}
	return models.User{}, sql.ErrNoRows
}

func (s *memStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email != "" && u.Email == email {
			return u, nil
		}
	}
	return models.User{}, sql.ErrNoRows
}

func (s *memStore) InsertUser(ctx context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if _, exists := s.users[user.ID]; exists {
		return s.users[user.ID], nil
	}
	user.CreatedAt = time.Now().UTC()
	s.users[user.ID] = user
	return user, nil
}

func (s *memStore) UpdateQuotaUsed(ctx context.Context, id string, used int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.QuotaUsed = used
	s.users[id] = u
	return nil
}

func (s *memStore) UpdateSubscriptionByEmail(ctx context.Context, email string, update SubscriptionUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if u.Email != "" && u.Email == email {
			if update.SubscriptionID != "" {
				u.PaddleSubscriptionID = update.SubscriptionID
			}
			if update.Tier != "" {
				u.Tier = update.Tier
			}
			if update.Status != "" {
				u.SubscriptionStatus = update.Status
			}
			s.users[id] = u
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *memStore) EnsureProfile(ctx context.Context, id, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[id]; !ok {
		s.profiles[id] = email
	}
	return nil
}

func (s *memStore) InsertHistory(ctx context.Context, rec HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, rec)
	return nil
}
