// Package dedupe remembers webhook deliveries so a redelivered event is
// applied once.
package dedupe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTTL = 24 * time.Hour
	keyPrefix  = "smartclip:webhook:"
)

// Deduper records applied event ids. An id is remembered only after the
// event was processed, so a delivery that failed, or one still in flight,
// never hides a redelivery.
type Deduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Remember(ctx context.Context, eventID string) error
}

// Redis keeps seen ids as expiring keys.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedis connects to Redis. A failed ping is returned so the caller can
// fall back to the in-memory deduper.
func NewRedis(ctx context.Context, cfg RedisConfig, log *logrus.Logger) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	log.WithField("addr", cfg.Addr).Info("Redis connection established")
	return &Redis{client: rdb, ttl: cfg.TTL, log: log}, nil
}

func (r *Redis) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := r.client.Exists(ctx, keyPrefix+eventID).Result()
	if err != nil {
		return false, fmt.Errorf("look up webhook %s: %w", eventID, err)
	}
	return n > 0, nil
}

// Remember stores eventID as an expiring key.
func (r *Redis) Remember(ctx context.Context, eventID string) error {
	if err := r.client.Set(ctx, keyPrefix+eventID, time.Now().Unix(), r.ttl).Err(); err != nil {
		return fmt.Errorf("remember webhook %s: %w", eventID, err)
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }

// Memory is a process-local deduper used when Redis is not configured.
type Memory struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	seen map[string]time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{ttl: ttl, now: time.Now, seen: make(map[string]time.Time)}
}

func (m *Memory) Seen(_ context.Context, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.seen[eventID]
	if ok && m.now().After(exp) {
		delete(m.seen, eventID)
		return false, nil
	}
	return ok, nil
}

func (m *Memory) Remember(_ context.Context, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, exp := range m.seen {
		if now.After(exp) {
			delete(m.seen, id)
		}
	}
	m.seen[eventID] = now.Add(m.ttl)
	return nil
}
