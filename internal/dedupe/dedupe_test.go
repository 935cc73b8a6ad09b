package dedupe

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	if seen, _ := m.Seen(ctx, "evt1"); seen {
		t.Fatalf("unknown event reported as seen")
	}
	// looking up does not record
	if seen, _ := m.Seen(ctx, "evt1"); seen {
		t.Fatalf("Seen must not remember the id")
	}
	if err := m.Remember(ctx, "evt1"); err != nil {
		t.Fatalf("Remember: %v", err)
	}
	if seen, _ := m.Seen(ctx, "evt1"); !seen {
		t.Fatalf("remembered event should be seen")
	}
	if seen, _ := m.Seen(ctx, "evt2"); seen {
		t.Fatalf("different event should not be seen")
	}

	clock = clock.Add(2 * time.Minute)
	if seen, _ := m.Seen(ctx, "evt1"); seen {
		t.Fatalf("expired entry should not be seen")
	}
}

// Runs against a real server when REDIS_ADDR is set.
func TestRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	r, err := NewRedis(context.Background(), RedisConfig{Addr: addr, TTL: time.Minute}, log)
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	defer r.Close()

	ctx := context.Background()
	id := uuid.NewString()
	if seen, err := r.Seen(ctx, id); err != nil || seen {
		t.Fatalf("before remember: %v, %v", seen, err)
	}
	if err := r.Remember(ctx, id); err != nil {
		t.Fatalf("Remember: %v", err)
	}
	if seen, err := r.Seen(ctx, id); err != nil || !seen {
		t.Fatalf("after remember: %v, %v", seen, err)
	}
}
