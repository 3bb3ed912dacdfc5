package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
)

func TestNewRequiresURL(t *testing.T) {
	if _, err := New(context.Background(), config.RedisConfig{}, nil); err == nil {
		t.Fatal("expected error for empty URL")
	}
}

func TestApplyDefaultsFillsGapsOnly(t *testing.T) {
	opts, err := goredis.ParseURL("redis://localhost:6379/2")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	applyDefaults(opts, config.RedisConfig{
		PoolSize:    5,
		DialTimeout: 3 * time.Second,
	})

	if opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
	if opts.PoolSize != 5 {
		t.Fatalf("expected config pool size to apply, got %d", opts.PoolSize)
	}
	if opts.DialTimeout != 3*time.Second {
		t.Fatalf("expected config dial timeout to apply, got %s", opts.DialTimeout)
	}
}

func TestRateLimitKeyNamespacing(t *testing.T) {
	c := &Client{}
	if got := c.RateLimitKey("signin:ip:127.0.0.1"); got != "sr:rate_limit:signin:ip:127.0.0.1" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := c.RateLimitKey("  "); got != "sr:rate_limit" {
		t.Fatalf("blank scope should collapse to the prefix, got %q", got)
	}
}
