package cache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"skill-assess/internal/config"
)

func TestRedis_BypassesWhenNotConfigured(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	r := NewRedis(config.RedisConfig{}, zap.New(core))
	ctx := context.Background()

	if r.Available() {
		t.Fatalf("expected cache to be unavailable")
	}
	if err := r.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute); err != nil {
		t.Fatalf("expected set to be a no-op, got %v", err)
	}
	var out map[string]int
	found, err := r.GetJSON(ctx, "k", &out)
	if err != nil || found {
		t.Fatalf("expected cache miss, got found=%v err=%v", found, err)
	}
	ok, err := r.SetIfNotExists(ctx, "lock", "token", 0)
	if err != nil || ok {
		t.Fatalf("expected lock not acquired without error, got ok=%v err=%v", ok, err)
	}
	if err := r.Release(ctx, "lock", "token"); err != nil {
		t.Fatalf("expected release to be a no-op, got %v", err)
	}
	if err := r.DeleteByPattern(ctx, "assess:*"); err != nil {
		t.Fatalf("expected delete to be a no-op, got %v", err)
	}
	if err := r.Ping(ctx); err == nil {
		t.Fatalf("expected ping error")
	}

	if observed.FilterMessage("redis not configured, bypassing cache").Len() != 1 {
		t.Fatalf("expected bypass to be logged once, got %v", observed.All())
	}
}

func TestRedis_NilReceiver(t *testing.T) {
	var r *Redis
	if found, err := r.GetJSON(context.Background(), "k", nil); found || err != nil {
		t.Fatalf("expected nil cache to miss quietly")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}
