package services

import (
	"context"
	"testing"
	"time"

	"github.com/buildrun-tech/unihub/backend/internal/config"
)

func TestMemoryCache_SetGet(t *testing.T) {
	cache := newMemoryCache(time.Minute)
	defer cache.Stop()
	ctx := context.Background()

	cache.Set(ctx, "k", Average{Value: 4.5, HasData: true})

	var got Average
	if !cache.Get(ctx, "k", &got) {
		t.Fatal("expected cache hit")
	}
	if got.Value != 4.5 || !got.HasData {
		t.Errorf("got %+v, expected {4.5 true}", got)
	}
}

func TestMemoryCache_Miss(t *testing.T) {
	cache := newMemoryCache(time.Minute)
	defer cache.Stop()

	var got Average
	if cache.Get(context.Background(), "missing", &got) {
		t.Error("expected cache miss")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := newMemoryCache(10 * time.Millisecond)
	defer cache.Stop()
	ctx := context.Background()

	cache.Set(ctx, "k", Average{Value: 1, HasData: true})
	time.Sleep(20 * time.Millisecond)

	var got Average
	if cache.Get(ctx, "k", &got) {
		t.Error("expected expired entry to miss")
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := newMemoryCache(time.Minute)
	defer cache.Stop()
	ctx := context.Background()

	cache.Set(ctx, "a", 1)
	cache.Set(ctx, "b", 2)
	cache.Delete(ctx, "a", "b")

	var got int
	if cache.Get(ctx, "a", &got) || cache.Get(ctx, "b", &got) {
		t.Error("expected deleted keys to miss")
	}
}

func TestNewCache_DefaultsToMemory(t *testing.T) {
	cache := NewCache(&config.CacheConfig{TTLSeconds: 60})
	defer cache.Stop()
	if _, ok := cache.(*memoryCache); !ok {
		t.Errorf("expected memory cache when redis disabled, got %T", cache)
	}
}

func TestNewCache_RedisUnreachableFallsBack(t *testing.T) {
	cache := NewCache(&config.CacheConfig{
		TTLSeconds:   60,
		RedisEnabled: true,
		RedisAddr:    "127.0.0.1:1", // nothing listens here
	})
	defer cache.Stop()
	if _, ok := cache.(*memoryCache); !ok {
		t.Errorf("expected fallback to memory cache, got %T", cache)
	}
}

func TestMemoryCache_StopIsIdempotent(t *testing.T) {
	cache := newMemoryCache(time.Minute)
	cache.Stop()
	cache.Stop()

	// Get and Set still work after Stop; only background eviction ends.
	ctx := context.Background()
	cache.Set(ctx, "k", 1)
	var got int
	if !cache.Get(ctx, "k", &got) || got != 1 {
		t.Errorf("expected stopped cache to still serve entries, got %d", got)
	}
}
