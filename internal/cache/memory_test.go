package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_SetGetRoundtrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != "v" {
		t.Fatalf("got %q", got)
	}

	_, ok, err = c.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if ok {
		t.Fatal("missing key reported as hit")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatal("entry should be live before its TTL")
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("entry should have expired")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry not dropped, len=%d", c.Len())
	}
}

func TestMemoryCache_SweepOnSet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		_ = c.Set(ctx, fmt.Sprintf("old-%d", i), []byte("v"), time.Second)
	}
	now = now.Add(time.Minute)
	_ = c.Set(ctx, "fresh", []byte("v"), time.Minute)

	if c.Len() != 1 {
		t.Fatalf("expected expired entries swept on set, len=%d", c.Len())
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("k-%d", n%4)
			for j := 0; j < 100; j++ {
				_ = c.Set(ctx, key, []byte("v"), time.Minute)
				_, _, _ = c.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()
}

func TestFetchJSON_FillsOnMissAndServesFromCache(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	calls := 0
	fill := func(ctx context.Context) (any, error) {
		calls++
		return map[string]string{"city": "Rotterdam"}, nil
	}

	var out map[string]string
	if err := FetchJSON(ctx, c, "k", time.Minute, &out, fill); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if out["city"] != "Rotterdam" {
		t.Fatalf("unexpected fill result: %v", out)
	}

	out = nil
	if err := FetchJSON(ctx, c, "k", time.Minute, &out, fill); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single upstream fill, got %d", calls)
	}
	if out["city"] != "Rotterdam" {
		t.Fatalf("cache served wrong value: %v", out)
	}
}

func TestFetchJSON_NilCacheStillFills(t *testing.T) {
	var out map[string]string
	err := FetchJSON(context.Background(), nil, "k", time.Minute, &out, func(ctx context.Context) (any, error) {
		return map[string]string{"a": "b"}, nil
	})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if out["a"] != "b" {
		t.Fatalf("unexpected result: %v", out)
	}
}
