package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "players:list", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "players:list", []string{"a"})
	store.Set(ctx, "players:7", "b")
	store.Set(ctx, "teams:list", "c")

	store.DeletePrefix(ctx, "players:")

	if _, ok := store.Get(ctx, "players:list"); ok {
		t.Fatal("players:list should be evicted")
	}
	if _, ok := store.Get(ctx, "players:7"); ok {
		t.Fatal("players:7 should be evicted")
	}
	if _, ok := store.Get(ctx, "teams:list"); !ok {
		t.Fatal("teams:list should survive")
	}
}

func TestStore_ExpiredEntryMisses(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Millisecond)
	ctx := context.Background()

	store.Set(ctx, "k", "v")
	time.Sleep(5 * time.Millisecond)

	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expired entry should miss")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
