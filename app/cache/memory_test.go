package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryStore_GetSet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	key := Key{Kind: KindGeneral, Type: "category", Page: 1}

	if _, ok, err := store.Get(ctx, key); ok || err != nil {
		t.Fatalf("expected miss on empty store, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, key, "<urlset/>"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	text, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if text != "<urlset/>" {
		t.Errorf("expected stored text, got %q", text)
	}

	if _, ok, _ := store.Get(ctx, Key{Kind: KindGeneral, Type: "category", Page: 2}); ok {
		t.Error("expected a different page to miss")
	}
}

func TestMemoryStore_FlushByKind(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Set(ctx, IndexKey(KindGeneral), "general index")
	store.Set(ctx, Key{Kind: KindGeneral, Type: "post_tag", Page: 1}, "tags")
	store.Set(ctx, IndexKey(KindNews), "news index")

	if err := store.Flush(ctx, KindGeneral); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if store.Len() != 1 {
		t.Errorf("expected only the news entry to remain, got %d entries", store.Len())
	}
	if _, ok, _ := store.Get(ctx, IndexKey(KindNews)); !ok {
		t.Error("expected news index to survive a general flush")
	}

	if err := store.Flush(ctx, ""); err != nil {
		t.Fatalf("Flush all: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", store.Len())
	}
}

func TestMemoryStore_ConcurrentWrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	key := Key{Kind: KindGeneral, Type: "category", Page: 1}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Set(ctx, key, fmt.Sprintf("render-%d", i%2))
			store.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	text, ok, _ := store.Get(ctx, key)
	if !ok || (text != "render-0" && text != "render-1") {
		t.Errorf("expected one of the written values, got %q", text)
	}
}

func TestKey(t *testing.T) {
	key := IndexKey(KindNews)
	if key.Type != IndexType || key.Page != 0 {
		t.Errorf("unexpected index key %+v", key)
	}
	if key.String() != "news:index:0" {
		t.Errorf("unexpected key string %q", key.String())
	}

	health := NewMemoryStore().Health()
	if health["type"] != "memory" || health["status"] != "healthy" {
		t.Errorf("unexpected health %v", health)
	}
}
