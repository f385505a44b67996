package cache

import (
	"testing"
)

func TestRedisKey(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{IndexKey(KindGeneral), "sitemap:general:index:0"},
		{Key{Kind: KindGeneral, Type: "category", Page: 3}, "sitemap:general:category:3"},
		{Key{Kind: KindNews, Type: "post", Page: 1}, "sitemap:news:post:1"},
	}

	for _, tt := range tests {
		if got := RedisKey(tt.key); got != tt.want {
			t.Errorf("RedisKey(%+v) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestFlushPattern(t *testing.T) {
	if got := flushPattern(KindNews); got != "sitemap:news:*" {
		t.Errorf("unexpected news pattern %q", got)
	}
	if got := flushPattern(""); got != "sitemap:*" {
		t.Errorf("unexpected wildcard pattern %q", got)
	}
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	// Nothing listens on port 1; the constructor must fail instead of
	// returning a store that errors later.
	store, err := NewRedisStore("127.0.0.1:1", "", 0)
	if err == nil {
		store.Close()
		t.Fatal("expected connection error")
	}
}
