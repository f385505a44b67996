package cache

import (
	"context"
	"fmt"
)

const (
	KindGeneral = "general"
	KindNews    = "news"

	// IndexType addresses the index document of a kind.
	IndexType = "index"
)

// Key addresses one rendered sitemap document.
type Key struct {
	Kind string
	Type string
	Page int
}

func IndexKey(kind string) Key {
	return Key{Kind: kind, Type: IndexType, Page: 0}
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%d", k.Kind, k.Type, k.Page)
}

// Store holds uncompressed sitemap XML. Entries never expire; they are
// removed only by Flush.
type Store interface {
	Get(ctx context.Context, key Key) (string, bool, error)
	Set(ctx context.Context, key Key, text string) error
	// Flush drops every entry of the kind, or of all kinds when kind is empty.
	Flush(ctx context.Context, kind string) error
	Health() map[string]interface{}
	Close() error
}
