package database

import (
	"context"
)

// ListOptions selects one page of rows. A non-positive Limit means unbounded.
type ListOptions struct {
	Limit      int
	Offset     int
	ExcludeIDs []int64
}

type PostQuery struct {
	ListOptions
	PostType      string
	ModifiedSince int64   // unix seconds, 0 disables the window
	TermIDs       []int64 // posts must carry at least one of these terms
}

type TermRepository interface {
	ListTerms(ctx context.Context, taxonomy string, opts ListOptions) ([]Term, error)
	CountTerms(ctx context.Context, taxonomy string, excludeIDs []int64) (int, error)
	TermIDBySlug(ctx context.Context, taxonomy, slug string) (int64, bool, error)
	TermExists(ctx context.Context, taxonomy string, id int64) (bool, error)
	TermIDsByCanonical(ctx context.Context, taxonomy string, urls []string) ([]int64, error)
}

type PostRepository interface {
	ListPosts(ctx context.Context, q PostQuery) ([]Post, error)
	CountPosts(ctx context.Context, q PostQuery) (int, error)
	PostIDsByURLs(ctx context.Context, postType string, urls []string) ([]int64, error)
	PostIDsByCanonical(ctx context.Context, postType string, urls []string) ([]int64, error)
	PostIDsByTerms(ctx context.Context, termIDs []int64) ([]int64, error)
	ImagesForPosts(ctx context.Context, postIDs []int64) (map[int64][]Image, error)
}

// SocialRepository serves either groups or member profiles.
type SocialRepository interface {
	List(ctx context.Context, opts ListOptions) ([]SocialRecord, error)
	Count(ctx context.Context, excludeIDs []int64) (int, error)
	IDBySlug(ctx context.Context, slug string) (int64, bool, error)
	IDsByCanonical(ctx context.Context, urls []string) ([]int64, error)
}

// ChangeRepository reports a cheap fingerprint per content table; any
// difference between two calls means content was mutated in between.
type ChangeRepository interface {
	ChangeStamps(ctx context.Context) (map[string]string, error)
}
