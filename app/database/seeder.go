package database

import (
	"context"
	"fmt"
	"time"
)

// Seeder writes content rows. The service itself only reads the content
// store; the seeder backs local fixtures and tests.
type Seeder struct {
	db *DB
}

func NewSeeder(db *DB) *Seeder {
	return &Seeder{db: db}
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func (s *Seeder) InsertTerm(ctx context.Context, term Term) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO terms (id, taxonomy, slug, name, post_count, canonical_url, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		term.ID, term.Taxonomy, term.Slug, term.Name, term.PostCount,
		nullable(term.CanonicalURL), toUnix(term.LastModified))
	if err != nil {
		return fmt.Errorf("failed to insert term %d: %w", term.ID, err)
	}
	return nil
}

// InsertPost stores a post with the given status, its term relations and images.
func (s *Seeder) InsertPost(ctx context.Context, post Post, status string, termIDs []int64, images []Image) error {
	if status == "" {
		status = "publish"
	}

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO posts (id, post_type, status, title, url, canonical_url, published_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		post.ID, post.PostType, status, post.Title, post.URL, nullable(post.CanonicalURL),
		toUnix(post.PublishedAt), toUnix(post.ModifiedAt))
	if err != nil {
		return fmt.Errorf("failed to insert post %d: %w", post.ID, err)
	}

	for _, termID := range termIDs {
		_, err := s.db.ExecContext(ctx, s.db.Rebind("INSERT INTO post_terms (post_id, term_id) VALUES (?, ?)"),
			post.ID, termID)
		if err != nil {
			return fmt.Errorf("failed to relate post %d to term %d: %w", post.ID, termID, err)
		}
	}

	for i, image := range images {
		_, err := s.db.ExecContext(ctx, s.db.Rebind(`
			INSERT INTO post_images (post_id, position, src, title, alt) VALUES (?, ?, ?, ?, ?)`),
			post.ID, i, image.Src, image.Title, image.Alt)
		if err != nil {
			return fmt.Errorf("failed to insert image for post %d: %w", post.ID, err)
		}
	}

	return nil
}

func (s *Seeder) InsertGroup(ctx context.Context, record SocialRecord, status string) error {
	return s.insertSocial(ctx, "social_groups", record, status, "public")
}

func (s *Seeder) InsertProfile(ctx context.Context, record SocialRecord, status string) error {
	return s.insertSocial(ctx, "social_profiles", record, status, "active")
}

func (s *Seeder) insertSocial(ctx context.Context, table string, record SocialRecord, status, defaultStatus string) error {
	if status == "" {
		status = defaultStatus
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, slug, name, status, canonical_url, modified_at)
		VALUES (?, ?, ?, ?, ?, ?)`, table)
	_, err := s.db.ExecContext(ctx, s.db.Rebind(query),
		record.ID, record.Slug, record.Name, status, nullable(record.CanonicalURL), toUnix(record.ModifiedAt))
	if err != nil {
		return fmt.Errorf("failed to insert %s row %d: %w", table, record.ID, err)
	}
	return nil
}

func (s *Seeder) TouchPost(ctx context.Context, id int64, modifiedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE posts SET modified_at = ? WHERE id = ?"),
		toUnix(modifiedAt), id)
	if err != nil {
		return fmt.Errorf("failed to touch post %d: %w", id, err)
	}
	return nil
}
