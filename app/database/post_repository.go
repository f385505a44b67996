package database

import (
	"context"
	"fmt"
)

var _ PostRepository = (*PostRepo)(nil)

type PostRepo struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepo {
	return &PostRepo{db: db}
}

func (r *PostRepo) where(q PostQuery) (string, []interface{}) {
	args := []interface{}{q.PostType}
	where := "p.post_type = ? AND p.status = 'publish'"

	if q.ModifiedSince > 0 {
		where += " AND p.modified_at >= ?"
		args = append(args, q.ModifiedSince)
	}

	if len(q.ExcludeIDs) > 0 {
		var clause string
		clause, args = inClause("p.id", q.ExcludeIDs, args)
		where += " AND NOT " + clause
	}

	if len(q.TermIDs) > 0 {
		var clause string
		clause, args = inClause("pt.term_id", q.TermIDs, args)
		where += " AND EXISTS (SELECT 1 FROM post_terms pt WHERE pt.post_id = p.id AND " + clause + ")"
	}

	return where, args
}

// ListPosts returns published posts ordered by modified_at ascending, then ID.
func (r *PostRepo) ListPosts(ctx context.Context, q PostQuery) ([]Post, error) {
	where, args := r.where(q)

	query := `
		SELECT p.id, p.post_type, p.title, p.url, COALESCE(p.canonical_url, ''), p.published_at, p.modified_at
		FROM posts p
		WHERE ` + where + `
		ORDER BY p.modified_at ASC, p.id ASC`

	var limit string
	limit, args = limitClause(q.Limit, q.Offset, args)

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query+limit), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		var publishedAt, modifiedAt int64
		err := rows.Scan(&post.ID, &post.PostType, &post.Title, &post.URL, &post.CanonicalURL,
			&publishedAt, &modifiedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		post.PublishedAt = fromUnix(publishedAt)
		post.ModifiedAt = fromUnix(modifiedAt)
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

func (r *PostRepo) CountPosts(ctx context.Context, q PostQuery) (int, error) {
	where, args := r.where(q)

	var count int
	err := r.db.QueryRowContext(ctx, r.db.Rebind("SELECT COUNT(*) FROM posts p WHERE "+where), args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

func (r *PostRepo) PostIDsByURLs(ctx context.Context, postType string, urls []string) ([]int64, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	clause, args := inStrings("url", urls, []interface{}{postType})
	return queryIDs(ctx, r.db, "SELECT id FROM posts WHERE post_type = ? AND "+clause+" ORDER BY id", args)
}

func (r *PostRepo) PostIDsByCanonical(ctx context.Context, postType string, urls []string) ([]int64, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	clause, args := inStrings("canonical_url", urls, []interface{}{postType})
	return queryIDs(ctx, r.db, "SELECT id FROM posts WHERE post_type = ? AND "+clause+" ORDER BY id", args)
}

// PostIDsByTerms expands term IDs into the IDs of every post carrying them.
func (r *PostRepo) PostIDsByTerms(ctx context.Context, termIDs []int64) ([]int64, error) {
	if len(termIDs) == 0 {
		return nil, nil
	}
	clause, args := inClause("term_id", termIDs, nil)
	return queryIDs(ctx, r.db, "SELECT DISTINCT post_id FROM post_terms WHERE "+clause+" ORDER BY post_id", args)
}

func (r *PostRepo) ImagesForPosts(ctx context.Context, postIDs []int64) (map[int64][]Image, error) {
	images := make(map[int64][]Image)
	if len(postIDs) == 0 {
		return images, nil
	}

	clause, args := inClause("post_id", postIDs, nil)
	rows, err := r.db.QueryContext(ctx,
		r.db.Rebind("SELECT post_id, src, title, alt FROM post_images WHERE "+clause+" ORDER BY post_id, position"),
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get post images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		var image Image
		if err := rows.Scan(&postID, &image.Src, &image.Title, &image.Alt); err != nil {
			return nil, fmt.Errorf("failed to scan image row: %w", err)
		}
		images[postID] = append(images[postID], image)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating image rows: %w", err)
	}

	return images, nil
}
