package database

import (
	"context"
	"database/sql"
	"fmt"
)

var _ TermRepository = (*TermRepo)(nil)

// TermRepo reads taxonomy terms. Only terms with published posts
// (post_count > 0) are eligible for sitemaps.
type TermRepo struct {
	db *DB
}

func NewTermRepository(db *DB) *TermRepo {
	return &TermRepo{db: db}
}

// ListTerms returns terms ordered by aggregated last-modified ascending,
// then by ID ascending.
func (r *TermRepo) ListTerms(ctx context.Context, taxonomy string, opts ListOptions) ([]Term, error) {
	args := []interface{}{taxonomy}
	where := "t.taxonomy = ? AND t.post_count > 0"
	if len(opts.ExcludeIDs) > 0 {
		var clause string
		clause, args = inClause("t.id", opts.ExcludeIDs, args)
		where += " AND NOT " + clause
	}

	query := `
		SELECT t.id, t.taxonomy, t.slug, t.name, t.post_count, COALESCE(t.canonical_url, ''),
		       COALESCE(MAX(p.modified_at), t.modified_at) AS last_modified
		FROM terms t
		LEFT JOIN post_terms pt ON pt.term_id = t.id
		LEFT JOIN posts p ON p.id = pt.post_id AND p.status = 'publish'
		WHERE ` + where + `
		GROUP BY t.id, t.taxonomy, t.slug, t.name, t.post_count, t.canonical_url, t.modified_at
		ORDER BY last_modified ASC, t.id ASC`

	var limit string
	limit, args = limitClause(opts.Limit, opts.Offset, args)

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query+limit), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list terms: %w", err)
	}
	defer rows.Close()

	var terms []Term
	for rows.Next() {
		var term Term
		var lastModified int64
		err := rows.Scan(&term.ID, &term.Taxonomy, &term.Slug, &term.Name, &term.PostCount,
			&term.CanonicalURL, &lastModified)
		if err != nil {
			return nil, fmt.Errorf("failed to scan term row: %w", err)
		}
		term.LastModified = fromUnix(lastModified)
		terms = append(terms, term)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating term rows: %w", err)
	}

	return terms, nil
}

func (r *TermRepo) CountTerms(ctx context.Context, taxonomy string, excludeIDs []int64) (int, error) {
	args := []interface{}{taxonomy}
	query := "SELECT COUNT(*) FROM terms WHERE taxonomy = ? AND post_count > 0"
	if len(excludeIDs) > 0 {
		var clause string
		clause, args = inClause("id", excludeIDs, args)
		query += " AND NOT " + clause
	}

	var count int
	if err := r.db.QueryRowContext(ctx, r.db.Rebind(query), args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count terms: %w", err)
	}
	return count, nil
}

func (r *TermRepo) TermIDBySlug(ctx context.Context, taxonomy, slug string) (int64, bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		r.db.Rebind("SELECT id FROM terms WHERE taxonomy = ? AND slug = ?"), taxonomy, slug).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get term by slug: %w", err)
	}
	return id, true, nil
}

func (r *TermRepo) TermExists(ctx context.Context, taxonomy string, id int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		r.db.Rebind("SELECT COUNT(*) FROM terms WHERE taxonomy = ? AND id = ?"), taxonomy, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check term: %w", err)
	}
	return count > 0, nil
}

func (r *TermRepo) TermIDsByCanonical(ctx context.Context, taxonomy string, urls []string) ([]int64, error) {
	if len(urls) == 0 {
		return nil, nil
	}

	args := []interface{}{taxonomy}
	clause, args := inStrings("canonical_url", urls, args)
	return queryIDs(ctx, r.db, "SELECT id FROM terms WHERE taxonomy = ? AND "+clause+" ORDER BY id", args)
}

func queryIDs(ctx context.Context, db *DB, query string, args []interface{}) ([]int64, error) {
	rows, err := db.QueryContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating id rows: %w", err)
	}

	return ids, nil
}
