package database

import (
	"context"
	"database/sql"
	"fmt"
)

var _ SocialRepository = (*SocialRepo)(nil)

// SocialRepo reads one social component table. Groups and member profiles
// share the same shape and differ only in table and visible status.
type SocialRepo struct {
	db            *DB
	table         string
	visibleStatus string
}

func NewGroupRepository(db *DB) *SocialRepo {
	return &SocialRepo{db: db, table: "social_groups", visibleStatus: "public"}
}

func NewProfileRepository(db *DB) *SocialRepo {
	return &SocialRepo{db: db, table: "social_profiles", visibleStatus: "active"}
}

func (r *SocialRepo) where(excludeIDs []int64) (string, []interface{}) {
	args := []interface{}{r.visibleStatus}
	where := "status = ?"
	if len(excludeIDs) > 0 {
		var clause string
		clause, args = inClause("id", excludeIDs, args)
		where += " AND NOT " + clause
	}
	return where, args
}

func (r *SocialRepo) List(ctx context.Context, opts ListOptions) ([]SocialRecord, error) {
	where, args := r.where(opts.ExcludeIDs)

	query := fmt.Sprintf(`
		SELECT id, slug, name, COALESCE(canonical_url, ''), modified_at
		FROM %s
		WHERE %s
		ORDER BY modified_at ASC, id ASC`, r.table, where)

	var limit string
	limit, args = limitClause(opts.Limit, opts.Offset, args)

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query+limit), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.table, err)
	}
	defer rows.Close()

	var records []SocialRecord
	for rows.Next() {
		var record SocialRecord
		var modifiedAt int64
		if err := rows.Scan(&record.ID, &record.Slug, &record.Name, &record.CanonicalURL, &modifiedAt); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", r.table, err)
		}
		record.ModifiedAt = fromUnix(modifiedAt)
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", r.table, err)
	}

	return records, nil
}

func (r *SocialRepo) Count(ctx context.Context, excludeIDs []int64) (int, error) {
	where, args := r.where(excludeIDs)

	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", r.table, where)
	if err := r.db.QueryRowContext(ctx, r.db.Rebind(query), args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", r.table, err)
	}
	return count, nil
}

func (r *SocialRepo) IDBySlug(ctx context.Context, slug string) (int64, bool, error) {
	var id int64
	query := fmt.Sprintf("SELECT id FROM %s WHERE slug = ?", r.table)
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), slug).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get %s by slug: %w", r.table, err)
	}
	return id, true, nil
}

func (r *SocialRepo) IDsByCanonical(ctx context.Context, urls []string) ([]int64, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	clause, args := inStrings("canonical_url", urls, nil)
	return queryIDs(ctx, r.db, fmt.Sprintf("SELECT id FROM %s WHERE %s ORDER BY id", r.table, clause), args)
}
