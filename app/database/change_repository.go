package database

import (
	"context"
	"fmt"
)

var _ ChangeRepository = (*ChangeRepo)(nil)

// ContentTables lists every table whose mutation invalidates sitemaps.
var ContentTables = []string{"posts", "terms", "social_groups", "social_profiles"}

type ChangeRepo struct {
	db *DB
}

func NewChangeRepository(db *DB) *ChangeRepo {
	return &ChangeRepo{db: db}
}

// ChangeStamps returns "count:max(modified_at)" per content table.
func (r *ChangeRepo) ChangeStamps(ctx context.Context) (map[string]string, error) {
	stamps := make(map[string]string, len(ContentTables))

	for _, table := range ContentTables {
		var count, maxModified int64
		query := fmt.Sprintf("SELECT COUNT(*), COALESCE(MAX(modified_at), 0) FROM %s", table)
		if err := r.db.QueryRowContext(ctx, query).Scan(&count, &maxModified); err != nil {
			return nil, fmt.Errorf("failed to get change stamp for %s: %w", table, err)
		}
		stamps[table] = fmt.Sprintf("%d:%d", count, maxModified)
	}

	return stamps, nil
}
