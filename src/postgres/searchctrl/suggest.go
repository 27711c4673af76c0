package searchctrl

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Suggestion lookups are deliberately cheap: case-insensitive substring
// match on the title or an exact match against any tag, no ranking, first
// matches win. API specs are excluded from suggestions.

func suggestTitles(ctx context.Context, db *gorm.DB, table, extraWhere, query string, limit int) ([]string, error) {
	sql := fmt.Sprintf(
		"SELECT DISTINCT c.title FROM %s c WHERE (c.title ILIKE ? OR ? = ANY(c.tags))%s LIMIT ?",
		table, extraWhere,
	)
	pattern := "%" + query + "%"

	var titles []string
	result := db.WithContext(ctx).Raw(sql, pattern, query, limit).Scan(&titles)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch %s suggestions: %v", table, result.Error)
	}
	return titles, nil
}

func (s *DocumentStrategy) SuggestTitles(ctx context.Context, query string, limit int) ([]string, error) {
	return suggestTitles(ctx, s.db, "documents", "", query, limit)
}

func (s *BlogStrategy) SuggestTitles(ctx context.Context, query string, limit int) ([]string, error) {
	return suggestTitles(ctx, s.db, "blog_posts", " AND c.draft = false", query, limit)
}

func (s *FeatureStrategy) SuggestTitles(ctx context.Context, query string, limit int) ([]string, error) {
	return suggestTitles(ctx, s.db, "feature_requests", "", query, limit)
}
