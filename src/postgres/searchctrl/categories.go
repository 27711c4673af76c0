package searchctrl

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"nextdocs/src/log"
)

// RepositoryCategory is the per-repository category metadata table. The
// display title is keyed by the first path segment of a raw category key
// such as "guides/getting-started".
type RepositoryCategory struct {
	ID           int64  `gorm:"primaryKey"`
	RepositoryID int64  `gorm:"not null"`
	Slug         string `gorm:"not null"`
	Title        string `gorm:"not null"`
}

func (RepositoryCategory) TableName() string {
	return "repository_categories"
}

type categoryKey struct {
	repositoryID int64
	slug         string
}

type categoryLabels map[categoryKey]string

// labelFor resolves the display label for a matched row, falling back to
// the raw category key when no metadata exists.
func (l categoryLabels) labelFor(row contentRow) string {
	if row.Category == "" {
		return ""
	}
	if title, ok := l[categoryKey{row.RepositoryID, categoryPrefix(row.Category)}]; ok {
		return title
	}
	return row.Category
}

// resolveCategoryLabels batch-loads metadata for every (repository, category
// prefix) pair in the result set. The lookup is best-effort: on a store
// error the raw keys are shown instead.
func resolveCategoryLabels(ctx context.Context, db *gorm.DB, rows []contentRow) categoryLabels {
	pairs := make([][]interface{}, 0, len(rows))
	seen := make(map[categoryKey]struct{})
	for _, row := range rows {
		if row.Category == "" {
			continue
		}
		key := categoryKey{row.RepositoryID, categoryPrefix(row.Category)}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		pairs = append(pairs, []interface{}{key.repositoryID, key.slug})
	}

	labels := make(categoryLabels, len(pairs))
	if len(pairs) == 0 {
		return labels
	}

	var metas []RepositoryCategory
	result := db.WithContext(ctx).
		Where("(repository_id, slug) IN ?", pairs).
		Find(&metas)
	if result.Error != nil {
		log.Error(result.Error, "category metadata lookup failed, falling back to raw keys")
		return labels
	}

	for _, meta := range metas {
		labels[categoryKey{meta.RepositoryID, meta.Slug}] = meta.Title
	}
	return labels
}

// categoryPrefix returns the first path segment of a raw category key.
func categoryPrefix(category string) string {
	if i := strings.IndexByte(category, '/'); i >= 0 {
		return category[:i]
	}
	return category
}
