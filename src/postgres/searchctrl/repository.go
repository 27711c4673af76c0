package searchctrl

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"nextdocs/src/core/search"
)

// contentRow is the raw shape shared by document, blog post and feature
// request relevance queries. Feature requests carry no repository columns,
// which simply stay zero-valued.
type contentRow struct {
	ID             int64
	Title          string
	Description    string
	Slug           string
	Category       string
	Tags           pq.StringArray `gorm:"type:text[]"`
	RepositoryID   int64
	RepositoryName string
	RepositorySlug string
	Rank           float64
	Highlight      string
}

type apiSpecRow struct {
	ID          int64
	Name        string
	Version     string
	Description string
	Rank        float64
}

func queryContent(ctx context.Context, db *gorm.DB, q contentQuery, expr string, p search.Params) ([]contentRow, error) {
	sql, args := q.build(expr, p)

	var rows []contentRow
	result := db.WithContext(ctx).Raw(sql, args...).Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

// DocumentStrategy searches the documentation partition.
type DocumentStrategy struct {
	db *gorm.DB
}

func NewDocumentStrategy(db *gorm.DB) *DocumentStrategy {
	return &DocumentStrategy{db: db}
}

func (s *DocumentStrategy) Search(ctx context.Context, expr string, p search.Params) ([]search.Result, error) {
	rows, err := queryContent(ctx, s.db, documentQuery, expr, p)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %v", err)
	}

	labels := resolveCategoryLabels(ctx, s.db, rows)

	results := make([]search.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, search.Result{
			ID:        strconv.FormatInt(row.ID, 10),
			Type:      search.TypeDocument,
			Title:     row.Title,
			Excerpt:   row.Description,
			URL:       "/docs/" + row.Slug,
			Category:  labels.labelFor(row),
			Tags:      tagSlice(row.Tags),
			Rank:      row.Rank,
			Highlight: row.Highlight,
		})
	}
	return results, nil
}

// BlogStrategy searches published blog posts. Drafts never match.
type BlogStrategy struct {
	db *gorm.DB
}

func NewBlogStrategy(db *gorm.DB) *BlogStrategy {
	return &BlogStrategy{db: db}
}

func (s *BlogStrategy) Search(ctx context.Context, expr string, p search.Params) ([]search.Result, error) {
	rows, err := queryContent(ctx, s.db, blogQuery, expr, p)
	if err != nil {
		return nil, fmt.Errorf("failed to search blog posts: %v", err)
	}

	labels := resolveCategoryLabels(ctx, s.db, rows)

	results := make([]search.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, search.Result{
			ID:        strconv.FormatInt(row.ID, 10),
			Type:      search.TypeBlog,
			Title:     row.Title,
			Excerpt:   row.Description,
			URL:       "/blog/" + row.Slug,
			Category:  labels.labelFor(row),
			Tags:      tagSlice(row.Tags),
			Rank:      row.Rank,
			Highlight: row.Highlight,
		})
	}
	return results, nil
}

// FeatureStrategy searches feature requests. Feature categories are plain
// labels with no per-repository metadata, so the raw key is shown as-is.
type FeatureStrategy struct {
	db *gorm.DB
}

func NewFeatureStrategy(db *gorm.DB) *FeatureStrategy {
	return &FeatureStrategy{db: db}
}

func (s *FeatureStrategy) Search(ctx context.Context, expr string, p search.Params) ([]search.Result, error) {
	rows, err := queryContent(ctx, s.db, featureQuery, expr, p)
	if err != nil {
		return nil, fmt.Errorf("failed to search feature requests: %v", err)
	}

	results := make([]search.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, search.Result{
			ID:        strconv.FormatInt(row.ID, 10),
			Type:      search.TypeFeature,
			Title:     row.Title,
			Excerpt:   row.Description,
			URL:       "/features/" + row.Slug,
			Category:  row.Category,
			Tags:      tagSlice(row.Tags),
			Rank:      row.Rank,
			Highlight: row.Highlight,
		})
	}
	return results, nil
}

// APISpecStrategy searches enabled API specifications. Specs have no tag
// concept and the store generates no headline for them, so Tags is always
// empty and Highlight is always absent. Category and tag filters do not
// apply to this partition.
type APISpecStrategy struct {
	db *gorm.DB
}

func NewAPISpecStrategy(db *gorm.DB) *APISpecStrategy {
	return &APISpecStrategy{db: db}
}

func (s *APISpecStrategy) Search(ctx context.Context, expr string, p search.Params) ([]search.Result, error) {
	var rows []apiSpecRow
	result := s.db.WithContext(ctx).Raw(apiSpecQuerySQL, expr, p.Limit, p.Offset).Scan(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to search api specs: %v", result.Error)
	}

	results := make([]search.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, search.Result{
			ID:      strconv.FormatInt(row.ID, 10),
			Type:    search.TypeAPISpec,
			Title:   row.Name,
			Excerpt: row.Description,
			URL:     fmt.Sprintf("/api-specs/%s/%s", row.Name, row.Version),
			Tags:    []string{},
			Rank:    row.Rank,
		})
	}
	return results, nil
}

// Pinger reports content store reachability for health checks.
type Pinger struct {
	db *gorm.DB
}

func NewPinger(db *gorm.DB) *Pinger {
	return &Pinger{db: db}
}

func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func tagSlice(tags pq.StringArray) []string {
	if len(tags) == 0 {
		return []string{}
	}
	return []string(tags)
}
