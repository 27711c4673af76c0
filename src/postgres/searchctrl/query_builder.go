package searchctrl

import (
	"strings"

	"github.com/lib/pq"

	"nextdocs/src/core/search"
)

// contentQuery describes one content partition's relevance query. A single
// builder composes the WHERE clause for every filter combination instead of
// keeping four near-duplicate query strings per type.
type contentQuery struct {
	table string
	// joinRepo pulls in the owning repository for display attribution.
	joinRepo bool
	// extraWhere is an always-on gate, e.g. excluding blog drafts.
	extraWhere string
	// headline asks the store for a marked excerpt around the matched terms.
	headline bool
}

var (
	documentQuery = contentQuery{
		table:    "documents",
		joinRepo: true,
		headline: true,
	}
	blogQuery = contentQuery{
		table:      "blog_posts",
		joinRepo:   true,
		extraWhere: "c.draft = false",
		headline:   true,
	}
	featureQuery = contentQuery{
		table:    "feature_requests",
		headline: true,
	}
)

// build renders the SQL and bind arguments for the canonical expression and
// filter parameters. Category and tags compose conjunctively when both are
// present; the tags filter matches on overlap (shares at least one tag).
func (q contentQuery) build(expr string, p search.Params) (string, []interface{}) {
	var b strings.Builder
	args := make([]interface{}, 0, 5)

	b.WriteString("SELECT c.id, c.title, c.description, c.slug, c.category, c.tags")
	if q.joinRepo {
		b.WriteString(", r.id AS repository_id, r.name AS repository_name, r.slug AS repository_slug")
	}
	b.WriteString(", ts_rank(c.search_vector, q.query) AS rank")
	if q.headline {
		b.WriteString(", ts_headline('english', c.description, q.query, 'MaxWords=20, MinWords=5') AS highlight")
	}
	b.WriteString(" FROM ")
	b.WriteString(q.table)
	b.WriteString(" c")
	if q.joinRepo {
		b.WriteString(" JOIN repositories r ON r.id = c.repository_id")
	}
	b.WriteString(" CROSS JOIN to_tsquery('english', ?) AS q(query)")
	args = append(args, expr)

	b.WriteString(" WHERE c.search_vector @@ q.query")
	if q.extraWhere != "" {
		b.WriteString(" AND ")
		b.WriteString(q.extraWhere)
	}
	if p.Category != "" {
		b.WriteString(" AND c.category = ?")
		args = append(args, p.Category)
	}
	if len(p.Tags) > 0 {
		b.WriteString(" AND c.tags && ?")
		args = append(args, pq.Array(p.Tags))
	}

	b.WriteString(" ORDER BY rank DESC LIMIT ? OFFSET ?")
	args = append(args, p.Limit, p.Offset)

	return b.String(), args
}

const apiSpecQuerySQL = `SELECT a.id, a.name, a.version, a.description,
 ts_rank(a.search_vector, q.query) AS rank
 FROM api_specs a
 CROSS JOIN to_tsquery('english', ?) AS q(query)
 WHERE a.search_vector @@ q.query AND a.enabled = true
 ORDER BY rank DESC LIMIT ? OFFSET ?`
