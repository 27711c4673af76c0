package search

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ContentType identifies which content partition a result came from.
type ContentType string

const (
	TypeDocument ContentType = "document"
	TypeBlog     ContentType = "blog"
	TypeAPISpec  ContentType = "api-spec"
	TypeFeature  ContentType = "feature"
)

// Cache TTLs. Suggestions are requested once per keystroke and churn less
// than full search results, so they keep a longer TTL.
const (
	SearchCacheTTL     = 5 * time.Minute
	SuggestionCacheTTL = 10 * time.Minute
)

const (
	DefaultLimit           = 10
	DefaultSuggestionLimit = 5
)

var (
	ErrUnknownContentType = errors.New("unknown content type")
)

// AllTypes returns every searchable content type in its stable order.
func AllTypes() []ContentType {
	return []ContentType{TypeDocument, TypeBlog, TypeAPISpec, TypeFeature}
}

// ParseTypes validates a caller-supplied type filter. Unknown tags are
// rejected rather than silently mis-routed.
func ParseTypes(raw []string) ([]ContentType, error) {
	types := make([]ContentType, 0, len(raw))
	for _, r := range raw {
		t := ContentType(r)
		switch t {
		case TypeDocument, TypeBlog, TypeAPISpec, TypeFeature:
			types = append(types, t)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownContentType, r)
		}
	}
	return types, nil
}

// Options configures a full search request.
type Options struct {
	Limit    int           `json:"limit"`
	Offset   int           `json:"offset"`
	Types    []ContentType `json:"types"`
	Category string        `json:"category,omitempty"`
	// Tags filters by overlap: a candidate matches when it shares at least
	// one tag with this set.
	Tags []string `json:"tags,omitempty"`
}

func (o Options) withDefaults() Options {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	if len(o.Types) == 0 {
		o.Types = AllTypes()
	}
	return o
}

// Result is the unified row shape across all four content partitions. Rank
// values are only comparable within a single response, because every
// strategy scores against the identical canonical query expression.
type Result struct {
	ID       string      `json:"id"`
	Type     ContentType `json:"type"`
	Title    string      `json:"title"`
	Excerpt  string      `json:"excerpt"`
	URL      string      `json:"url"`
	Category string      `json:"category,omitempty"`
	Tags     []string    `json:"tags"`
	Rank     float64     `json:"rank"`
	// Highlight carries a marked excerpt around the matched terms. API specs
	// never generate one.
	Highlight string `json:"highlight,omitempty"`
}

// Response is the payload returned by SearchContent. Total is the size of
// the truncated merged list, not a true cross-partition match count.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
}

// Params carries the per-strategy slice of a search request.
type Params struct {
	Limit    int
	Offset   int
	Category string
	Tags     []string
}

// Strategy runs the canonical query expression against one content
// partition. Implementations are read-only and must keep rank ordering
// descending within their own output.
type Strategy interface {
	Search(ctx context.Context, expr string, p Params) ([]Result, error)
}

// TitleSource serves the suggestion engine: cheap, unranked title lookup.
type TitleSource interface {
	SuggestTitles(ctx context.Context, query string, limit int) ([]string, error)
}

// Cache is the response cache consumed by the service. Implementations are
// best-effort: a failing cache store degrades to recomputation, it never
// fails a request.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Service is the boundary consumed by the HTTP layer.
type Service interface {
	// SearchContent matches the query against the selected content types and
	// returns one globally ranked result list.
	SearchContent(ctx context.Context, query string, opts Options) (*Response, error)

	// GetSearchSuggestions returns up to limit plain title strings for
	// autocomplete.
	GetSearchSuggestions(ctx context.Context, query string, limit int) ([]string, error)
}
