package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"nextdocs/src/log"
)

type searchService struct {
	strategies map[ContentType]Strategy
	titles     []TitleSource
	cache      Cache
	timeout    time.Duration
}

// NewSearchService builds the unified search service. strategies maps each
// searchable content type to its store adapter; titles lists the suggestion
// sources in their serving order (documents, blog posts, feature requests).
// cache may be nil, in which case every request recomputes.
func NewSearchService(strategies map[ContentType]Strategy, titles []TitleSource, cache Cache, timeout time.Duration) Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &searchService{
		strategies: strategies,
		titles:     titles,
		cache:      cache,
		timeout:    timeout,
	}
}

func (s *searchService) SearchContent(ctx context.Context, query string, opts Options) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		// Defined fast path: never reaches the store or the cache.
		return &Response{Results: []Result{}, Total: 0}, nil
	}

	opts = opts.withDefaults()
	for _, t := range opts.Types {
		if _, ok := s.strategies[t]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownContentType, t)
		}
	}

	key := SearchCacheKey(query, opts)
	if resp, ok := s.cachedResponse(ctx, key); ok {
		return resp, nil
	}

	expr := BuildQueryExpression(query)
	if expr == "" {
		// Query contained only reserved characters; nothing to match.
		return &Response{Results: []Result{}, Total: 0}, nil
	}

	results, err := s.fanOut(ctx, expr, opts)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Results: aggregate(results, opts.Limit),
	}
	resp.Total = len(resp.Results)

	s.writeCache(ctx, key, resp, SearchCacheTTL)
	return resp, nil
}

// fanOut issues one store query per selected content type concurrently. The
// whole request fails if any single strategy fails; completion order never
// affects the output because slots are positional.
func (s *searchService) fanOut(ctx context.Context, expr string, opts Options) ([][]Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	p := Params{
		Limit:    opts.Limit,
		Offset:   opts.Offset,
		Category: opts.Category,
		Tags:     opts.Tags,
	}

	results := make([][]Result, len(opts.Types))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range opts.Types {
		i, t := i, t
		strategy := s.strategies[t]
		g.Go(func() error {
			rows, err := strategy.Search(gctx, expr, p)
			if err != nil {
				return fmt.Errorf("failed to search %s content: %w", t, err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// aggregate interleaves the per-type result lists by rank. It never re-ranks
// within a type; ties break on type then title so identical inputs always
// produce identical output.
func aggregate(perType [][]Result, limit int) []Result {
	merged := make([]Result, 0)
	for _, rows := range perType {
		merged = append(merged, rows...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Rank != merged[j].Rank {
			return merged[i].Rank > merged[j].Rank
		}
		if merged[i].Type != merged[j].Type {
			return merged[i].Type < merged[j].Type
		}
		return merged[i].Title < merged[j].Title
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

func (s *searchService) cachedResponse(ctx context.Context, key string) (*Response, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		log.Error(err, "discarding undecodable cache entry", "key", key)
		return nil, false
	}
	return &resp, true
}

func (s *searchService) writeCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.Error(err, "failed to encode cache entry", "key", key)
		return
	}
	s.cache.Set(ctx, key, data, ttl)
}
