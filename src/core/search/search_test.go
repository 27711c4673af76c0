package search_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"nextdocs/src/core/search"
)

type fakeStrategy struct {
	mu         sync.Mutex
	results    []search.Result
	err        error
	calls      int
	lastExpr   string
	lastParams search.Params
}

func (f *fakeStrategy) Search(ctx context.Context, expr string, p search.Params) ([]search.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastExpr = expr
	f.lastParams = p
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	down bool
	gets int
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.down {
		return nil, false
	}
	data, ok := f.data[key]
	return data, ok
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.down {
		return
	}
	f.data[key] = value
}

func result(typ search.ContentType, title string, rank float64) search.Result {
	return search.Result{
		ID:    title,
		Type:  typ,
		Title: title,
		Tags:  []string{},
		Rank:  rank,
	}
}

func newService(strategies map[search.ContentType]search.Strategy, cache search.Cache) search.Service {
	return search.NewSearchService(strategies, nil, cache, time.Second)
}

func allStrategies(results map[search.ContentType][]search.Result) map[search.ContentType]search.Strategy {
	strategies := make(map[search.ContentType]search.Strategy)
	for _, t := range search.AllTypes() {
		strategies[t] = &fakeStrategy{results: results[t]}
	}
	return strategies
}

func TestSearchContentEmptyQuery(t *testing.T) {
	for _, query := range []string{"", "   ", "\t\n"} {
		strategy := &fakeStrategy{}
		cache := newFakeCache()
		svc := newService(map[search.ContentType]search.Strategy{search.TypeDocument: strategy}, cache)

		resp, err := svc.SearchContent(context.Background(), query, search.Options{Types: []search.ContentType{search.TypeDocument}})
		if err != nil {
			t.Fatalf("SearchContent(%q) error: %v", query, err)
		}
		if len(resp.Results) != 0 || resp.Total != 0 {
			t.Errorf("SearchContent(%q) = %+v, want empty response", query, resp)
		}
		if strategy.calls != 0 {
			t.Errorf("SearchContent(%q) touched the store", query)
		}
		if cache.gets != 0 || cache.sets != 0 {
			t.Errorf("SearchContent(%q) touched the cache", query)
		}
	}
}

func TestSearchContentRankOrdering(t *testing.T) {
	strategies := allStrategies(map[search.ContentType][]search.Result{
		search.TypeDocument: {
			result(search.TypeDocument, "doc high", 0.9),
			result(search.TypeDocument, "doc low", 0.1),
		},
		search.TypeBlog: {
			result(search.TypeBlog, "blog mid", 0.7),
			result(search.TypeBlog, "blog low", 0.2),
		},
		search.TypeFeature: {
			result(search.TypeFeature, "feature mid", 0.5),
		},
	})
	svc := newService(strategies, newFakeCache())

	resp, err := svc.SearchContent(context.Background(), "api", search.Options{})
	if err != nil {
		t.Fatalf("SearchContent error: %v", err)
	}

	if resp.Total != len(resp.Results) {
		t.Errorf("Total = %d, want %d", resp.Total, len(resp.Results))
	}
	for i := 0; i+1 < len(resp.Results); i++ {
		if resp.Results[i].Rank < resp.Results[i+1].Rank {
			t.Errorf("results[%d].Rank = %v < results[%d].Rank = %v",
				i, resp.Results[i].Rank, i+1, resp.Results[i+1].Rank)
		}
	}
	if resp.Results[0].Title != "doc high" {
		t.Errorf("top result = %q, want %q", resp.Results[0].Title, "doc high")
	}
}

func TestSearchContentTieBreakDeterministic(t *testing.T) {
	strategies := allStrategies(map[search.ContentType][]search.Result{
		search.TypeDocument: {result(search.TypeDocument, "same rank doc", 0.5)},
		search.TypeBlog:     {result(search.TypeBlog, "same rank blog", 0.5)},
	})
	svc := newService(strategies, newFakeCache())

	var first []search.Result
	for i := 0; i < 5; i++ {
		resp, err := svc.SearchContent(context.Background(), "tie", search.Options{})
		if err != nil {
			t.Fatalf("SearchContent error: %v", err)
		}
		if first == nil {
			first = resp.Results
			// Ties break on type tag: "blog" sorts before "document".
			if first[0].Type != search.TypeBlog {
				t.Errorf("tie winner = %s, want %s", first[0].Type, search.TypeBlog)
			}
			continue
		}
		if !reflect.DeepEqual(resp.Results, first) {
			t.Fatalf("iteration %d produced different order", i)
		}
	}
}

func TestSearchContentDefaultLimit(t *testing.T) {
	many := make([]search.Result, 0, 15)
	for i := 0; i < 15; i++ {
		many = append(many, result(search.TypeDocument, string(rune('a'+i)), float64(15-i)))
	}
	strategies := allStrategies(map[search.ContentType][]search.Result{search.TypeDocument: many})
	svc := newService(strategies, newFakeCache())

	resp, err := svc.SearchContent(context.Background(), "api", search.Options{})
	if err != nil {
		t.Fatalf("SearchContent error: %v", err)
	}
	if len(resp.Results) != 10 {
		t.Errorf("len(results) = %d, want default limit 10", len(resp.Results))
	}
}

func TestSearchContentTypeFilter(t *testing.T) {
	docs := &fakeStrategy{results: []search.Result{result(search.TypeDocument, "doc", 0.9)}}
	features := &fakeStrategy{results: []search.Result{result(search.TypeFeature, "feature", 0.5)}}
	svc := newService(map[search.ContentType]search.Strategy{
		search.TypeDocument: docs,
		search.TypeFeature:  features,
	}, newFakeCache())

	resp, err := svc.SearchContent(context.Background(), "api", search.Options{
		Types: []search.ContentType{search.TypeFeature},
	})
	if err != nil {
		t.Fatalf("SearchContent error: %v", err)
	}
	for _, r := range resp.Results {
		if r.Type != search.TypeFeature {
			t.Errorf("result type = %s, want %s", r.Type, search.TypeFeature)
		}
	}
	if docs.calls != 0 {
		t.Error("document strategy queried despite type filter")
	}
	if features.calls != 1 {
		t.Errorf("feature strategy calls = %d, want 1", features.calls)
	}
}

func TestSearchContentUnknownType(t *testing.T) {
	svc := newService(allStrategies(nil), newFakeCache())

	_, err := svc.SearchContent(context.Background(), "api", search.Options{
		Types: []search.ContentType{"banana"},
	})
	if !errors.Is(err, search.ErrUnknownContentType) {
		t.Errorf("error = %v, want ErrUnknownContentType", err)
	}
}

func TestSearchContentParamsPassthrough(t *testing.T) {
	strategy := &fakeStrategy{}
	svc := newService(map[search.ContentType]search.Strategy{search.TypeDocument: strategy}, newFakeCache())

	opts := search.Options{
		Limit:    7,
		Offset:   3,
		Types:    []search.ContentType{search.TypeDocument},
		Category: "guides",
		Tags:     []string{"v2", "beta"},
	}
	if _, err := svc.SearchContent(context.Background(), "dyna api", opts); err != nil {
		t.Fatalf("SearchContent error: %v", err)
	}

	if strategy.lastExpr != "dyna:* & api:*" {
		t.Errorf("expression = %q, want %q", strategy.lastExpr, "dyna:* & api:*")
	}
	want := search.Params{Limit: 7, Offset: 3, Category: "guides", Tags: []string{"v2", "beta"}}
	if !reflect.DeepEqual(strategy.lastParams, want) {
		t.Errorf("params = %+v, want %+v", strategy.lastParams, want)
	}
}

func TestSearchContentStrategyFailureFailsRequest(t *testing.T) {
	boom := errors.New("connection refused")
	svc := newService(map[search.ContentType]search.Strategy{
		search.TypeDocument: &fakeStrategy{results: []search.Result{result(search.TypeDocument, "ok", 1)}},
		search.TypeBlog:     &fakeStrategy{err: boom},
	}, newFakeCache())

	_, err := svc.SearchContent(context.Background(), "api", search.Options{})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped %v", err, boom)
	}
}

func TestSearchContentCacheHitIsVerbatim(t *testing.T) {
	docs := &fakeStrategy{results: []search.Result{result(search.TypeDocument, "original", 0.9)}}
	cache := newFakeCache()
	svc := newService(map[search.ContentType]search.Strategy{search.TypeDocument: docs}, cache)

	opts := search.Options{Types: []search.ContentType{search.TypeDocument}, Limit: 5}
	first, err := svc.SearchContent(context.Background(), "API", opts)
	if err != nil {
		t.Fatalf("first SearchContent error: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}

	// Underlying data changes; the warm cache must still serve the old
	// response verbatim.
	docs.mu.Lock()
	docs.results = []search.Result{result(search.TypeDocument, "changed", 0.1)}
	docs.mu.Unlock()

	second, err := svc.SearchContent(context.Background(), "API", opts)
	if err != nil {
		t.Fatalf("second SearchContent error: %v", err)
	}
	if docs.calls != 1 {
		t.Errorf("strategy calls = %d, want 1 (second call should hit cache)", docs.calls)
	}

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	if string(firstJSON) != string(secondJSON) {
		t.Errorf("cached response differs:\n%s\n%s", firstJSON, secondJSON)
	}
}

func TestSearchContentCacheUnavailable(t *testing.T) {
	cache := newFakeCache()
	cache.down = true
	strategies := allStrategies(map[search.ContentType][]search.Result{
		search.TypeDocument: {result(search.TypeDocument, "doc", 0.9)},
	})
	svc := newService(strategies, cache)

	for i := 0; i < 2; i++ {
		resp, err := svc.SearchContent(context.Background(), "api", search.Options{})
		if err != nil {
			t.Fatalf("SearchContent with cache down error: %v", err)
		}
		if len(resp.Results) != 1 {
			t.Errorf("len(results) = %d, want 1", len(resp.Results))
		}
	}
}

func TestSearchContentNilCache(t *testing.T) {
	strategies := allStrategies(map[search.ContentType][]search.Result{
		search.TypeDocument: {result(search.TypeDocument, "doc", 0.9)},
	})
	svc := search.NewSearchService(strategies, nil, nil, time.Second)

	resp, err := svc.SearchContent(context.Background(), "api", search.Options{})
	if err != nil {
		t.Fatalf("SearchContent error: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("Total = %d, want 1", resp.Total)
	}
}
