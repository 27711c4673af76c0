package search_test

import (
	"testing"

	"nextdocs/src/core/search"
)

func TestBuildQueryExpression(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "single term becomes prefix match",
			raw:  "dyna",
			want: "dyna:*",
		},
		{
			name: "terms conjoined with AND",
			raw:  "dynamics api",
			want: "dynamics:* & api:*",
		},
		{
			name: "surrounding and repeated whitespace",
			raw:  "  getting   started\t",
			want: "getting:* & started:*",
		},
		{
			name: "reserved characters stripped",
			raw:  "foo&bar (baz)",
			want: "foobar:* & baz:*",
		},
		{
			name: "empty input",
			raw:  "",
			want: "",
		},
		{
			name: "only whitespace",
			raw:  "   ",
			want: "",
		},
		{
			name: "only reserved characters",
			raw:  "&&& !!",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := search.BuildQueryExpression(tt.raw)
			if got != tt.want {
				t.Errorf("BuildQueryExpression(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestBuildQueryExpressionDeterministic(t *testing.T) {
	raw := "release notes api"
	first := search.BuildQueryExpression(raw)
	for i := 0; i < 10; i++ {
		if got := search.BuildQueryExpression(raw); got != first {
			t.Fatalf("expression changed between calls: %q vs %q", got, first)
		}
	}
}

func TestSearchCacheKeyIncorporatesOptions(t *testing.T) {
	base := search.Options{
		Limit:  10,
		Offset: 0,
		Types:  []search.ContentType{search.TypeDocument},
	}

	variants := []search.Options{
		{Limit: 20, Offset: 0, Types: []search.ContentType{search.TypeDocument}},
		{Limit: 10, Offset: 10, Types: []search.ContentType{search.TypeDocument}},
		{Limit: 10, Offset: 0, Types: []search.ContentType{search.TypeBlog}},
		{Limit: 10, Offset: 0, Types: []search.ContentType{search.TypeDocument}, Category: "guides"},
		{Limit: 10, Offset: 0, Types: []search.ContentType{search.TypeDocument}, Tags: []string{"v2"}},
	}

	baseKey := search.SearchCacheKey("api", base)
	if baseKey != search.SearchCacheKey("api", base) {
		t.Fatal("cache key is not deterministic")
	}
	if baseKey == search.SearchCacheKey("apis", base) {
		t.Error("different queries must not collide")
	}
	for i, v := range variants {
		if key := search.SearchCacheKey("api", v); key == baseKey {
			t.Errorf("variant %d collides with base key %q", i, key)
		}
	}
}

func TestSuggestionCacheKey(t *testing.T) {
	if search.SuggestionCacheKey("API") != search.SuggestionCacheKey("api") {
		t.Error("suggestion keys should be case-insensitive")
	}
	if search.SuggestionCacheKey("api") == search.SuggestionCacheKey("apm") {
		t.Error("different prefixes must not collide")
	}
}
