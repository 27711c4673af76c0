package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Suggestions are deliberately unranked: each source returns its first
// matches and the concatenation is truncated. Relevance scoring per
// keystroke would cost far more than it is worth for autocomplete.

const minSuggestionQueryLen = 2

func (s *searchService) GetSearchSuggestions(ctx context.Context, query string, limit int) ([]string, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSuggestionQueryLen {
		// Single characters match pathologically broadly; skip the store
		// and the cache entirely.
		return []string{}, nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	key := SuggestionCacheKey(query)
	if titles, ok := s.cachedSuggestions(ctx, key); ok {
		return truncate(titles, limit), nil
	}

	titles := make([]string, 0, limit)
	seen := make(map[string]struct{})
	for _, src := range s.titles {
		if len(titles) >= limit {
			break
		}
		matches, err := src.SuggestTitles(ctx, query, limit-len(titles))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch suggestions: %w", err)
		}
		for _, title := range matches {
			if _, dup := seen[title]; dup {
				continue
			}
			seen[title] = struct{}{}
			titles = append(titles, title)
			if len(titles) >= limit {
				break
			}
		}
	}

	s.writeCache(ctx, key, titles, SuggestionCacheTTL)
	return titles, nil
}

func (s *searchService) cachedSuggestions(ctx context.Context, key string) ([]string, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var titles []string
	if err := json.Unmarshal(data, &titles); err != nil {
		return nil, false
	}
	return titles, true
}

func truncate(titles []string, limit int) []string {
	if len(titles) > limit {
		return titles[:limit]
	}
	return titles
}
