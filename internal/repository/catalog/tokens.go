package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/db"
	"github.com/kailas-cloud/shopsearch/internal/usecase/search"
)

const titleCacheKey = "recent_titles"

// RecentTitleTokens returns lowercased title tokens of the most recently
// added visible products, newest first. The sample is cached for a minute
// so fuzzy repair does not hammer the index on every miss.
func (r *Repo) RecentTitleTokens(ctx context.Context, limit int) ([]string, error) {
	if tokens, ok := r.titleTokens.Get(titleCacheKey); ok {
		return tokens, nil
	}

	sr, err := r.store.Search(ctx, &db.SearchQuery{
		Index:        r.productIndex(),
		Query:        hardFilterClause(search.Filters{}),
		Limit:        limit,
		SortBy:       fieldCreatedAt,
		SortDesc:     true,
		ReturnFields: []string{fieldTitle},
	})
	if err != nil {
		return nil, fmt.Errorf("sample recent titles: %w", err)
	}

	var tokens []string
	seen := make(map[string]struct{})
	if sr != nil {
		for _, entry := range sr.Entries {
			for _, tok := range strings.Fields(strings.ToLower(entry.Fields[fieldTitle])) {
				if _, ok := seen[tok]; ok {
					continue
				}
				seen[tok] = struct{}{}
				tokens = append(tokens, tok)
			}
		}
	}

	r.titleTokens.Add(titleCacheKey, tokens)
	return tokens, nil
}

// invalidateTitleCache drops the sample after catalog writes.
func (r *Repo) invalidateTitleCache() {
	r.titleTokens.Remove(titleCacheKey)
}
