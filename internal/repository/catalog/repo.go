// Package catalog implements the search core's Catalog over the redis store.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kailas-cloud/shopsearch/internal/db"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/taxonomy"
	"github.com/kailas-cloud/shopsearch/internal/usecase/search"
)

// store is the consumer interface for the catalog (ISP).
type store interface {
	Ping(ctx context.Context) error
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
}

// titleCacheTTL bounds how stale the recent-title sample may get.
const titleCacheTTL = 60 * time.Second

// Repo implements usecase/search.Catalog plus the ingestion surface.
type Repo struct {
	store  store
	prefix string

	titleTokens *expirable.LRU[string, []string]
}

// New creates a catalog repository with the given key prefix.
func New(s store, prefix string) *Repo {
	return &Repo{
		store:       s,
		prefix:      prefix,
		titleTokens: expirable.NewLRU[string, []string](1, nil, titleCacheTTL),
	}
}

// Ping proxies store connectivity for health checks.
func (r *Repo) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// SearchByField matches the query as an infix of one product text field.
func (r *Repo) SearchByField(
	ctx context.Context, field search.Field, query string, f search.Filters,
) ([]product.Product, error) {
	alias, ok := fieldAlias[field]
	if !ok {
		return nil, fmt.Errorf("unknown search field %q", field)
	}

	match := fieldMatchClause(alias, query)
	if match == "" {
		return nil, nil
	}

	q := hardFilterClause(f) + " " + match
	return r.searchProducts(ctx, q, f)
}

// SearchByTaxonomy matches term names of one taxonomy against the fragment.
func (r *Repo) SearchByTaxonomy(
	ctx context.Context, taxo, nameFragment string, f search.Filters,
) ([]taxonomy.Term, error) {
	sr, err := r.store.Search(ctx, &db.SearchQuery{
		Index: r.termIndex(),
		Query: termNameClause(taxo, nameFragment),
		Limit: f.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search terms %s: %w", taxo, err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	terms := make([]taxonomy.Term, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		t, err := parseTermFields(entry.Fields)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, nil
}

// ProductsInTerms returns products belonging to any of the given terms.
func (r *Repo) ProductsInTerms(
	ctx context.Context, taxo string, termIDs []int64, f search.Filters,
) ([]product.Product, error) {
	if len(termIDs) == 0 {
		return nil, nil
	}

	var clause string
	switch taxo {
	case taxonomy.Category:
		clause = termMembershipClause(fieldCatIDs, termIDs)
	case taxonomy.Tag:
		clause = termMembershipClause(fieldTagIDs, termIDs)
	default:
		clause = attrMembershipClause(taxo, termIDs)
	}

	q := hardFilterClause(f) + " " + clause
	return r.searchProducts(ctx, q, f)
}

// ListAttributeTaxonomies returns the registered attribute taxonomy names.
func (r *Repo) ListAttributeTaxonomies(ctx context.Context) ([]string, error) {
	raw, err := r.store.Get(ctx, r.attrTaxonomiesKV())
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attribute taxonomies: %w", err)
	}

	var taxos []string
	if err := json.Unmarshal(raw, &taxos); err != nil {
		return nil, fmt.Errorf("parse attribute taxonomies: %w", err)
	}
	return taxos, nil
}

// searchProducts runs one FT query and hydrates the visible hits, dropping
// excluded ids client side. The fetch is padded by the excluded-set size so
// exclusions do not starve the per-scope cap.
func (r *Repo) searchProducts(ctx context.Context, query string, f search.Filters) ([]product.Product, error) {
	sr, err := r.store.Search(ctx, &db.SearchQuery{
		Index: r.productIndex(),
		Query: query,
		Limit: f.Limit + len(f.ExcludedIDs),
	})
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	prods := make([]product.Product, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		p, err := parseProductFields(entry.Fields)
		if err != nil {
			return nil, err
		}
		if f.Excluded(p.ID) {
			continue
		}
		prods = append(prods, p)
		if len(prods) >= f.Limit {
			break
		}
	}
	return prods, nil
}
