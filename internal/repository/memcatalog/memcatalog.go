// Package memcatalog is an in-memory catalog used by the memory driver and
// in tests. It mirrors the matching semantics of the redis catalog with
// plain substring scans.
package memcatalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/taxonomy"
	"github.com/kailas-cloud/shopsearch/internal/usecase/search"
)

// Catalog holds products and taxonomy terms in memory.
type Catalog struct {
	mu        sync.RWMutex
	products  map[int64]product.Product
	terms     map[string]map[int64]taxonomy.Term
	attrTaxos []string
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		products: make(map[int64]product.Product),
		terms:    make(map[string]map[int64]taxonomy.Term),
	}
}

// Ping always succeeds.
func (c *Catalog) Ping(_ context.Context) error { return nil }

// SearchByField matches the query as a case-insensitive substring of one
// product field. An empty SKU never matches.
func (c *Catalog) SearchByField(
	_ context.Context, field search.Field, query string, f search.Filters,
) ([]product.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []product.Product
	for _, p := range c.sortedProducts() {
		if !c.visible(&p, f) {
			continue
		}
		if !fieldContains(&p, field, query) {
			continue
		}
		out = append(out, p)
		if len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}

// SearchByTaxonomy matches term names of the taxonomy against the fragment.
func (c *Catalog) SearchByTaxonomy(
	_ context.Context, taxo, nameFragment string, f search.Filters,
) ([]taxonomy.Term, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	frag := strings.ToLower(nameFragment)
	var out []taxonomy.Term
	for _, t := range c.sortedTerms(taxo) {
		if !matchesQuery(strings.ToLower(t.Name), frag) {
			continue
		}
		out = append(out, t)
		if len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}

// ProductsInTerms returns products belonging to any of the given terms.
func (c *Catalog) ProductsInTerms(
	_ context.Context, taxo string, termIDs []int64, f search.Filters,
) ([]product.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	want := make(map[int64]struct{}, len(termIDs))
	for _, id := range termIDs {
		want[id] = struct{}{}
	}

	var out []product.Product
	for _, p := range c.sortedProducts() {
		if !c.visible(&p, f) {
			continue
		}
		if !memberOfAny(&p, taxo, want) {
			continue
		}
		out = append(out, p)
		if len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}

// ListAttributeTaxonomies returns the registered attribute taxonomy names.
func (c *Catalog) ListAttributeTaxonomies(_ context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.attrTaxos))
	copy(out, c.attrTaxos)
	return out, nil
}

// RecentTitleTokens returns lowercased title tokens of the newest visible
// products, newest first.
func (c *Catalog) RecentTitleTokens(_ context.Context, limit int) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	prods := c.sortedProducts()
	sort.SliceStable(prods, func(i, j int) bool {
		return prods[i].CreatedAt > prods[j].CreatedAt
	})
	if len(prods) > limit {
		prods = prods[:limit]
	}

	var tokens []string
	seen := make(map[string]struct{})
	for i := range prods {
		if !prods[i].Published() || prods[i].ExcludedFromSearch {
			continue
		}
		for _, tok := range strings.Fields(strings.ToLower(prods[i].Title)) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			tokens = append(tokens, tok)
		}
	}
	return tokens, nil
}

// --- Ingestion ---

// UpsertProduct adds or replaces a product.
func (c *Catalog) UpsertProduct(_ context.Context, p *product.Product) error {
	if p.ID <= 0 || p.Title == "" {
		return domain.ErrInvalidProduct
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = *p
	return nil
}

// DeleteProduct removes a product.
func (c *Catalog) DeleteProduct(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(c.products, id)
	return nil
}

// UpsertTerm adds or replaces a taxonomy term.
func (c *Catalog) UpsertTerm(_ context.Context, t *taxonomy.Term) error {
	if t.ID <= 0 || t.Taxonomy == "" || t.Name == "" {
		return domain.ErrInvalidTerm
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	byID, ok := c.terms[t.Taxonomy]
	if !ok {
		byID = make(map[int64]taxonomy.Term)
		c.terms[t.Taxonomy] = byID
	}
	byID[t.ID] = *t
	return nil
}

// SetAttributeTaxonomies replaces the registered attribute taxonomy list.
func (c *Catalog) SetAttributeTaxonomies(_ context.Context, taxos []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attrTaxos = append([]string(nil), taxos...)
	return nil
}

// --- Internals ---

// visible applies the hard filters: published, not excluded from search,
// stock policy, excluded-id set.
func (c *Catalog) visible(p *product.Product, f search.Filters) bool {
	if !p.Published() || p.ExcludedFromSearch {
		return false
	}
	if f.ExcludeOutOfStock && !p.InStock() {
		return false
	}
	return !f.Excluded(p.ID)
}

// sortedProducts returns products in ascending id order so scans are
// reproducible across calls.
func (c *Catalog) sortedProducts() []product.Product {
	out := make([]product.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Catalog) sortedTerms(taxo string) []taxonomy.Term {
	byID := c.terms[taxo]
	out := make([]taxonomy.Term, 0, len(byID))
	for _, t := range byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func fieldContains(p *product.Product, field search.Field, q string) bool {
	var s string
	switch field {
	case search.FieldTitle:
		s = p.Title
	case search.FieldSKU:
		if p.SKU == "" {
			return false
		}
		s = p.SKU
	case search.FieldContent:
		s = p.Description
	case search.FieldExcerpt:
		s = p.ShortDescription
	default:
		return false
	}
	return matchesQuery(strings.ToLower(s), strings.ToLower(q))
}

// matchesQuery is the substring match mode: the whole query or any of its
// whitespace tokens. Both arguments must be lowercased.
func matchesQuery(s, q string) bool {
	if strings.Contains(s, q) {
		return true
	}
	for _, tok := range strings.Fields(q) {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

func memberOfAny(p *product.Product, taxo string, want map[int64]struct{}) bool {
	var refs []product.TermRef
	switch taxo {
	case taxonomy.Category:
		refs = p.Categories
	case taxonomy.Tag:
		refs = p.Tags
	default:
		refs = p.Attributes[taxo]
	}
	for _, ref := range refs {
		if _, ok := want[ref.ID]; ok {
			return true
		}
	}
	return false
}
