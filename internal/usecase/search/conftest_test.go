package search

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/config"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/taxonomy"
)

// fakeCatalog is an in-memory Catalog for pipeline tests. Matching mirrors
// the adapter contract: case-insensitive substring, hard filters applied.
type fakeCatalog struct {
	products  []product.Product
	terms     map[string][]taxonomy.Term
	attrTaxos []string
	titles    []string

	// fail forces an error for the given fields/taxonomies.
	failFields map[Field]error
	failTaxos  map[string]error
	titleErr   error

	// delay slows every lookup down, for timeout tests.
	delay time.Duration

	calls atomic.Int64
}

func (f *fakeCatalog) SearchByField(
	ctx context.Context, field Field, query string, fl Filters,
) ([]product.Product, error) {
	f.calls.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if err := f.failFields[field]; err != nil {
		return nil, err
	}

	var out []product.Product
	for _, p := range f.products {
		if !visibleFake(&p, fl) {
			continue
		}
		var s string
		switch field {
		case FieldTitle:
			s = p.Title
		case FieldSKU:
			if p.SKU == "" {
				continue
			}
			s = p.SKU
		case FieldContent:
			s = p.Description
		case FieldExcerpt:
			s = p.ShortDescription
		}
		if !matchesAnyToken(strings.ToLower(s), strings.ToLower(query)) {
			continue
		}
		out = append(out, p)
		if len(out) >= fl.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCatalog) SearchByTaxonomy(
	ctx context.Context, taxo, frag string, fl Filters,
) ([]taxonomy.Term, error) {
	f.calls.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if err := f.failTaxos[taxo]; err != nil {
		return nil, err
	}

	var out []taxonomy.Term
	for _, t := range f.terms[taxo] {
		if matchesAnyToken(strings.ToLower(t.Name), strings.ToLower(frag)) {
			out = append(out, t)
		}
	}
	return out, nil
}

// matchesAnyToken mirrors the adapter match mode: whole query or any token.
func matchesAnyToken(s, q string) bool {
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

func (f *fakeCatalog) ProductsInTerms(
	ctx context.Context, taxo string, ids []int64, fl Filters,
) ([]product.Product, error) {
	f.calls.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	var out []product.Product
	for _, p := range f.products {
		if !visibleFake(&p, fl) {
			continue
		}
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
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListAttributeTaxonomies(ctx context.Context) ([]string, error) {
	f.calls.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.attrTaxos, nil
}

func (f *fakeCatalog) RecentTitleTokens(ctx context.Context, limit int) ([]string, error) {
	if f.titleErr != nil {
		return nil, f.titleErr
	}
	if len(f.titles) > limit {
		return f.titles[:limit], nil
	}
	return f.titles, nil
}

func (f *fakeCatalog) wait(ctx context.Context) error {
	if f.delay == 0 {
		return nil
	}
	select {
	case <-time.After(f.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func visibleFake(p *product.Product, fl Filters) bool {
	if !p.Published() || p.ExcludedFromSearch {
		return false
	}
	if fl.ExcludeOutOfStock && !p.InStock() {
		return false
	}
	return !fl.Excluded(p.ID)
}

// fakeSource returns a fixed SearchConfig.
type fakeSource struct {
	cfg config.SearchConfig
	err error
}

func (s *fakeSource) Load(_ context.Context) (config.SearchConfig, error) {
	if s.err != nil {
		return config.SearchConfig{}, s.err
	}
	return s.cfg, nil
}

// published builds a visible in-stock product.
func published(id int64, title string) product.Product {
	return product.Product{
		ID:     id,
		Title:  title,
		Status: product.StatusPublish,
		Stock:  product.InStock,
	}
}

func testLogger() *zap.Logger { return zap.NewNop() }

func defaults() config.SearchConfig { return config.DefaultSearchConfig() }
