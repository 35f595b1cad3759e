package search

import (
	"context"

	"github.com/kailas-cloud/shopsearch/internal/config"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/taxonomy"
)

// Field identifies a direct product field available to SearchByField.
type Field string

// Direct product fields.
const (
	FieldTitle   Field = "title"
	FieldSKU     Field = "sku"
	FieldContent Field = "content"
	FieldExcerpt Field = "excerpt"
)

// Filters carries the hard filters every catalog lookup honors: published
// status, searchable visibility, the stock policy, the excluded-id set and a
// per-scope result cap. The adapter applies them internally.
type Filters struct {
	ExcludeOutOfStock bool
	ExcludedIDs       map[int64]struct{}
	Limit             int
}

// Excluded reports whether the id is in the excluded set.
func (f *Filters) Excluded(id int64) bool {
	_, ok := f.ExcludedIDs[id]
	return ok
}

// Catalog is the capability set the search core requires from the product
// store. Implementations own escaping, query construction and visibility
// filtering; the core assumes returned products are live and visible.
type Catalog interface {
	// SearchByField matches query as a case-insensitive substring of the
	// given product field. An empty SKU never matches.
	SearchByField(ctx context.Context, field Field, query string, f Filters) ([]product.Product, error)

	// SearchByTaxonomy matches term names of the taxonomy against the
	// fragment (case-insensitive name-like match).
	SearchByTaxonomy(ctx context.Context, taxo, nameFragment string, f Filters) ([]taxonomy.Term, error)

	// ProductsInTerms returns products belonging to any of the given terms.
	ProductsInTerms(ctx context.Context, taxo string, termIDs []int64, f Filters) ([]product.Product, error)

	// ListAttributeTaxonomies returns the dynamic set of attribute
	// taxonomy names known to the catalog.
	ListAttributeTaxonomies(ctx context.Context) ([]string, error)

	// RecentTitleTokens returns title tokens of the most recently added
	// products, newest first. limit caps the number of sampled titles.
	RecentTitleTokens(ctx context.Context, limit int) ([]string, error)
}

// ConfigSource supplies the effective search options for a request cycle.
type ConfigSource interface {
	Load(ctx context.Context) (config.SearchConfig, error)
}
