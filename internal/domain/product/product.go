// Package product defines the catalog product entity as the search core sees it.
package product

// StockStatus is the product availability state.
type StockStatus string

const (
	// InStock marks an available product.
	InStock StockStatus = "instock"
	// OutOfStock marks an unavailable product.
	OutOfStock StockStatus = "outofstock"
)

// StatusPublish is the only publication status visible to search.
const StatusPublish = "publish"

// TermRef is a product's membership in a single taxonomy term.
type TermRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog product. Immutable within one search request.
type Product struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	URL              string `json:"url"`
	Image            string `json:"image"`
	Price            string `json:"price"` // rendered display string, never reformatted
	SKU              string `json:"sku"`
	ShortDescription string `json:"short_description"`
	Description      string `json:"description"`

	Categories []TermRef            `json:"categories,omitempty"`
	Tags       []TermRef            `json:"tags,omitempty"`
	Attributes map[string][]TermRef `json:"attributes,omitempty"` // attribute taxonomy -> terms

	Status             string      `json:"status"`
	ExcludedFromSearch bool        `json:"excluded_from_search"`
	Stock              StockStatus `json:"stock"`

	TotalSales int64 `json:"total_sales"`
	OnSale     bool  `json:"on_sale"`
	Featured   bool  `json:"featured"`

	// CreatedAt orders the recent-title sample for fuzzy repair (unix ms).
	CreatedAt int64 `json:"created_at"`
}

// Published reports whether the product is in the publish status.
func (p *Product) Published() bool { return p.Status == StatusPublish }

// InStock reports whether the product is purchasable.
func (p *Product) InStock() bool { return p.Stock != OutOfStock }

// CategoryNames returns the category names in membership order.
func (p *Product) CategoryNames() []string { return termNames(p.Categories) }

// TagNames returns the tag names in membership order.
func (p *Product) TagNames() []string { return termNames(p.Tags) }

// AttributeNames returns all attribute term names across taxonomies.
func (p *Product) AttributeNames() []string {
	var names []string
	for _, terms := range p.Attributes {
		names = append(names, termNames(terms)...)
	}
	return names
}

func termNames(refs []TermRef) []string {
	if len(refs) == 0 {
		return nil
	}
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	return names
}
