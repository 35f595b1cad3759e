// Package taxonomy defines taxonomy term records and the well-known taxonomies.
package taxonomy

// Well-known taxonomy names. Attribute taxonomies are a dynamic set
// provided by the catalog (conventionally prefixed "pa_").
const (
	Category = "product_cat"
	Tag      = "product_tag"
)

// Term is a single taxonomy term, identified by (taxonomy, id).
type Term struct {
	Taxonomy string `json:"taxonomy"`
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Count    int    `json:"count"` // number of products in the term
}
