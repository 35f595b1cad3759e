package search

import (
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/config"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/taxonomy"
)

// descriptionWordLimit bounds the short description in the payload.
const descriptionWordLimit = 15

// ellipsis is appended when a description is cut at the word limit.
const ellipsis = "…"

// ProductPayload is the client-facing shape of one result row.
type ProductPayload struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Image       *string `json:"image"`
	Price       string  `json:"price"`
	SKU         string  `json:"sku"`
	Description string  `json:"short_description"`
}

// CategoryPayload is one matching category in the optional categories
// section of the response.
type CategoryPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// Response is the projected search result. Categories is non-nil only when
// category search is enabled and at least one term matched.
type Response struct {
	Products   []ProductPayload
	Categories []CategoryPayload
}

// Projector truncates the ranked list to the result limit and maps domain
// products to wire payloads.
type Projector struct{}

// NewProjector creates a projector.
func NewProjector() *Projector {
	return &Projector{}
}

// Project builds the response from the ranked candidates.
func (pr *Projector) Project(g *Gathered, ranked []product.Product, cfg *config.SearchConfig) *Response {
	limit := cfg.ResultLimit
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	resp := &Response{Products: make([]ProductPayload, 0, len(ranked))}
	for i := range ranked {
		resp.Products = append(resp.Products, projectProduct(&ranked[i]))
	}

	if cfg.SearchInCategories && len(g.Categories) > 0 {
		resp.Categories = projectCategories(g.Categories)
	}
	return resp
}

func projectProduct(p *product.Product) ProductPayload {
	out := ProductPayload{
		ID:          p.ID,
		Title:       p.Title,
		URL:         p.URL,
		Price:       p.Price,
		SKU:         p.SKU,
		Description: trimWords(p.ShortDescription, descriptionWordLimit),
	}
	if p.Image != "" {
		img := p.Image
		out.Image = &img
	}
	return out
}

func projectCategories(terms []taxonomy.Term) []CategoryPayload {
	n := len(terms)
	if n > maxCategorySection {
		n = maxCategorySection
	}
	out := make([]CategoryPayload, 0, n)
	for _, t := range terms[:n] {
		out = append(out, CategoryPayload{
			ID:    t.ID,
			Name:  t.Name,
			URL:   t.URL,
			Count: t.Count,
		})
	}
	return out
}

// trimWords keeps at most limit whitespace-separated words, appending an
// ellipsis only when something was actually cut.
func trimWords(s string, limit int) string {
	words := strings.Fields(s)
	if len(words) <= limit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:limit], " ") + ellipsis
}
