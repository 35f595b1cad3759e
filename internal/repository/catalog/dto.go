package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/taxonomy"
)

// Product hash field names. The tag and numeric fields back the FT schema;
// the rest ride along for hydration.
const (
	fieldID         = "id"
	fieldTitle      = "title"
	fieldURL        = "url"
	fieldImage      = "image"
	fieldPrice      = "price"
	fieldSKU        = "sku"
	fieldExcerpt    = "excerpt"
	fieldContent    = "content"
	fieldStatus     = "status"
	fieldVisibility = "visibility"
	fieldStock      = "stock"
	fieldCatIDs     = "cat_ids"
	fieldTagIDs     = "tag_ids"
	fieldAttrIDs    = "attr_ids"
	fieldAttrs      = "attrs"
	fieldCats       = "cats"
	fieldTags       = "tags"
	fieldTotalSales = "total_sales"
	fieldOnSale     = "on_sale"
	fieldFeatured   = "featured"
	fieldCreatedAt  = "created_at"
)

// Visibility tag values. Products excluded from search are indexed as
// hidden so the hard filter can drop them inside the engine.
const (
	visibilityVisible = "visible"
	visibilityHidden  = "hidden"
)

// Term hash field names.
const (
	termFieldTaxonomy = "taxonomy"
	termFieldID       = "id"
	termFieldName     = "name"
	termFieldURL      = "url"
	termFieldCount    = "count"
)

const tagSeparator = ","

// buildProductFields flattens a product into hash fields for HSET.
func buildProductFields(p *product.Product) (map[string]string, error) {
	visibility := visibilityVisible
	if p.ExcludedFromSearch {
		visibility = visibilityHidden
	}

	m := map[string]string{
		fieldID:         strconv.FormatInt(p.ID, 10),
		fieldTitle:      p.Title,
		fieldURL:        p.URL,
		fieldImage:      p.Image,
		fieldPrice:      p.Price,
		fieldSKU:        p.SKU,
		fieldExcerpt:    p.ShortDescription,
		fieldContent:    p.Description,
		fieldStatus:     p.Status,
		fieldVisibility: visibility,
		fieldStock:      string(p.Stock),
		fieldCatIDs:     joinTermIDs(p.Categories),
		fieldTagIDs:     joinTermIDs(p.Tags),
		fieldAttrIDs:    joinAttrIDs(p.Attributes),
		fieldTotalSales: strconv.FormatInt(p.TotalSales, 10),
		fieldOnSale:     boolField(p.OnSale),
		fieldFeatured:   boolField(p.Featured),
		fieldCreatedAt:  strconv.FormatInt(p.CreatedAt, 10),
	}

	cats, err := json.Marshal(p.Categories)
	if err != nil {
		return nil, fmt.Errorf("marshal categories: %w", err)
	}
	m[fieldCats] = string(cats)

	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	m[fieldTags] = string(tags)

	attrs, err := json.Marshal(p.Attributes)
	if err != nil {
		return nil, fmt.Errorf("marshal attributes: %w", err)
	}
	m[fieldAttrs] = string(attrs)

	return m, nil
}

// parseProductFields hydrates a product from its hash fields.
func parseProductFields(m map[string]string) (product.Product, error) {
	id, err := strconv.ParseInt(m[fieldID], 10, 64)
	if err != nil {
		return product.Product{}, fmt.Errorf("parse product id %q: %w", m[fieldID], err)
	}

	p := product.Product{
		ID:                 id,
		Title:              m[fieldTitle],
		URL:                m[fieldURL],
		Image:              m[fieldImage],
		Price:              m[fieldPrice],
		SKU:                m[fieldSKU],
		ShortDescription:   m[fieldExcerpt],
		Description:        m[fieldContent],
		Status:             m[fieldStatus],
		ExcludedFromSearch: m[fieldVisibility] == visibilityHidden,
		Stock:              product.StockStatus(m[fieldStock]),
	}

	p.TotalSales, _ = strconv.ParseInt(m[fieldTotalSales], 10, 64)
	p.OnSale = m[fieldOnSale] == "1"
	p.Featured = m[fieldFeatured] == "1"
	p.CreatedAt, _ = strconv.ParseInt(m[fieldCreatedAt], 10, 64)

	if raw := m[fieldCats]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &p.Categories); err != nil {
			return product.Product{}, fmt.Errorf("parse categories of %d: %w", id, err)
		}
	}
	if raw := m[fieldTags]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &p.Tags); err != nil {
			return product.Product{}, fmt.Errorf("parse tags of %d: %w", id, err)
		}
	}
	if raw := m[fieldAttrs]; raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &p.Attributes); err != nil {
			return product.Product{}, fmt.Errorf("parse attributes of %d: %w", id, err)
		}
	}

	return p, nil
}

// buildTermFields flattens a taxonomy term into hash fields.
func buildTermFields(t *taxonomy.Term) map[string]string {
	return map[string]string{
		termFieldTaxonomy: t.Taxonomy,
		termFieldID:       strconv.FormatInt(t.ID, 10),
		termFieldName:     t.Name,
		termFieldURL:      t.URL,
		termFieldCount:    strconv.Itoa(t.Count),
	}
}

// parseTermFields hydrates a term from its hash fields.
func parseTermFields(m map[string]string) (taxonomy.Term, error) {
	id, err := strconv.ParseInt(m[termFieldID], 10, 64)
	if err != nil {
		return taxonomy.Term{}, fmt.Errorf("parse term id %q: %w", m[termFieldID], err)
	}
	count, _ := strconv.Atoi(m[termFieldCount])
	return taxonomy.Term{
		Taxonomy: m[termFieldTaxonomy],
		ID:       id,
		Name:     m[termFieldName],
		URL:      m[termFieldURL],
		Count:    count,
	}, nil
}

// joinTermIDs renders term memberships as a comma-separated TAG value.
func joinTermIDs(refs []product.TermRef) string {
	if len(refs) == 0 {
		return ""
	}
	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = strconv.FormatInt(ref.ID, 10)
	}
	return strings.Join(ids, tagSeparator)
}

// joinAttrIDs renders attribute memberships as "taxonomy:id" TAG entries.
func joinAttrIDs(attrs map[string][]product.TermRef) string {
	if len(attrs) == 0 {
		return ""
	}
	var entries []string
	for taxo, refs := range attrs {
		for _, ref := range refs {
			entries = append(entries, fmt.Sprintf("%s:%d", taxo, ref.ID))
		}
	}
	return strings.Join(entries, tagSeparator)
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
