package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/shopsearch/internal/db"
	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/taxonomy"
)

// UpsertProduct writes one product hash. Returns domain.ErrInvalidProduct
// for records the index could not serve.
func (r *Repo) UpsertProduct(ctx context.Context, p *product.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}

	fields, err := buildProductFields(p)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, r.productKey(p.ID), fields); err != nil {
		return fmt.Errorf("hset product %d: %w", p.ID, err)
	}

	r.invalidateTitleCache()
	return nil
}

// UpsertProducts writes a batch of product hashes in one pipeline.
func (r *Repo) UpsertProducts(ctx context.Context, prods []product.Product) error {
	items := make([]db.HashSetItem, 0, len(prods))
	for i := range prods {
		p := &prods[i]
		if err := validateProduct(p); err != nil {
			return err
		}
		fields, err := buildProductFields(p)
		if err != nil {
			return err
		}
		items = append(items, db.HashSetItem{Key: r.productKey(p.ID), Fields: fields})
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset products batch: %w", err)
	}

	r.invalidateTitleCache()
	return nil
}

// DeleteProduct removes a product hash.
func (r *Repo) DeleteProduct(ctx context.Context, id int64) error {
	key := r.productKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists product %d: %w", id, err)
	}
	if !exists {
		return domain.ErrProductNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del product %d: %w", id, err)
	}

	r.invalidateTitleCache()
	return nil
}

// UpsertTerm writes one taxonomy term hash.
func (r *Repo) UpsertTerm(ctx context.Context, t *taxonomy.Term) error {
	if t.ID <= 0 || t.Taxonomy == "" || t.Name == "" {
		return domain.ErrInvalidTerm
	}
	if err := r.store.HSet(ctx, r.termKey(t.Taxonomy, t.ID), buildTermFields(t)); err != nil {
		return fmt.Errorf("hset term %s:%d: %w", t.Taxonomy, t.ID, err)
	}
	return nil
}

// SetAttributeTaxonomies replaces the registered attribute taxonomy list.
func (r *Repo) SetAttributeTaxonomies(ctx context.Context, taxos []string) error {
	data, err := json.Marshal(taxos)
	if err != nil {
		return fmt.Errorf("marshal attribute taxonomies: %w", err)
	}
	if err := r.store.Set(ctx, r.attrTaxonomiesKV(), data); err != nil {
		return fmt.Errorf("set attribute taxonomies: %w", err)
	}
	return nil
}

func validateProduct(p *product.Product) error {
	if p.ID <= 0 || p.Title == "" {
		return domain.ErrInvalidProduct
	}
	return nil
}
