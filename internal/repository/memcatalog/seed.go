package memcatalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/taxonomy"
)

// catalogDump is the JSON fixture shape accepted by LoadFile.
type catalogDump struct {
	Products            []product.Product `json:"products"`
	Terms               []taxonomy.Term   `json:"terms"`
	AttributeTaxonomies []string          `json:"attribute_taxonomies"`
}

// LoadFile seeds the catalog from a JSON dump.
func (c *Catalog) LoadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read catalog file: %w", err)
	}

	var dump catalogDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return fmt.Errorf("parse catalog file: %w", err)
	}

	for i := range dump.Products {
		if err := c.UpsertProduct(ctx, &dump.Products[i]); err != nil {
			return fmt.Errorf("seed product %d: %w", dump.Products[i].ID, err)
		}
	}
	for i := range dump.Terms {
		if err := c.UpsertTerm(ctx, &dump.Terms[i]); err != nil {
			return fmt.Errorf("seed term %s:%d: %w", dump.Terms[i].Taxonomy, dump.Terms[i].ID, err)
		}
	}
	if len(dump.AttributeTaxonomies) > 0 {
		if err := c.SetAttributeTaxonomies(ctx, dump.AttributeTaxonomies); err != nil {
			return err
		}
	}
	return nil
}
