package catalog

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/shopsearch/internal/db"
)

// EnsureIndexes creates the product and term FT indexes when absent.
// Existing indexes are left untouched.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	for _, def := range []*db.IndexDefinition{r.productIndexDef(), r.termIndexDef()} {
		exists, err := r.store.IndexExists(ctx, def.Name)
		if err != nil {
			return fmt.Errorf("check index %s: %w", def.Name, err)
		}
		if exists {
			continue
		}
		if err := r.store.CreateIndex(ctx, def); err != nil {
			return fmt.Errorf("create index %s: %w", def.Name, err)
		}
	}
	return nil
}

func (r *Repo) productIndexDef() *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:        r.productIndex(),
		StorageType: db.StorageHash,
		Prefixes:    []string{r.prefix + productKeySegment},
		Fields: []db.IndexField{
			{Name: fieldTitle, Type: db.IndexFieldText},
			{Name: fieldSKU, Type: db.IndexFieldText},
			{Name: fieldContent, Type: db.IndexFieldText},
			{Name: fieldExcerpt, Type: db.IndexFieldText},
			{Name: fieldStatus, Type: db.IndexFieldTag},
			{Name: fieldVisibility, Type: db.IndexFieldTag},
			{Name: fieldStock, Type: db.IndexFieldTag},
			{Name: fieldCatIDs, Type: db.IndexFieldTag, TagSeparator: tagSeparator},
			{Name: fieldTagIDs, Type: db.IndexFieldTag, TagSeparator: tagSeparator},
			{Name: fieldAttrIDs, Type: db.IndexFieldTag, TagSeparator: tagSeparator},
			{Name: fieldTotalSales, Type: db.IndexFieldNumeric},
			{Name: fieldCreatedAt, Type: db.IndexFieldNumeric, Sortable: true},
		},
	}
}

func (r *Repo) termIndexDef() *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:        r.termIndex(),
		StorageType: db.StorageHash,
		Prefixes:    []string{r.prefix + termKeySegment},
		Fields: []db.IndexField{
			{Name: termFieldTaxonomy, Type: db.IndexFieldTag},
			{Name: termFieldName, Type: db.IndexFieldText},
		},
	}
}
