package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Key layout under the configured prefix:
//
//	«prefix»product:{id}            product hash
//	«prefix»term:{taxonomy}:{id}    taxonomy term hash
//	«prefix»attr_taxonomies         JSON list of attribute taxonomy names
//	«prefix»idx:products            FT index over product hashes
//	«prefix»idx:terms               FT index over term hashes
const (
	productKeySegment  = "product:"
	termKeySegment     = "term:"
	attrTaxonomiesKey  = "attr_taxonomies"
	productIndexSuffix = "idx:products"
	termIndexSuffix    = "idx:terms"
)

func (r *Repo) productKey(id int64) string {
	return r.prefix + productKeySegment + strconv.FormatInt(id, 10)
}

func (r *Repo) termKey(taxo string, id int64) string {
	return fmt.Sprintf("%s%s%s:%d", r.prefix, termKeySegment, taxo, id)
}

func (r *Repo) attrTaxonomiesKV() string {
	return r.prefix + attrTaxonomiesKey
}

func (r *Repo) productIndex() string {
	return r.prefix + productIndexSuffix
}

func (r *Repo) termIndex() string {
	return r.prefix + termIndexSuffix
}

// productIDFromKey extracts the numeric id from a product hash key.
func productIDFromKey(key, prefix string) (int64, bool) {
	rest, ok := strings.CutPrefix(key, prefix+productKeySegment)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
