package search

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

// Scoring weights. Title and SKU tiers are mutually exclusive within their
// group; taxonomy bonuses apply once per group on the first matching name.
const (
	scoreTitleExact  = 200
	scoreTitlePrefix = 150
	scoreTitleSubstr = 100

	scoreSKUExact  = 120
	scoreSKUSubstr = 80

	scoreCategory  = 70
	scoreTag       = 60
	scoreAttribute = 50

	scoreExcerpt = 40
	scoreContent = 30

	scoreOnSale   = 10
	scoreFeatured = 15

	popularityDivisor = 10
	popularityCap     = 20
)

// Ranker assigns integer relevance scores against the normalized query and
// orders candidates by score. The sort is stable: equal scores keep the
// gather insertion order, so earlier scopes win ties.
type Ranker struct{}

// NewRanker creates a ranker.
func NewRanker() *Ranker {
	return &Ranker{}
}

type scored struct {
	p product.Product
	s int
}

// Rank returns the candidates ordered by descending score.
func (r *Ranker) Rank(q string, candidates []product.Product) []product.Product {
	ranked := make([]scored, len(candidates))
	for i := range candidates {
		ranked[i] = scored{p: candidates[i], s: score(q, &candidates[i])}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].s > ranked[j].s
	})
	out := make([]product.Product, len(ranked))
	for i := range ranked {
		out[i] = ranked[i].p
	}
	return out
}

// score computes the additive relevance of one candidate. q must already be
// normalized; product text is lowercased here before comparison.
func score(q string, p *product.Product) int {
	total := 0

	title := strings.ToLower(p.Title)
	switch {
	case title == q:
		total += scoreTitleExact
	case strings.HasPrefix(title, q):
		total += scoreTitlePrefix
	case containsQuery(title, q):
		total += scoreTitleSubstr
	}

	if p.SKU != "" {
		sku := strings.ToLower(p.SKU)
		switch {
		case sku == q:
			total += scoreSKUExact
		case containsQuery(sku, q):
			total += scoreSKUSubstr
		}
	}

	if anyNameContains(p.CategoryNames(), q) {
		total += scoreCategory
	}
	if anyNameContains(p.TagNames(), q) {
		total += scoreTag
	}
	if anyNameContains(p.AttributeNames(), q) {
		total += scoreAttribute
	}

	if containsQuery(strings.ToLower(p.ShortDescription), q) {
		total += scoreExcerpt
	}
	if containsQuery(strings.ToLower(p.Description), q) {
		total += scoreContent
	}

	// Malformed upstream data can carry a negative sales count.
	pop := int(p.TotalSales / popularityDivisor)
	if pop < 0 {
		pop = 0
	}
	if pop > popularityCap {
		pop = popularityCap
	}
	total += pop

	if p.OnSale {
		total += scoreOnSale
	}
	if p.Featured {
		total += scoreFeatured
	}

	return total
}

// containsQuery reports whether s contains the whole query or any of its
// whitespace tokens. Mirrors the gather match mode so every gathered
// candidate scores on the field it matched.
func containsQuery(s, q string) bool {
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

// anyNameContains reports whether the query matches any of the names,
// case-insensitively. Only the first match counts toward the score.
func anyNameContains(names []string, q string) bool {
	for _, n := range names {
		if containsQuery(strings.ToLower(n), q) {
			return true
		}
	}
	return false
}
