package search

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/shopsearch/internal/config"
	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/taxonomy"
)

// defaultScopeTimeout is the wall-clock budget for one scope lookup.
const defaultScopeTimeout = 500 * time.Millisecond

// totalCapFactor bounds total retained candidates at a multiple of the
// result limit so scoring stays cheap when many scopes fire.
const totalCapFactor = 8

// maxCategorySection caps the matching-categories list in the payload.
const maxCategorySection = 5

// Gathered is the join-barrier output: candidates deduplicated in the fixed
// scope order, plus the category terms that matched the query.
type Gathered struct {
	Products   []product.Product
	Categories []taxonomy.Term
}

// Gatherer fans the normalized query out to every enabled scope
// concurrently, buffers per-scope results into positional slots and merges
// the slots in the declared order so insertion order stays deterministic.
type Gatherer struct {
	catalog Catalog
	logger  *zap.Logger

	scopeTimeout  time.Duration
	scopeDuration *prometheus.HistogramVec
	scopeFailures *prometheus.CounterVec
}

// NewGatherer creates a gatherer over the catalog adapter.
func NewGatherer(catalog Catalog, logger *zap.Logger) *Gatherer {
	return &Gatherer{
		catalog:      catalog,
		logger:       logger,
		scopeTimeout: defaultScopeTimeout,
	}
}

// WithScopeTimeout overrides the per-scope lookup budget.
func (g *Gatherer) WithScopeTimeout(d time.Duration) *Gatherer {
	g.scopeTimeout = d
	return g
}

// WithMetrics attaches per-scope duration and failure collectors.
func (g *Gatherer) WithMetrics(duration *prometheus.HistogramVec, failures *prometheus.CounterVec) *Gatherer {
	g.scopeDuration = duration
	g.scopeFailures = failures
	return g
}

// Gather runs all enabled scope lookups and merges them first-write-wins.
// A failed or timed-out scope contributes nothing; only when every enabled
// scope fails does the request fail with domain.ErrUpstreamUnavailable.
// Cancellation of ctx aborts the gather: partial sets are never returned.
func (g *Gatherer) Gather(ctx context.Context, q string, cfg *config.SearchConfig) (*Gathered, error) {
	filters := Filters{
		ExcludeOutOfStock: cfg.ExcludeOutOfStock,
		ExcludedIDs:       cfg.ExcludedSet(),
		Limit:             cfg.ResultLimit,
	}

	slots := make([][]product.Product, len(scopeOrder))
	scopeErrs := make([]error, len(scopeOrder))
	var catTerms []taxonomy.Term

	eg, egCtx := errgroup.WithContext(ctx)
	enabled := 0

	for i, scope := range scopeOrder {
		if !scope.enabled(cfg) {
			continue
		}
		enabled++

		i, scope := i, scope
		eg.Go(func() error {
			sctx, cancel := context.WithTimeout(egCtx, g.scopeTimeout)
			defer cancel()

			start := time.Now()
			prods, terms, err := g.lookupScope(sctx, scope, q, filters)
			g.observeScope(scope, time.Since(start))

			if err != nil {
				// The request itself being cancelled is the only error
				// that aborts the whole gather.
				if egCtx.Err() != nil {
					return egCtx.Err()
				}
				g.recordScopeFailure(scope, err)
				scopeErrs[i] = err
				return nil
			}

			slots[i] = prods
			if scope == ScopeCategories {
				catTerms = terms
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if enabled > 0 {
		failed := 0
		for _, e := range scopeErrs {
			if e != nil {
				failed++
			}
		}
		if failed == enabled {
			return nil, domain.ErrUpstreamUnavailable
		}
	}

	return &Gathered{
		Products:   mergeSlots(slots, totalCapFactor*cfg.ResultLimit),
		Categories: catTerms,
	}, nil
}

// lookupScope dispatches one scope to the matching adapter call.
func (g *Gatherer) lookupScope(
	ctx context.Context, scope Scope, q string, f Filters,
) ([]product.Product, []taxonomy.Term, error) {
	switch scope {
	case ScopeTitle:
		prods, err := g.catalog.SearchByField(ctx, FieldTitle, q, f)
		return prods, nil, err
	case ScopeSKU:
		prods, err := g.catalog.SearchByField(ctx, FieldSKU, q, f)
		return prods, nil, err
	case ScopeContent:
		prods, err := g.catalog.SearchByField(ctx, FieldContent, q, f)
		return prods, nil, err
	case ScopeExcerpt:
		prods, err := g.catalog.SearchByField(ctx, FieldExcerpt, q, f)
		return prods, nil, err
	case ScopeCategories:
		return g.lookupTaxonomy(ctx, taxonomy.Category, q, f)
	case ScopeTags:
		return g.lookupTaxonomy(ctx, taxonomy.Tag, q, f)
	case ScopeAttributes:
		prods, err := g.lookupAttributes(ctx, q, f)
		return prods, nil, err
	}
	return nil, nil, nil
}

// lookupTaxonomy is the two-step term-then-products lookup: resolve matching
// term ids first, then fetch products belonging to any of them.
func (g *Gatherer) lookupTaxonomy(
	ctx context.Context, taxo, q string, f Filters,
) ([]product.Product, []taxonomy.Term, error) {
	terms, err := g.catalog.SearchByTaxonomy(ctx, taxo, q, f)
	if err != nil {
		return nil, nil, err
	}
	if len(terms) == 0 {
		return nil, nil, nil
	}

	ids := make([]int64, len(terms))
	for i, t := range terms {
		ids[i] = t.ID
	}

	prods, err := g.catalog.ProductsInTerms(ctx, taxo, ids, f)
	if err != nil {
		return nil, nil, err
	}
	return prods, terms, nil
}

// lookupAttributes unions the two-step lookup across every attribute taxonomy.
func (g *Gatherer) lookupAttributes(ctx context.Context, q string, f Filters) ([]product.Product, error) {
	taxos, err := g.catalog.ListAttributeTaxonomies(ctx)
	if err != nil {
		return nil, err
	}

	var out []product.Product
	for _, taxo := range taxos {
		prods, _, err := g.lookupTaxonomy(ctx, taxo, q, f)
		if err != nil {
			return nil, err
		}
		out = append(out, prods...)
	}
	return out, nil
}

// mergeSlots flattens the positional slots in declared order, deduplicating
// by product id first-write-wins and capping the total.
func mergeSlots(slots [][]product.Product, limit int) []product.Product {
	seen := make(map[int64]struct{})
	var out []product.Product
	for _, slot := range slots {
		for _, p := range slot {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
			if len(out) >= limit {
				return out
			}
		}
	}
	return out
}

func (g *Gatherer) observeScope(scope Scope, d time.Duration) {
	if g.scopeDuration != nil {
		g.scopeDuration.WithLabelValues(string(scope)).Observe(d.Seconds())
	}
}

func (g *Gatherer) recordScopeFailure(scope Scope, err error) {
	reason := "error"
	if errors.Is(err, context.DeadlineExceeded) {
		reason = "timeout"
	}
	g.logger.Warn("scope lookup failed",
		zap.String("scope", string(scope)),
		zap.Error(err),
	)
	if g.scopeFailures != nil {
		g.scopeFailures.WithLabelValues(string(scope), reason).Inc()
	}
}
