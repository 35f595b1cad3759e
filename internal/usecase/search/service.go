package search

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/config"
	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/metrics"
)

// defaultRequestTimeout bounds one whole search request.
const defaultRequestTimeout = 2 * time.Second

// Service runs the search pipeline: normalize, gather, rank, project.
// The effective option set is swapped atomically by ReloadConfig, so
// in-flight requests keep the snapshot they started with.
type Service struct {
	normalizer *Normalizer
	gatherer   *Gatherer
	ranker     *Ranker
	projector  *Projector

	src    ConfigSource
	cfg    atomic.Pointer[config.SearchConfig]
	logger *zap.Logger

	requestTimeout time.Duration
}

// Option configures the service.
type Option func(*Service)

// WithRequestTimeout overrides the per-request deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Service) { s.requestTimeout = d }
}

// WithScopeTimeout overrides the per-scope gather budget.
func WithScopeTimeout(d time.Duration) Option {
	return func(s *Service) { s.gatherer.WithScopeTimeout(d) }
}

// WithTypoTable replaces the built-in typo correction table.
func WithTypoTable(t TypoTable) Option {
	return func(s *Service) { s.normalizer.typos = t }
}

// WithSynonymTable replaces the built-in synonym table.
func WithSynonymTable(t SynonymTable) Option {
	return func(s *Service) { s.normalizer.synonyms = t }
}

// New creates the search service. The initial option set is loaded from src;
// if that fails the legacy defaults apply until the next successful reload.
func New(catalog Catalog, src ConfigSource, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		normalizer:     NewNormalizer(catalog, log),
		gatherer:       NewGatherer(catalog, log).WithMetrics(metrics.ScopeDuration, metrics.ScopeFailuresTotal),
		ranker:         NewRanker(),
		projector:      NewProjector(),
		src:            src,
		logger:         log,
		requestTimeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	initial := config.DefaultSearchConfig()
	s.cfg.Store(&initial)
	if err := s.ReloadConfig(context.Background()); err != nil {
		log.Warn("initial search config load failed, using defaults", zap.Error(err))
	}
	return s
}

// Config returns the current option snapshot.
func (s *Service) Config() config.SearchConfig {
	return *s.cfg.Load()
}

// ReloadConfig re-reads the option set from the config source and swaps it
// in atomically. In-flight searches are unaffected.
func (s *Service) ReloadConfig(ctx context.Context) error {
	cfg, err := s.src.Load(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg.Store(&cfg)
	return nil
}

// Search runs one request through the pipeline against the current option
// snapshot. Returns domain.ErrSearchDisabled when live search is off,
// domain.ErrQueryTooShort for under-length queries, and
// domain.ErrUpstreamUnavailable when every enabled scope failed.
func (s *Service) Search(ctx context.Context, raw string) (*Response, error) {
	cfg := s.cfg.Load()

	if !cfg.EnableAJAX {
		metrics.SearchesTotal.WithLabelValues("disabled").Inc()
		return nil, domain.ErrSearchDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	resp, err := s.run(ctx, raw, cfg)
	metrics.SearchesTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Service) run(ctx context.Context, raw string, cfg *config.SearchConfig) (*Response, error) {
	q, err := s.normalizer.Normalize(ctx, raw, cfg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	gathered, err := s.gatherer.Gather(ctx, q, cfg)
	if err != nil {
		return nil, err
	}

	ranked := s.ranker.Rank(q, gathered.Products)
	resp := s.projector.Project(gathered, ranked, cfg)

	s.logger.Debug("search completed",
		zap.String("query", q),
		zap.Int("candidates", len(gathered.Products)),
		zap.Int("results", len(resp.Products)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

// outcome maps a pipeline error to a metrics label.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrQueryTooShort):
		return "too_short"
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return "upstream"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
