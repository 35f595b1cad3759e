package search

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/config"
	"github.com/kailas-cloud/shopsearch/internal/domain"
)

// titleSampleLimit caps the recent-title sample used by fuzzy repair.
const titleSampleLimit = 100

// fuzzyMaxDistance is the edit-distance bound for fuzzy repair.
const fuzzyMaxDistance = 2

// TitleSampler supplies recent product-title tokens for fuzzy repair.
type TitleSampler interface {
	RecentTitleTokens(ctx context.Context, limit int) ([]string, error)
}

// Normalizer turns a raw user query into the normalized form the gatherer
// consumes: trim, length check, case fold, typo correction, bounded fuzzy
// repair, synonym expansion (currently a documented no-op).
type Normalizer struct {
	typos    TypoTable
	synonyms SynonymTable
	sampler  TitleSampler
	logger   *zap.Logger
}

// NewNormalizer creates a normalizer with the built-in tables.
func NewNormalizer(sampler TitleSampler, logger *zap.Logger) *Normalizer {
	return &Normalizer{
		typos:    DefaultTypoTable(),
		synonyms: DefaultSynonymTable(),
		sampler:  sampler,
		logger:   logger,
	}
}

// Normalize runs the pipeline. Returns domain.ErrQueryTooShort before any
// catalog access when the trimmed query is below the configured minimum.
func (n *Normalizer) Normalize(ctx context.Context, raw string, cfg *config.SearchConfig) (string, error) {
	q := strings.TrimSpace(raw)
	if utf8.RuneCountInString(q) < cfg.MinChars {
		return "", domain.ErrQueryTooShort
	}

	q = strings.ToLower(q)

	if cfg.EnableTypoCorrection {
		corrected := n.typos.Apply(q)
		if corrected != q {
			q = corrected
		} else if utf8.RuneCountInString(q) > 3 {
			q = n.fuzzyRepair(ctx, q)
		}
	}

	if cfg.EnableSynonyms {
		q = n.synonyms.ExpandSynonyms(q)
	}

	return q, nil
}

// fuzzyRepair replaces the query with the closest recent title token within
// edit distance 2. The sample is ordered by catalog insertion recency, so on
// equal distance the earliest-sampled token wins and results stay
// reproducible. Sampler failures leave the query untouched.
func (n *Normalizer) fuzzyRepair(ctx context.Context, q string) string {
	tokens, err := n.sampler.RecentTitleTokens(ctx, titleSampleLimit)
	if err != nil {
		n.logger.Warn("title sample unavailable, skipping fuzzy repair", zap.Error(err))
		return q
	}

	best := q
	bestDist := fuzzyMaxDistance + 1
	for _, tok := range tokens {
		if tok == q {
			return q
		}
		if d := levenshteinThreshold(q, tok, fuzzyMaxDistance); d < bestDist {
			best = tok
			bestDist = d
		}
	}
	return best
}
