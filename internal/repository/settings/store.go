// Package settings overlays persisted search options onto the configured
// defaults. Options live as individual KV entries so an operator can flip
// one switch without rewriting the whole set.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/config"
	"github.com/kailas-cloud/shopsearch/internal/db"
)

// store is the consumer interface for settings (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Option key suffixes under «prefix»option:.
const (
	optEnableAJAX           = "enable_ajax"
	optMinChars             = "min_chars"
	optResultLimit          = "result_limit"
	optSearchInTitle        = "search_in_title"
	optSearchInSKU          = "search_in_sku"
	optSearchInContent      = "search_in_content"
	optSearchInExcerpt      = "search_in_excerpt"
	optSearchInCategories   = "search_in_categories"
	optSearchInTags         = "search_in_tags"
	optSearchInAttributes   = "search_in_attributes"
	optExcludeOutOfStock    = "exclude_out_of_stock"
	optEnableTypoCorrection = "enable_typo_correction"
	optEnableSynonyms       = "enable_synonyms"
	optExcludedProducts     = "excluded_products"
)

// Store reads option overrides from the KV layer on top of a base config.
type Store struct {
	store  store
	prefix string
	base   config.SearchConfig
}

// New creates a settings store. base supplies the value for every option
// that has no persisted override.
func New(s store, prefix string, base config.SearchConfig) *Store {
	return &Store{store: s, prefix: prefix, base: base}
}

// Load returns the base config with persisted overrides applied.
// A missing key keeps the base value; a malformed value is an error.
func (s *Store) Load(ctx context.Context) (config.SearchConfig, error) {
	cfg := s.base

	boolOpts := []struct {
		key string
		dst *bool
	}{
		{optEnableAJAX, &cfg.EnableAJAX},
		{optSearchInTitle, &cfg.SearchInTitle},
		{optSearchInSKU, &cfg.SearchInSKU},
		{optSearchInContent, &cfg.SearchInContent},
		{optSearchInExcerpt, &cfg.SearchInExcerpt},
		{optSearchInCategories, &cfg.SearchInCategories},
		{optSearchInTags, &cfg.SearchInTags},
		{optSearchInAttributes, &cfg.SearchInAttributes},
		{optExcludeOutOfStock, &cfg.ExcludeOutOfStock},
		{optEnableTypoCorrection, &cfg.EnableTypoCorrection},
		{optEnableSynonyms, &cfg.EnableSynonyms},
	}
	for _, opt := range boolOpts {
		if err := s.loadBool(ctx, opt.key, opt.dst); err != nil {
			return config.SearchConfig{}, err
		}
	}

	if err := s.loadInt(ctx, optMinChars, &cfg.MinChars); err != nil {
		return config.SearchConfig{}, err
	}
	if err := s.loadInt(ctx, optResultLimit, &cfg.ResultLimit); err != nil {
		return config.SearchConfig{}, err
	}
	if err := s.loadIDList(ctx, optExcludedProducts, &cfg.ExcludedProductIDs); err != nil {
		return config.SearchConfig{}, err
	}

	return cfg, nil
}

// HealthCheck probes the KV layer with a cheap read.
func (s *Store) HealthCheck(ctx context.Context) error {
	_, err := s.store.Get(ctx, s.key(optEnableAJAX))
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil
	}
	return err
}

// SetOption persists one raw option value. The caller triggers a config
// reload afterwards; the store itself does no validation beyond syntax on
// the next Load.
func (s *Store) SetOption(ctx context.Context, name, value string) error {
	if err := s.store.Set(ctx, s.key(name), []byte(value)); err != nil {
		return fmt.Errorf("set option %s: %w", name, err)
	}
	return nil
}

func (s *Store) key(name string) string {
	return s.prefix + "option:" + name
}

func (s *Store) loadBool(ctx context.Context, name string, dst *bool) error {
	raw, err := s.store.Get(ctx, s.key(name))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("get option %s: %w", name, err)
	}

	switch strings.TrimSpace(string(raw)) {
	case "1", "true", "yes", "on":
		*dst = true
	case "0", "false", "no", "off":
		*dst = false
	default:
		return fmt.Errorf("option %s: invalid boolean %q", name, raw)
	}
	return nil
}

func (s *Store) loadInt(ctx context.Context, name string, dst *int) error {
	raw, err := s.store.Get(ctx, s.key(name))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("get option %s: %w", name, err)
	}

	v, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return fmt.Errorf("option %s: invalid integer %q", name, raw)
	}
	*dst = v
	return nil
}

// loadIDList parses a comma-separated id list. Blank entries are skipped;
// a non-numeric entry is an error.
func (s *Store) loadIDList(ctx context.Context, name string, dst *[]int64) error {
	raw, err := s.store.Get(ctx, s.key(name))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("get option %s: %w", name, err)
	}

	var ids []int64
	for _, part := range strings.Split(string(raw), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return fmt.Errorf("option %s: invalid id %q", name, part)
		}
		ids = append(ids, id)
	}
	*dst = ids
	return nil
}

// StaticSource serves a fixed config, used by the memory driver.
type StaticSource struct {
	cfg config.SearchConfig
}

// NewStatic creates a source that always returns cfg.
func NewStatic(cfg config.SearchConfig) *StaticSource {
	return &StaticSource{cfg: cfg}
}

// Load returns the fixed config.
func (s *StaticSource) Load(_ context.Context) (config.SearchConfig, error) {
	return s.cfg, nil
}
