package config

import "testing"

func TestDefaultSearchConfig(t *testing.T) {
	sc := DefaultSearchConfig()

	if !sc.EnableAJAX {
		t.Error("expected enable_ajax on by default")
	}
	if sc.MinChars != 2 {
		t.Errorf("expected MinChars=2, got %d", sc.MinChars)
	}
	if sc.ResultLimit != 10 {
		t.Errorf("expected ResultLimit=10, got %d", sc.ResultLimit)
	}
	if !sc.SearchInTitle {
		t.Error("expected title search on by default")
	}
	if sc.SearchInSKU || sc.SearchInContent || sc.SearchInExcerpt ||
		sc.SearchInCategories || sc.SearchInTags || sc.SearchInAttributes {
		t.Error("non-title scopes must be opt-in")
	}
	if !sc.EnableTypoCorrection || !sc.EnableSynonyms {
		t.Error("typo correction and synonyms default on")
	}
	if sc.ExcludeOutOfStock {
		t.Error("out-of-stock exclusion defaults off")
	}
}

func TestSearchConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*SearchConfig)
		wantErr bool
	}{
		{"defaults", func(*SearchConfig) {}, false},
		{"min_chars low", func(sc *SearchConfig) { sc.MinChars = 0 }, true},
		{"min_chars high", func(sc *SearchConfig) { sc.MinChars = 6 }, true},
		{"min_chars edge", func(sc *SearchConfig) { sc.MinChars = 5 }, false},
		{"result_limit low", func(sc *SearchConfig) { sc.ResultLimit = 0 }, true},
		{"result_limit high", func(sc *SearchConfig) { sc.ResultLimit = 51 }, true},
		{"result_limit edge", func(sc *SearchConfig) { sc.ResultLimit = 50 }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sc := DefaultSearchConfig()
			tc.mutate(&sc)
			err := sc.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestExcludedSet(t *testing.T) {
	sc := DefaultSearchConfig()
	if sc.ExcludedSet() != nil {
		t.Error("empty exclusion list must yield a nil set")
	}

	sc.ExcludedProductIDs = []int64{4, 8}
	set := sc.ExcludedSet()
	if len(set) != 2 {
		t.Fatalf("got %d entries, want 2", len(set))
	}
	if _, ok := set[4]; !ok {
		t.Error("id 4 missing from set")
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 0},
		Database: DatabaseConfig{Driver: "redis", Addrs: []string{"localhost:6379"}},
		Search:   DefaultSearchConfig(),
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingRedisAddrs(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "redis"},
		Search:   DefaultSearchConfig(),
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing redis addrs")
	}
}

func TestValidate_MemoryDriverNeedsNoAddrs(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "memory"},
		Search:   DefaultSearchConfig(),
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "sqlite"},
		Search:   DefaultSearchConfig(),
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Database.Driver != "redis" {
		t.Errorf("expected driver redis, got %q", cfg.Database.Driver)
	}
	if cfg.Storage.KeyPrefix != "shopsearch:" {
		t.Errorf("expected default key prefix, got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Search.MinChars != 2 || cfg.Search.ResultLimit != 10 {
		t.Errorf("expected search bounds defaulted, got %+v", cfg.Search)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SHOPSEARCH_TEST_VAR", "hello")

	got := string(expandEnvVars([]byte("a: ${SHOPSEARCH_TEST_VAR}")))
	if got != "a: hello" {
		t.Errorf("got %q", got)
	}

	got = string(expandEnvVars([]byte("a: ${SHOPSEARCH_UNSET_VAR:-fallback}")))
	if got != "a: fallback" {
		t.Errorf("got %q", got)
	}

	got = string(expandEnvVars([]byte("a: ${SHOPSEARCH_UNSET_VAR}")))
	if got != "a: " {
		t.Errorf("got %q", got)
	}
}
