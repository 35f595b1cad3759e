package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/shopsearch/internal/domain"
)

func TestNormalize_TrimAndLowercase(t *testing.T) {
	n := NewNormalizer(&fakeCatalog{}, testLogger())
	cfg := defaults()

	got, err := n.Normalize(context.Background(), "  Red JEANS  ", &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "red jeans" {
		t.Errorf("got %q, want %q", got, "red jeans")
	}
}

func TestNormalize_TooShort(t *testing.T) {
	n := NewNormalizer(&fakeCatalog{}, testLogger())
	cfg := defaults()
	cfg.MinChars = 3

	for _, q := range []string{"", "a", "ab", "  ab  "} {
		if _, err := n.Normalize(context.Background(), q, &cfg); !errors.Is(err, domain.ErrQueryTooShort) {
			t.Errorf("Normalize(%q): got %v, want ErrQueryTooShort", q, err)
		}
	}
}

func TestNormalize_MinCharsCountsRunes(t *testing.T) {
	n := NewNormalizer(&fakeCatalog{}, testLogger())
	cfg := defaults()
	cfg.MinChars = 2

	// Two runes, more than two bytes.
	if _, err := n.Normalize(context.Background(), "éé", &cfg); err != nil {
		t.Errorf("two-rune query rejected: %v", err)
	}
}

func TestNormalize_TypoCorrection(t *testing.T) {
	n := NewNormalizer(&fakeCatalog{}, testLogger())
	cfg := defaults()

	got, err := n.Normalize(context.Background(), "Shose", &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "shoes" {
		t.Errorf("got %q, want %q", got, "shoes")
	}
}

func TestNormalize_TypoCorrectionDisabled(t *testing.T) {
	n := NewNormalizer(&fakeCatalog{titles: []string{"shoes"}}, testLogger())
	cfg := defaults()
	cfg.EnableTypoCorrection = false

	got, err := n.Normalize(context.Background(), "shose", &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "shose" {
		t.Errorf("got %q, want raw query untouched", got)
	}
}

func TestNormalize_FuzzyRepair(t *testing.T) {
	// "sneakres" is not in the typo table; the sampled titles repair it.
	n := NewNormalizer(&fakeCatalog{titles: []string{"running", "sneakers"}}, testLogger())
	cfg := defaults()

	got, err := n.Normalize(context.Background(), "sneakres", &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "sneakers" {
		t.Errorf("got %q, want %q", got, "sneakers")
	}
}

func TestNormalize_FuzzyRepair_ExactTokenWins(t *testing.T) {
	// A sampled token equal to the query short-circuits any rewriting.
	n := NewNormalizer(&fakeCatalog{titles: []string{"lamps", "lamp"}}, testLogger())
	cfg := defaults()

	got, err := n.Normalize(context.Background(), "lamp", &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "lamp" {
		t.Errorf("got %q, want query kept", got)
	}
}

func TestNormalize_FuzzyRepair_SkipsShortQueries(t *testing.T) {
	cat := &fakeCatalog{titles: []string{"bag"}}
	n := NewNormalizer(cat, testLogger())
	cfg := defaults()

	// Three runes or fewer never trigger fuzzy repair.
	got, err := n.Normalize(context.Background(), "bat", &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "bat" {
		t.Errorf("got %q, want %q", got, "bat")
	}
}

func TestNormalize_FuzzyRepair_SamplerErrorIsRecovered(t *testing.T) {
	n := NewNormalizer(&fakeCatalog{titleErr: errors.New("index down")}, testLogger())
	cfg := defaults()

	got, err := n.Normalize(context.Background(), "sneakres", &cfg)
	if err != nil {
		t.Fatalf("sampler failure must not fail normalization: %v", err)
	}
	if got != "sneakres" {
		t.Errorf("got %q, want query untouched", got)
	}
}

func TestNormalize_FuzzyRepair_EarliestSampledWinsTies(t *testing.T) {
	// Both tokens are distance 1 from the query; the first sampled wins.
	n := NewNormalizer(&fakeCatalog{titles: []string{"coats", "coate"}}, testLogger())
	cfg := defaults()

	got, err := n.Normalize(context.Background(), "coat", &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "coats" {
		t.Errorf("got %q, want %q", got, "coats")
	}
}
