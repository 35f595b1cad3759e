package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/shopsearch/internal/domain"
	"github.com/kailas-cloud/shopsearch/internal/domain/product"
	"github.com/kailas-cloud/shopsearch/internal/domain/taxonomy"
)

func ids(prods []product.Product) []int64 {
	out := make([]int64, len(prods))
	for i, p := range prods {
		out[i] = p.ID
	}
	return out
}

func equalIDs(got, want []int64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestGather_TitleOnly(t *testing.T) {
	cat := &fakeCatalog{products: []product.Product{
		published(1, "Red T-Shirt"),
		published(2, "Red Shoes"),
		published(3, "Blue Jeans"),
	}}
	g := NewGatherer(cat, testLogger())
	cfg := defaults()

	got, err := g.Gather(context.Background(), "red", &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(ids(got.Products), []int64{1, 2}) {
		t.Errorf("got ids %v, want [1 2]", ids(got.Products))
	}
}

func TestGather_DedupFirstWriteWins(t *testing.T) {
	p := published(1, "abc")
	p.SKU = "abc-1"
	cat := &fakeCatalog{products: []product.Product{p}}
	g := NewGatherer(cat, testLogger())
	cfg := defaults()
	cfg.SearchInSKU = true

	got, err := g.Gather(context.Background(), "abc", &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(ids(got.Products), []int64{1}) {
		t.Errorf("product matched by two scopes must appear once, got %v", ids(got.Products))
	}
}

func TestGather_ScopeOrderIsDeterministic(t *testing.T) {
	// id 20 matches only by SKU, id 10 only by title. Title slot merges first
	// regardless of which lookup finishes first.
	byTitle := published(10, "Widget")
	bySKU := published(20, "Gadget")
	bySKU.SKU = "widget-9"

	cat := &fakeCatalog{products: []product.Product{bySKU, byTitle}}
	g := NewGatherer(cat, testLogger())
	cfg := defaults()
	cfg.SearchInSKU = true

	for i := 0; i < 20; i++ {
		got, err := g.Gather(context.Background(), "widget", &cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !equalIDs(ids(got.Products), []int64{10, 20}) {
			t.Fatalf("got ids %v, want [10 20]", ids(got.Products))
		}
	}
}

func TestGather_ScopeFailureIsRecovered(t *testing.T) {
	cat := &fakeCatalog{
		products:   []product.Product{published(1, "Lamp")},
		failFields: map[Field]error{FieldSKU: errors.New("index gone")},
	}
	g := NewGatherer(cat, testLogger())
	cfg := defaults()
	cfg.SearchInSKU = true

	got, err := g.Gather(context.Background(), "lamp", &cfg)
	if err != nil {
		t.Fatalf("one failed scope must not fail the request: %v", err)
	}
	if !equalIDs(ids(got.Products), []int64{1}) {
		t.Errorf("got ids %v, want [1]", ids(got.Products))
	}
}

func TestGather_AllScopesFail(t *testing.T) {
	cat := &fakeCatalog{
		failFields: map[Field]error{
			FieldTitle: errors.New("down"),
			FieldSKU:   errors.New("down"),
		},
	}
	g := NewGatherer(cat, testLogger())
	cfg := defaults()
	cfg.SearchInSKU = true

	_, err := g.Gather(context.Background(), "x1", &cfg)
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("got %v, want ErrUpstreamUnavailable", err)
	}
}

func TestGather_ScopeTimeoutIsRecovered(t *testing.T) {
	slow := &fakeCatalog{
		products: []product.Product{published(1, "Lamp")},
		delay:    50 * time.Millisecond,
	}
	g := NewGatherer(slow, testLogger()).WithScopeTimeout(5 * time.Millisecond)
	cfg := defaults()

	// The only enabled scope times out, so the whole gather fails.
	_, err := g.Gather(context.Background(), "lamp", &cfg)
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("got %v, want ErrUpstreamUnavailable", err)
	}
}

func TestGather_CancellationAborts(t *testing.T) {
	cat := &fakeCatalog{
		products: []product.Product{published(1, "Lamp")},
		delay:    50 * time.Millisecond,
	}
	g := NewGatherer(cat, testLogger())
	cfg := defaults()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	got, err := g.Gather(ctx, "lamp", &cfg)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if got != nil {
		t.Error("cancelled gather must not return partial results")
	}
}

func TestGather_TotalCap(t *testing.T) {
	var prods []product.Product
	for i := int64(1); i <= 30; i++ {
		prods = append(prods, published(i, "cap test item"))
	}
	cat := &fakeCatalog{products: prods}
	g := NewGatherer(cat, testLogger())
	cfg := defaults()
	cfg.ResultLimit = 2

	got, err := g.Gather(context.Background(), "cap", &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Products) > totalCapFactor*cfg.ResultLimit {
		t.Errorf("got %d candidates, cap is %d", len(got.Products), totalCapFactor*cfg.ResultLimit)
	}
}

func TestGather_CategoriesTwoStep(t *testing.T) {
	p := published(7, "Trail Runner")
	p.Categories = []product.TermRef{{ID: 3, Name: "Shoes"}}

	cat := &fakeCatalog{
		products: []product.Product{p, published(8, "Socks")},
		terms: map[string][]taxonomy.Term{
			taxonomy.Category: {{Taxonomy: taxonomy.Category, ID: 3, Name: "Shoes", Count: 12}},
		},
	}
	g := NewGatherer(cat, testLogger())
	cfg := defaults()
	cfg.SearchInCategories = true

	got, err := g.Gather(context.Background(), "shoes", &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(ids(got.Products), []int64{7}) {
		t.Errorf("got ids %v, want [7]", ids(got.Products))
	}
	if len(got.Categories) != 1 || got.Categories[0].Name != "Shoes" || got.Categories[0].Count != 12 {
		t.Errorf("got categories %+v, want the Shoes term", got.Categories)
	}
}

func TestGather_AttributesUnionAcrossTaxonomies(t *testing.T) {
	p := published(9, "Canvas Bag")
	p.Attributes = map[string][]product.TermRef{
		"pa_color": {{ID: 5, Name: "Olive"}},
	}

	cat := &fakeCatalog{
		products:  []product.Product{p},
		attrTaxos: []string{"pa_color", "pa_size"},
		terms: map[string][]taxonomy.Term{
			"pa_color": {{Taxonomy: "pa_color", ID: 5, Name: "Olive"}},
		},
	}
	g := NewGatherer(cat, testLogger())
	cfg := defaults()
	cfg.SearchInTitle = false
	cfg.SearchInAttributes = true

	got, err := g.Gather(context.Background(), "olive", &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(ids(got.Products), []int64{9}) {
		t.Errorf("got ids %v, want [9]", ids(got.Products))
	}
}

func TestGather_NoEnabledScopes(t *testing.T) {
	g := NewGatherer(&fakeCatalog{}, testLogger())
	cfg := defaults()
	cfg.SearchInTitle = false

	got, err := g.Gather(context.Background(), "anything", &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Products) != 0 {
		t.Errorf("got %d products, want none", len(got.Products))
	}
}
