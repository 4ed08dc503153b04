package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/informedchoice/backend/internal/domain"
)

// MockURLFinder is a mock implementation of domain.URLFinder
type MockURLFinder struct {
	retailer string
	url      string
	err      error
	calls    int
}

func NewMockURLFinder() *MockURLFinder {
	return &MockURLFinder{}
}

func (m *MockURLFinder) FindURL(ctx context.Context, name, brand string) (string, string, error) {
	m.calls++
	if m.err != nil {
		return "", "", m.err
	}
	return m.retailer, m.url, nil
}

func newTestSearchService(catalog domain.ProductCatalog, synth domain.FallbackSynthesizer, capability domain.RiskCapability, finder domain.URLFinder) *SearchService {
	logger := zap.NewNop()
	resolver := NewResolver(catalog, synth, ResolverConfig{MinScore: 0.1}, logger)
	risk := NewRiskAnalyzer(capability, NewMockCacheRepository(), RiskAnalyzerConfig{}, logger)
	return NewSearchService(resolver, risk, finder, SearchServiceConfig{}, logger)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("composes the full response for a catalog product", func(t *testing.T) {
		catalog := NewMockCatalog()
		catalog.product = &domain.Product{
			FdcID:       123,
			Name:        "Peanut Butter",
			Brand:       "Jif",
			Ingredients: []string{"peanuts", "salt"},
			URL:         "https://walmart.com/ip/1",
			Retailer:    "walmart.com",
		}
		capability := NewMockRiskCapability()
		capability.nutrition = domain.ScoreResult{Score: 4, Explanation: "mostly whole foods"}
		capability.annotations = []domain.HealthRiskAnnotation{
			{Ingredient: "salt", Issues: []domain.HealthIssue{{Issue: "hypertension", Evidence: "sodium"}}},
		}
		svc := newTestSearchService(catalog, NewMockSynthesizer(), capability, NewMockURLFinder())

		response, err := svc.Search(ctx, &domain.SearchRequest{FdcID: 123})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if response.Name != "Peanut Butter" {
			t.Errorf("Name = %q, want Peanut Butter", response.Name)
		}
		if response.ProcessedScore != 2 {
			t.Errorf("ProcessedScore = %v, want 2 (salt is a culinary addition)", response.ProcessedScore)
		}
		if response.NutritionScore != 4 {
			t.Errorf("NutritionScore = %v, want 4", response.NutritionScore)
		}
		if len(response.HealthIssues.PotentialHealthIssues) != 1 {
			t.Errorf("len(PotentialHealthIssues) = %v, want 1", len(response.HealthIssues.PotentialHealthIssues))
		}
		if response.Source != domain.SourceCatalog {
			t.Errorf("Source = %q, want %q", response.Source, domain.SourceCatalog)
		}
	})

	t.Run("invalid request maps to ErrInvalidRequest", func(t *testing.T) {
		svc := newTestSearchService(NewMockCatalog(), NewMockSynthesizer(), NewMockRiskCapability(), NewMockURLFinder())

		_, err := svc.Search(ctx, &domain.SearchRequest{})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("unresolvable request maps to ErrProductNotFound", func(t *testing.T) {
		catalog := NewMockCatalog()
		catalog.getByIDErr = domain.ErrProductNotFound
		svc := newTestSearchService(catalog, NewMockSynthesizer(), NewMockRiskCapability(), NewMockURLFinder())

		_, err := svc.Search(ctx, &domain.SearchRequest{FdcID: 404})
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("degraded risk capability still yields a full response", func(t *testing.T) {
		catalog := NewMockCatalog()
		catalog.product = &domain.Product{
			FdcID:       5,
			Name:        "Soda",
			Ingredients: []string{"water", "high fructose corn syrup"},
		}
		capability := NewMockRiskCapability()
		capability.err = errors.New("model unavailable")
		svc := newTestSearchService(catalog, NewMockSynthesizer(), capability, NewMockURLFinder())

		response, err := svc.Search(ctx, &domain.SearchRequest{FdcID: 5})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if response.ProcessedScore != 5 {
			t.Errorf("ProcessedScore = %v, want 5 (deterministic path unaffected)", response.ProcessedScore)
		}
		if response.NutritionScore != 3 {
			t.Errorf("NutritionScore = %v, want neutral 3", response.NutritionScore)
		}
		if response.HealthIssues.PotentialHealthIssues == nil {
			t.Error("PotentialHealthIssues = nil, want empty slice")
		}
	})

	t.Run("retailer link is looked up when missing", func(t *testing.T) {
		catalog := NewMockCatalog()
		catalog.product = &domain.Product{FdcID: 7, Name: "Granola", Ingredients: []string{"oats"}}
		capability := NewMockRiskCapability()
		capability.nutrition = domain.ScoreResult{Score: 4, Explanation: "fine"}
		finder := NewMockURLFinder()
		finder.retailer = "target.com"
		finder.url = "https://target.com/p/granola"
		svc := newTestSearchService(catalog, NewMockSynthesizer(), capability, finder)

		response, err := svc.Search(ctx, &domain.SearchRequest{FdcID: 7})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if finder.calls != 1 {
			t.Errorf("finder calls = %v, want 1", finder.calls)
		}
		if response.Retailer != "target.com" || response.URL != "https://target.com/p/granola" {
			t.Errorf("retailer/url = %q/%q, want looked-up values", response.Retailer, response.URL)
		}
	})

	t.Run("existing retailer link is kept", func(t *testing.T) {
		catalog := NewMockCatalog()
		catalog.product = &domain.Product{
			FdcID: 7, Name: "Granola", Ingredients: []string{"oats"},
			Retailer: "walmart.com", URL: "https://walmart.com/ip/7",
		}
		capability := NewMockRiskCapability()
		capability.nutrition = domain.ScoreResult{Score: 4, Explanation: "fine"}
		finder := NewMockURLFinder()
		svc := newTestSearchService(catalog, NewMockSynthesizer(), capability, finder)

		response, err := svc.Search(ctx, &domain.SearchRequest{FdcID: 7})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if finder.calls != 0 {
			t.Error("finder must not run when the product already has a link")
		}
		if response.URL != "https://walmart.com/ip/7" {
			t.Errorf("URL = %q, want the catalog link", response.URL)
		}
	})

	t.Run("link lookup failure only costs the optional fields", func(t *testing.T) {
		catalog := NewMockCatalog()
		catalog.product = &domain.Product{FdcID: 7, Name: "Granola", Ingredients: []string{"oats"}}
		capability := NewMockRiskCapability()
		capability.nutrition = domain.ScoreResult{Score: 4, Explanation: "fine"}
		finder := NewMockURLFinder()
		finder.err = domain.ErrCapabilityUnavailable
		svc := newTestSearchService(catalog, NewMockSynthesizer(), capability, finder)

		response, err := svc.Search(ctx, &domain.SearchRequest{FdcID: 7})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if response.Retailer != "" || response.URL != "" {
			t.Errorf("retailer/url = %q/%q, want empty", response.Retailer, response.URL)
		}
	})

	t.Run("identical requests produce identical deterministic fields", func(t *testing.T) {
		catalog := NewMockCatalog()
		catalog.product = &domain.Product{
			FdcID:       11,
			Name:        "Crackers",
			Ingredients: []string{"enriched wheat flour", "soy lecithin"},
		}
		capability := NewMockRiskCapability()
		capability.nutrition = domain.ScoreResult{Score: 2, Explanation: "processed"}
		svc := newTestSearchService(catalog, NewMockSynthesizer(), capability, NewMockURLFinder())

		first, err := svc.Search(ctx, &domain.SearchRequest{FdcID: 11})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := svc.Search(ctx, &domain.SearchRequest{FdcID: 11})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if first.FdcID != second.FdcID || first.ProcessedScore != second.ProcessedScore {
			t.Errorf("deterministic fields differ: %+v vs %+v", first, second)
		}
		if first.ProcessedScoreExplanation != second.ProcessedScoreExplanation {
			t.Error("processed score explanations differ across identical requests")
		}
	})
}
