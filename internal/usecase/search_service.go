package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/informedchoice/backend/internal/domain"
)

// SearchServiceConfig holds tuning for response enrichment.
type SearchServiceConfig struct {
	// URLTimeout bounds the retailer link lookup.
	URLTimeout time.Duration
}

// SearchService orchestrates one full product resolution.
// Flow: normalize -> resolve -> score + analyze risk (concurrent) ->
// enrich url -> assemble.
type SearchService struct {
	resolver   *Resolver
	risk       *RiskAnalyzer
	urlFinder  domain.URLFinder
	urlTimeout time.Duration
	logger     *zap.Logger
}

// NewSearchService creates the resolution pipeline. Pass domain.NoopURLFinder
// when no link lookup capability is configured.
func NewSearchService(
	resolver *Resolver,
	risk *RiskAnalyzer,
	urlFinder domain.URLFinder,
	config SearchServiceConfig,
	logger *zap.Logger,
) *SearchService {
	urlTimeout := config.URLTimeout
	if urlTimeout == 0 {
		urlTimeout = 5 * time.Second
	}

	return &SearchService{
		resolver:   resolver,
		risk:       risk,
		urlFinder:  urlFinder,
		urlTimeout: urlTimeout,
		logger:     logger,
	}
}

// Search resolves a request to one product and composes the full response.
// Risk analysis runs concurrently with the processing score and the retailer
// link lookup; the analyzer bounds its own deadline, so this never blocks
// past it.
func (s *SearchService) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	normalized, err := Normalize(req)
	if err != nil {
		return nil, err
	}

	resolution, err := s.resolver.Resolve(ctx, normalized)
	if err != nil {
		return nil, err
	}
	product := resolution.Product

	type riskOutcome struct {
		annotations []domain.HealthRiskAnnotation
		nutrition   domain.ScoreResult
	}
	riskCh := make(chan riskOutcome, 1)
	go func() {
		annotations, nutrition := s.risk.Analyze(ctx, product.FdcID, product.Ingredients)
		riskCh <- riskOutcome{annotations: annotations, nutrition: nutrition}
	}()

	processed := CalculateProcessedScore(product.Ingredients, product.Category)

	if product.URL == "" {
		s.enrichURL(ctx, product)
	}

	outcome := <-riskCh

	return AssembleResponse(resolution, processed, outcome.nutrition, outcome.annotations)
}

// enrichURL attaches a retailer link when the finder can locate one. Lookup
// failures only cost the optional fields.
func (s *SearchService) enrichURL(ctx context.Context, product *domain.Product) {
	lookupCtx, cancel := context.WithTimeout(ctx, s.urlTimeout)
	defer cancel()

	retailer, url, err := s.urlFinder.FindURL(lookupCtx, product.Name, product.Brand)
	if err != nil {
		s.logger.Debug("retailer link lookup skipped",
			zap.String("name", product.Name),
			zap.Error(err))
		return
	}

	product.Retailer = retailer
	product.URL = url
}
