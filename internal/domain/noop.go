package domain

import "context"

// Null and no-op collaborator implementations. An unconfigured catalog or AI
// capability is expressed as one of these, selected once at startup, so
// business logic never branches on configuration state.

// NullCatalog stands in when no catalog store is configured. Every lookup
// reports the catalog as unavailable.
type NullCatalog struct{}

func (NullCatalog) GetByID(ctx context.Context, fdcID int64) (*Product, error) {
	return nil, ErrCatalogUnavailable
}

func (NullCatalog) GetByBarcode(ctx context.Context, gtinUPC string) (*Product, error) {
	return nil, ErrCatalogUnavailable
}

func (NullCatalog) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	return nil, ErrCatalogUnavailable
}

func (NullCatalog) Suggest(ctx context.Context, query string, limit int) ([]AutocompleteSuggestion, error) {
	return nil, ErrCatalogUnavailable
}

// NoopRiskCapability always fails analysis, driving callers onto their
// degraded path.
type NoopRiskCapability struct{}

func (NoopRiskCapability) Analyze(ctx context.Context, ingredients []string) ([]HealthRiskAnnotation, ScoreResult, error) {
	return nil, ScoreResult{}, ErrCapabilityUnavailable
}

// NoopSynthesizer always fails, so an unconfigured fallback tier terminates
// in not-found.
type NoopSynthesizer struct{}

func (NoopSynthesizer) Synthesize(ctx context.Context, query string) (*Product, error) {
	return nil, ErrCapabilityUnavailable
}

// NoopURLFinder never locates a retailer link.
type NoopURLFinder struct{}

func (NoopURLFinder) FindURL(ctx context.Context, name, brand string) (string, string, error) {
	return "", "", ErrCapabilityUnavailable
}
