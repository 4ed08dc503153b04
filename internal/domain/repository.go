package domain

import (
	"context"
	"time"
)

// ProductCatalog is the read-only catalog store: keyed lookup by catalog id
// and barcode, plus ranked full-text search over name/brand/category text.
// Keyed lookups return ErrProductNotFound on a miss, never a nil product
// with a nil error.
type ProductCatalog interface {
	GetByID(ctx context.Context, fdcID int64) (*Product, error)
	GetByBarcode(ctx context.Context, gtinUPC string) (*Product, error)
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)
	Suggest(ctx context.Context, query string, limit int) ([]AutocompleteSuggestion, error)
}

// RiskCapability analyzes an ingredient list for potential health risks and
// produces a nutrition score. Implementations must honor ctx cancellation.
type RiskCapability interface {
	Analyze(ctx context.Context, ingredients []string) ([]HealthRiskAnnotation, ScoreResult, error)
}

// FallbackSynthesizer constructs a plausible product from free query text
// when the catalog has no match.
type FallbackSynthesizer interface {
	Synthesize(ctx context.Context, query string) (*Product, error)
}

// URLFinder locates a retailer product page for a resolved product.
type URLFinder interface {
	FindURL(ctx context.Context, name, brand string) (retailer string, url string, err error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
