package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/informedchoice/backend/internal/domain"
)

// ResolverState tags each stage of tiered resolution. ById, ByBarcode and
// ByQuery are entry tiers selected by the lookup mode; Fallback, Resolved and
// NotFound are reached by transition.
type ResolverState int

const (
	StateByID ResolverState = iota
	StateByBarcode
	StateByQuery
	StateFallback
	StateResolved
	StateNotFound
)

// String returns the state tag used in logs.
func (s ResolverState) String() string {
	switch s {
	case StateByID:
		return "by_id"
	case StateByBarcode:
		return "by_barcode"
	case StateByQuery:
		return "by_query"
	case StateFallback:
		return "fallback"
	case StateResolved:
		return "resolved"
	case StateNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// ResolverConfig holds tuning for resolution.
type ResolverConfig struct {
	// MinScore is the relevance the top-ranked text match must strictly
	// exceed for the query tier to resolve without fallback.
	MinScore float64
}

// Resolution is the successful outcome of a resolver run: the product plus
// the tier that produced it.
type Resolution struct {
	Product *domain.Product
	Tier    ResolverState
}

// Resolver executes one lookup strategy per request against the catalog,
// with the synthesizer as the terminal fallback for the query tier.
type Resolver struct {
	catalog     domain.ProductCatalog
	synthesizer domain.FallbackSynthesizer
	minScore    float64
	logger      *zap.Logger
}

// NewResolver creates a resolver over the given catalog and fallback
// synthesizer. Pass domain.NoopSynthesizer when no fallback is configured.
func NewResolver(
	catalog domain.ProductCatalog,
	synthesizer domain.FallbackSynthesizer,
	config ResolverConfig,
	logger *zap.Logger,
) *Resolver {
	return &Resolver{
		catalog:     catalog,
		synthesizer: synthesizer,
		minScore:    config.MinScore,
		logger:      logger,
	}
}

// Resolve runs the state machine to a terminal state. Exact-key tiers are
// authoritative: an id or barcode miss terminates in not-found without
// degrading to text search. The query tier searches noise-stripped text and
// resolves only when the top match strictly exceeds the configured relevance
// threshold, otherwise the synthesizer is tried with the original query.
// Given an unchanged catalog snapshot, identical normalized requests resolve
// to the same product and tier.
func (r *Resolver) Resolve(ctx context.Context, req *NormalizedRequest) (*Resolution, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil normalized request", domain.ErrInternal)
	}

	state := entryState(req.Mode)
	for {
		switch state {
		case StateByID:
			product, err := r.catalog.GetByID(ctx, req.FdcID)
			if err == nil {
				return r.resolved(product, StateByID)
			}
			if !errors.Is(err, domain.ErrProductNotFound) {
				return nil, err
			}
			state = StateNotFound

		case StateByBarcode:
			product, err := r.catalog.GetByBarcode(ctx, req.GtinUPC)
			if err == nil {
				return r.resolved(product, StateByBarcode)
			}
			if !errors.Is(err, domain.ErrProductNotFound) {
				return nil, err
			}
			state = StateNotFound

		case StateByQuery:
			searchQuery := cleanSearchQuery(req.Query)
			if searchQuery != req.Query {
				r.logger.Debug("query cleaned",
					zap.String("raw", req.Query),
					zap.String("cleaned", searchQuery))
			}
			hits, err := r.catalog.Search(ctx, searchQuery, 1)
			if err != nil {
				return nil, err
			}
			if len(hits) > 0 && hits[0].Score > r.minScore {
				product := hits[0].Product
				return r.resolved(&product, StateByQuery)
			}
			state = StateFallback

		case StateFallback:
			product, err := r.synthesizer.Synthesize(ctx, req.Query)
			if err != nil || product == nil {
				r.logger.Debug("fallback synthesis unavailable",
					zap.String("query", req.Query),
					zap.Error(err))
				state = StateNotFound
				continue
			}
			product.Source = domain.SourceSynthesized
			return r.resolved(product, StateFallback)

		case StateNotFound:
			return nil, domain.ErrProductNotFound

		default:
			return nil, fmt.Errorf("%w: unexpected resolver state %s", domain.ErrInternal, state)
		}
	}
}

// resolved finalizes a hit, defaulting the source tag for catalog products.
func (r *Resolver) resolved(product *domain.Product, tier ResolverState) (*Resolution, error) {
	if product.Source == "" {
		product.Source = domain.SourceCatalog
	}
	r.logger.Debug("product resolved",
		zap.String("tier", tier.String()),
		zap.Int64("fdc_id", product.FdcID),
		zap.String("source", product.Source))
	return &Resolution{Product: product, Tier: tier}, nil
}

// entryState maps a lookup mode to its resolver entry tier. An unknown mode
// maps to an invalid state so Resolve surfaces it as an internal error.
func entryState(mode LookupMode) ResolverState {
	switch mode {
	case ModeByID:
		return StateByID
	case ModeByBarcode:
		return StateByBarcode
	case ModeByQuery:
		return StateByQuery
	default:
		return ResolverState(-1)
	}
}
