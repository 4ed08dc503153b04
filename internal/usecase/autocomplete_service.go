package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/informedchoice/backend/internal/domain"
)

// AutocompleteConfig holds tuning for typeahead suggestions.
type AutocompleteConfig struct {
	// Limit caps the number of suggestions returned per call.
	Limit int
}

// AutocompleteService serves ranked typeahead suggestions from the catalog,
// independent of full resolution.
type AutocompleteService struct {
	catalog domain.ProductCatalog
	limit   int
	logger  *zap.Logger
}

// NewAutocompleteService creates an autocomplete service over the catalog.
func NewAutocompleteService(
	catalog domain.ProductCatalog,
	config AutocompleteConfig,
	logger *zap.Logger,
) *AutocompleteService {
	limit := config.Limit
	if limit <= 0 {
		limit = 10
	}

	return &AutocompleteService{
		catalog: catalog,
		limit:   limit,
		logger:  logger,
	}
}

// Suggest returns at most the configured number of suggestions ordered by
// descending relevance, ties broken by ascending catalog id. Queries shorter
// than MinQueryLength after trimming yield ErrInvalidRequest. An empty result
// is a valid outcome, not an error; a catalog failure degrades to an empty
// list because typeahead is best-effort.
func (s *AutocompleteService) Suggest(ctx context.Context, query string) ([]domain.AutocompleteSuggestion, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil, domain.ErrInvalidRequest
	}

	suggestions, err := s.catalog.Suggest(ctx, query, s.limit)
	if err != nil {
		s.logger.Warn("autocomplete lookup degraded",
			zap.String("query", query),
			zap.Error(err))
		return []domain.AutocompleteSuggestion{}, nil
	}

	if suggestions == nil {
		suggestions = []domain.AutocompleteSuggestion{}
	}
	return suggestions, nil
}
