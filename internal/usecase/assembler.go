package usecase

import (
	"fmt"

	"github.com/informedchoice/backend/internal/domain"
)

// AssembleResponse merges a resolution with both scores and the health risk
// annotations into the response contract. Callers only invoke it with a
// successful resolution; a missing product, empty name or source, or an
// out-of-range score is an internal-consistency failure.
func AssembleResponse(
	resolution *Resolution,
	processed domain.ScoreResult,
	nutrition domain.ScoreResult,
	annotations []domain.HealthRiskAnnotation,
) (*domain.SearchResponse, error) {
	if resolution == nil || resolution.Product == nil {
		return nil, fmt.Errorf("%w: assembling response without a resolved product", domain.ErrInternal)
	}

	product := resolution.Product
	if product.Name == "" {
		return nil, fmt.Errorf("%w: resolved product has no name", domain.ErrInternal)
	}
	if product.Source == "" {
		return nil, fmt.Errorf("%w: resolved product has no source tag", domain.ErrInternal)
	}
	if err := validateScore("processed", processed); err != nil {
		return nil, err
	}
	if err := validateScore("nutrition", nutrition); err != nil {
		return nil, err
	}

	ingredients := product.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	if annotations == nil {
		annotations = []domain.HealthRiskAnnotation{}
	}

	return &domain.SearchResponse{
		FdcID:       product.FdcID,
		GtinUPC:     product.GtinUPC,
		Name:        product.Name,
		Brand:       product.Brand,
		Category:    product.Category,
		Ingredients: ingredients,
		Source:      product.Source,

		ProcessedScore:            processed.Score,
		ProcessedScoreExplanation: processed.Explanation,
		NutritionScore:            nutrition.Score,
		NutritionScoreExplanation: nutrition.Explanation,

		HealthIssues: domain.HealthRiskReport{PotentialHealthIssues: annotations},

		Retailer: product.Retailer,
		URL:      product.URL,
	}, nil
}

func validateScore(kind string, result domain.ScoreResult) error {
	if result.Score < 1 || result.Score > 5 {
		return fmt.Errorf("%w: %s score %d out of range", domain.ErrInternal, kind, result.Score)
	}
	return nil
}
