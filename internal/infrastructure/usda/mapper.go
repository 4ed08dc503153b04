package usda

import (
	"strings"

	"github.com/informedchoice/backend/internal/infrastructure/catalog"
)

// ToSeedProducts converts a page of branded foods into catalog seed rows.
// Records without an id or description are dropped. Order is preserved;
// deduplication across pages is the caller's job.
func ToSeedProducts(foods []BrandedFood) []catalog.SeedProduct {
	seeds := make([]catalog.SeedProduct, 0, len(foods))
	for _, food := range foods {
		seed, ok := toSeedProduct(food)
		if !ok {
			continue
		}
		seeds = append(seeds, seed)
	}
	return seeds
}

func toSeedProduct(food BrandedFood) (catalog.SeedProduct, bool) {
	name := strings.TrimSpace(food.Description)
	if food.FdcID <= 0 || name == "" {
		return catalog.SeedProduct{}, false
	}

	return catalog.SeedProduct{
		FdcID:       food.FdcID,
		GtinUPC:     strings.TrimSpace(food.GtinUPC),
		Description: name,
		BrandName:   strings.TrimSpace(food.BrandName),
		BrandOwner:  strings.TrimSpace(food.BrandOwner),
		Category:    strings.TrimSpace(food.BrandedFoodCategory),
		Ingredients: strings.TrimSpace(food.Ingredients),
	}, true
}
