package usecase

import (
	"strings"

	"github.com/informedchoice/backend/internal/domain"
)

// Fixed explanation templates, one per processing tier.
var processedScoreExplanations = map[int]string{
	1: "Minimally Processed: Single-ingredient foods or those with very few, easily recognizable whole-food ingredients.",
	2: "Processed Culinary Ingredients/Slightly Processed: Ingredients used to prepare minimally processed foods, or minimally processed foods with a few added culinary ingredients.",
	3: "Processed: Foods with a moderate number of ingredients, some of which might be processed. Still largely recognizable.",
	4: "Ultra-Processed: Many ingredients, including additives not typically used in home kitchens (e.g., artificial flavors/colors, emulsifiers, thickeners).",
	5: "Highly Ultra-Processed: Extensively modified, long ingredient lists dominated by industrial formulations and additives. Little to no intact whole food.",
}

// insufficientDataExplanation is returned for an empty ingredient list.
const insufficientDataExplanation = "Insufficient ingredient data to assess processing level; defaulting to minimally processed."

// Indicator terms per tier, matched as substrings of a lowercased ingredient.
// Each ingredient is checked from tier 5 down; the first tier containing a
// matching term is that ingredient's tier.
var (
	// Industrial formulations and extensive-modification markers.
	tier5Markers = []string{
		"high fructose corn syrup",
		"corn syrup",
		"hydrogenated",
		"interesterified",
		"diglycerides",
		"polysorbate",
		"carrageenan",
		"cellulose gum",
		"cellulose gel",
		"maltodextrin",
		"hydrolyzed",
		"isolate",
		"modified corn starch",
		"modified food starch",
		"propylene glycol",
	}

	// Additives not typically used in home kitchens.
	tier4Markers = []string{
		"artificial flavor",
		"artificial flavour",
		"artificial color",
		"artificial colour",
		"artificial sweetener",
		"aspartame",
		"sucralose",
		"saccharin",
		"acesulfame",
		"monosodium glutamate",
		"msg",
		"bha",
		"bht",
		"tbhq",
		"lecithin",
		"red 40",
		"yellow 5",
		"yellow 6",
		"blue 1",
		"caramel color",
		"gum",
		"emulsifier",
		"thickener",
		"dye",
	}

	// Moderate additives and preservatives, still recognizable.
	tier3Markers = []string{
		"citric acid",
		"ascorbic acid",
		"lactic acid",
		"sodium benzoate",
		"potassium sorbate",
		"sodium citrate",
		"sodium bicarbonate",
		"baking soda",
		"baking powder",
		"pectin",
		"preservative",
		"dextrose",
		"molasses",
		"cornstarch",
		"corn starch",
		"yeast extract",
		"enzyme",
		"cultured",
	}

	// Culinary ingredients added to minimally processed foods.
	tier2Markers = []string{
		"juice",
		"natural flavor",
		"natural flavour",
		"vitamin",
		"salt",
		"sugar",
		"honey",
		"syrup",
		"oil",
		"butter",
		"flour",
		"vinegar",
		"starch",
		"cocoa",
		"whey",
		"spice",
		"broth",
		"concentrate",
	}

	// Whole and single-ingredient foods.
	tier1Markers = []string{
		"water",
		"milk",
		"cream",
		"egg",
		"apple",
		"orange",
		"banana",
		"strawberry",
		"blueberry",
		"raspberry",
		"grape",
		"mango",
		"peach",
		"pear",
		"lemon",
		"lime",
		"tomato",
		"carrot",
		"spinach",
		"kale",
		"broccoli",
		"potato",
		"onion",
		"garlic",
		"pepper",
		"bean",
		"pea",
		"lentil",
		"chicken",
		"beef",
		"pork",
		"turkey",
		"salmon",
		"tuna",
		"almond",
		"peanut",
		"cashew",
		"walnut",
		"oat",
		"rice",
		"quinoa",
		"barley",
		"wheat",
	}
)

// tierMarkers orders the indicator sets from most to least processed, the
// order each ingredient is checked in.
var tierMarkers = []struct {
	tier    int
	markers []string
}{
	{5, tier5Markers},
	{4, tier4Markers},
	{3, tier3Markers},
	{2, tier2Markers},
	{1, tier1Markers},
}

// CalculateProcessedScore rates how industrially processed a product is from
// its ordered ingredient list. The overall score is the highest tier
// triggered by any single ingredient: one ultra-processing marker is enough
// to drive the score to 5. A non-empty list matching no indicator scores 1;
// an empty list scores 1 with a distinct insufficient-data explanation.
// Category is accepted as part of the contract but does not influence the
// tier decision. The function is pure and never fails.
func CalculateProcessedScore(ingredients []string, category string) domain.ScoreResult {
	if len(ingredients) == 0 {
		return domain.ScoreResult{Score: 1, Explanation: insufficientDataExplanation}
	}

	highest := 1
	for _, ingredient := range ingredients {
		tier := classifyIngredient(ingredient)
		if tier > highest {
			highest = tier
		}
		if highest == 5 {
			break
		}
	}

	return domain.ScoreResult{Score: highest, Explanation: processedScoreExplanations[highest]}
}

// classifyIngredient returns the processing tier of one ingredient, or 0 when
// no indicator matches.
func classifyIngredient(ingredient string) int {
	normalized := strings.ToLower(strings.TrimSpace(ingredient))
	if normalized == "" {
		return 0
	}

	for _, set := range tierMarkers {
		for _, marker := range set.markers {
			if strings.Contains(normalized, marker) {
				return set.tier
			}
		}
	}
	return 0
}
