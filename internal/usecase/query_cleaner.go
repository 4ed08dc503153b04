package usecase

import (
	"regexp"
	"strings"
)

// Patterns stripped from free-text queries before the ranked catalog search.
var (
	// Size and quantity noise: "16 oz", "1.5 liter", "100g", "2 lb".
	sizePattern = regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s*(fl\s*)?(oz|ounces?|lbs?|pounds?|ml|liters?|litres?|gallons?|quarts?|pints?|kg|grams?|g)\b`)

	// Pack and count noise: "12 pack", "6-pack", "24 count", "pack of 6".
	packPattern = regexp.MustCompile(`(?i)\b\d+[-\s]*(pack|pk|count|ct)\b|\bpack\s*of\s*\d+\b`)

	// Punctuation left dangling once sizes and counts are gone.
	orphanPunctPattern = regexp.MustCompile(`\s+[,;:\-]+\s+|[,;:\-]+\s*$|^\s*[,;:\-]+`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// queryNoiseWords are packaging and marketing words that pollute catalog
// relevance without narrowing the product.
var queryNoiseWords = map[string]bool{
	"value":  true,
	"family": true,
	"bonus":  true,
	"size":   true,
	"pack":   true,
	"box":    true,
	"bag":    true,
	"bottle": true,
	"can":    true,
	"jar":    true,
	"tub":    true,
	"carton": true,
	"pouch":  true,
	"sleeve": true,
	"each":   true,
	"per":    true,
}

// cleanSearchQuery strips size, pack and packaging noise from free text so
// the ranked catalog search sees the product terms. Case is preserved for
// the index analyzer. The synthesizer always receives the original query. A
// query cleaned down to nothing falls back to its original trimmed text so
// the search never runs empty.
func cleanSearchQuery(query string) string {
	cleaned := sizePattern.ReplaceAllString(query, " ")
	cleaned = packPattern.ReplaceAllString(cleaned, " ")
	cleaned = dropNoiseWords(cleaned)
	cleaned = orphanPunctPattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(multiSpacePattern.ReplaceAllString(cleaned, " "))

	if cleaned == "" {
		return strings.TrimSpace(query)
	}
	return cleaned
}

// dropNoiseWords removes noise words, comparing case-insensitively but
// keeping the surviving words as written.
func dropNoiseWords(s string) string {
	words := strings.Fields(s)
	kept := make([]string, 0, len(words))

	for _, word := range words {
		probe := strings.ToLower(strings.Trim(word, ",.!?;:-'\""))
		if queryNoiseWords[probe] {
			continue
		}
		kept = append(kept, word)
	}

	return strings.Join(kept, " ")
}
