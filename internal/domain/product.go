package domain

// Product source tags. Catalog products come from the backing store;
// synthesized products are constructed by the fallback capability when no
// catalog match exists.
const (
	SourceCatalog     = "catalog"
	SourceSynthesized = "synthesized"
)

// Product is one canonical product record. Owned by the external catalog and
// immutable within a request.
type Product struct {
	FdcID       int64    `json:"fdc_id"`
	GtinUPC     string   `json:"gtin_upc,omitempty"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand,omitempty"`
	Category    string   `json:"category,omitempty"`
	Ingredients []string `json:"ingredients"`
	Source      string   `json:"source"`
	Retailer    string   `json:"retailer,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// SearchRequest is the inbound product resolution request. At least one field
// must be non-empty; fdc_id takes precedence over gtin_upc, which takes
// precedence over query.
type SearchRequest struct {
	FdcID   int64  `json:"fdc_id,omitempty"`
	GtinUPC string `json:"gtin_upc,omitempty"`
	Query   string `json:"query,omitempty"`
}

// AutocompleteSuggestion is one typeahead hit. Produced per call, never
// persisted.
type AutocompleteSuggestion struct {
	FdcID    int64  `json:"fdc_id"`
	Name     string `json:"name"`
	Brand    string `json:"brand,omitempty"`
	Category string `json:"category,omitempty"`
}

// SearchHit pairs a product with its relevance score from ranked full-text
// search. Hits are ordered by descending score, ties broken by ascending
// catalog id.
type SearchHit struct {
	Product Product `json:"product"`
	Score   float64 `json:"score"`
}
