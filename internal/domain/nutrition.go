package domain

// ScoreResult is one 1-5 rating with its explanation. The engine produces
// two per resolution: a deterministic processing score and an AI-derived
// nutrition score.
type ScoreResult struct {
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

// HealthIssue is a single risk finding for an ingredient.
type HealthIssue struct {
	Issue    string `json:"issue"`
	Evidence string `json:"evidence"`
}

// HealthRiskAnnotation lists the risk findings for one ingredient, in the
// order the capability reported them.
type HealthRiskAnnotation struct {
	Ingredient string        `json:"ingredient"`
	Issues     []HealthIssue `json:"issues"`
}

// HealthRiskReport is the wire envelope for health risk annotations.
type HealthRiskReport struct {
	PotentialHealthIssues []HealthRiskAnnotation `json:"potential_health_issues"`
}

// SearchResponse is the full product resolution payload returned to the
// client. Request-scoped; discarded after the response is written.
type SearchResponse struct {
	FdcID       int64    `json:"fdc_id"`
	GtinUPC     string   `json:"gtin_upc,omitempty"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand,omitempty"`
	Category    string   `json:"category,omitempty"`
	Ingredients []string `json:"ingredients"`
	Source      string   `json:"source"`

	ProcessedScore            int    `json:"processed_score"`
	ProcessedScoreExplanation string `json:"processed_score_explanation"`
	NutritionScore            int    `json:"nutrition_score"`
	NutritionScoreExplanation string `json:"nutrition_score_explanation"`

	HealthIssues HealthRiskReport `json:"health_issues"`

	Retailer string `json:"retailer,omitempty"`
	URL      string `json:"url,omitempty"`
}
