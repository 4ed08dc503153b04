package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/informedchoice/backend/internal/domain"
)

const riskInstructions = `You are an expert in food safety and health risks associated with food ingredients.
Your task is to analyze the ingredients of food products and identify potential health issues backed by evidence.
For each ingredient that might have health issues, provide a detailed analysis including:
- The ingredient name
- Potential health issues associated with the ingredient
- Evidence supporting the health issues
Respond with a JSON object of the form {"potential_health_issues": [{"ingredient": "...", "issues": [{"issue": "...", "evidence": "..."}]}]}.`

const nutritionInstructions = `You are an expert dietician.
Your task is to analyze the ingredients of food products and provide a score on a scale of 1 to 5 based on the product's overall nutritional value.
Use the following guidelines for scoring:
1: "Very Low Nutritional Value: Contains minimal nutrients, high in empty calories, sugars, and unhealthy fats.",
2: "Low Nutritional Value: Contains some nutrients but also high in sugars, unhealthy fats, and/or sodium.",
3: "Moderate Nutritional Value: Contains a balanced mix of nutrients but may still have high levels of sugars, fats, or sodium.",
4: "High Nutritional Value: Rich in essential nutrients, low in added sugars, unhealthy fats, and sodium.",
5: "Very High Nutritional Value: Extremely rich in essential nutrients, low in added sugars, unhealthy fats, and sodium. Contains whole foods and minimal processing."
Respond with a JSON object of the form {"score": <1-5>, "score_explanation": "..."}.`

// healthIssuesPayload mirrors the risk response schema.
type healthIssuesPayload struct {
	PotentialHealthIssues []struct {
		Ingredient string `json:"ingredient"`
		Issues     []struct {
			Issue    string `json:"issue"`
			Evidence string `json:"evidence"`
		} `json:"issues"`
	} `json:"potential_health_issues"`
}

// scorePayload mirrors the dietician response schema.
type scorePayload struct {
	Score            int    `json:"score"`
	ScoreExplanation string `json:"score_explanation"`
}

// Analyze identifies potential health risks in the ingredient list and rates
// its overall nutritional value. The two model calls run concurrently under
// the caller's deadline; failure of either fails the analysis and leaves
// degradation to the caller.
func (c *Client) Analyze(ctx context.Context, ingredients []string) ([]domain.HealthRiskAnnotation, domain.ScoreResult, error) {
	joined := strings.Join(ingredients, ", ")

	var (
		wg sync.WaitGroup

		issues    healthIssuesPayload
		issuesErr error

		nutrition    scorePayload
		nutritionErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		issuesErr = c.generateJSON(ctx, riskInstructions+"\n\nIngredients: "+joined, &issues)
	}()
	go func() {
		defer wg.Done()
		nutritionErr = c.generateJSON(ctx, nutritionInstructions+"\n\nIngredients: "+joined, &nutrition)
	}()
	wg.Wait()

	if issuesErr != nil {
		return nil, domain.ScoreResult{}, fmt.Errorf("health risk analysis: %w", issuesErr)
	}
	if nutritionErr != nil {
		return nil, domain.ScoreResult{}, fmt.Errorf("nutrition scoring: %w", nutritionErr)
	}
	if nutrition.Score < 1 || nutrition.Score > 5 {
		return nil, domain.ScoreResult{}, fmt.Errorf("nutrition score %d out of range", nutrition.Score)
	}

	annotations := make([]domain.HealthRiskAnnotation, 0, len(issues.PotentialHealthIssues))
	for _, entry := range issues.PotentialHealthIssues {
		annotation := domain.HealthRiskAnnotation{Ingredient: entry.Ingredient}
		for _, issue := range entry.Issues {
			annotation.Issues = append(annotation.Issues, domain.HealthIssue{
				Issue:    issue.Issue,
				Evidence: issue.Evidence,
			})
		}
		annotations = append(annotations, annotation)
	}

	score := domain.ScoreResult{
		Score:       nutrition.Score,
		Explanation: strings.TrimSpace(nutrition.ScoreExplanation),
	}
	return annotations, score, nil
}
