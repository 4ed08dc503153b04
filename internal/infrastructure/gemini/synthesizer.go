package gemini

import (
	"context"
	"fmt"

	"github.com/informedchoice/backend/internal/domain"
)

const synthesizeInstructions = `You are an expert in searching for food products based on natural language queries.
Your task is to construct the single most plausible food product matching the query and return its details, including a realistic full ingredient list.
Respond with a JSON object of the form {"product_name": "...", "brand": "...", "category": "...", "ingredients": ["..."], "retailer": "...", "product_url": "..."}. Leave unknown fields empty.`

// synthesizedPayload mirrors the product search agent response schema.
type synthesizedPayload struct {
	ProductName string   `json:"product_name"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Ingredients []string `json:"ingredients"`
	Retailer    string   `json:"retailer"`
	ProductURL  string   `json:"product_url"`
}

// Synthesize constructs a plausible product for a query with no catalog
// match. The result carries no catalog id and is tagged as synthesized.
func (c *Client) Synthesize(ctx context.Context, query string) (*domain.Product, error) {
	var payload synthesizedPayload
	if err := c.generateJSON(ctx, synthesizeInstructions+"\n\nQuery: "+query, &payload); err != nil {
		return nil, fmt.Errorf("synthesize product: %w", err)
	}
	if payload.ProductName == "" {
		return nil, fmt.Errorf("synthesize product: response has no product name")
	}

	return &domain.Product{
		Name:        payload.ProductName,
		Brand:       payload.Brand,
		Category:    payload.Category,
		Ingredients: payload.Ingredients,
		Source:      domain.SourceSynthesized,
		Retailer:    payload.Retailer,
		URL:         payload.ProductURL,
	}, nil
}
