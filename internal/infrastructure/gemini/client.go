package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/informedchoice/backend/internal/domain"
)

// Config holds settings for the Gemini-backed capabilities.
type Config struct {
	APIKey            string
	Model             string
	RequestsPerMinute int
}

// Client wraps one Gemini API client shared by the risk analyzer, the
// fallback synthesizer, and the url finder. A single limiter keeps the
// combined call rate under the configured requests-per-minute cap.
type Client struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient dials the Gemini API.
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 15
	}

	return &Client{
		client:  client,
		model:   model,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm),
		logger:  logger,
	}, nil
}

// generate issues one model call and returns the raw response text.
func (c *Client) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: prompt}}},
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		c.logger.Debug("gemini request failed",
			zap.String("model", c.model),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return "", err
	}

	text := resp.Text()
	c.logger.Debug("gemini response received",
		zap.String("model", c.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("chars", len(text)))
	return text, nil
}

// generateJSON issues one JSON-mode call at temperature zero and decodes the
// response into out.
func (c *Client) generateJSON(ctx context.Context, prompt string, out interface{}) error {
	text, err := c.generate(ctx, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      ptrFloat32(0),
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(cleanJSONResponse(text)), out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

// cleanJSONResponse strips the markdown code fences some model responses
// wrap around the JSON payload.
func cleanJSONResponse(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func ptrFloat32(f float32) *float32 {
	return &f
}
