package usda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrAPIFailure marks transport failures and non-2xx responses from the
// FoodData Central API.
var ErrAPIFailure = errors.New("fooddata central request failed")

// Config holds USDA FoodData Central client settings.
type Config struct {
	APIKey string
	// BaseURL overrides the FoodData Central endpoint, mainly for tests.
	BaseURL string
	// PageSize is results per page, capped at the API maximum of 200.
	PageSize int
	// RequestsPerHour throttles outbound calls. FDC's free tier allows 1000.
	RequestsPerHour int
}

// Client fetches branded foods from the USDA FoodData Central API. It backs
// the seedcatalog command; the server never calls FoodData Central at
// runtime.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	pageSize   int
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a FoodData Central client, filling config defaults.
func NewClient(config Config, logger *zap.Logger) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.nal.usda.gov/fdc"
	}

	pageSize := config.PageSize
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 200
	}

	perHour := config.RequestsPerHour
	if perHour <= 0 {
		perHour = 1000
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:   config.APIKey,
		baseURL:  baseURL,
		pageSize: pageSize,
		limiter:  rate.NewLimiter(rate.Limit(float64(perHour)/3600.0), 10),
		logger:   logger,
	}
}

// BrandedFood is one record from the branded-foods search response.
type BrandedFood struct {
	FdcID               int64  `json:"fdcId"`
	Description         string `json:"description"`
	BrandName           string `json:"brandName"`
	BrandOwner          string `json:"brandOwner"`
	BrandedFoodCategory string `json:"brandedFoodCategory"`
	GtinUPC             string `json:"gtinUpc"`
	Ingredients         string `json:"ingredients"`
	DataType            string `json:"dataType"`
}

// SearchPage is one page of branded-food search results.
type SearchPage struct {
	Foods       []BrandedFood `json:"foods"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
}

// SearchBranded fetches one page of branded foods matching query. Server
// errors and 429s are retried up to three times with exponential backoff;
// other client errors (bad key, bad request) fail immediately. A page with
// no foods is a valid result.
func (c *Client) SearchBranded(ctx context.Context, query string, page int) (*SearchPage, error) {
	if page < 1 {
		page = 1
	}

	endpoint := fmt.Sprintf("%s/v1/foods/search", c.baseURL)
	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.apiKey)
	params.Add("dataType", "Branded")
	params.Add("pageSize", strconv.Itoa(c.pageSize))
	params.Add("pageNumber", strconv.Itoa(page))

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		body, retryable, err := c.get(ctx, reqURL)
		if err != nil {
			lastErr = err
			if !retryable {
				return nil, err
			}
			c.logger.Warn("fooddata central request failed",
				zap.String("query", query),
				zap.Int("page", page),
				zap.Int("attempt", attempt),
				zap.Error(err))
			if !sleepContext(ctx, exponentialBackoff(attempt)) {
				return nil, ctx.Err()
			}
			continue
		}

		var result SearchPage
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("decode search response: %w", err)
		}
		return &result, nil
	}

	return nil, lastErr
}

// get executes one GET and reports whether a failure is worth retrying.
func (c *Client) get(ctx context.Context, reqURL string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "informedchoice-seedcatalog/0.1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrAPIFailure, err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%w: read body: %v", ErrAPIFailure, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("%w: status %d", ErrAPIFailure, resp.StatusCode)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, false, fmt.Errorf("%w: status %d: %s", ErrAPIFailure, resp.StatusCode, truncate(body, 200))
	default:
		return nil, true, fmt.Errorf("%w: status %d", ErrAPIFailure, resp.StatusCode)
	}
}

// exponentialBackoff returns the wait after a failed attempt: 500ms, 1s, 2s.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}

// sleepContext sleeps for d, returning false if ctx is canceled first.
func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
