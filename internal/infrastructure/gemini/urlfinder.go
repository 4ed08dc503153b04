package gemini

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"google.golang.org/genai"
)

const urlInstructions = `Find a link to buy the food product based on the provided product name, using Google Search.

Examples:
Product Name: "Peanut Butter Cup Ice Cream"
Response: "https://example.com/peanut-butter-cup-ice-cream"

Product Name: "Chai Tea by oregon chai, inc."
Response: "https://example.com/chai-tea-oregon-chai-inc"

Your response should just include the URL or "No URL found".`

// urlPattern pulls the first absolute link out of a response.
var urlPattern = regexp.MustCompile(`https?://[^\s"'<>]+`)

// FindURL locates a retailer page for the product via the Google Search
// tool. The retailer tag is derived from the link's host.
func (c *Client) FindURL(ctx context.Context, name, brand string) (string, string, error) {
	subject := name
	if brand != "" {
		subject = fmt.Sprintf("%s by %s", name, brand)
	}

	text, err := c.generate(ctx, urlInstructions+"\n\nProduct Name: "+subject,
		&genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		})
	if err != nil {
		return "", "", fmt.Errorf("find product url: %w", err)
	}

	raw := strings.TrimRight(urlPattern.FindString(text), ".,;)]}")
	if raw == "" {
		return "", "", fmt.Errorf("find product url: no url in response")
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "", "", fmt.Errorf("find product url: invalid url %q", raw)
	}

	return retailerFromHost(parsed.Host), parsed.String(), nil
}

// retailerFromHost derives a retailer tag from a product page host.
func retailerFromHost(host string) string {
	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")
	if idx := strings.Index(host, ":"); idx >= 0 {
		host = host[:idx]
	}
	return host
}
