package validate

import (
	"context"
	"net/http"
	"strings"
	"time"

	"RecipeImageScanner/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Checker filters candidate image URLs. It is a best-effort gate, not a
// correctness-critical check: every network failure degrades to rejection.
type Checker struct {
	client    *http.Client
	userAgent string
}

// NewChecker wires an HTTP client; a nil client gets a short default timeout.
func NewChecker(client *http.Client, userAgent string) *Checker {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Checker{client: client, userAgent: userAgent}
}

// IsUsable reports whether the URL is non-empty, not yet claimed by another
// recipe, reachable via a header-only fetch, and declared as image content.
func (c *Checker) IsUsable(ctx context.Context, rawURL string, used *domain.ImageSet) bool {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return false
	}
	if used != nil && used.Contains(rawURL) {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return false
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	return strings.HasPrefix(contentType, "image/")
}
