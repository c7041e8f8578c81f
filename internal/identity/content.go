package identity

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/castlinked/castlinked-backend/internal/dto"
)

// ContentClient resolves reported content references (castings, blogs, news)
// against the marketplace content service. Enrichment only: callers treat
// failures as a missing summary, not a failed request.
type ContentClient struct {
	baseURL string
	client  *http.Client
}

func NewContentClient(baseURL string, timeout time.Duration) *ContentClient {
	return &ContentClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *ContentClient) Resolve(kind, id string) (*dto.ContentView, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("content service not configured")
	}

	endpoint := fmt.Sprintf("%s/internal/content/%s/%s",
		c.baseURL, url.PathEscape(kind), url.PathEscape(id))

	resp, err := c.client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("content lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content lookup returned %d", resp.StatusCode)
	}

	var view dto.ContentView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		return nil, fmt.Errorf("content lookup decode failed: %w", err)
	}
	view.Kind = kind
	view.ID = id
	return &view, nil
}
