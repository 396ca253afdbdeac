// Package chronicle is an HTTP client for the chronicle thread archive,
// used to fetch thread documents that arrive by reference instead of inline.
package chronicle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// FetchThread retrieves the serialized thread document for the given thread
// id. The body is returned verbatim — parsing it is the engine's job.
func (c *Client) FetchThread(ctx context.Context, threadID string) (string, error) {
	url := fmt.Sprintf("%s/api/v1/threads/%s", c.baseURL, threadID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch thread: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return "", fmt.Errorf("chronicle error %d: %s", resp.StatusCode, errResp.Error)
		}
		return "", fmt.Errorf("chronicle error %d: %s", resp.StatusCode, string(body))
	}

	if len(body) == 0 {
		return "", fmt.Errorf("empty thread document for %s", threadID)
	}

	return string(body), nil
}
