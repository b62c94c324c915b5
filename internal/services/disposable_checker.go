package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cosmosecure/web/domain"
)

// DebounceChecker implements domain.DisposableEmailChecker against the
// disposable.debounce.io lookup service.
type DebounceChecker struct {
	baseURL string
	client  *http.Client
}

// NewDebounceChecker creates a disposable-email checker.
func NewDebounceChecker(baseURL string) domain.DisposableEmailChecker {
	return &DebounceChecker{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type debounceResponse struct {
	Disposable string `json:"disposable"`
}

// IsDisposable implements domain.DisposableEmailChecker. Any transport
// or decoding failure is returned to the caller, which treats the
// address as acceptable.
func (c *DebounceChecker) IsDisposable(ctx context.Context, email string) (bool, error) {
	reqURL := fmt.Sprintf("%s?email=%s", c.baseURL, url.QueryEscape(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("disposable lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("disposable lookup returned status %d", resp.StatusCode)
	}

	var body debounceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("disposable lookup decode failed: %w", err)
	}

	return body.Disposable == "true", nil
}
