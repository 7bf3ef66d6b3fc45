// Package profile wraps the remote customer-profile service. The service is
// a separate system of record; this client only observes whether profile
// creation succeeded.
package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/brightcart/identity/internal/customer"
)

// Client calls the profile service over HTTP. The configured timeout bounds
// the one network hop the provisioning saga waits on.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new client. A zero timeout falls back to 10s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type createProfileResponse struct {
	Succeeded bool `json:"succeeded"`
}

// CreateProfile asks the profile service to create the profile record for a
// freshly provisioned identity. A transport error, a non-2xx status and
// succeeded=false are all the same failure to the saga.
func (c *Client) CreateProfile(ctx context.Context, req customer.ProfileRequest) (bool, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return false, fmt.Errorf("profile: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/profiles", c.baseURL), bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("profile: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("profile: create profile: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return false, fmt.Errorf("profile: service returned status %d", resp.StatusCode)
	}

	var decoded createProfileResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return false, fmt.Errorf("profile: decode response: %w", err)
	}
	return decoded.Succeeded, nil
}

// Ping checks if the remote profile service is available.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/health", c.baseURL), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("profile: service returned status %d", resp.StatusCode)
	}
	return nil
}
