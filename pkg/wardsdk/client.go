// Package wardsdk is a small Go client for the wardgate records service. It
// carries the wire types shared with the server, so the server's handlers
// and any Go consumer agree on one schema.
package wardsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to a wardgate deployment. Unauthenticated endpoints hang off
// the client; Login returns a Session for everything else.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a client for baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login authenticates and returns a session bound to the issued handle.
func (c *Client) Login(ctx context.Context, username, password, mfaCode string) (*Session, error) {
	var resp LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/login", "", LoginRequest{
		Username: username,
		Password: password,
		MFACode:  mfaCode,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &Session{client: c, token: resp.Token, Role: resp.Role, Username: resp.Username}, nil
}

// Health calls the liveness probe.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var resp HealthResponse
	err := c.doJSON(ctx, http.MethodGet, "/livez", "", nil, &resp)
	return resp, err
}

// doJSON performs one JSON request/response exchange. Non-2xx responses are
// decoded into *APIError.
func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// doRaw performs a request and returns the raw body, for CSV downloads.
func (c *Client) doRaw(ctx context.Context, method, path, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = ErrorCodeServerError
		apiErr.Description = fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}
	return apiErr
}
