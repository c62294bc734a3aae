package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// sessionCookieName matches the cookie the site sets on redemption
const sessionCookieName = "player_session"

// Client is an HTTP client for the API
type Client struct {
	baseURL    string
	session    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL, session string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		session: session,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetSession updates the client's session cookie value
func (c *Client) SetSession(session string) {
	c.session = session
}

// ErrorResponse is the API's error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// Do performs an HTTP request. When the response sets the session
// cookie, its value is returned so the caller can persist it.
func (c *Client) Do(method, path string, body, result any) (string, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: c.session})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var setSession string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookieName {
			setSession = cookie.Value
		}
	}

	// Check for error responses
	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return "", fmt.Errorf("%s", errResp.Error)
		}
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	// Parse successful response
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return setSession, nil
}

// Get performs a GET request
func (c *Client) Get(path string, result any) error {
	_, err := c.Do(http.MethodGet, path, nil, result)
	return err
}

// Post performs a POST request
func (c *Client) Post(path string, body, result any) error {
	_, err := c.Do(http.MethodPost, path, body, result)
	return err
}

// Put performs a PUT request
func (c *Client) Put(path string, body, result any) error {
	_, err := c.Do(http.MethodPut, path, body, result)
	return err
}
