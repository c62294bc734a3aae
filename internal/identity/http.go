package identity

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

// HTTPProvider creates accounts through a managed identity provider's
// admin API using a service key.
type HTTPProvider struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewHTTPProvider creates an HTTPProvider for the admin API at baseURL
func NewHTTPProvider(baseURL, serviceKey string) *HTTPProvider {
	return &HTTPProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

var _ Provider = (*HTTPProvider)(nil)

type createUserRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	EmailConfirm bool   `json:"email_confirm"`
}

type createUserResponse struct {
	ID string `json:"id"`
}

// CreateConfirmedAccount POSTs to the provider's admin users endpoint
// and returns the created account id.
func (p *HTTPProvider) CreateConfirmedAccount(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(createUserRequest{
		Email:        email,
		Password:     password,
		EmailConfirm: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/admin/users", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.serviceKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity provider request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read identity provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("identity provider returned HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var created createUserResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", fmt.Errorf("failed to parse identity provider response: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("identity provider returned no account id")
	}
	return created.ID, nil
}
