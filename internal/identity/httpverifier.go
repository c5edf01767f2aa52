package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// HTTPVerifier delegates verification to the auth service over HTTP. Any
// transport failure, timeout or non-200 response is reported as
// ErrUnauthenticated.
type HTTPVerifier struct {
	baseURL string
	client  *http.Client
}

// NewHTTPVerifier creates a verifier calling GET {baseURL}/validate.
func NewHTTPVerifier(baseURL string, timeout time.Duration) *HTTPVerifier {
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &HTTPVerifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type validateResponse struct {
	Valid bool       `json:"valid"`
	User  *Principal `json:"user"`
}

// VerifyIdentity resolves the bearer token via the auth service.
func (v *HTTPVerifier) VerifyIdentity(ctx context.Context, token string) (*Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/validate", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		slog.Warn("Identity verification request failed", "error", err)

		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: auth service returned %d", ErrUnauthenticated, resp.StatusCode)
	}

	var body validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if body.User == nil {
		return nil, ErrUnauthenticated
	}

	return body.User, nil
}
