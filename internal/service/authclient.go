package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"volunteer-connect/internal/model"
)

// ErrLoginRejected is returned when the auth API answers a login with a
// non-2xx status.
var ErrLoginRejected = errors.New("Invalid credentials")

// AuthClient is what the site's sign-in and sign-up forms use to reach the
// auth API. It carries no session state of its own.
type AuthClient struct {
	baseURL string
	client  *http.Client
}

func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{baseURL: baseURL, client: &http.Client{Timeout: 15 * time.Second}}
}

// APIError is a non-2xx answer from the auth API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("auth api: status %d", e.Status)
}

func (c *AuthClient) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp model.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, ErrLoginRejected
		}
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("auth api: response has no token")
	}
	return &resp, nil
}

// Register posts the sign-up form fields for userType, adding the accepted
// terms flag the form's checkbox gates.
func (c *AuthClient) Register(ctx context.Context, userType string, fields map[string]string) error {
	if !model.ValidUserType(userType) {
		return fmt.Errorf("unknown account type %q", userType)
	}
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["termsAccepted"] = true
	return c.doJSON(ctx, http.MethodPost, "/api/auth/register/"+userType, body, nil)
}

func (c *AuthClient) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("auth api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("auth api %s %s: read response (status %d): %w", method, path, resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		json.Unmarshal(data, &e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
