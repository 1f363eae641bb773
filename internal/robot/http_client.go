package robot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPClient talks to the appliance account API over HTTPS with a bearer
// token obtained at Connect time.
type HTTPClient struct {
	baseURL    string
	email      string
	password   string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(baseURL string, creds *Credentials, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:  baseURL,
		email:    creds.Email,
		password: creds.Password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (c *HTTPClient) Connect(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"email":    c.email,
		"password": c.password,
	})
	if err != nil {
		return fmt.Errorf("marshal login payload: %w", err)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", bytes.NewReader(body), &result); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if result.Token == "" {
		return fmt.Errorf("login: response carried no token")
	}

	c.token = result.Token
	c.logger.Debug("appliance API session established")
	return nil
}

func (c *HTTPClient) Robots(ctx context.Context) ([]Robot, error) {
	var result struct {
		Robots []Robot `json:"robots"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/robots", nil, &result); err != nil {
		return nil, fmt.Errorf("list robots: %w", err)
	}
	return result.Robots, nil
}

func (c *HTTPClient) SendCommand(ctx context.Context, robotID, command string) error {
	body, err := json.Marshal(map[string]string{"command": command})
	if err != nil {
		return fmt.Errorf("marshal command payload: %w", err)
	}

	path := fmt.Sprintf("/api/robots/%s/commands", robotID)
	if err := c.doJSON(ctx, http.MethodPost, path, bytes.NewReader(body), nil); err != nil {
		return fmt.Errorf("send %s command: %w", command, err)
	}
	return nil
}

// Disconnect ends the session. Logout failures are swallowed after logging:
// the token is dropped either way and the next cycle logs in fresh.
func (c *HTTPClient) Disconnect(ctx context.Context) error {
	if c.token == "" {
		return nil
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		c.logger.Warn("logout failed", "error", err)
	}
	c.token = ""
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
