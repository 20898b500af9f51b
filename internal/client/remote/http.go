package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/comicshelf/comicshelf/internal/changelog"
)

const defaultTimeout = 30 * time.Second

// HTTPClient talks JSON over HTTP to the sync server.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient constructs a client for the server at baseURL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// Sync posts the changelog batch to the server.
func (c *HTTPClient) Sync(ctx context.Context, req *changelog.SyncRequest) (*changelog.SyncResponse, error) {
	var resp changelog.SyncResponse
	if err := c.post(ctx, "/api/sync/database-changelog", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for an auth token.
func (c *HTTPClient) Login(ctx context.Context, email string, password string) (*Session, error) {
	var resp Session
	err := c.post(ctx, "/api/auth/login", &credentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new account and returns an auth token.
func (c *HTTPClient) Register(ctx context.Context, email string, password string) (*Session, error) {
	var resp Session
	err := c.post(ctx, "/api/auth/register", &credentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// decodeError surfaces the server's error message when the body carries
// one, falling back to the HTTP status line.
func (c *HTTPClient) decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var errResp changelog.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return fmt.Errorf("%s", errResp.Error)
	}
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
