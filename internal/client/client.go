// Package client implements the HTTP consumer of the journal API: envelope
// decoding, bearer authentication and the persistent token store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/noah-isme/mistake-journal/internal/models"
	"github.com/noah-isme/mistake-journal/internal/service"
	appErrors "github.com/noah-isme/mistake-journal/pkg/errors"
)

// envelope mirrors the server response contract.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`
}

// Client talks to the journal API. The token is attached as a bearer header
// on every request; the server only enforces it on mutating actions.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// New constructs a client for the given server base URL.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken replaces the bearer token for subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method string, action string, payload interface{}, dest interface{}) error {
	endpoint := fmt.Sprintf("%s/api?action=%s", c.baseURL, url.QueryEscape(action))

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if !env.Success {
		if env.Error == appErrors.ErrAuthRequired.Code {
			return appErrors.Clone(appErrors.ErrAuthRequired, env.Message)
		}
		return appErrors.Wrap(nil, "REQUEST_FAILED", resp.StatusCode, env.Message)
	}

	if dest != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
	}
	return nil
}

// Records fetches the full record set, newest first.
func (c *Client) Records(ctx context.Context) ([]models.MistakeRecord, error) {
	var data struct {
		Mistakes []models.MistakeRecord `json:"mistakes"`
	}
	if err := c.do(ctx, http.MethodGet, "get_mistakes", nil, &data); err != nil {
		return nil, err
	}
	return data.Mistakes, nil
}

// Add creates a new record and returns its assigned id.
func (c *Client) Add(ctx context.Context, in service.MistakeInput) (int64, error) {
	var data struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "add_mistake", in, &data); err != nil {
		return 0, err
	}
	return data.ID, nil
}

type updatePayload struct {
	ID int64 `json:"id"`
	service.MistakeInput
}

// Update replaces the fields of an existing record.
func (c *Client) Update(ctx context.Context, id int64, in service.MistakeInput) error {
	return c.do(ctx, http.MethodPost, "update_mistake", updatePayload{ID: id, MistakeInput: in}, nil)
}

// Delete removes a record permanently.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, "delete_mistake", struct {
		ID int64 `json:"id"`
	}{ID: id}, nil)
}

// Stats fetches the journal aggregate.
func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	var data struct {
		Stats models.Stats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "get_stats", nil, &data); err != nil {
		return nil, err
	}
	return &data.Stats, nil
}

// TestAuth verifies the current token against the server without touching
// any records.
func (c *Client) TestAuth(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "test_auth", nil, nil)
}

// IsAuthError reports whether the error means the client must re-authenticate,
// as opposed to a bad request or a server failure.
func IsAuthError(err error) bool {
	appErr := appErrors.FromError(err)
	return appErr != nil && appErr.Code == appErrors.ErrAuthRequired.Code
}
