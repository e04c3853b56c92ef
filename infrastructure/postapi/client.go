package postapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"go.uber.org/zap"

	"composer2/application/ports"
	"composer2/domain/core/entities"
	"composer2/domain/core/valueobjects"
	pkgerrors "composer2/pkg/errors"
)

// Client talks to the post API, the service that owns the canonical
// post records. Mutations are single-shot so a flaky connection can
// never double-create a post; reads retry with backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a post API client
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// envelope is the post API's response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Save implements the PostService port. An empty draft identity means
// create; otherwise the existing record is updated in place.
func (c *Client) Save(ctx context.Context, draft entities.Draft) (ports.PersistedPost, error) {
	method := http.MethodPost
	endpoint := c.baseURL + "/posts"
	if draft.IsPersisted() {
		method = http.MethodPut
		endpoint = c.baseURL + "/posts/" + url.PathEscape(draft.ID.String())
	}

	body, err := json.Marshal(draft)
	if err != nil {
		return ports.PersistedPost{}, pkgerrors.NewInternalError("post encoding failed").WithCause(err)
	}

	env, err := c.do(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return ports.PersistedPost{}, err
	}

	var saved ports.PersistedPost
	if err := json.Unmarshal(env.Data, &saved); err != nil {
		return ports.PersistedPost{}, pkgerrors.NewExternalError("post-api", err)
	}
	return saved, nil
}

// Delete implements the PostService port
func (c *Client) Delete(ctx context.Context, id valueobjects.PostID) error {
	endpoint := c.baseURL + "/posts/" + url.PathEscape(id.String())
	_, err := c.do(ctx, http.MethodDelete, endpoint, nil)
	return err
}

// List implements the PostService port. Listing is idempotent, so
// transient failures are retried with backoff.
func (c *Client) List(ctx context.Context, filter ports.PostFilter) ([]ports.PersistedPost, error) {
	query := url.Values{}
	query.Set("userId", filter.UserID)
	query.Set("status", string(filter.Status))
	query.Set("startDate", filter.Window.StartDate())
	query.Set("endDate", filter.Window.EndDate())
	endpoint := c.baseURL + "/posts?" + query.Encode()

	var posts []ports.PersistedPost
	err := retry.Do(
		func() error {
			env, err := c.do(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				if pkgerrors.IsValidation(err) || pkgerrors.IsUnauthorized(err) || pkgerrors.IsNotFound(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			posts = posts[:0]
			if err := json.Unmarshal(env.Data, &posts); err != nil {
				return retry.Unrecoverable(pkgerrors.NewExternalError("post-api", err))
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.MaxDelay(2*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying post list", zap.Uint("attempt", n), zap.Error(err))
		}),
	)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// do runs one request and unwraps the response envelope
func (c *Client) do(ctx context.Context, method, endpoint string, body *bytes.Reader) (*envelope, error) {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = body
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, pkgerrors.NewInternalError("request build failed").WithCause(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.NewNetworkError("could not reach the post API", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("post API request completed",
		zap.String("method", method),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(started)),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, pkgerrors.NewNotFoundError("post")
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, pkgerrors.NewUnauthorizedError("post API rejected the request")
	case resp.StatusCode == http.StatusBadRequest:
		return nil, pkgerrors.NewValidationError(readMessage(resp))
	case resp.StatusCode >= 400:
		return nil, pkgerrors.NewExternalError("post-api", fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, pkgerrors.NewExternalError("post-api", err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "post API reported failure"
		}
		return nil, pkgerrors.NewExternalError("post-api", fmt.Errorf("%s", msg))
	}
	return &env, nil
}

// readMessage extracts the error message from a rejected response
func readMessage(resp *http.Response) string {
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Message != "" {
		return env.Message
	}
	return "post API rejected the request"
}
