package kintone

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// pageSize is the batch size for paginated directory endpoints.
const pageSize = 100

// APIError is a non-2xx response from the platform.
type APIError struct {
	StatusCode int
	Endpoint   string
	Code       string `json:"code"`
	ID         string `json:"id"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("kintone %s: %d %s (%s)", e.Endpoint, e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("kintone %s: status %d", e.Endpoint, e.StatusCode)
}

// Client talks to a kintone tenant. Directory endpoints (users, groups) live
// under /v1 and require password auth; app-config endpoints live under /k/v1
// and accept an API token. Requests are rate limited client-side so a large
// tenant walk does not trip the platform's throttling.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter

	apiToken  string
	basicAuth string // base64 user:password for X-Cybozu-Authorization
}

type Option func(*Client)

// WithAPIToken sets the app API token used for /k/v1 endpoints.
func WithAPIToken(token string) Option {
	return func(c *Client) { c.apiToken = token }
}

// WithPasswordAuth sets the account credentials used for /v1 directory
// endpoints.
func WithPasswordAuth(username, password string) Option {
	return func(c *Client) {
		c.basicAuth = base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit overrides the default request rate (requests per second).
func WithRateLimit(rps float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// WithBaseURL overrides the tenant URL entirely. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// NewClient builds a client for https://<subdomain>.cybozu.com.
func NewClient(subdomain string, opts ...Option) *Client {
	c := &Client{
		baseURL:    fmt.Sprintf("https://%s.cybozu.com", subdomain),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", endpoint, err)
	}
	if c.apiToken != "" {
		req.Header.Set("X-Cybozu-API-Token", c.apiToken)
	}
	if c.basicAuth != "" {
		req.Header.Set("X-Cybozu-Authorization", c.basicAuth)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint}
		// The platform reports errors as JSON; keep going if it didn't.
		_ = json.Unmarshal(body, apiErr)
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return nil
}

// fetchPaged walks an offset-paginated /v1 listing until a short or empty
// batch comes back.
func fetchPaged[T any](ctx context.Context, c *Client, endpoint, key string, params url.Values) ([]T, error) {
	var all []T
	offset := 0
	for {
		page := url.Values{}
		for k, vs := range params {
			page[k] = vs
		}
		page.Set("size", strconv.Itoa(pageSize))
		page.Set("offset", strconv.Itoa(offset))

		var payload map[string]json.RawMessage
		if err := c.get(ctx, endpoint, page, &payload); err != nil {
			return nil, err
		}

		var batch []T
		if raw, ok := payload[key]; ok {
			if err := json.Unmarshal(raw, &batch); err != nil {
				return nil, fmt.Errorf("decoding %s batch: %w", endpoint, err)
			}
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
		if len(batch) < pageSize {
			break
		}
		offset += pageSize
		slog.Debug("fetched page", "endpoint", endpoint, "offset", offset, "total", len(all))
	}
	slog.Debug("listing complete", "endpoint", endpoint, "count", len(all))
	return all, nil
}

// AllUsers lists every user in the tenant.
func (c *Client) AllUsers(ctx context.Context) ([]User, error) {
	return fetchPaged[User](ctx, c, "/v1/users.json", "users", nil)
}

// AllGroups lists every group in the tenant.
func (c *Client) AllGroups(ctx context.Context) ([]Group, error) {
	return fetchPaged[Group](ctx, c, "/v1/groups.json", "groups", nil)
}

// GroupUsers lists the members of one group.
func (c *Client) GroupUsers(ctx context.Context, groupCode string) ([]User, error) {
	params := url.Values{}
	params.Set("code", groupCode)
	return fetchPaged[User](ctx, c, "/v1/group/users.json", "users", params)
}

func (c *Client) appGet(ctx context.Context, endpoint, appID string, out any) error {
	params := url.Values{}
	params.Set("app", appID)
	return c.get(ctx, endpoint, params, out)
}

// AppACL fetches the app-level ACL of one app.
func (c *Client) AppACL(ctx context.Context, appID string) (*AppACL, error) {
	var out AppACL
	if err := c.appGet(ctx, "/k/v1/app/acl.json", appID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecordACL fetches the record-level ACL of one app.
func (c *Client) RecordACL(ctx context.Context, appID string) (*RecordACL, error) {
	var out RecordACL
	if err := c.appGet(ctx, "/k/v1/record/acl.json", appID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FieldACL fetches the field-level ACL of one app.
func (c *Client) FieldACL(ctx context.Context, appID string) (*FieldACL, error) {
	var out FieldACL
	if err := c.appGet(ctx, "/k/v1/field/acl.json", appID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FormFields fetches the form field definitions of one app.
func (c *Client) FormFields(ctx context.Context, appID string) (*FormFields, error) {
	var out FormFields
	if err := c.appGet(ctx, "/k/v1/app/form/fields.json", appID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessManagement fetches the status workflow settings of one app.
func (c *Client) ProcessManagement(ctx context.Context, appID string) (*ProcessManagement, error) {
	var out ProcessManagement
	if err := c.appGet(ctx, "/k/v1/app/status.json", appID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AppSettings fetches the general settings (name, description) of one app.
func (c *Client) AppSettings(ctx context.Context, appID string) (*AppSettings, error) {
	var out AppSettings
	if err := c.appGet(ctx, "/k/v1/app/settings.json", appID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AppViews fetches the view definitions of one app.
func (c *Client) AppViews(ctx context.Context, appID string) (*Views, error) {
	var out Views
	if err := c.appGet(ctx, "/k/v1/app/views.json", appID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
