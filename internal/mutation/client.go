package mutation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultAPIVersion is the API version used for mutations.
	DefaultAPIVersion = "v2024-06-21"

	credentialTestVersion = "v2021-10-21"
	credentialTestQuery   = `*[_type == "sanity.project" && _id == "sane-project-name"]`
)

// Credentials identify a Sanity project dataset and authorize writes to it.
type Credentials struct {
	ProjectID string
	Dataset   string
	Token     string
}

// Validate returns ErrInvalidCredentials if any field is empty.
func (c Credentials) Validate() error {
	var missing []string

	if c.ProjectID == "" {
		missing = append(missing, "project ID")
	}

	if c.Dataset == "" {
		missing = append(missing, "dataset")
	}

	if c.Token == "" {
		missing = append(missing, "token")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidCredentials, strings.Join(missing, ", "))
	}

	return nil
}

// Client sends mutations to one project dataset.
type Client struct {
	baseURL    string
	creds      Credentials
	apiVersion string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the Client during construction.
type Option func(*clientConfig) error

type clientConfig struct {
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
	baseURL    string
	apiVersion string
}

// New creates a Client. Credentials are validated up front.
func New(creds Credentials, opts ...Option) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	cfg := &clientConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	httpClient := &http.Client{}
	if cfg.httpClient != nil {
		// copied so the timeout never leaks into a shared client
		c := *cfg.httpClient
		httpClient = &c
	}

	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	baseURL := cfg.baseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.api.sanity.io", url.PathEscape(creds.ProjectID))
	}

	apiVersion := cfg.apiVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		creds:      creds,
		apiVersion: apiVersion,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		if d < 0 {
			return fmt.Errorf("mutation: negative timeout %s", d)
		}

		cfg.timeout = d

		return nil
	}
}

// WithBaseURL replaces https://{projectId}.api.sanity.io, e.g. for a test
// server.
func WithBaseURL(u string) Option {
	return func(cfg *clientConfig) error {
		if _, err := url.Parse(u); err != nil {
			return fmt.Errorf("mutation: base URL: %w", err)
		}

		cfg.baseURL = u

		return nil
	}
}

// WithAPIVersion sets the dated API version, e.g. "v2024-06-21".
func WithAPIVersion(v string) Option {
	return func(cfg *clientConfig) error {
		if v != "" && !strings.HasPrefix(v, "v") {
			return fmt.Errorf("mutation: API version %q must start with \"v\"", v)
		}

		cfg.apiVersion = v

		return nil
	}
}

// APIVersion returns the version used for mutate requests.
func (c *Client) APIVersion() string { return c.apiVersion }

// Mutate posts mutations as one transaction. With returnDocuments the
// results carry the resulting documents.
func (c *Client) Mutate(ctx context.Context, mutations []Mutation, returnDocuments bool) (*Response, error) {
	if len(mutations) == 0 {
		return nil, fmt.Errorf("mutate: no mutations")
	}

	body, err := json.Marshal(map[string]any{"mutations": mutations})
	if err != nil {
		return nil, fmt.Errorf("mutate: encode body: %w", err)
	}

	q := url.Values{}
	q.Set("returnDocuments", strconv.FormatBool(returnDocuments))

	u := fmt.Sprintf("%s/%s/data/mutate/%s?%s", c.baseURL, c.apiVersion, url.PathEscape(c.creds.Dataset), q.Encode())

	ops := make([]string, len(mutations))
	for i, m := range mutations {
		ops[i] = string(m.Operation())
	}

	c.logger.DebugContext(ctx, "sending mutations", "operations", ops)

	var resp Response
	if err := c.doJSON(ctx, http.MethodPost, u, "mutate", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// TestCredentials runs a harmless query to check that the project, dataset
// and token are accepted.
func (c *Client) TestCredentials(ctx context.Context) error {
	q := url.Values{}
	q.Set("query", credentialTestQuery)

	u := fmt.Sprintf("%s/%s/data/query/%s?%s", c.baseURL, credentialTestVersion, url.PathEscape(c.creds.Dataset), q.Encode())

	return c.doJSON(ctx, http.MethodGet, u, "test credentials", nil, nil)
}

// doJSON executes an HTTP request and decodes the JSON response into dst.
// If the response has an error status, it returns an *APIError.
func (c *Client) doJSON(ctx context.Context, method, u, operation string, body io.Reader, dst any) error {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", operation, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.creds.Token)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.InfoContext(ctx, "API request", "operation", operation, "method", method, "url", u)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: do request: %w", operation, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "API response", "operation", operation, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)

		if errType, msg := parseError(respBody); msg != "" {
			return newAPIError(operation, resp.StatusCode, errType, msg)
		}

		msg := strings.TrimSpace(string(respBody))
		if msg == "" {
			msg = resp.Status
		}

		return newAPIError(operation, resp.StatusCode, "", msg)
	}

	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("%s: decode response: %w", operation, err)
		}
	}

	return nil
}
