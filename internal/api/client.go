package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nickpending/donations/internal/config"
)

// Resource names carried by FetchError
const (
	ResourceItems     = "items"
	ResourceStatuses  = "statuses"
	ResourceLocations = "locations"
	ResourceThemes    = "themes"
)

// APIClient handles HTTP communication with the donation items service
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures an APIClient
type Option func(*APIClient)

// WithHTTPClient replaces the default transport. Timeouts and retries belong here
// or in the request context, never in the client itself.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *APIClient) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request failures
func WithLogger(logger *slog.Logger) Option {
	return func(c *APIClient) {
		c.logger = logger
	}
}

// NewClient creates a new API client for the service rooted at baseURL
func NewClient(baseURL string, opts ...Option) *APIClient {
	c := &APIClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig creates a new API client using the configured base URL
func NewClientFromConfig(cfg *config.Config, opts ...Option) (*APIClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		return nil, fmt.Errorf("api.base_url not set in config")
	}
	return NewClient(cfg.API.BaseURL, opts...), nil
}

// BaseURL returns the service root all paths are resolved against
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// FetchDonationItems retrieves every donation item
func (c *APIClient) FetchDonationItems(ctx context.Context) ([]DonationItem, error) {
	var items []DonationItem
	if err := c.fetchList(ctx, "/all", ResourceItems, msgFetchItems, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FetchStatuses retrieves the status lookup table
func (c *APIClient) FetchStatuses(ctx context.Context) ([]Status, error) {
	var statuses []Status
	if err := c.fetchList(ctx, "/statuses", ResourceStatuses, msgFetchStatuses, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// FetchLocations retrieves the location lookup table
func (c *APIClient) FetchLocations(ctx context.Context) ([]Location, error) {
	var locations []Location
	if err := c.fetchList(ctx, "/locations", ResourceLocations, msgFetchLocations, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// FetchThemes retrieves the theme lookup table
func (c *APIClient) FetchThemes(ctx context.Context) ([]Theme, error) {
	var themes []Theme
	if err := c.fetchList(ctx, "/themes", ResourceThemes, msgFetchThemes, &themes); err != nil {
		return nil, err
	}
	return themes, nil
}

// CreateDonationItem creates a new donation item and returns it as stored by the server
func (c *APIClient) CreateDonationItem(ctx context.Context, request CreateDonationItemRequest) (*DonationItem, error) {
	// Marshal request to JSON
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, &CreateError{Operation: "create", Message: msgCreateItem, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	body, status, err := c.do(ctx, http.MethodPost, "", jsonData)
	if err != nil {
		c.logger.Error("create donation item failed", "error", err)
		return nil, &CreateError{Operation: "create", Message: msgCreateItem, Err: err}
	}
	if status < 200 || status > 299 {
		createErr := &CreateError{Operation: "create", StatusCode: status, Message: messageOr(body, msgCreateItem)}
		c.logger.Warn("create donation item rejected", "status", status, "message", createErr.Message)
		return nil, createErr
	}

	// Parse response
	var item DonationItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, &CreateError{Operation: "create", StatusCode: status, Message: msgCreateItem, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return &item, nil
}

// ResetDonationData restores the service's seed data. A 2xx response with an empty
// body yields (nil, nil).
func (c *APIClient) ResetDonationData(ctx context.Context) (*DonationItem, error) {
	body, status, err := c.do(ctx, http.MethodPost, "/reset", nil)
	if err != nil {
		c.logger.Error("reset donation data failed", "error", err)
		return nil, &CreateError{Operation: "reset", Message: msgResetData, Err: err}
	}
	if status < 200 || status > 299 {
		resetErr := &CreateError{Operation: "reset", StatusCode: status, Message: messageOr(body, msgResetData)}
		c.logger.Warn("reset donation data rejected", "status", status, "message", resetErr.Message)
		return nil, resetErr
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var item DonationItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, &CreateError{Operation: "reset", StatusCode: status, Message: msgResetData, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return &item, nil
}

// fetchList is the common implementation for the GET endpoints returning JSON arrays
func (c *APIClient) fetchList(ctx context.Context, path, resource, fallback string, out any) error {
	body, status, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		c.logger.Error("fetch failed", "resource", resource, "error", err)
		return &FetchError{Resource: resource, Message: fallback, Err: err}
	}

	// Check for HTTP errors
	if status < 200 || status > 299 {
		fetchErr := &FetchError{Resource: resource, StatusCode: status, Message: messageOr(body, fallback)}
		c.logger.Warn("fetch rejected", "resource", resource, "status", status, "message", fetchErr.Message)
		return fetchErr
	}

	// Parse response - the service returns a bare JSON array
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Error("fetch returned invalid JSON", "resource", resource, "error", err)
		return &FetchError{Resource: resource, StatusCode: status, Message: fallback, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}

// do sends one request and returns the raw body and status code
func (c *APIClient) do(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	// Create HTTP request
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Send request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("request completed", "method", method, "path", path, "status", resp.StatusCode)
	return body, resp.StatusCode, nil
}

// messageOr returns the trimmed body text, or fallback when the body is empty
func messageOr(body []byte, fallback string) string {
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fallback
}
