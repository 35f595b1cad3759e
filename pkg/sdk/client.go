package shopsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Second

// Product is one search result row.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Image       *string `json:"image"`
	Price       string  `json:"price"`
	SKU         string  `json:"sku"`
	Description string  `json:"short_description"`
}

// Category is one matching category.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// Result is a parsed search response.
type Result struct {
	Products   []Product
	Categories []Category
}

// Client talks to a shopsearch deployment.
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("shopsearch: base URL required")
	}

	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
		apiKey:     cfg.apiKey,
	}, nil
}

// Search runs a product search.
func (c *Client) Search(ctx context.Context, query string) (Result, error) {
	form := url.Values{"s": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/search", strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, fmt.Errorf("shopsearch: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("shopsearch: search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Result{}, fmt.Errorf("shopsearch: decode response: %w", err)
	}

	if !env.Success {
		return Result{}, parseAPIError(resp.StatusCode, env.Data)
	}
	return parseData(env.Data)
}

// Reload asks the service to re-read its persisted search options.
func (c *Client) Reload(ctx context.Context) error {
	return c.adminRequest(ctx, http.MethodPost, "/admin/reload", nil)
}

// SetOption persists one raw search option value. Takes effect on the next
// Reload.
func (c *Client) SetOption(ctx context.Context, name, value string) error {
	return c.adminRequest(ctx, http.MethodPut, "/admin/options/"+url.PathEscape(name),
		strings.NewReader(value))
}

// UpsertProduct pushes one product into the catalog.
func (c *Client) UpsertProduct(ctx context.Context, id int64, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("shopsearch: marshal product: %w", err)
	}
	return c.adminRequest(ctx, http.MethodPut,
		fmt.Sprintf("/admin/products/%d", id), bytes.NewReader(data))
}

// DeleteProduct removes one product from the catalog.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.adminRequest(ctx, http.MethodDelete, fmt.Sprintf("/admin/products/%d", id), nil)
}

// parseData accepts both success payload shapes: a plain product array or
// an object with products and categories.
func parseData(data json.RawMessage) (Result, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var products []Product
		if err := json.Unmarshal(trimmed, &products); err != nil {
			return Result{}, fmt.Errorf("shopsearch: decode products: %w", err)
		}
		return Result{Products: products}, nil
	}

	var obj struct {
		Products   []Product  `json:"products"`
		Categories []Category `json:"categories"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return Result{}, fmt.Errorf("shopsearch: decode result object: %w", err)
	}
	return Result{Products: obj.Products, Categories: obj.Categories}, nil
}

func parseAPIError(status int, data json.RawMessage) error {
	apiErr := &APIError{StatusCode: status, Code: "unknown", Message: "request failed"}
	var body struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Code != "" {
			apiErr.Code = body.Code
		}
		if body.Message != "" {
			apiErr.Message = body.Message
		}
	}
	return apiErr
}

func (c *Client) adminRequest(ctx context.Context, method, path string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("shopsearch: build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if method == http.MethodPut && strings.Contains(path, "/products/") {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("shopsearch: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Code: "unknown", Message: "request failed"}
	}
	return parseAPIError(resp.StatusCode, env.Data)
}
