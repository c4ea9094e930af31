package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ka2n/scrapeview/log"
	"github.com/morikuni/failure/v2"
)

// DefaultTimeout bounds a single backend call. Zero means no limit: a scrape
// only answers after the backend has fetched, parsed and stored the page.
const DefaultTimeout time.Duration = 0

// maxErrorBody limits how much of a failed response is kept for diagnostics
const maxErrorBody = 4 << 10

var validate = validator.New()

// Client calls the scraper backend rooted at a base URL
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for every call
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-call timeout of the default HTTP client.
// Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if err := validate.Var(baseURL, "required,url"); err != nil {
		return nil, failure.New(ErrInvalidBaseURL,
			failure.Message("Backend API URL is missing or invalid"),
			failure.Context{"base_url": baseURL},
		)
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, failure.Wrap(err, failure.Context{"base_url": baseURL})
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Transport: log.Transport(),
			Timeout:   DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ackResponse is the body the backend returns for write operations
type ackResponse struct {
	Message string `json:"message"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type scrapeRequest struct {
	URL string `json:"url"`
}

// ListItems returns every scraped item in backend order
func (c *Client) ListItems(ctx context.Context) ([]ScrapedItem, error) {
	var items []ScrapedItem
	if err := c.do(ctx, http.MethodGet, "/architectures", nil, &items); err != nil {
		log.Error("Error fetching items", "error", err)
		return nil, err
	}
	if items == nil {
		items = []ScrapedItem{}
	}
	return items, nil
}

// SubmitURL asks the backend to scrape rawURL. A nil error means the backend
// accepted the URL.
func (c *Client) SubmitURL(ctx context.Context, rawURL string) error {
	var ack ackResponse
	if err := c.do(ctx, http.MethodPost, "/scrape", scrapeRequest{URL: rawURL}, &ack); err != nil {
		log.Error("Error scraping URL", "url", rawURL, "error", err)
		return err
	}
	log.Info("Scrape accepted", "url", rawURL, "message", ack.Message)
	return nil
}

// DeleteAllItems removes every scraped item from the backend
func (c *Client) DeleteAllItems(ctx context.Context) error {
	var ack ackResponse
	if err := c.do(ctx, http.MethodDelete, "/architectures", nil, &ack); err != nil {
		log.Error("Error deleting scraped architectures", "error", err)
		return err
	}
	log.Info("Deleted scraped architectures", "message", ack.Message)
	return nil
}

// Health returns the status line reported by the backend
func (c *Client) Health(ctx context.Context) (string, error) {
	var h healthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		log.Error("Error checking backend health", "error", err)
		return "", err
	}
	return h.Status, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	endpoint := c.endpoint(path)
	fail := func(err error, extra failure.Context) error {
		fc := failure.Context{"method": method, "url": endpoint}
		for k, v := range extra {
			fc[k] = v
		}
		return failure.Translate(err, ErrRequestFailed,
			failure.Message("Backend request failed"),
			fc,
		)
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fail(err, nil)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fail(err, nil)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(err, nil)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fail(&HTTPError{
			StatusCode: resp.StatusCode,
			URL:        endpoint,
			Detail:     errorDetail(b),
		}, failure.Context{"status": resp.Status})
	}

	if out == nil {
		return nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(err, failure.Context{"status": resp.Status})
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fail(err, failure.Context{"status": resp.Status})
	}
	return nil
}

// HTTPError is the cause of a failed call that reached the backend
type HTTPError struct {
	StatusCode int
	URL        string
	Detail     string
}

func (e *HTTPError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d for %s: %s", e.StatusCode, e.URL, e.Detail)
}

// errorDetail extracts the backend's error text from a failed response body
func errorDetail(b []byte) string {
	var e struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(b, &e); err == nil && e.Detail != nil {
		if s, ok := e.Detail.(string); ok {
			return s
		}
		if d, err := json.Marshal(e.Detail); err == nil {
			return string(d)
		}
	}
	return strings.TrimSpace(string(b))
}
