package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/morikuni/failure/v2"
)

const architecturesJSON = `[
  {
    "id": "1",
    "title": "VPC Pattern",
    "description": "Three tier VPC",
    "services": ["EC2", "S3"],
    "components": [{"name": "web", "type": "aws_service", "description": "frontend"}],
    "use_case": "Web hosting",
    "complexity": null,
    "estimated_cost": null,
    "benefits": ["isolation"],
    "architecture_pattern": "three-tier",
    "source_url": "http://a",
    "scraped_at": "2025-03-04T05:06:07.123456",
    "raw_title": null,
    "parsing_status": "Success"
  },
  {
    "id": "2",
    "title": "Serverless API",
    "description": "Failed to parse with AI",
    "services": [],
    "components": [],
    "use_case": "Unknown",
    "complexity": "Unknown",
    "benefits": [],
    "source_url": "http://b",
    "scraped_at": "2025-03-05T00:00:00Z",
    "raw_title": "Serverless API | AWS",
    "parsing_status": "Failed"
  }
]`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "http URL", baseURL: "http://localhost:8000"},
		{name: "trailing slash", baseURL: "https://api.example.com/v1/"},
		{name: "empty", baseURL: "", wantErr: true},
		{name: "not a URL", baseURL: "backend", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.baseURL)
			if tt.wantErr {
				if !failure.Is(err, ErrInvalidBaseURL) {
					t.Errorf("NewClient(%q) error = %v, want %v", tt.baseURL, err, ErrInvalidBaseURL)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient(%q) unexpected error: %v", tt.baseURL, err)
			}
			if strings.HasSuffix(c.BaseURL(), "/") {
				t.Errorf("BaseURL() = %q, want no trailing slash", c.BaseURL())
			}
		})
	}
}

func TestClientListItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/architectures" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, architecturesJSON)
	})

	items, err := c.ListItems(context.Background())
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}

	gotIDs := make([]string, 0, len(items))
	for _, item := range items {
		gotIDs = append(gotIDs, item.ID)
	}
	if diff := cmp.Diff([]string{"1", "2"}, gotIDs); diff != "" {
		t.Errorf("ListItems() order mismatch (-want +got):\n%s", diff)
	}

	first := items[0]
	if diff := cmp.Diff([]string{"EC2", "S3"}, first.Services); diff != "" {
		t.Errorf("Services mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Component{{Name: "web", Type: "aws_service", Description: "frontend"}}, first.Components); diff != "" {
		t.Errorf("Components mismatch (-want +got):\n%s", diff)
	}
	if first.Complexity != nil || first.EstimatedCost != nil || first.RawTitle != nil {
		t.Errorf("expected absent optional fields to stay nil, got %+v", first)
	}
	wantAt := time.Date(2025, 3, 4, 5, 6, 7, 123456000, time.UTC)
	if !first.ScrapedAt.Equal(wantAt) {
		t.Errorf("ScrapedAt = %v, want %v", first.ScrapedAt, wantAt)
	}

	second := items[1]
	if second.ParsingStatus != ParsingStatusFailed {
		t.Errorf("ParsingStatus = %q, want %q", second.ParsingStatus, ParsingStatusFailed)
	}
	if !second.HasRawTitle() {
		t.Error("HasRawTitle() = false, want true")
	}
}

func TestClientListItemsNull(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "null")
	})

	items, err := c.ListItems(context.Background())
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("ListItems() = %#v, want empty non-nil slice", items)
	}
}

func TestClientSubmitURL(t *testing.T) {
	var got scrapeRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/scrape" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"message": "Scraped http://x successfully"}`)
	})

	if err := c.SubmitURL(context.Background(), "http://x"); err != nil {
		t.Fatalf("SubmitURL() error = %v", err)
	}
	if got.URL != "http://x" {
		t.Errorf("request url = %q, want %q", got.URL, "http://x")
	}
}

func TestClientDeleteAllItems(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/architectures" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		called = true
		io.WriteString(w, `{"message": "Deleted 2 architectures"}`)
	})

	if err := c.DeleteAllItems(context.Background()); err != nil {
		t.Fatalf("DeleteAllItems() error = %v", err)
	}
	if !called {
		t.Error("DeleteAllItems() did not reach the backend")
	}
}

func TestClientHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"status": "up"}`)
	})

	status, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if status != "up" {
		t.Errorf("Health() = %q, want %q", status, "up")
	}
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{
			name:       "server error with detail",
			status:     http.StatusInternalServerError,
			body:       `{"detail": "Failed to scrape url: http://x, Error: boom"}`,
			wantDetail: "Failed to scrape url: http://x, Error: boom",
		},
		{
			name:       "validation error",
			status:     http.StatusUnprocessableEntity,
			body:       `{"detail": [{"loc": ["body", "url"], "msg": "field required"}]}`,
			wantDetail: `[{"loc":["body","url"],"msg":"field required"}]`,
		},
		{
			name:       "plain text",
			status:     http.StatusBadGateway,
			body:       "bad gateway\n",
			wantDetail: "bad gateway",
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `{"not": "a list"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			ctx := context.Background()
			_, listErr := c.ListItems(ctx)
			submitErr := c.SubmitURL(ctx, "http://x")
			deleteErr := c.DeleteAllItems(ctx)

			for op, err := range map[string]error{"ListItems": listErr, "SubmitURL": submitErr, "DeleteAllItems": deleteErr} {
				if !failure.Is(err, ErrRequestFailed) {
					t.Errorf("%s() error = %v, want %v", op, err, ErrRequestFailed)
				}
			}

			if tt.wantDetail != "" {
				var httpErr *HTTPError
				if !errors.As(listErr, &httpErr) {
					t.Fatalf("ListItems() error has no HTTPError cause: %v", listErr)
				}
				if httpErr.StatusCode != tt.status {
					t.Errorf("StatusCode = %d, want %d", httpErr.StatusCode, tt.status)
				}
				if httpErr.Detail != tt.wantDetail {
					t.Errorf("Detail = %q, want %q", httpErr.Detail, tt.wantDetail)
				}
			}
		})
	}
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(base, WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if _, err := c.ListItems(context.Background()); !failure.Is(err, ErrRequestFailed) {
		t.Errorf("ListItems() error = %v, want %v", err, ErrRequestFailed)
	}
}

func TestClientSlowScrapeSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"message": "Architecture scraped and saved successfully"}`)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c.httpClient.Timeout != 0 {
		t.Errorf("default Timeout = %v, want no limit", c.httpClient.Timeout)
	}
	if err := c.SubmitURL(context.Background(), "http://slow"); err != nil {
		t.Errorf("SubmitURL() error = %v, want success after a slow 201", err)
	}

	capped, err := NewClient(srv.URL, WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if err := capped.SubmitURL(context.Background(), "http://slow"); !failure.Is(err, ErrRequestFailed) {
		t.Errorf("SubmitURL() with a 50ms cap error = %v, want %v", err, ErrRequestFailed)
	}
}
