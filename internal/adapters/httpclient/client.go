// Package httpclient talks to the remote scope API
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rozadaar/internal/application"
	"rozadaar/internal/domain"
	"rozadaar/internal/ports"
)

const (
	requestTimeout = 10 * time.Second
	checkTimeout   = 2 * time.Second
	maxBody        = 8 << 20
)

// Client implements ports.RemoteSource, ports.ConnectivityChecker and
// ports.AnalyticsClient
type Client struct {
	baseURL string
	http    *http.Client
}

// Ensure Client implements the remote ports
var (
	_ ports.RemoteSource        = (*Client)(nil)
	_ ports.ConnectivityChecker = (*Client)(nil)
	_ ports.AnalyticsClient     = (*Client)(nil)
)

// New creates a client for the API rooted at baseURL
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// FetchLocations returns the raw locations collection
func (c *Client) FetchLocations(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, "locations")
}

// FetchNotes returns the raw notes collection
func (c *Client) FetchNotes(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, "notes")
}

// PushLocations replaces the remote locations
func (c *Client) PushLocations(ctx context.Context, secret string, locations []domain.Location) error {
	return c.push(ctx, "locations", secret, locations)
}

// PushNotes replaces the remote notes
func (c *Client) PushNotes(ctx context.Context, secret string, notes []domain.Note) error {
	if notes == nil {
		notes = []domain.Note{}
	}
	return c.push(ctx, "notes", secret, notes)
}

// Check reports whether the server answers a HEAD request
func (c *Client) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	url := c.baseURL + "/?nocache=" + strconv.FormatInt(time.Now().UnixNano(), 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

func (c *Client) fetch(ctx context.Context, collection string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/"+collection, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", collection, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s: %s", collection, resp.Status, errorMessage(body))
	}
	return body, nil
}

type pushRequest struct {
	Secret string `json:"secret"`
	Data   any    `json:"data"`
}

func (c *Client) push(ctx context.Context, collection, secret string, data any) error {
	payload, err := json.Marshal(pushRequest{Secret: secret, Data: data})
	if err != nil {
		return fmt.Errorf("encoding %s: %w", collection, err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/"+collection, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if resp.StatusCode != http.StatusOK {
		return &application.PushError{
			Collection: collection,
			Status:     resp.StatusCode,
			Reason:     errorMessage(body),
		}
	}
	return nil
}

// errorMessage extracts {"error": "..."} from a response body
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
