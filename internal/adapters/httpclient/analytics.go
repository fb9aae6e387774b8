package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"rozadaar/internal/application"
	"rozadaar/internal/domain"
)

const adminSecretHeader = "X-Admin-Secret"

// TrackVisit reports one visit
func (c *Client) TrackVisit(ctx context.Context, visit domain.Visit) error {
	payload, err := json.Marshal(visit)
	if err != nil {
		return fmt.Errorf("encoding visit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analytics/track", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, "tracking visit", nil)
}

// Stats fetches the analytics dashboard
func (c *Client) Stats(ctx context.Context, secret string) (domain.StatsReport, error) {
	var report domain.StatsReport
	err := c.adminGet(ctx, secret, "/api/analytics/stats", &report)
	return report, err
}

// Visitors fetches one page of visitors
func (c *Client) Visitors(ctx context.Context, secret string, query domain.VisitorQuery) (domain.VisitorPage, error) {
	q := query.Normalize()
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("period", string(q.Period))
	if q.InstalledOnly {
		params.Set("filter", "installed")
	}

	var page domain.VisitorPage
	err := c.adminGet(ctx, secret, "/api/analytics/users?"+params.Encode(), &page)
	return page, err
}

// Visitor fetches one visitor profile
func (c *Client) Visitor(ctx context.Context, secret, visitorID string) (domain.Visitor, error) {
	var v domain.Visitor
	err := c.adminGet(ctx, secret, "/api/analytics/users/"+url.PathEscape(visitorID), &v)
	return v, err
}

func (c *Client) adminGet(ctx context.Context, secret, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(adminSecretHeader, secret)
	return c.doJSON(req, "fetching "+path, out)
}

// doJSON sends req and decodes a 200 response into out
func (c *Client) doJSON(req *http.Request, what string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("reading %s: %w", what, err)
	}
	if resp.StatusCode != http.StatusOK {
		return &application.RemoteError{Op: what, Status: resp.StatusCode, Reason: errorMessage(body)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s: %w", what, err)
	}
	return nil
}
