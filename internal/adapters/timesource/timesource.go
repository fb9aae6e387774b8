// Package timesource implements network time sources over HTTP
package timesource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rozadaar/internal/ports"
)

// Public JSON services, tried after the same-origin Date header
const (
	TimeAPIURL      = "https://timeapi.io/api/Time/current/zone?timeZone=UTC"
	WorldTimeAPIURL = "https://worldtimeapi.org/api/timezone/Etc/UTC"
)

// HeaderSource reads the Date header of a HEAD response. The header has
// second resolution, so the instant is attributed to the response receipt.
type HeaderSource struct {
	URL     string
	Client  *http.Client
	timeout time.Duration
}

// Ensure HeaderSource implements ports.TimeSource
var _ ports.TimeSource = (*HeaderSource)(nil)

// NewHeaderSource creates a source reading baseURL's Date header
func NewHeaderSource(baseURL string) *HeaderSource {
	return &HeaderSource{
		URL:     strings.TrimRight(baseURL, "/") + "/",
		Client:  http.DefaultClient,
		timeout: 2 * time.Second,
	}
}

func (p *HeaderSource) Name() string           { return "date header " + p.URL }
func (p *HeaderSource) Timeout() time.Duration { return p.timeout }

// Fetch performs the HEAD request
func (p *HeaderSource) Fetch(ctx context.Context) (ports.TimeReading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.URL, nil)
	if err != nil {
		return ports.TimeReading{}, err
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := p.Client.Do(req)
	if err != nil {
		return ports.TimeReading{}, err
	}
	defer resp.Body.Close()

	header := resp.Header.Get("Date")
	if header == "" {
		return ports.TimeReading{}, fmt.Errorf("response has no Date header")
	}
	instant, err := http.ParseTime(header)
	if err != nil {
		return ports.TimeReading{}, fmt.Errorf("bad Date header %q: %w", header, err)
	}
	return ports.TimeReading{Instant: instant}, nil
}

// JSONService reads an ISO-8601 instant from a field of a JSON document.
// Its resolution is fine enough to warrant latency compensation.
type JSONService struct {
	URL     string
	Key     string
	Client  *http.Client
	timeout time.Duration
}

// Ensure JSONService implements ports.TimeSource
var _ ports.TimeSource = (*JSONService)(nil)

// NewJSONService creates a source reading key from the document at url
func NewJSONService(url, key string) *JSONService {
	return &JSONService{
		URL:     url,
		Key:     key,
		Client:  http.DefaultClient,
		timeout: 3 * time.Second,
	}
}

func (s *JSONService) Name() string           { return s.URL }
func (s *JSONService) Timeout() time.Duration { return s.timeout }

// Fetch performs the GET request
func (s *JSONService) Fetch(ctx context.Context) (ports.TimeReading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return ports.TimeReading{}, err
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return ports.TimeReading{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.TimeReading{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var doc map[string]json.RawMessage
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&doc); err != nil {
		return ports.TimeReading{}, fmt.Errorf("decoding response: %w", err)
	}
	var value string
	if err := json.Unmarshal(doc[s.Key], &value); err != nil {
		return ports.TimeReading{}, fmt.Errorf("field %q missing or not a string", s.Key)
	}

	instant, err := ParseInstant(value)
	if err != nil {
		return ports.TimeReading{}, err
	}
	return ports.TimeReading{Instant: instant, CompensateLatency: true}, nil
}

// ParseInstant parses an ISO-8601 timestamp. Timestamps without a zone are UTC.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable instant %q", s)
}

// Defaults returns the source chain: the same-origin Date header, then the public services
func Defaults(baseURL string) []ports.TimeSource {
	return []ports.TimeSource{
		NewHeaderSource(baseURL),
		NewJSONService(TimeAPIURL, "dateTime"),
		NewJSONService(WorldTimeAPIURL, "datetime"),
	}
}
