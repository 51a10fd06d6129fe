// Package api is a small client for the Al Adhan prayer times API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// School values accepted by the API. ShadowSingle puts Asr where an
// object's shadow equals its length; ShadowDouble where it is twice.
const (
	SchoolNone   = -1
	ShadowSingle = 0
	ShadowDouble = 1
)

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: defaultBaseURL,
	}
}

// Query identifies what to ask the API for. Coordinates win over a city
// when both are present. Negative Method or School leave the choice to
// the API.
type Query struct {
	Latitude  float64
	Longitude float64
	City      string
	Country   string
	Method    int
	School    int
}

// ByCity reports whether the query addresses a city rather than coordinates.
func (q Query) ByCity() bool {
	return q.Latitude == 0 && q.Longitude == 0 && q.City != ""
}

func (q Query) params() url.Values {
	params := url.Values{}
	if q.ByCity() {
		params.Set("city", q.City)
		params.Set("country", q.Country)
	} else {
		params.Set("latitude", fmt.Sprintf("%f", q.Latitude))
		params.Set("longitude", fmt.Sprintf("%f", q.Longitude))
	}
	if q.Method >= 0 {
		params.Set("method", strconv.Itoa(q.Method))
	}
	if q.School >= 0 {
		params.Set("school", strconv.Itoa(q.School))
	}
	return params
}

// FetchDay fetches prayer times for a single date.
func (c *Client) FetchDay(ctx context.Context, date time.Time, q Query) (*Response, error) {
	path := "timings"
	if q.ByCity() {
		path = "timingsByCity"
	}
	endpoint := fmt.Sprintf("%s/%s/%s", c.BaseURL, path, date.Format("02-01-2006"))

	var resp Response
	if err := c.doRequest(ctx, endpoint, q.params(), &resp); err != nil {
		return nil, err
	}
	if resp.Code != 200 {
		return nil, fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status)
	}
	return &resp, nil
}

// FetchCalendar fetches prayer times for every day of a month.
func (c *Client) FetchCalendar(ctx context.Context, year int, month time.Month, q Query) (*CalendarResponse, error) {
	path := "calendar"
	if q.ByCity() {
		path = "calendarByCity"
	}
	endpoint := fmt.Sprintf("%s/%s/%d/%d", c.BaseURL, path, year, int(month))

	var resp CalendarResponse
	if err := c.doRequest(ctx, endpoint, q.params(), &resp); err != nil {
		return nil, err
	}
	if resp.Code != 200 {
		return nil, fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status)
	}
	return &resp, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build API request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Debug().Str("url", reqURL).Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).Msg("al adhan request")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode API response: %w", err)
	}

	return nil
}
