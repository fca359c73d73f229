// Package api is the Al Adhan prayer-timing provider client. The core never
// talks to it directly; the CLI fetches day pairs through it and hands the
// tables to the cache and window calculator.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aalrahma/salah-watch/internal/window"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// Client communicates with the Al Adhan API.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Exported for testing with httptest.
	BaseURL string
}

// NewClient creates an API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    defaultBaseURL,
	}
}

// Day is one civil day's provider data, normalized for the rest of the app.
type Day struct {
	Timings   window.Timings
	Timezone  string // IANA identifier
	HijriDate string // "10 Ramadan 1447 AH"
	Gregorian string // "10-03-2026"
}

// FetchByCoordinates fetches one day's timings for the given coordinates.
// method and school use the API defaults when negative.
func (c *Client) FetchByCoordinates(date time.Time, lat, lon float64, method, school int) (*Day, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	addCalcParams(params, method, school)

	endpoint := fmt.Sprintf("%s/timings/%s", c.BaseURL, date.Format("02-01-2006"))
	return c.fetchDay(endpoint, params)
}

// FetchByCity fetches one day's timings for a city and country.
func (c *Client) FetchByCity(date time.Time, city, country string, method, school int) (*Day, error) {
	params := url.Values{}
	params.Set("city", city)
	params.Set("country", country)
	addCalcParams(params, method, school)

	endpoint := fmt.Sprintf("%s/timingsByCity/%s", c.BaseURL, date.Format("02-01-2006"))
	return c.fetchDay(endpoint, params)
}

// FetchPair fetches the given date and the following day in one call pair.
// The next day is needed to close Isha's window and derive the night times.
func (c *Client) FetchPair(date time.Time, lat, lon float64, method, school int) (today, tomorrow *Day, err error) {
	today, err = c.FetchByCoordinates(date, lat, lon, method, school)
	if err != nil {
		return nil, nil, err
	}
	tomorrow, err = c.FetchByCoordinates(date.AddDate(0, 0, 1), lat, lon, method, school)
	if err != nil {
		return nil, nil, err
	}
	return today, tomorrow, nil
}

func addCalcParams(params url.Values, method, school int) {
	if method >= 0 {
		params.Set("method", fmt.Sprintf("%d", method))
	}
	if school >= 0 {
		params.Set("school", fmt.Sprintf("%d", school))
	}
}

func (c *Client) fetchDay(endpoint string, params url.Values) (*Day, error) {
	resp, err := c.httpClient.Get(fmt.Sprintf("%s?%s", endpoint, params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}
	if apiResp.Code != 200 {
		return nil, fmt.Errorf("API error: code=%d status=%s", apiResp.Code, apiResp.Status)
	}

	d := apiResp.Data
	return &Day{
		Timings: window.Timings{
			Fajr:    d.Timings.Fajr,
			Sunrise: d.Timings.Sunrise,
			Dhuhr:   d.Timings.Dhuhr,
			Asr:     d.Timings.Asr,
			Maghrib: d.Timings.Maghrib,
			Sunset:  d.Timings.Sunset,
			Isha:    d.Timings.Isha,
		},
		Timezone:  d.Meta.Timezone,
		HijriDate: d.Date.Hijri.format(),
		Gregorian: d.Date.Gregorian.Date,
	}, nil
}
