// Package geo auto-detects the user's location from their public IP when
// coordinates and city are both unconfigured, and resolves the working
// timezone from whatever hints the providers supply.
package geo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Location holds geographic coordinates detected from the user's IP.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
}

// apiResponse maps the ip-api.com payload.
type apiResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Timezone string  `json:"timezone"`
}

// detectURL is a variable (not a constant) so tests can override it with an
// httptest server URL.
var detectURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone"

// Detect determines the user's location from their public IP using
// ip-api.com, a free service that requires no API key.
func Detect() (*Location, error) {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(detectURL)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}
	if result.Status != "success" {
		return nil, fmt.Errorf("geolocation failed: %s", result.Message)
	}

	log.Debug().
		Float64("lat", result.Lat).
		Float64("lon", result.Lon).
		Str("city", result.City).
		Msg("location auto-detected")

	return &Location{
		Latitude:  result.Lat,
		Longitude: result.Lon,
		City:      result.City,
		Country:   result.Country,
		Timezone:  result.Timezone,
	}, nil
}

// Zone resolves a timezone from a list of IANA name hints, most
// authoritative first (typically the timing provider's answer, then the
// detected location's). Empty hints are skipped, unloadable ones logged,
// and the host's local zone is the final fallback.
func Zone(hints ...string) *time.Location {
	for _, name := range hints {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
		log.Warn().Str("timezone", name).Msg("cannot load timezone, trying fallback")
	}
	return time.Local
}
