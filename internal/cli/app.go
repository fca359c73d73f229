package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aalrahma/salah-watch/internal/api"
	"github.com/aalrahma/salah-watch/internal/cache"
	"github.com/aalrahma/salah-watch/internal/config"
	"github.com/aalrahma/salah-watch/internal/geo"
	"github.com/aalrahma/salah-watch/internal/store"
	"github.com/aalrahma/salah-watch/internal/window"
)

const civilDateLayout = "2006-01-02"

// resolvedLocation holds the result of location resolution.
type resolvedLocation struct {
	Lat, Lon float64
	City     string
	Country  string
	Timezone string // optional hint from geo-detection
	ByCity   bool   // query the API by city/country instead of coordinates
}

// app bundles the wired collaborators for one command run.
type app struct {
	cfg    *config.Config
	kv     *store.Store
	client *api.Client
	cache  *cache.Cache
	loc    resolvedLocation
}

// newApp resolves the location, opens the state store (falling back to an
// in-memory store when the database is unavailable), and binds the timing
// cache to the resolved parameters.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg := effectiveConfig(cmd)

	loc, err := resolveLocation(cfg)
	if err != nil {
		return nil, err
	}

	statePath := cfg.StatePath
	if statePath == "" {
		statePath, err = store.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	kv, err := store.Open(statePath)
	if err != nil {
		log.Warn().Err(err).Msg("state database unavailable, reminders will not deduplicate across restarts")
		kv = store.OpenMemory()
	}

	return &app{
		cfg:    cfg,
		kv:     kv,
		client: api.NewClient(),
		cache:  cache.New(kv, loc.Lat, loc.Lon, cfg.Method, cfg.School),
		loc:    loc,
	}, nil
}

func (a *app) close() {
	if err := a.kv.Close(); err != nil {
		log.Warn().Err(err).Msg("cannot close state database")
	}
}

// resolveLocation applies the priority: explicit coordinates > city/country
// > IP auto-detection.
func resolveLocation(cfg *config.Config) (resolvedLocation, error) {
	if cfg.Latitude != 0 || cfg.Longitude != 0 {
		return resolvedLocation{Lat: cfg.Latitude, Lon: cfg.Longitude}, nil
	}
	if cfg.City != "" {
		return resolvedLocation{City: cfg.City, Country: cfg.Country, ByCity: true}, nil
	}

	detected, err := geo.Detect()
	if err != nil {
		return resolvedLocation{}, fmt.Errorf("no location configured and auto-detection failed: %w", err)
	}
	return resolvedLocation{
		Lat:      detected.Latitude,
		Lon:      detected.Longitude,
		City:     detected.City,
		Country:  detected.Country,
		Timezone: detected.Timezone,
	}, nil
}

// location returns the timezone the civil day is resolved in, preferring
// the provider's answer, then the geo hint, then the host's local zone.
func (a *app) location(providerTZ string) *time.Location {
	return geo.Zone(providerTZ, a.loc.Timezone)
}

// fetchDay fetches one civil day from the provider.
func (a *app) fetchDay(date time.Time) (*api.Day, error) {
	if a.loc.ByCity {
		return a.client.FetchByCity(date, a.loc.City, a.loc.Country, a.cfg.Method, a.cfg.School)
	}
	return a.client.FetchByCoordinates(date, a.loc.Lat, a.loc.Lon, a.cfg.Method, a.cfg.School)
}

// ensureDayPair makes sure today's and tomorrow's tables are cached for the
// civil date resolved in the location's timezone, fetching on miss. It
// returns today's entry, tomorrow's entry, and the resolved timezone.
func (a *app) ensureDayPair(now time.Time) (cache.DayTimings, cache.DayTimings, *time.Location, error) {
	// First pass with whatever timezone hint we have; corrected below once
	// the provider tells us the authoritative zone.
	tz := a.location("")
	civil := now.In(tz).Format(civilDateLayout)
	a.cache.InvalidateIfStale(civil)

	today, okToday := a.cache.Day(civil)
	if okToday {
		tz = a.location(today.Timezone)
		civil = now.In(tz).Format(civilDateLayout)
		today, okToday = a.cache.Day(civil)
	}
	if !okToday {
		fetched, err := a.fetchDay(now.In(tz))
		if err != nil {
			return cache.DayTimings{}, cache.DayTimings{}, nil, fmt.Errorf("failed to fetch prayer times: %w", err)
		}
		tz = a.location(fetched.Timezone)
		civil = now.In(tz).Format(civilDateLayout)
		today = cache.DayTimings{
			Date:     civil,
			Timings:  fetched.Timings,
			Timezone: fetched.Timezone,
			Hijri:    fetched.HijriDate,
		}
		if err := a.cache.Put(today); err != nil {
			log.Warn().Err(err).Msg("cannot cache today's timings")
		}
	}

	nextCivil := nextDate(civil)
	tomorrow, ok := a.cache.Day(nextCivil)
	if !ok {
		fetched, err := a.fetchDay(now.In(tz).AddDate(0, 0, 1))
		if err != nil {
			// Degraded mode: the window calculator falls back to
			// approximated night times.
			log.Warn().Err(err).Msg("failed to fetch tomorrow's timings, night times will be approximate")
			return today, cache.DayTimings{}, tz, nil
		}
		tomorrow = cache.DayTimings{
			Date:     nextCivil,
			Timings:  fetched.Timings,
			Timezone: fetched.Timezone,
			Hijri:    fetched.HijriDate,
		}
		if err := a.cache.Put(today, tomorrow); err != nil {
			log.Warn().Err(err).Msg("cannot cache tomorrow's timings")
		}
	}

	return today, tomorrow, tz, nil
}

// currentWindows computes the window list and resolution for "now".
func (a *app) currentWindows() ([]window.Window, window.Resolution, time.Time, error) {
	now := time.Now()
	windows, _, tz, err := a.currentWindowsAt(now)
	if err != nil {
		return nil, window.Resolution{}, now, err
	}
	now = now.In(tz)
	return windows, window.Resolve(windows, now), now, nil
}

// currentWindowsAt computes the window list for an arbitrary instant and
// reports the timezone the civil day was resolved in.
func (a *app) currentWindowsAt(now time.Time) ([]window.Window, window.Result, *time.Location, error) {
	today, tomorrow, tz, err := a.ensureDayPair(now)
	if err != nil {
		return nil, window.Result{}, nil, err
	}

	result, err := window.Compute(today.Timings, tomorrow.Timings.Fajr, now.In(tz))
	if err != nil {
		return nil, window.Result{}, nil, err
	}
	if result.Degraded {
		log.Debug().Msg("window list degraded: next-day fajr unavailable")
	}
	return result.Windows, result, tz, nil
}

// nextDate advances a "YYYY-MM-DD" civil date string by one day.
func nextDate(date string) string {
	t, err := time.Parse(civilDateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, 1).Format(civilDateLayout)
}
