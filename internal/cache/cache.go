// Package cache keeps fetched timing tables keyed by civil date so the app
// survives offline ticks and avoids refetching on every run. Entries live in
// the persistent store under a single JSON envelope and are invalidated as a
// unit when the resolved "today" (in the location's timezone) no longer
// matches the cached date, or when the location/method parameters change.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/aalrahma/salah-watch/internal/store"
	"github.com/aalrahma/salah-watch/internal/window"
)

const envelopeVersion = 1

// KV is the slice of the persistent store the cache needs.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// DayTimings is one cached civil day.
type DayTimings struct {
	Date     string         `json:"date"` // YYYY-MM-DD in the location's timezone
	Timings  window.Timings `json:"timings"`
	Timezone string         `json:"timezone"` // IANA identifier from the provider
	Hijri    string         `json:"hijri,omitempty"`
}

// envelope is the stored multi-day blob.
type envelope struct {
	Version int                   `json:"version"`
	Params  string                `json:"params"` // hash of location/method/school
	Days    map[string]DayTimings `json:"days"`
}

// Cache is a civil-date-keyed timing cache over the persistent store.
type Cache struct {
	kv     KV
	params string
}

// New creates a cache bound to the given request parameters. Different
// locations, methods, or schools never share entries.
func New(kv KV, lat, lon float64, method, school int) *Cache {
	return &Cache{kv: kv, params: paramsKey(lat, lon, method, school)}
}

// paramsKey builds a deterministic hash of everything that affects timings.
func paramsKey(lat, lon float64, method, school int) string {
	raw := fmt.Sprintf("%.6f|%.6f|%d|%d", lat, lon, method, school)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8])
}

// Day returns the cached timings for a civil date, if present and valid.
func (c *Cache) Day(date string) (DayTimings, bool) {
	env, ok := c.load()
	if !ok {
		return DayTimings{}, false
	}
	d, ok := env.Days[date]
	return d, ok
}

// Put stores one or more days and records the first day's date as the cache
// anchor date.
func (c *Cache) Put(days ...DayTimings) error {
	if len(days) == 0 {
		return nil
	}

	env, ok := c.load()
	if !ok {
		env = envelope{Version: envelopeVersion, Params: c.params, Days: map[string]DayTimings{}}
	}
	for _, d := range days {
		env.Days[d.Date] = d
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("cannot marshal timing cache: %w", err)
	}
	if err := c.kv.Set(store.KeyMultiDayCache, string(data)); err != nil {
		return err
	}
	return c.kv.Set(store.KeyCacheDate, days[0].Date)
}

// AnchorDate returns the civil date the cache was last anchored to.
func (c *Cache) AnchorDate() string {
	date, _ := c.kv.Get(store.KeyCacheDate)
	return date
}

// InvalidateIfStale clears the cache when its anchor date no longer matches
// today. Reports whether an invalidation happened.
func (c *Cache) InvalidateIfStale(today string) bool {
	anchor := c.AnchorDate()
	if anchor == "" || anchor == today {
		return false
	}

	log.Info().Str("cached", anchor).Str("today", today).Msg("timing cache rolled over, invalidating")
	c.clear()
	return true
}

// load reads and validates the stored envelope. Schema or parameter
// mismatches drop the whole blob; stale data for another location is worse
// than a refetch.
func (c *Cache) load() (envelope, bool) {
	raw, ok := c.kv.Get(store.KeyMultiDayCache)
	if !ok {
		return envelope{}, false
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		log.Warn().Err(err).Msg("corrupt timing cache, discarding")
		c.clear()
		return envelope{}, false
	}
	if env.Version != envelopeVersion || env.Params != c.params || env.Days == nil {
		c.clear()
		return envelope{}, false
	}
	return env, true
}

func (c *Cache) clear() {
	_ = c.kv.Delete(store.KeyMultiDayCache)
	_ = c.kv.Delete(store.KeyCacheDate)
}
