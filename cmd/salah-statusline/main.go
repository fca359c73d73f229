// salah-statusline prints a single line describing the current or next
// window, suitable for tmux, i3bar, and similar status bars. It exits
// after printing; the status bar re-runs it on its own interval.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/aalrahma/salah-watch/internal/api"
	"github.com/aalrahma/salah-watch/internal/cache"
	"github.com/aalrahma/salah-watch/internal/config"
	"github.com/aalrahma/salah-watch/internal/display"
	"github.com/aalrahma/salah-watch/internal/geo"
	"github.com/aalrahma/salah-watch/internal/store"
	"github.com/aalrahma/salah-watch/internal/window"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	latitude := flag.Float64("latitude", 0, "Latitude (overrides config)")
	longitude := flag.Float64("longitude", 0, "Longitude (overrides config)")
	city := flag.String("city", "", "City name (alternative to coordinates)")
	country := flag.String("country", "", "Country (used with --city)")
	method := flag.Int("method", -1, "Calculation method ID (0-23). -1 for API default.")
	school := flag.Int("school", -1, "Juristic school: 0=Shafi, 1=Hanafi. -1 for API default.")
	format := flag.String("format", "name-remaining", "Output format: name-remaining, name-time, remaining, full")
	timeFormat := flag.String("time-format", "", "Time format: 12h or 24h")
	statePath := flag.String("state-path", "", "State database path")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("salah-statusline %s\n", version)
		return
	}

	// Status bars capture stdout verbatim; keep log noise out of it.
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)

	if err := run(*latitude, *longitude, *city, *country, *method, *school, *format, *timeFormat, *statePath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(lat, lon float64, city, country string, method, school int, format, timeFmt, statePath string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{Method: -1, School: -1, TimeFormat: "24h"}
	}
	if lat != 0 || lon != 0 {
		cfg.Latitude, cfg.Longitude = lat, lon
		cfg.City, cfg.Country = "", ""
	}
	if city != "" {
		cfg.City, cfg.Country = city, country
		cfg.Latitude, cfg.Longitude = 0, 0
	}
	if method != -1 {
		cfg.Method = method
	}
	if school != -1 {
		cfg.School = school
	}
	if timeFmt != "" {
		cfg.TimeFormat = timeFmt
	}
	if statePath != "" {
		cfg.StatePath = statePath
	}

	byCity := cfg.City != "" && cfg.Latitude == 0 && cfg.Longitude == 0
	tzHint := ""
	if !byCity && cfg.Latitude == 0 && cfg.Longitude == 0 {
		detected, err := geo.Detect()
		if err != nil {
			return fmt.Errorf("no location specified and auto-detection failed: %w", err)
		}
		cfg.Latitude, cfg.Longitude = detected.Latitude, detected.Longitude
		tzHint = detected.Timezone
	}

	path := cfg.StatePath
	if path == "" {
		if path, err = store.DefaultPath(); err != nil {
			return err
		}
	}
	kv, err := store.Open(path)
	if err != nil {
		// Another instance may hold the database; skip caching.
		kv = store.OpenMemory()
	}
	defer kv.Close()
	c := cache.New(kv, cfg.Latitude, cfg.Longitude, cfg.Method, cfg.School)

	now := time.Now()
	today, nextFajr, tz, err := dayPair(c, cfg, byCity, tzHint, now)
	if err != nil {
		return err
	}
	now = now.In(tz)

	result, err := window.Compute(today.Timings, nextFajr, now)
	if err != nil {
		return err
	}
	res := window.Resolve(result.Windows, now)

	display.SetEnabled(false)
	fmt.Print(render(res, now, format, cfg.GoTimeFormat()))
	return nil
}

// dayPair returns today's cached or fetched timings, tomorrow's fajr, and
// the timezone the civil day resolves in.
func dayPair(c *cache.Cache, cfg *config.Config, byCity bool, tzHint string, now time.Time) (cache.DayTimings, string, *time.Location, error) {
	client := api.NewClient()
	fetch := func(date time.Time) (*api.Day, error) {
		if byCity {
			return client.FetchByCity(date, cfg.City, cfg.Country, cfg.Method, cfg.School)
		}
		return client.FetchByCoordinates(date, cfg.Latitude, cfg.Longitude, cfg.Method, cfg.School)
	}

	tz := geo.Zone(tzHint)
	civil := now.In(tz).Format("2006-01-02")
	c.InvalidateIfStale(civil)

	today, ok := c.Day(civil)
	if ok {
		tz = geo.Zone(today.Timezone)
		if rezoned := now.In(tz).Format("2006-01-02"); rezoned != civil {
			civil = rezoned
			today, ok = c.Day(civil)
		}
	}
	if !ok {
		fetched, err := fetch(now.In(tz))
		if err != nil {
			return cache.DayTimings{}, "", nil, fmt.Errorf("failed to fetch prayer times: %w", err)
		}
		tz = geo.Zone(fetched.Timezone)
		civil = now.In(tz).Format("2006-01-02")
		today = cache.DayTimings{
			Date:     civil,
			Timings:  fetched.Timings,
			Timezone: fetched.Timezone,
			Hijri:    fetched.HijriDate,
		}
		_ = c.Put(today)
	}

	nextCivil := now.In(tz).AddDate(0, 0, 1).Format("2006-01-02")
	tomorrow, ok := c.Day(nextCivil)
	if !ok {
		if fetched, err := fetch(now.In(tz).AddDate(0, 0, 1)); err == nil {
			tomorrow = cache.DayTimings{
				Date:     nextCivil,
				Timings:  fetched.Timings,
				Timezone: fetched.Timezone,
				Hijri:    fetched.HijriDate,
			}
			_ = c.Put(today, tomorrow)
		}
		// Fetch failure leaves nextFajr empty; the calculator degrades to
		// approximated night times.
	}
	return today, tomorrow.Timings.Fajr, tz, nil
}

// render formats the resolution for the status bar.
func render(res window.Resolution, now time.Time, format, goTimeFmt string) string {
	switch {
	case res.Current != nil:
		name := res.Current.Name.Display()
		switch format {
		case "name-time":
			return fmt.Sprintf("%s until %s", name, res.Current.End.Format(goTimeFmt))
		case "remaining":
			return display.FormatRemaining(res.Remaining)
		case "full":
			return fmt.Sprintf("%s %s left (ends %s)", name,
				display.FormatRemaining(res.Remaining), res.Current.End.Format(goTimeFmt))
		default: // name-remaining
			return fmt.Sprintf("%s %s", name, display.FormatRemaining(res.Remaining))
		}
	case res.Next != nil:
		name := res.Next.Name.Display()
		switch format {
		case "name-time", "full":
			return fmt.Sprintf("%s at %s", name, res.Next.Start.Format(goTimeFmt))
		case "remaining":
			return display.FormatRemaining(res.Next.Start.Sub(now))
		default:
			return fmt.Sprintf("%s in %s", name, display.FormatRemaining(res.Next.Start.Sub(now)))
		}
	default:
		return "--:--"
	}
}
