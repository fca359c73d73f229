package window

import (
	"fmt"
	"time"
)

// Timings is one civil day's canonical timing table from the provider.
// All fields are location-local "HH:MM" wall-clock strings.
type Timings struct {
	Fajr    string `json:"fajr"`
	Sunrise string `json:"sunrise"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Sunset  string `json:"sunset"`
	Isha    string `json:"isha"`
}

// Window is a named interval of the civil day. Start and End are absolute
// instants in the location's timezone, not wall-clock strings.
type Window struct {
	Name   Name
	Kind   Kind
	Start  time.Time
	End    time.Time
	Status Status
}

// Duration returns the window's total length.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Result is the output of one computation pass.
type Result struct {
	// Windows is the full window list in canonical order.
	Windows []Window
	// Degraded is true when the next day's Fajr was unavailable and the
	// night times were approximated from Maghrib alone.
	Degraded bool
}

// Compute builds the full window list for now's civil day from a timing
// table and the next day's Fajr ("HH:MM", may be empty). The windows are
// anchored to now's civil date in now's location, so callers must pass a
// "now" already shifted into the timing table's timezone.
//
// Malformed time strings are an error; a missing next-day Fajr only degrades
// the night windows.
func Compute(t Timings, nextDayFajr string, now time.Time) (Result, error) {
	loc := now.Location()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	anchors := map[Name]struct{ raw, field string }{
		NameFajr:    {t.Fajr, "fajr"},
		NameDhuhr:   {t.Dhuhr, "dhuhr"},
		NameAsr:     {t.Asr, "asr"},
		NameMaghrib: {t.Maghrib, "maghrib"},
		NameIsha:    {t.Isha, "isha"},
	}
	parsed := make(map[Name]time.Time, len(anchors))
	for name, a := range anchors {
		at, err := clockOn(day, a.raw)
		if err != nil {
			return Result{}, fmt.Errorf("timing table %s: %w", a.field, err)
		}
		parsed[name] = at
	}
	sunrise, err := clockOn(day, t.Sunrise)
	if err != nil {
		return Result{}, fmt.Errorf("timing table sunrise: %w", err)
	}
	sunset, err := clockOn(day, t.Sunset)
	if err != nil {
		return Result{}, fmt.Errorf("timing table sunset: %w", err)
	}

	derived, err := ComputeDerived(t.Maghrib, nextDayFajr)
	if err != nil {
		return Result{}, err
	}

	fajr := parsed[NameFajr]
	dhuhr := parsed[NameDhuhr]
	asr := parsed[NameAsr]
	maghrib := parsed[NameMaghrib]
	isha := parsed[NameIsha]

	windows := make([]Window, 0, len(CanonicalOrder))

	// Tahajjud refers to the upcoming pre-dawn period. When now is in the
	// evening, both bounds roll forward one civil day.
	if derived.TahajjudStart != "" {
		start, err := clockOn(day, derived.TahajjudStart)
		if err != nil {
			return Result{}, fmt.Errorf("tahajjud start: %w", err)
		}
		end := fajr.Add(-1 * time.Minute)
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}
		if now.Hour() >= 18 {
			start = start.AddDate(0, 0, 1)
			end = end.AddDate(0, 0, 1)
		}
		windows = append(windows, makeWindow(NameTahajjud, start, end, now))
	}

	midnight, err := clockOn(day, derived.IslamicMidnight)
	if err != nil {
		return Result{}, fmt.Errorf("islamic midnight: %w", err)
	}
	// Islamic midnight usually lands after the civil midnight.
	if !midnight.After(isha) {
		midnight = midnight.AddDate(0, 0, 1)
	}

	fixed := []struct {
		name       Name
		start, end time.Time
	}{
		{NameFajr, fajr, sunrise},
		{NameForbiddenSunrise, sunrise, sunrise.Add(15 * time.Minute)},
		{NameIshraq, sunrise.Add(20 * time.Minute), sunrise.Add(99 * time.Minute)},
		{NameChasht, sunrise.Add(100 * time.Minute), dhuhr.Add(-16 * time.Minute)},
		{NameZawal, dhuhr.Add(-15 * time.Minute), dhuhr.Add(-1 * time.Minute)},
		{NameDhuhr, dhuhr, asr},
		{NameAsr, asr, sunset.Add(-15 * time.Minute)},
		{NameForbiddenSunset, sunset.Add(-15 * time.Minute), maghrib},
		{NameMaghrib, maghrib, maghrib.Add(25 * time.Minute)},
		{NameAwwabin, maghrib.Add(25 * time.Minute), isha},
		{NameIsha, isha, midnight},
	}
	for _, f := range fixed {
		windows = append(windows, makeWindow(f.name, f.start, f.end, now))
	}

	return Result{Windows: windows, Degraded: derived.Approximate}, nil
}

// makeWindow assembles a window with its kind and status resolved.
func makeWindow(name Name, start, end, now time.Time) Window {
	return Window{
		Name:   name,
		Kind:   KindOf(name),
		Start:  start,
		End:    end,
		Status: statusAt(start, end, now),
	}
}

// statusAt applies the active/upcoming/passed rule.
func statusAt(start, end, now time.Time) Status {
	switch {
	case !now.Before(start) && now.Before(end):
		return StatusActive
	case now.Before(start):
		return StatusUpcoming
	default:
		return StatusPassed
	}
}

// clockOn places an "HH:MM" string on the given civil day. Built with
// time.Date rather than duration arithmetic so DST transitions keep the
// wall-clock reading.
func clockOn(day time.Time, raw string) (time.Time, error) {
	mins, err := ClockMinutes(raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), mins/60, mins%60, 0, 0, day.Location()), nil
}
