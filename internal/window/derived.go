package window

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// DerivedTimes holds the night times that the timing provider does not return
// directly. Both are wall-clock HH:MM strings in the location's timezone.
type DerivedTimes struct {
	// IslamicMidnight is the temporal midpoint between Maghrib and the next
	// day's Fajr. It closes the Isha window.
	IslamicMidnight string
	// TahajjudStart is the start of the last third of the night. Empty when
	// it cannot be computed (no Maghrib available).
	TahajjudStart string
	// Approximate is true when the next day's Fajr was unavailable and fixed
	// fallback offsets were used instead of the real night duration.
	Approximate bool
}

// ComputeDerived computes the Islamic-midnight and last-third-of-night times
// from Maghrib and the next day's Fajr (both "HH:MM").
//
// When nextFajr is empty, Islamic midnight falls back to Maghrib + 6h and the
// last third to Maghrib + 4h. When even Maghrib is empty, midnight defaults
// to "00:00" and the last third is not computable.
func ComputeDerived(maghrib, nextFajr string) (DerivedTimes, error) {
	if maghrib == "" {
		return DerivedTimes{IslamicMidnight: "00:00", Approximate: true}, nil
	}

	m, err := ClockMinutes(maghrib)
	if err != nil {
		return DerivedTimes{}, fmt.Errorf("invalid maghrib time: %w", err)
	}

	if nextFajr == "" {
		return DerivedTimes{
			IslamicMidnight: formatClock((m + 6*60) % minutesPerDay),
			TahajjudStart:   formatClock((m + 4*60) % minutesPerDay),
			Approximate:     true,
		}, nil
	}

	f, err := ClockMinutes(nextFajr)
	if err != nil {
		return DerivedTimes{}, fmt.Errorf("invalid next-day fajr time: %w", err)
	}
	// Express next-day Fajr as minutes after tonight's Maghrib.
	f += minutesPerDay

	night := f - m
	return DerivedTimes{
		IslamicMidnight: formatClock(roundDiv(m+f, 2) % minutesPerDay),
		TahajjudStart:   formatClock((m + roundDiv(night*2, 3)) % minutesPerDay),
	}, nil
}

// ClockMinutes parses an "HH:MM" wall-clock string into minutes since
// midnight. A trailing timezone suffix like " (BST)" is stripped, matching
// what the Al Adhan API sometimes appends.
func ClockMinutes(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format: %q", raw)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	min, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return 0, fmt.Errorf("time out of range: %q", raw)
	}

	return hour*60 + min, nil
}

// formatClock renders minutes-since-midnight as a zero-padded "HH:MM".
func formatClock(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// roundDiv divides a by b rounding half up.
func roundDiv(a, b int) int {
	return (a + b/2) / b
}
