package window

import (
	"testing"
	"time"
)

// sampleTimings is the reference timing table used across the tests.
func sampleTimings() Timings {
	return Timings{
		Fajr:    "05:00",
		Sunrise: "06:15",
		Dhuhr:   "12:00",
		Asr:     "15:30",
		Maghrib: "18:00",
		Sunset:  "17:45",
		Isha:    "19:15",
	}
}

const sampleNextFajr = "05:05"

// at builds an instant on the test's civil day (2026-03-10, UTC).
func at(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func mustCompute(t *testing.T, now time.Time) []Window {
	t.Helper()
	res, err := Compute(sampleTimings(), sampleNextFajr, now)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	return res.Windows
}

func findWindow(t *testing.T, windows []Window, name Name) Window {
	t.Helper()
	for _, w := range windows {
		if w.Name == name {
			return w
		}
	}
	t.Fatalf("window %q not found", name)
	return Window{}
}

func TestCompute_CompletenessAndOrder(t *testing.T) {
	windows := mustCompute(t, at(10, 0))

	if len(windows) != len(CanonicalOrder) {
		t.Fatalf("expected %d windows, got %d", len(CanonicalOrder), len(windows))
	}
	for i, w := range windows {
		if w.Name != CanonicalOrder[i] {
			t.Errorf("windows[%d].Name = %q, want %q", i, w.Name, CanonicalOrder[i])
		}
		if !w.Start.Before(w.End) {
			t.Errorf("window %q: start %v not before end %v", w.Name, w.Start, w.End)
		}
	}
}

func TestCompute_ExactBoundaries(t *testing.T) {
	windows := mustCompute(t, at(10, 0))

	tests := []struct {
		name       Name
		start, end time.Time
	}{
		{NameFajr, at(5, 0), at(6, 15)},
		{NameForbiddenSunrise, at(6, 15), at(6, 30)},
		{NameIshraq, at(6, 35), at(7, 54)},
		{NameChasht, at(7, 55), at(11, 44)},
		{NameZawal, at(11, 45), at(11, 59)},
		{NameDhuhr, at(12, 0), at(15, 30)},
		{NameAsr, at(15, 30), at(17, 30)},
		{NameForbiddenSunset, at(17, 30), at(18, 0)},
		{NameMaghrib, at(18, 0), at(18, 25)},
		{NameAwwabin, at(18, 25), at(19, 15)},
		// Islamic midnight: midpoint of 18:00 and 29:05 = 23:33 (rounded).
		{NameIsha, at(19, 15), at(23, 33)},
		// Last third: 18:00 + round(665*2/3) = 18:00 + 443m = 01:23.
		{NameTahajjud, at(1, 23), at(4, 59)},
	}

	for _, tt := range tests {
		w := findWindow(t, windows, tt.name)
		if !w.Start.Equal(tt.start) || !w.End.Equal(tt.end) {
			t.Errorf("%s: got [%s, %s), want [%s, %s)", tt.name,
				w.Start.Format("15:04"), w.End.Format("15:04"),
				tt.start.Format("15:04"), tt.end.Format("15:04"))
		}
	}
}

func TestCompute_Kinds(t *testing.T) {
	windows := mustCompute(t, at(10, 0))

	wantForbidden := map[Name]bool{
		NameForbiddenSunrise: true,
		NameForbiddenSunset:  true,
		NameZawal:            true,
	}
	wantPrayer := map[Name]bool{
		NameFajr: true, NameDhuhr: true, NameAsr: true,
		NameMaghrib: true, NameIsha: true,
	}

	for _, w := range windows {
		switch {
		case wantForbidden[w.Name]:
			if w.Kind != KindForbidden {
				t.Errorf("%s: kind = %v, want forbidden", w.Name, w.Kind)
			}
		case wantPrayer[w.Name]:
			if w.Kind != KindPrayer {
				t.Errorf("%s: kind = %v, want prayer", w.Name, w.Kind)
			}
		default:
			if w.Kind != KindOptional {
				t.Errorf("%s: kind = %v, want optional", w.Name, w.Kind)
			}
		}
	}
}

func TestCompute_TahajjudEveningShift(t *testing.T) {
	// At 20:00 Tahajjud must refer to tonight's pre-dawn window, one civil
	// day ahead of the timing table's date.
	windows := mustCompute(t, at(20, 0))
	tahajjud := findWindow(t, windows, NameTahajjud)

	wantStart := at(1, 23).AddDate(0, 0, 1)
	if !tahajjud.Start.Equal(wantStart) {
		t.Errorf("evening tahajjud start = %v, want %v", tahajjud.Start, wantStart)
	}
	if tahajjud.Status != StatusUpcoming {
		t.Errorf("evening tahajjud status = %v, want upcoming", tahajjud.Status)
	}

	// In the morning it stays on the current civil day.
	morning := mustCompute(t, at(3, 0))
	if got := findWindow(t, morning, NameTahajjud); !got.Start.Equal(at(1, 23)) {
		t.Errorf("morning tahajjud start = %v, want %v", got.Start, at(1, 23))
	}
}

func TestCompute_AtMostOneActive(t *testing.T) {
	// Sweep the whole day in 5-minute steps; the offset rules must never
	// produce two simultaneously active windows.
	for mins := 0; mins < 24*60; mins += 5 {
		now := at(mins/60, mins%60)
		windows := mustCompute(t, now)

		active := 0
		for _, w := range windows {
			if w.Status == StatusActive {
				active++
			}
		}
		if active > 1 {
			t.Fatalf("at %s: %d active windows, want at most 1", now.Format("15:04"), active)
		}
	}
}

func TestCompute_StatusAssignment(t *testing.T) {
	windows := mustCompute(t, at(12, 30))

	tests := []struct {
		name Name
		want Status
	}{
		{NameFajr, StatusPassed},
		{NameZawal, StatusPassed},
		{NameDhuhr, StatusActive},
		{NameAsr, StatusUpcoming},
		{NameIsha, StatusUpcoming},
	}
	for _, tt := range tests {
		if got := findWindow(t, windows, tt.name); got.Status != tt.want {
			t.Errorf("%s: status = %v, want %v", tt.name, got.Status, tt.want)
		}
	}
}

func TestCompute_MissingNextFajrDegrades(t *testing.T) {
	res, err := Compute(sampleTimings(), "", at(10, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Degraded {
		t.Error("Degraded = false, want true when next-day fajr is missing")
	}
	// Fallback midnight is Maghrib + 6h = 00:00 next day.
	isha := findWindow(t, res.Windows, NameIsha)
	wantEnd := at(0, 0).AddDate(0, 0, 1)
	if !isha.End.Equal(wantEnd) {
		t.Errorf("degraded isha end = %v, want %v", isha.End, wantEnd)
	}
	// Fallback tahajjud start is Maghrib + 4h = 22:00; still present.
	findWindow(t, res.Windows, NameTahajjud)
}

func TestCompute_MalformedTiming(t *testing.T) {
	bad := sampleTimings()
	bad.Dhuhr = "25:99"
	if _, err := Compute(bad, sampleNextFajr, at(10, 0)); err == nil {
		t.Error("expected error for malformed dhuhr, got nil")
	}
}

func TestCompute_TimezoneAnchoring(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Riyadh")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, loc)

	res, err := Compute(sampleTimings(), sampleNextFajr, now)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	fajr := findWindow(t, res.Windows, NameFajr)
	if fajr.Start.Location() != loc {
		t.Errorf("fajr start location = %v, want %v", fajr.Start.Location(), loc)
	}
	if fajr.Start.Hour() != 5 || fajr.Start.Minute() != 0 {
		t.Errorf("fajr start = %s, want 05:00 local", fajr.Start.Format("15:04"))
	}
}
