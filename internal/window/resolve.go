package window

import "time"

// Resolution is the live view of the window list against a clock: what is
// active now, what comes next, and the countdown/progress numbers the UI
// renders.
type Resolution struct {
	Current *Window
	Next    *Window
	// Progress is the percentage of the current window already elapsed,
	// clamped to [0, 100]. Zero when no window is active.
	Progress float64
	// Remaining is the time left in the current window, or until the next
	// window starts when nothing is active. Never negative.
	Remaining time.Duration
}

// Resolve determines the current and next windows for "now".
//
// The scan follows canonical order, not chronological order. Windows that
// cross the civil midnight need no special arithmetic here because Start and
// End are absolute instants. An empty window list resolves to the zero value.
func Resolve(windows []Window, now time.Time) Resolution {
	if len(windows) == 0 {
		return Resolution{}
	}

	var res Resolution

	currentIdx := -1
	for i := range windows {
		if statusAt(windows[i].Start, windows[i].End, now) == StatusActive {
			currentIdx = i
			res.Current = &windows[i]
			break
		}
	}

	if res.Current != nil {
		total := res.Current.Duration()
		if total > 0 {
			elapsed := now.Sub(res.Current.Start)
			res.Progress = float64(elapsed) / float64(total) * 100
			if res.Progress > 100 {
				res.Progress = 100
			}
		}
		res.Remaining = res.Current.End.Sub(now)
		res.Next = nextAfter(windows, currentIdx, now)
	} else {
		res.Next = nextIdle(windows, now)
		if res.Next != nil {
			res.Remaining = res.Next.Start.Sub(now)
		}
	}

	if res.Remaining < 0 {
		res.Remaining = 0
	}
	return res
}

// nextAfter finds the first upcoming window after the current one in
// canonical order, falling back to Tahajjud and then tomorrow's Fajr.
func nextAfter(windows []Window, currentIdx int, now time.Time) *Window {
	for i := currentIdx + 1; i < len(windows); i++ {
		if now.Before(windows[i].Start) {
			return &windows[i]
		}
	}
	if t := tahajjudNext(windows, now); t != nil {
		return t
	}
	return tomorrowFajr(windows)
}

// nextIdle finds the next window when nothing is active: Tahajjud wins when
// its single rule applies, otherwise the first upcoming non-Tahajjud window
// in canonical order, otherwise tomorrow's Fajr.
func nextIdle(windows []Window, now time.Time) *Window {
	if t := tahajjudNext(windows, now); t != nil {
		return t
	}
	for i := range windows {
		if windows[i].Name == NameTahajjud {
			continue
		}
		if now.Before(windows[i].Start) {
			return &windows[i]
		}
	}
	return tomorrowFajr(windows)
}

// tahajjudNext applies the consolidated Tahajjud rule: Tahajjud is next iff
// now is after Isha's end and before Tahajjud's start. The start may already
// have rolled into the next civil day.
func tahajjudNext(windows []Window, now time.Time) *Window {
	var tahajjud, isha *Window
	for i := range windows {
		switch windows[i].Name {
		case NameTahajjud:
			tahajjud = &windows[i]
		case NameIsha:
			isha = &windows[i]
		}
	}
	if tahajjud == nil || isha == nil {
		return nil
	}
	if !now.Before(isha.End) && now.Before(tahajjud.Start) {
		return tahajjud
	}
	return nil
}

// tomorrowFajr returns a copy of the Fajr window advanced one civil day.
func tomorrowFajr(windows []Window) *Window {
	for i := range windows {
		if windows[i].Name != NameFajr {
			continue
		}
		w := windows[i]
		w.Start = w.Start.AddDate(0, 0, 1)
		w.End = w.End.AddDate(0, 0, 1)
		w.Status = StatusUpcoming
		return &w
	}
	return nil
}
