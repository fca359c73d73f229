// Package driver is the heartbeat: a repeating tick that resolves the
// window list against the live clock, feeds the notification scheduler, and
// detects civil-day rollover to request fresh provider data.
package driver

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aalrahma/salah-watch/internal/notify"
	"github.com/aalrahma/salah-watch/internal/schedule"
	"github.com/aalrahma/salah-watch/internal/window"
)

const civilDateLayout = "2006-01-02"

// Source supplies the timing table for a civil date. ok is false while no
// data is available (for example a fetch still in flight); the driver then
// skips that tick instead of blocking.
type Source interface {
	Timings(date string) (timings window.Timings, nextDayFajr string, ok bool)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(date string) (window.Timings, string, bool)

// Timings calls the wrapped function.
func (f SourceFunc) Timings(date string) (window.Timings, string, bool) {
	return f(date)
}

// Driver runs the recurring tick. Construct it, set the optional fields,
// then call Run; Run returns when the context is cancelled and no further
// ticks happen after that.
type Driver struct {
	Source    Source
	Scheduler *schedule.Scheduler
	Notifier  notify.Notifier
	// Location is the timezone the civil day is resolved in. Defaults to
	// the host's local timezone.
	Location *time.Location
	// Period between ticks. Defaults to one second; the trigger intervals
	// are one minute wide, so anything above that risks missed reminders.
	Period time.Duration
	// Now is the clock, overridable for tests.
	Now func() time.Time
	// OnRollover is invoked when the civil date changes between ticks,
	// typically to refetch provider data.
	OnRollover func(date string)
	// OnResolve receives every tick's resolution, typically for display.
	OnResolve func(res window.Resolution, windows []window.Window)

	lastDate string
}

// Run ticks until ctx is cancelled. The first tick happens immediately.
func (d *Driver) Run(ctx context.Context) error {
	period := d.Period
	if period <= 0 {
		period = time.Second
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	d.step()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("tick driver stopped")
			return ctx.Err()
		case <-ticker.C:
			d.step()
		}
	}
}

// step runs one tick. The civil date is recomputed from the clock every
// time so a tick landing exactly on the midnight boundary cannot act on a
// stale date.
func (d *Driver) step() {
	now := d.now()
	date := now.Format(civilDateLayout)

	if d.lastDate != "" && d.lastDate != date {
		log.Info().Str("from", d.lastDate).Str("to", date).Msg("civil day rolled over")
		if d.OnRollover != nil {
			d.OnRollover(date)
		}
	}
	d.lastDate = date

	timings, nextFajr, ok := d.Source.Timings(date)
	if !ok {
		// Data not here yet; skip this tick rather than block.
		return
	}

	res, err := window.Compute(timings, nextFajr, now)
	if err != nil {
		log.Error().Err(err).Msg("cannot compute windows")
		return
	}
	if res.Degraded {
		log.Debug().Msg("window list degraded: next-day fajr unavailable")
	}

	resolution := window.Resolve(res.Windows, now)
	if d.OnResolve != nil {
		d.OnResolve(resolution, res.Windows)
	}

	if d.Scheduler != nil {
		for _, f := range d.Scheduler.Tick(res.Windows, now) {
			log.Info().Str("key", f.Key).Msg("reminder trigger")
			if d.Notifier != nil {
				d.Notifier.Show(f.Title, f.Body)
			}
		}
	}
}

func (d *Driver) now() time.Time {
	var now time.Time
	if d.Now != nil {
		now = d.Now()
	} else {
		now = time.Now()
	}
	if d.Location != nil {
		now = now.In(d.Location)
	}
	return now
}
