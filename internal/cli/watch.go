package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aalrahma/salah-watch/internal/display"
	"github.com/aalrahma/salah-watch/internal/driver"
	"github.com/aalrahma/salah-watch/internal/notify"
	"github.com/aalrahma/salah-watch/internal/schedule"
	"github.com/aalrahma/salah-watch/internal/window"
)

func newWatchCmd() *cobra.Command {
	var period time.Duration
	var quiet bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the live countdown and fire reminders",
		Long: `Watch runs a foreground loop that keeps the current window resolved
against the clock, prints a live countdown, and fires a reminder one
minute before a notifiable window starts and fifteen minutes before it
ends. Reminders respect the configured notification mode (see "mode")
and are deduplicated per day, surviving restarts through the state
database. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			return runWatch(cmd, a, period, quiet)
		},
	}
	cmd.Flags().DurationVar(&period, "period", time.Second, "tick period")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress the live countdown line")
	return cmd
}

// daySource serves the driver from the cache, refetching on rollover.
type daySource struct {
	app *app
	mu  sync.Mutex
}

func (s *daySource) Timings(date string) (window.Timings, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today, ok := s.app.cache.Day(date)
	if !ok {
		return window.Timings{}, "", false
	}
	var nextFajr string
	if tomorrow, ok := s.app.cache.Day(nextDate(date)); ok {
		nextFajr = tomorrow.Timings.Fajr
	}
	return today.Timings, nextFajr, true
}

// refresh fetches today's pair for the new civil date. Errors are logged,
// not fatal: the driver keeps skipping ticks until data arrives.
func (s *daySource) refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, _, err := s.app.ensureDayPair(time.Now()); err != nil {
		log.Error().Err(err).Msg("cannot refresh prayer times")
	}
}

func runWatch(cmd *cobra.Command, a *app, period time.Duration, quiet bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, _, tz, err := a.ensureDayPair(time.Now())
	if err != nil {
		return err
	}

	sched := schedule.New(a.kv)
	notifiers := notify.Multi{notify.LogNotifier{Logger: log.Logger}}
	if a.cfg.Push.Enabled() {
		push := notify.NewPushClient(a.cfg.Push.Token, a.cfg.Push.User)
		if a.cfg.Push.URL != "" {
			push.BaseURL = a.cfg.Push.URL
		}
		sched.SetPush(push)
		notifiers = append(notifiers, push)
		log.Info().Msg("push notifications enabled")
	}

	src := &daySource{app: a}
	format := a.cfg.GoTimeFormat()

	d := &driver.Driver{
		Source:    src,
		Scheduler: sched,
		Notifier:  notifiers,
		Location:  tz,
		Period:    period,
		OnRollover: func(string) {
			src.refresh()
		},
	}
	if !quiet {
		d.OnResolve = func(res window.Resolution, _ []window.Window) {
			fmt.Fprintf(cmd.OutOrStdout(), "\r\033[K%s", display.Countdown(res, format))
		}
	}

	log.Info().Str("mode", sched.Mode().String()).Dur("period", period).Msg("watch started")
	err = d.Run(ctx)
	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
