package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aalrahma/salah-watch/internal/notify"
	"github.com/aalrahma/salah-watch/internal/schedule"
	"github.com/aalrahma/salah-watch/internal/window"
)

func newModeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mode",
		Short: "Show or change the notification mode",
		Long: `The notification mode controls which windows fire reminders:

  off         no reminders
  obligatory  the five daily prayers only
  all         obligatory and optional windows (never forbidden times)

The mode is stored in the state database and picked up by "watch".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			sched := schedule.New(a.kv)
			fmt.Fprintln(cmd.OutOrStdout(), sched.Mode())
			return nil
		},
	}
	cmd.AddCommand(newModeSetCmd())
	return cmd
}

func newModeSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <off|obligatory|all>",
		Short: "Set the notification mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := schedule.ParseMode(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			sched := schedule.New(a.kv)
			if a.cfg.Push.Enabled() {
				push := notify.NewPushClient(a.cfg.Push.Token, a.cfg.Push.User)
				if a.cfg.Push.URL != "" {
					push.BaseURL = a.cfg.Push.URL
				}
				sched.SetPush(push)
			}

			// Best-effort window list so scheduled push reminders can be
			// cancelled and rebuilt under the new mode. A fetch failure
			// only defers that to the next watch tick.
			var windows []window.Window
			now := time.Now()
			if w, _, tz, err := a.currentWindowsAt(now); err == nil {
				windows = w
				now = now.In(tz)
			} else {
				log.Warn().Err(err).Msg("cannot resolve windows, push reminders will rebuild on next watch")
			}

			if err := sched.SetMode(mode, windows, now); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "notification mode set to %s\n", mode)
			return nil
		},
	}
}
