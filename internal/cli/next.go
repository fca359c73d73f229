package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalrahma/salah-watch/internal/display"
)

func newNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the current window and the next one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			_, res, _, err := a.currentWindows()
			if err != nil {
				return err
			}

			format := a.cfg.GoTimeFormat()
			fmt.Fprintln(cmd.OutOrStdout(), display.Countdown(res, format))
			return nil
		},
	}
}
