package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalrahma/salah-watch/internal/display"
	"github.com/aalrahma/salah-watch/internal/window"
)

func newWindowsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "windows",
		Short: "Show today's prayer and forbidden-time windows",
		Long: `Show the full list of today's time windows: the five prayers, the
optional prayer windows (tahajjud, ishraq, chasht, awwabin) and the
forbidden times during which voluntary prayer is disliked.`,
		RunE: runWindows,
	}
}

// windowJSON is the machine-readable shape emitted with --json.
type windowJSON struct {
	Name    string `json:"name"`
	Display string `json:"display"`
	Kind    string `json:"kind"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Status  string `json:"status"`
}

type windowsJSON struct {
	Date      string       `json:"date"`
	Hijri     string       `json:"hijri,omitempty"`
	Windows   []windowJSON `json:"windows"`
	Current   string       `json:"current,omitempty"`
	Next      string       `json:"next,omitempty"`
	Progress  float64      `json:"progress"`
	Remaining string       `json:"remaining,omitempty"`
}

func runWindows(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	windows, res, now, err := a.currentWindows()
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printWindowsJSON(cmd, a, windows, res, now)
	}

	format := a.cfg.GoTimeFormat()
	civil := now.Format(civilDateLayout)
	if day, ok := a.cache.Day(civil); ok && day.Hijri != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n\n", display.Bold(civil), display.Dim(day.Hijri))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", display.Bold(civil))
	}
	fmt.Fprint(cmd.OutOrStdout(), display.WindowTable(windows, format))
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", display.Countdown(res, format))
	return nil
}

func printWindowsJSON(cmd *cobra.Command, a *app, windows []window.Window, res window.Resolution, now time.Time) error {
	out := windowsJSON{
		Date:     now.Format(civilDateLayout),
		Progress: res.Progress,
	}
	if day, ok := a.cache.Day(out.Date); ok {
		out.Hijri = day.Hijri
	}
	for _, w := range windows {
		out.Windows = append(out.Windows, windowJSON{
			Name:    string(w.Name),
			Display: w.Name.Display(),
			Kind:    w.Kind.String(),
			Start:   w.Start.Format(time.RFC3339),
			End:     w.End.Format(time.RFC3339),
			Status:  w.Status.String(),
		})
	}
	if res.Current != nil {
		out.Current = string(res.Current.Name)
		out.Remaining = res.Remaining.String()
	}
	if res.Next != nil {
		out.Next = string(res.Next.Name)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
