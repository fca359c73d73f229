package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/aalrahma/salah-watch/internal/window"
)

// WindowTable renders the full window list as an aligned text table, with
// the active window highlighted.
func WindowTable(windows []window.Window, timeFormat string) string {
	headers := []string{"Window", "Kind", "Starts", "Ends", "Status"}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}

	rows := make([][]string, 0, len(windows))
	for _, w := range windows {
		row := []string{
			w.Name.Display(),
			w.Kind.String(),
			w.Start.Format(timeFormat),
			w.End.Format(timeFormat),
			w.Status.String(),
		}
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
		rows = append(rows, row)
	}

	var sb strings.Builder
	sb.WriteString("  " + Bold(formatRow(headers, widths)) + "\n")

	sepParts := make([]string, len(widths))
	for i, w := range widths {
		sepParts[i] = strings.Repeat("─", w)
	}
	sb.WriteString(Dim("  "+strings.Join(sepParts, "  ")) + "\n")

	for i, row := range rows {
		line := formatRow(row, widths)
		switch {
		case windows[i].Status == window.StatusActive:
			line = Green(line)
		case windows[i].Kind == window.KindForbidden:
			line = Red(line)
		case windows[i].Kind == window.KindOptional:
			line = Yellow(line)
		case windows[i].Status == window.StatusPassed:
			line = Dim(line)
		}
		sb.WriteString("  " + line + "\n")
	}
	return sb.String()
}

// ProgressBar renders a fixed-width bar for a 0-100 percentage.
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		width = 20
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Countdown renders the live header line: active window with progress, or
// the upcoming window with time remaining.
func Countdown(res window.Resolution, timeFormat string) string {
	switch {
	case res.Current != nil:
		return fmt.Sprintf("%s %s %s left",
			Accent(res.Current.Name.Display()),
			ProgressBar(res.Progress, 20),
			FormatRemaining(res.Remaining))
	case res.Next != nil:
		return fmt.Sprintf("%s at %s (in %s)",
			Accent(res.Next.Name.Display()),
			res.Next.Start.Format(timeFormat),
			FormatRemaining(res.Remaining))
	default:
		return Dim("no timing data")
	}
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" under an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// formatRow pads each cell to its column width.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}
