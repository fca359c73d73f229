package schedule

import (
	"fmt"

	"github.com/aalrahma/salah-watch/internal/window"
)

// Mode is the user's tri-state reminder preference.
type Mode int

const (
	// ModeOff schedules nothing and clears any pending schedule.
	ModeOff Mode = 0
	// ModeObligatory schedules only the five obligatory prayers.
	ModeObligatory Mode = 1
	// ModeAll schedules obligatory prayers and optional worship windows.
	ModeAll Mode = 2
)

// String returns the lowercase mode label.
func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeObligatory:
		return "obligatory"
	case ModeAll:
		return "all"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a stored or user-supplied string into a Mode. Both the
// labels and the numeric forms are accepted.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "off", "0":
		return ModeOff, nil
	case "obligatory", "1":
		return ModeObligatory, nil
	case "all", "2":
		return ModeAll, nil
	default:
		return ModeOff, fmt.Errorf("invalid notification mode %q (want off, obligatory, or all)", s)
	}
}

// Eligible reports whether windows of the given kind are notifiable under
// this mode. Forbidden windows are never eligible.
func (m Mode) Eligible(k window.Kind) bool {
	switch m {
	case ModeObligatory:
		return k == window.KindPrayer
	case ModeAll:
		return k == window.KindPrayer || k == window.KindOptional
	default:
		return false
	}
}
