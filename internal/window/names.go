// Package window computes the named prayer and optional-worship time windows
// of a single civil day from an Al Adhan timing table, and resolves which
// window is active or next relative to a live clock.
package window

// Name identifies one of the fixed daily time windows.
type Name string

// The full set of window names. Tahajjud is only present when the last third
// of the night can be computed.
const (
	NameTahajjud           Name = "tahajjud"
	NameFajr               Name = "fajr"
	NameForbiddenSunrise   Name = "forbidden_fajr_sunrise"
	NameIshraq             Name = "ishraq"
	NameChasht             Name = "chasht"
	NameZawal              Name = "zawal"
	NameDhuhr              Name = "dhuhr"
	NameAsr                Name = "asr"
	NameForbiddenSunset    Name = "forbidden_asr_sunset"
	NameMaghrib            Name = "maghrib"
	NameAwwabin            Name = "awwabin"
	NameIsha               Name = "isha"
)

// CanonicalOrder is the fixed ordering of windows used for display and for
// "next after current" traversal. It is an internal ordering constant, not
// the chronological order of the windows' start times.
var CanonicalOrder = []Name{
	NameTahajjud,
	NameFajr,
	NameForbiddenSunrise,
	NameIshraq,
	NameChasht,
	NameZawal,
	NameDhuhr,
	NameAsr,
	NameForbiddenSunset,
	NameMaghrib,
	NameAwwabin,
	NameIsha,
}

// displayNames maps window names to human-readable titles.
var displayNames = map[Name]string{
	NameTahajjud:         "Tahajjud",
	NameFajr:             "Fajr",
	NameForbiddenSunrise: "Forbidden (sunrise)",
	NameIshraq:           "Ishraq",
	NameChasht:           "Chasht",
	NameZawal:            "Zawal",
	NameDhuhr:            "Dhuhr",
	NameAsr:              "Asr",
	NameForbiddenSunset:  "Forbidden (sunset)",
	NameMaghrib:          "Maghrib",
	NameAwwabin:          "Awwabin",
	NameIsha:             "Isha",
}

// Display returns the human-readable title for the window name.
func (n Name) Display() string {
	if d, ok := displayNames[n]; ok {
		return d
	}
	return string(n)
}

// Kind classifies a window for notification eligibility and display.
type Kind int

const (
	// KindPrayer marks the five obligatory prayers.
	KindPrayer Kind = iota
	// KindOptional marks voluntary worship windows.
	KindOptional
	// KindForbidden marks intervals during which ritual prayer is
	// traditionally discouraged. Forbidden windows are never notifiable.
	KindForbidden
)

// String returns the lowercase kind label.
func (k Kind) String() string {
	switch k {
	case KindPrayer:
		return "prayer"
	case KindOptional:
		return "optional"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// kinds maps each window name to its fixed classification. Zawal is the
// discouraged interval around solar zenith, so it is forbidden like the
// sunrise and sunset intervals.
var kinds = map[Name]Kind{
	NameTahajjud:         KindOptional,
	NameFajr:             KindPrayer,
	NameForbiddenSunrise: KindForbidden,
	NameIshraq:           KindOptional,
	NameChasht:           KindOptional,
	NameZawal:            KindForbidden,
	NameDhuhr:            KindPrayer,
	NameAsr:              KindPrayer,
	NameForbiddenSunset:  KindForbidden,
	NameMaghrib:          KindPrayer,
	NameAwwabin:          KindOptional,
	NameIsha:             KindPrayer,
}

// KindOf returns the classification for a window name.
func KindOf(n Name) Kind {
	return kinds[n]
}

// Status describes a window's position relative to "now".
type Status int

const (
	StatusUpcoming Status = iota
	StatusActive
	StatusPassed
)

// String returns the lowercase status label.
func (s Status) String() string {
	switch s {
	case StatusUpcoming:
		return "upcoming"
	case StatusActive:
		return "active"
	case StatusPassed:
		return "passed"
	default:
		return "unknown"
	}
}
