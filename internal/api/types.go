package api

// response is the top-level Al Adhan API payload. Only the fields the app
// consumes are decoded.
type response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   data   `json:"data"`
}

type data struct {
	Timings timings  `json:"timings"`
	Date    dateInfo `json:"date"`
	Meta    meta     `json:"meta"`
}

// timings holds prayer and event times as "HH:MM" strings. The API may
// append a timezone suffix like " (BST)", stripped later during parsing.
type timings struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Sunset  string `json:"Sunset"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

type dateInfo struct {
	Hijri     hijriDate     `json:"hijri"`
	Gregorian gregorianDate `json:"gregorian"`
}

type hijriDate struct {
	Day   string `json:"day"`
	Year  string `json:"year"`
	Month struct {
		En string `json:"en"`
	} `json:"month"`
	Designation struct {
		Abbreviated string `json:"abbreviated"`
	} `json:"designation"`
}

// format renders the Hijri date as "DD MonthName YYYY AH".
func (h hijriDate) format() string {
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return ""
	}
	abbr := h.Designation.Abbreviated
	if abbr == "" {
		abbr = "AH"
	}
	return h.Day + " " + h.Month.En + " " + h.Year + " " + abbr
}

type gregorianDate struct {
	Date string `json:"date"` // "10-03-2026"
}

type meta struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}
