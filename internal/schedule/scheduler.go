// Package schedule decides when reminders fire. Each eligible window gets
// two triggers per civil day: one minute before it starts and fifteen
// minutes before it ends. A per-day record in the persistent store
// guarantees each trigger fires at most once no matter how often the tick
// loop observes the trigger condition.
package schedule

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aalrahma/salah-watch/internal/store"
	"github.com/aalrahma/salah-watch/internal/window"
)

const (
	recordVersion = 1

	startLead = 1 * time.Minute
	endLead   = 15 * time.Minute

	civilDateLayout = "2006-01-02"
)

// KV is the slice of the persistent store the scheduler needs. A nil KV
// keeps the record in memory only.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Record is the per-day "already fired" bookkeeping. It is keyed by the
// civil date it applies to and cleared whenever that date changes.
type Record struct {
	Version int             `json:"version"`
	Date    string          `json:"date"`
	Fired   map[string]bool `json:"fired"`
}

func newRecord(date string) Record {
	return Record{Version: recordVersion, Date: date, Fired: map[string]bool{}}
}

// Firing is one reminder request produced by a tick, to be delegated to a
// Notifier by the caller.
type Firing struct {
	Key   string // dedup key, "<window>-start" or "<window>-end"
	Title string
	Body  string
}

// PushScheduler manages future deliveries on an out-of-process push path.
type PushScheduler interface {
	Schedule(at time.Time, title, body string) (string, error)
	Cancel(id string) error
}

// Scheduler owns the reminder state: the current mode, the per-day dedup
// record, and any pending external push schedules. It is driven by a single
// tick loop and is not safe for concurrent use.
type Scheduler struct {
	kv   KV
	mode Mode
	rec  Record

	push       PushScheduler
	pendingIDs []string
}

// New builds a scheduler, restoring the mode and today's record from the
// store when present.
func New(kv KV) *Scheduler {
	s := &Scheduler{kv: kv, rec: newRecord("")}
	if kv == nil {
		return s
	}

	if raw, ok := kv.Get(store.KeyNotificationMode); ok {
		if m, err := ParseMode(raw); err == nil {
			s.mode = m
		} else {
			log.Warn().Str("value", raw).Msg("stored notification mode invalid, defaulting to off")
		}
	}
	if raw, ok := kv.Get(store.KeyShownToday); ok {
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err == nil && rec.Version == recordVersion && rec.Fired != nil {
			s.rec = rec
		} else {
			log.Warn().Msg("stored notification record invalid, starting fresh")
		}
	}
	return s
}

// SetPush attaches an external push scheduler.
func (s *Scheduler) SetPush(p PushScheduler) {
	s.push = p
}

// Mode returns the current notification mode.
func (s *Scheduler) Mode() Mode {
	return s.mode
}

// SetMode persists the new mode and rebuilds the external push schedule
// against it: previously scheduled but not-yet-fired deliveries are
// cancelled first so a stale schedule can never deliver under an old mode.
func (s *Scheduler) SetMode(mode Mode, windows []window.Window, now time.Time) error {
	s.mode = mode
	if s.kv != nil {
		if err := s.kv.Set(store.KeyNotificationMode, mode.String()); err != nil {
			return fmt.Errorf("cannot persist notification mode: %w", err)
		}
	}
	s.syncPush(windows, now)
	return nil
}

// Tick evaluates all triggers for "now" and returns the reminders to fire.
// The dedup record is persisted before returning, so a crash or reload
// cannot re-fire a returned reminder. Re-running Tick with unchanged inputs
// returns nothing.
func (s *Scheduler) Tick(windows []window.Window, now time.Time) []Firing {
	// The civil date is recomputed fresh on every tick; caching it across
	// ticks would race the midnight boundary.
	civil := now.Format(civilDateLayout)
	if s.rec.Date != civil {
		s.rec = newRecord(civil)
		s.persistRecord()
		s.setLastCheckDate(civil)
	}

	if s.mode == ModeOff {
		return nil
	}

	var firings []Firing
	for _, w := range windows {
		if !s.mode.Eligible(w.Kind) {
			continue
		}

		startKey := string(w.Name) + "-start"
		if !s.rec.Fired[startKey] && within(now, w.Start.Add(-startLead), w.Start) {
			s.rec.Fired[startKey] = true
			firings = append(firings, Firing{
				Key:   startKey,
				Title: fmt.Sprintf("%s begins soon", w.Name.Display()),
				Body:  fmt.Sprintf("%s starts at %s", w.Name.Display(), w.Start.Format("15:04")),
			})
		}

		endKey := string(w.Name) + "-end"
		if !s.rec.Fired[endKey] && within(now, w.End.Add(-endLead), w.End) {
			s.rec.Fired[endKey] = true
			firings = append(firings, Firing{
				Key:   endKey,
				Title: fmt.Sprintf("%s ends soon", w.Name.Display()),
				Body:  fmt.Sprintf("%s ends at %s", w.Name.Display(), w.End.Format("15:04")),
			})
		}
	}

	if len(firings) > 0 {
		s.persistRecord()
	}
	return firings
}

// within reports start <= now < end.
func within(now, start, end time.Time) bool {
	return !now.Before(start) && now.Before(end)
}

// syncPush cancels every pending external delivery and reschedules the
// future triggers eligible under the current mode.
func (s *Scheduler) syncPush(windows []window.Window, now time.Time) {
	if s.push == nil {
		return
	}

	for _, id := range s.pendingIDs {
		if err := s.push.Cancel(id); err != nil {
			log.Warn().Err(err).Str("id", id).Msg("cannot cancel scheduled push")
		}
	}
	s.pendingIDs = nil

	if s.mode == ModeOff {
		return
	}

	for _, w := range windows {
		if !s.mode.Eligible(w.Kind) {
			continue
		}
		s.schedulePush(w.Start.Add(-startLead), now,
			fmt.Sprintf("%s begins soon", w.Name.Display()),
			fmt.Sprintf("%s starts at %s", w.Name.Display(), w.Start.Format("15:04")))
		s.schedulePush(w.End.Add(-endLead), now,
			fmt.Sprintf("%s ends soon", w.Name.Display()),
			fmt.Sprintf("%s ends at %s", w.Name.Display(), w.End.Format("15:04")))
	}
}

func (s *Scheduler) schedulePush(at, now time.Time, title, body string) {
	if !at.After(now) {
		return
	}
	id, err := s.push.Schedule(at, title, body)
	if err != nil {
		log.Warn().Err(err).Str("title", title).Msg("cannot schedule push")
		return
	}
	s.pendingIDs = append(s.pendingIDs, id)
}

// persistRecord writes the dedup record through the store. Store failures
// degrade to an in-memory record for the session: triggers may re-fire
// after a reload, which is accepted.
func (s *Scheduler) persistRecord() {
	if s.kv == nil {
		return
	}
	data, err := json.Marshal(s.rec)
	if err != nil {
		log.Error().Err(err).Msg("cannot marshal notification record")
		return
	}
	if err := s.kv.Set(store.KeyShownToday, string(data)); err != nil {
		log.Warn().Err(err).Msg("cannot persist notification record, continuing in memory")
	}
}

func (s *Scheduler) setLastCheckDate(date string) {
	if s.kv == nil {
		return
	}
	if err := s.kv.Set(store.KeyLastCheckDate, date); err != nil {
		log.Warn().Err(err).Msg("cannot persist last notification check date")
	}
}
