package cache

import (
	"testing"

	"github.com/aalrahma/salah-watch/internal/store"
	"github.com/aalrahma/salah-watch/internal/window"
)

func testDay(date string) DayTimings {
	return DayTimings{
		Date: date,
		Timings: window.Timings{
			Fajr:    "05:00",
			Sunrise: "06:15",
			Dhuhr:   "12:00",
			Asr:     "15:30",
			Maghrib: "18:00",
			Sunset:  "17:45",
			Isha:    "19:15",
		},
		Timezone: "Asia/Riyadh",
	}
}

func newTestCache() (*Cache, *store.Store) {
	kv := store.OpenMemory()
	return New(kv, 24.7136, 46.6753, 4, 0), kv
}

func TestCache_PutAndDay(t *testing.T) {
	c, _ := newTestCache()

	if _, ok := c.Day("2026-03-10"); ok {
		t.Error("empty cache returned a day")
	}

	if err := c.Put(testDay("2026-03-10"), testDay("2026-03-11")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := c.Day("2026-03-10")
	if !ok {
		t.Fatal("today not found after Put")
	}
	if got.Timings.Fajr != "05:00" || got.Timezone != "Asia/Riyadh" {
		t.Errorf("unexpected day payload: %+v", got)
	}
	if _, ok := c.Day("2026-03-11"); !ok {
		t.Error("tomorrow not found after Put")
	}
	if c.AnchorDate() != "2026-03-10" {
		t.Errorf("AnchorDate = %q, want 2026-03-10", c.AnchorDate())
	}
}

func TestCache_InvalidateIfStale(t *testing.T) {
	c, _ := newTestCache()
	if err := c.Put(testDay("2026-03-10")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Same day: nothing happens.
	if c.InvalidateIfStale("2026-03-10") {
		t.Error("invalidated on a matching date")
	}
	if _, ok := c.Day("2026-03-10"); !ok {
		t.Fatal("entry lost without invalidation")
	}

	// Day rolled over: everything is dropped.
	if !c.InvalidateIfStale("2026-03-11") {
		t.Error("expected invalidation on rollover")
	}
	if _, ok := c.Day("2026-03-10"); ok {
		t.Error("stale entry survived invalidation")
	}
	if c.AnchorDate() != "" {
		t.Errorf("AnchorDate = %q after invalidation, want empty", c.AnchorDate())
	}
}

func TestCache_ParamsMismatchDropsEntries(t *testing.T) {
	kv := store.OpenMemory()
	a := New(kv, 24.7136, 46.6753, 4, 0)
	if err := a.Put(testDay("2026-03-10")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// A cache for a different location must not see the other's entries.
	b := New(kv, 21.4225, 39.8262, 4, 0)
	if _, ok := b.Day("2026-03-10"); ok {
		t.Error("cache returned entries for different parameters")
	}
}

func TestCache_CorruptBlobDiscarded(t *testing.T) {
	c, kv := newTestCache()
	if err := kv.Set(store.KeyMultiDayCache, "{not json"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, ok := c.Day("2026-03-10"); ok {
		t.Error("corrupt blob produced a day")
	}
	// The corrupt blob must have been cleared so new writes work.
	if err := c.Put(testDay("2026-03-10")); err != nil {
		t.Fatalf("Put after corruption failed: %v", err)
	}
	if _, ok := c.Day("2026-03-10"); !ok {
		t.Error("entry missing after recovery")
	}
}
