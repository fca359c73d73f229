package notify

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.HandlerFunc) (*PushClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewPushClient("tok", "usr")
	c.BaseURL = srv.URL
	return c, srv
}

func TestPushClient_Schedule(t *testing.T) {
	var gotPath string
	var gotForm map[string][]string

	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Fatalf("bad form: %v", err)
		}
		gotForm = r.PostForm
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()

	at := time.Date(2026, 3, 10, 4, 59, 0, 0, time.UTC)
	id, err := c.Schedule(at, "Fajr begins soon", "Fajr starts at 05:00")
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if id == "" {
		t.Fatal("Schedule returned empty id")
	}
	if gotPath != "/schedules.json" {
		t.Errorf("path = %q, want /schedules.json", gotPath)
	}
	if got := gotForm["timestamp"]; len(got) != 1 || got[0] != "1773118740" {
		t.Errorf("timestamp = %v, want 1773118740", got)
	}
	if got := gotForm["id"]; len(got) != 1 || got[0] != id {
		t.Errorf("form id = %v, want %q", got, id)
	}
	if got := gotForm["token"]; len(got) != 1 || got[0] != "tok" {
		t.Errorf("token = %v, want tok", got)
	}
}

func TestPushClient_Cancel(t *testing.T) {
	var gotMethod, gotPath string

	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()

	if err := c.Cancel("abc-123"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", gotMethod)
	}
	if gotPath != "/schedules/abc-123.json" {
		t.Errorf("path = %q, want /schedules/abc-123.json", gotPath)
	}
}

func TestPushClient_CancelUnknownIDIsOK(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	defer srv.Close()

	if err := c.Cancel("gone"); err != nil {
		t.Errorf("Cancel of unknown id should not error, got: %v", err)
	}
}

func TestPushClient_ScheduleGatewayError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusBadRequest)
	})
	defer srv.Close()

	if _, err := c.Schedule(time.Now(), "t", "b"); err == nil {
		t.Error("expected error on gateway failure, got nil")
	}
}

func TestMulti_FansOut(t *testing.T) {
	var calls []string
	n := Multi{
		Func(func(title, body string) { calls = append(calls, "a:"+title) }),
		Func(func(title, body string) { calls = append(calls, "b:"+title) }),
	}
	n.Show("x", "y")

	if len(calls) != 2 || calls[0] != "a:x" || calls[1] != "b:x" {
		t.Errorf("unexpected fan-out calls: %v", calls)
	}
}
