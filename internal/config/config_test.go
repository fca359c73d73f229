package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_MissingFileIsDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Method != -1 || cfg.School != -1 {
		t.Errorf("defaults: method=%d school=%d, want -1/-1", cfg.Method, cfg.School)
	}
	if cfg.TimeFormat != "24h" {
		t.Errorf("default time_format = %q, want 24h", cfg.TimeFormat)
	}
	if cfg.Push.Enabled() {
		t.Error("push enabled with no credentials")
	}
}

func TestLoadFrom_ReadsYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := `latitude: 24.7136
longitude: 46.6753
city: Riyadh
country: Saudi Arabia
method: 4
time_format: 12h
push:
  token: tok
  user: usr
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Latitude != 24.7136 || cfg.City != "Riyadh" || cfg.Method != 4 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.GoTimeFormat() != "3:04 PM" {
		t.Errorf("GoTimeFormat = %q, want 12h layout", cfg.GoTimeFormat())
	}
	if !cfg.Push.Enabled() {
		t.Error("push should be enabled with token and user set")
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("latitude: [\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if _, err := LoadFrom(dir); err == nil {
		t.Error("expected error for malformed YAML, got nil")
	}
}

func TestLoadFrom_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("time_format: sometimes\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if _, err := LoadFrom(dir); err == nil {
		t.Error("expected error for invalid time_format, got nil")
	}
}

func TestSetIn_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	if err := SetIn(dir, "city", "Makkah"); err != nil {
		t.Fatalf("SetIn failed: %v", err)
	}
	if err := SetIn(dir, "method", "4"); err != nil {
		t.Fatalf("SetIn failed: %v", err)
	}

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.City != "Makkah" || cfg.Method != 4 {
		t.Errorf("round trip failed: %+v", cfg)
	}

	got, err := cfg.Get("city")
	if err != nil || got != "Makkah" {
		t.Errorf("Get(city) = (%q, %v)", got, err)
	}
}

func TestSetIn_Validation(t *testing.T) {
	dir := t.TempDir()

	tests := []struct{ key, value string }{
		{"latitude", "95"},
		{"longitude", "181"},
		{"method", "30"},
		{"school", "5"},
		{"time_format", "13h"},
		{"nonsense", "x"},
	}
	for _, tt := range tests {
		if err := SetIn(dir, tt.key, tt.value); err == nil {
			t.Errorf("SetIn(%q, %q) accepted an invalid value", tt.key, tt.value)
		}
	}
}

func TestGet_UnknownKey(t *testing.T) {
	cfg := &Config{}
	if _, err := cfg.Get("bogus"); err == nil {
		t.Error("expected error for unknown key")
	}
}
