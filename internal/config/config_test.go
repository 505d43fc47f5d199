package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Digital-Shane/entry-sift/internal/listing"
	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	want := &Config{
		DisplayName:      "primary",
		SortKey:          "name",
		SortDirection:    "asc",
		EnableLogging:    true,
		LogRetentionDays: 30,
	}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("DefaultConfig() mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath() error = %v, want nil", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("ConfigPath() = %v, want absolute path", path)
	}
	if filepath.Base(filepath.Dir(path)) != ".entry-sift" {
		t.Errorf("ConfigPath() = %v, want path containing .entry-sift directory", path)
	}
	if filepath.Base(path) != "config.json" {
		t.Errorf("ConfigPath() = %v, want path ending with config.json", path)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with non-existent file error = %v, want nil", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("Load() with non-existent file mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_PartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"display_name":"english","sort_locale":"ja"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	want := &Config{
		DisplayName:      "english",
		SortKey:          "name",
		SortDirection:    "asc",
		SortLocale:       "ja",
		LogRetentionDays: 30,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("LoadFile() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "malformed json", content: `{"sort_key":`, wantErr: "failed to parse config file"},
		{name: "unknown sort key", content: `{"sort_key":"title"}`, wantErr: "sort_key"},
		{name: "bad direction", content: `{"sort_direction":"up"}`, wantErr: "sort_direction"},
		{name: "bad locale", content: `{"sort_locale":"not a tag"}`, wantErr: "sort_locale"},
		{name: "negative retention", content: `{"log_retention_days":-1}`, wantErr: "log_retention_days"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFile(path)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("LoadFile() error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.SortKey = "size"
	cfg.SortDirection = "desc"
	cfg.DebugLog = true
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("Load() after Save() mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SortKey = "colour"
	if err := cfg.SaveFile(filepath.Join(t.TempDir(), "config.json")); err == nil {
		t.Error("SaveFile() with invalid sort key error = nil, want error")
	}
}

func TestSortSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SortKey = "modified"
	cfg.SortDirection = "desc"
	cfg.DisplayName = "native"
	cfg.SortLocale = "ja"

	state, err := cfg.SortState()
	if err != nil {
		t.Fatalf("SortState() error = %v", err)
	}
	if state != (listing.SortState{Key: listing.SortByModified, Direction: listing.Descending}) {
		t.Errorf("SortState() = %+v", state)
	}
	if got := cfg.SortOptions(); got != (listing.SortOptions{DisplayName: "native", Locale: "ja"}) {
		t.Errorf("SortOptions() = %+v", got)
	}
}

func TestSet(t *testing.T) {
	cfg := DefaultConfig()
	steps := []struct{ field, value string }{
		{"sort_key", "reason"},
		{"debug_log", "yes"},
		{"enable_logging", "off"},
		{"log_retention_days", "7"},
	}
	for _, s := range steps {
		if err := cfg.Set(s.field, s.value); err != nil {
			t.Fatalf("Set(%s, %s) error = %v", s.field, s.value, err)
		}
	}
	if cfg.SortKey != "reason" || !cfg.DebugLog || cfg.EnableLogging || cfg.LogRetentionDays != 7 {
		t.Errorf("Set() result = %+v", cfg)
	}

	for _, bad := range []struct{ field, value string }{
		{"colour", "red"},
		{"debug_log", "maybe"},
		{"log_retention_days", "week"},
		{"sort_direction", "sideways"},
	} {
		if err := cfg.Set(bad.field, bad.value); err == nil {
			t.Errorf("Set(%s, %s) error = nil, want error", bad.field, bad.value)
		}
	}
}

func TestSetUnknownField(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Set("sort_keys", "name"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Set(sort_keys) error = %v, want ErrUnknownField", err)
	}
	for _, field := range Fields {
		if err := cfg.Set(field, "x"); errors.Is(err, ErrUnknownField) {
			t.Errorf("Set(%s) reported unknown field", field)
		}
	}
}
