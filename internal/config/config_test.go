package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/kmc")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.RecordsTable != "records" {
		t.Errorf("RecordsTable = %q", cfg.RecordsTable)
	}
	if cfg.RefreshSchedule != "@every 5m" {
		t.Errorf("RefreshSchedule = %q", cfg.RefreshSchedule)
	}
	if !cfg.ExcludeTestHospitals {
		t.Error("ExcludeTestHospitals should default to true")
	}
	if cfg.DBMaxConns != 10 || cfg.DBMinConns != 2 {
		t.Errorf("pool sizes = %d/%d, want 10/2", cfg.DBMaxConns, cfg.DBMinConns)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("err = %v, want DATABASE_URL error", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/kmc")
	t.Setenv("PORT", "9100")
	t.Setenv("ENV", "production")
	t.Setenv("REFRESH_SCHEDULE", "@every 1m")
	t.Setenv("EXCLUDE_TEST_HOSPITALS", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9100" || cfg.Env != "production" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.RefreshSchedule != "@every 1m" {
		t.Errorf("RefreshSchedule = %q", cfg.RefreshSchedule)
	}
	if cfg.ExcludeTestHospitals {
		t.Error("ExcludeTestHospitals should be overridable")
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() should be true")
	}
}

func TestValidate(t *testing.T) {
	long := strings.Repeat("s", 32)

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"dev without secret", Config{Env: "development", RefreshSchedule: "@every 5m"}, false},
		{"production without secret", Config{Env: "production", RefreshSchedule: "@every 5m"}, true},
		{"production with secret", Config{Env: "production", AuthSecret: long, RefreshSchedule: "@every 5m"}, false},
		{"short secret", Config{Env: "production", AuthSecret: "short", RefreshSchedule: "@every 5m"}, true},
		{"empty schedule", Config{Env: "development", RefreshSchedule: ""}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
