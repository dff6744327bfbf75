package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	if c.AppPort != "8080" {
		t.Errorf("AppPort = %q, want 8080", c.AppPort)
	}
	if c.SessionTTLHours != 24 {
		t.Errorf("SessionTTLHours = %d, want 24", c.SessionTTLHours)
	}
	if c.NoteTTLHours != 24 {
		t.Errorf("NoteTTLHours = %d, want 24", c.NoteTTLHours)
	}
	if c.NoteSweepMinutes != 5 {
		t.Errorf("NoteSweepMinutes = %d, want 5", c.NoteSweepMinutes)
	}
	if c.DBName != "tweetnepal" {
		t.Errorf("DBName = %q, want tweetnepal", c.DBName)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	c := AppConfig{AppPort: "9000", NoteTTLHours: 48}
	applyDefaults(&c)

	if c.AppPort != "9000" {
		t.Errorf("AppPort = %q, want explicit 9000", c.AppPort)
	}
	if c.NoteTTLHours != 48 {
		t.Errorf("NoteTTLHours = %d, want explicit 48", c.NoteTTLHours)
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	t.Setenv("APP_PORT", "9100")
	t.Setenv("NOTE_TTL_HOURS", "12")
	t.Setenv("ADMIN_USERNAME", "mod")

	c := AppConfig{AppPort: "8080", NoteTTLHours: 24, AdminUsername: "file-admin"}
	applyEnvOverrides(&c)

	if c.AppPort != "9100" {
		t.Errorf("AppPort = %q, want env 9100", c.AppPort)
	}
	if c.NoteTTLHours != 12 {
		t.Errorf("NoteTTLHours = %d, want env 12", c.NoteTTLHours)
	}
	if c.AdminUsername != "mod" {
		t.Errorf("AdminUsername = %q, want env mod", c.AdminUsername)
	}
}

func TestLoadJSONConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	payload := `{
		"app": {"AppPort": "8100", "JWTSecret": "file-secret"},
		"notes": {"TTLHours": 6, "SweepMinutes": 2},
		"admin": {"Username": "root", "Password": "pw", "Name": "Root"}
	}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	var c AppConfig
	loadJSONConfig(path, &c)

	if c.AppPort != "8100" || c.JWTSecret != "file-secret" {
		t.Errorf("app section not loaded: %+v", c)
	}
	if c.NoteTTLHours != 6 || c.NoteSweepMinutes != 2 {
		t.Errorf("notes section not loaded: ttl=%d sweep=%d", c.NoteTTLHours, c.NoteSweepMinutes)
	}
	if c.AdminUsername != "root" || c.AdminName != "Root" {
		t.Errorf("admin section not loaded: %+v", c)
	}
}

func TestLoadJSONConfigMissingFile(t *testing.T) {
	var c AppConfig
	loadJSONConfig(filepath.Join(t.TempDir(), "absent.json"), &c)
	if c.AppPort != "" {
		t.Errorf("missing file mutated config: %+v", c)
	}
}
