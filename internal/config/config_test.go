package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "config.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server != defaultServer {
		t.Fatalf("Server = %q, want %q", cfg.Server, defaultServer)
	}
	if cfg.Buyer != defaultBuyer {
		t.Fatalf("Buyer = %q, want %q", cfg.Buyer, defaultBuyer)
	}
	if cfg.PollSeconds != defaultPollSeconds {
		t.Fatalf("PollSeconds = %d, want %d", cfg.PollSeconds, defaultPollSeconds)
	}
	if _, err := uuid.Parse(cfg.ClientID); err != nil {
		t.Fatalf("ClientID = %q, want a valid UUID: %v", cfg.ClientID, err)
	}
}

func TestLoad_PersistsGeneratedClientID(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "config.toml")
	first, err := Load(path)
	if err != nil {
		t.Fatalf("first Load returned error: %v", err)
	}
	second, err := Load(path)
	if err != nil {
		t.Fatalf("second Load returned error: %v", err)
	}
	if first.ClientID != second.ClientID {
		t.Fatalf("ClientID changed between loads: %q then %q", first.ClientID, second.ClientID)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	id := uuid.NewString()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
server = "  10.0.0.5:9999  "
buyer = "  ada  "
client_id = "`+id+`"
poll_seconds = 15
discover = true
log_dir = "  ~/.easel/logs  "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server != "10.0.0.5:9999" {
		t.Fatalf("Server = %q, want %q", cfg.Server, "10.0.0.5:9999")
	}
	if cfg.Buyer != "ada" {
		t.Fatalf("Buyer = %q, want %q", cfg.Buyer, "ada")
	}
	if cfg.ClientID != id {
		t.Fatalf("ClientID = %q, want %q", cfg.ClientID, id)
	}
	if cfg.PollSeconds != 15 {
		t.Fatalf("PollSeconds = %d, want 15", cfg.PollSeconds)
	}
	if !cfg.Discover {
		t.Fatal("Discover = false, want true")
	}
	if !strings.HasPrefix(cfg.LogDir, home) {
		t.Fatalf("LogDir = %q, want it under HOME %q", cfg.LogDir, home)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
server = "   "
buyer = ""
client_id = "`+uuid.NewString()+`"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server != defaultServer {
		t.Fatalf("Server = %q, want %q", cfg.Server, defaultServer)
	}
	if cfg.Buyer != defaultBuyer {
		t.Fatalf("Buyer = %q, want %q", cfg.Buyer, defaultBuyer)
	}
	if cfg.PollSeconds != defaultPollSeconds {
		t.Fatalf("PollSeconds = %d, want %d", cfg.PollSeconds, defaultPollSeconds)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`server = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestSave_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Config{
		Server:      "example.net:7621",
		Buyer:       "grace",
		ClientID:    uuid.NewString(),
		PollSeconds: 30,
		Discover:    true,
		LogDir:      t.TempDir(),
	}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got != want {
		t.Fatalf("round trip = %+v, want %+v", got, want)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenLogDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/easel.log")) {
		t.Fatalf("LogPath = %q, want it to end with /easel.log", got)
	}
}
