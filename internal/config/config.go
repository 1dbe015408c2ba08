package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields Easel needs to reach and identify itself to a
// gridd server.
type Config struct {
	Server      string // gridd API address, host:port or full URL
	Buyer       string // name recorded against pixel purchases; reserved until the submit flow lands
	ClientID    string // stable per-installation identity
	PollSeconds int    // base polling interval
	Discover    bool   // look for a server via mDNS when true
	LogDir      string
}

const (
	defaultConfigPath  = "~/.config/easel/config.toml"
	defaultLogDir      = "~/.local/share/easel/logs"
	defaultServer      = "127.0.0.1:7621"
	defaultBuyer       = "anonymous"
	defaultPollSeconds = 8
)

type rawConfig struct {
	Server      string `toml:"server"`
	Buyer       string `toml:"buyer"`
	ClientID    string `toml:"client_id"`
	PollSeconds int    `toml:"poll_seconds"`
	Discover    bool   `toml:"discover"`
	LogDir      string `toml:"log_dir"`
}

// Load locates and parses the easel config, falling back to defaults when
// missing. A missing or empty client_id is generated and written back so the
// identity stays stable across runs.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Server:      defaultServer,
		Buyer:       defaultBuyer,
		PollSeconds: defaultPollSeconds,
		LogDir:      mustExpand(defaultLogDir),
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ClientID = uuid.NewString()
			if err := save(resolved, cfg); err != nil {
				return Config{}, err
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if s := strings.TrimSpace(raw.Server); s != "" {
		cfg.Server = s
	}
	if b := strings.TrimSpace(raw.Buyer); b != "" {
		cfg.Buyer = b
	}
	if raw.PollSeconds > 0 {
		cfg.PollSeconds = raw.PollSeconds
	}
	cfg.Discover = raw.Discover
	if d := strings.TrimSpace(raw.LogDir); d != "" {
		cfg.LogDir = mustExpand(d)
	}

	cfg.ClientID = strings.TrimSpace(raw.ClientID)
	if _, err := uuid.Parse(cfg.ClientID); err != nil {
		cfg.ClientID = uuid.NewString()
		if err := save(resolved, cfg); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg Config) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return err
	}
	return save(resolved, cfg)
}

func save(resolved string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	raw := rawConfig{
		Server:      cfg.Server,
		Buyer:       cfg.Buyer,
		ClientID:    cfg.ClientID,
		PollSeconds: cfg.PollSeconds,
		Discover:    cfg.Discover,
		LogDir:      cfg.LogDir,
	}
	bytes, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LogPath returns the path to the easel log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/easel.log")
	}
	return filepath.Join(c.LogDir, "easel.log")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
