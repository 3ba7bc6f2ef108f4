package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/neilberkman/runclub/internal/core/models"
)

const DefaultShareTemplate = `🏃 {{{title}}} · {{{spot}}}
{{{date_label}}}{{#relative}} ({{relative}}){{/relative}}
{{{type_label}}}{{#distance}} · ~{{distance}} km{{/distance}}{{#volume}}
{{{volume}}}{{/volume}}
{{#groups}}
  • {{{label}}} {{pace_range}}{{#recommended}} ← recommandé{{/recommended}}
{{/groups}}{{#women_only}}Réservée aux femmes
{{/women_only}}`

const DefaultListenAddr = "127.0.0.1:8787"

type Config struct {
	Dir           string // Directory holding config.toml and the database
	DBPath        string
	RunnerGroup   string // Club the runner belongs to, for members-only sessions
	Paces         models.ReferencePaces
	SeedsPath     string // Optional YAML file of extra seeds
	RemoteURL     string // Club API base URL for sync
	ListenAddr    string
	ShareTemplate string
}

type tomlConfig struct {
	DBPath      string                `toml:"db_path,omitempty"`
	RunnerGroup string                `toml:"runner_group,omitempty"`
	SeedsPath   string                `toml:"seeds_path,omitempty"`
	RemoteURL   string                `toml:"remote_url,omitempty"`
	ListenAddr  string                `toml:"listen_addr,omitempty"`
	Paces       models.ReferencePaces `toml:"paces"`
}

// DefaultDir returns ~/.config/runclub
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "runclub"), nil
}

// Load reads config from ~/.config/runclub/ and the environment
func Load() (*Config, error) {
	dir, err := DefaultDir()
	if err != nil {
		dir = ""
	}
	return LoadFrom(dir)
}

// LoadFrom reads config.toml and share_card.mustache from dir. Missing
// files leave defaults. A .env file in the working directory and the
// RUNCLUB_DB, RUNCLUB_GROUP and RUNCLUB_REMOTE variables override file values.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{
		Dir:           dir,
		ListenAddr:    DefaultListenAddr,
		ShareTemplate: DefaultShareTemplate,
	}
	if dir != "" {
		cfg.DBPath = filepath.Join(dir, "runclub.db")
		cfg.SeedsPath = filepath.Join(dir, "seeds.yaml")
	}

	// .env is optional
	_ = godotenv.Load()

	if dir != "" {
		tomlPath := filepath.Join(dir, "config.toml")
		if _, err := os.Stat(tomlPath); err == nil {
			var tc tomlConfig
			if _, err := toml.DecodeFile(tomlPath, &tc); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", tomlPath, err)
			}
			cfg.apply(tc)
		}

		// If custom share template exists, use it
		if data, err := os.ReadFile(filepath.Join(dir, "share_card.mustache")); err == nil {
			cfg.ShareTemplate = string(data)
		}
	}

	if v := strings.TrimSpace(os.Getenv("RUNCLUB_DB")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("RUNCLUB_GROUP")); v != "" {
		cfg.RunnerGroup = v
	}
	if v := strings.TrimSpace(os.Getenv("RUNCLUB_REMOTE")); v != "" {
		cfg.RemoteURL = v
	}

	return cfg, nil
}

func (cfg *Config) apply(tc tomlConfig) {
	if tc.DBPath != "" {
		cfg.DBPath = tc.DBPath
	}
	if tc.SeedsPath != "" {
		cfg.SeedsPath = tc.SeedsPath
	}
	if tc.ListenAddr != "" {
		cfg.ListenAddr = tc.ListenAddr
	}
	cfg.RunnerGroup = tc.RunnerGroup
	cfg.RemoteURL = tc.RemoteURL
	cfg.Paces = tc.Paces
}

// Save writes the persistent settings back to config.toml in cfg.Dir
func Save(cfg *Config) error {
	if cfg.Dir == "" {
		return fmt.Errorf("no config directory")
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tc := tomlConfig{
		RunnerGroup: cfg.RunnerGroup,
		RemoteURL:   cfg.RemoteURL,
		Paces:       cfg.Paces,
	}
	if cfg.ListenAddr != DefaultListenAddr {
		tc.ListenAddr = cfg.ListenAddr
	}
	if cfg.SeedsPath != filepath.Join(cfg.Dir, "seeds.yaml") {
		tc.SeedsPath = cfg.SeedsPath
	}
	if cfg.DBPath != filepath.Join(cfg.Dir, "runclub.db") {
		tc.DBPath = cfg.DBPath
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tc); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	path := filepath.Join(cfg.Dir, "config.toml")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
