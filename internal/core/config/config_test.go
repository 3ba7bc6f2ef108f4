package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RUNCLUB_DB", "")
	t.Setenv("RUNCLUB_GROUP", "")
	t.Setenv("RUNCLUB_REMOTE", "")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.DBPath != filepath.Join(dir, "runclub.db") {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.ShareTemplate != DefaultShareTemplate {
		t.Error("expected default share template")
	}
	if len(cfg.Paces.Points()) != 0 {
		t.Errorf("expected no reference paces, got %v", cfg.Paces.Points())
	}
}

func TestLoadFrom_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	toml := `
runner_group = "Les Foulées"
remote_url = "https://club.example/api"

[paces]
easy_min = 330.0
easy_max = 360.0
intervals_min = 250.0
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "share_card.mustache"), []byte("{{title}}"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RUNCLUB_DB", "")
	t.Setenv("RUNCLUB_GROUP", "")
	t.Setenv("RUNCLUB_REMOTE", "http://localhost:9000")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.RunnerGroup != "Les Foulées" {
		t.Errorf("RunnerGroup = %q", cfg.RunnerGroup)
	}
	if cfg.RemoteURL != "http://localhost:9000" {
		t.Errorf("RemoteURL = %q, want env override", cfg.RemoteURL)
	}
	if cfg.ShareTemplate != "{{title}}" {
		t.Errorf("ShareTemplate = %q", cfg.ShareTemplate)
	}
	points := cfg.Paces.Points()
	if len(points) != 2 || points[0] != 345 || points[1] != 250 {
		t.Errorf("Paces.Points() = %v, want [345 250]", points)
	}
}

func TestLoadFrom_BadTOML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("runner_group = "), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(dir); err == nil {
		t.Error("expected a parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RUNCLUB_DB", "")
	t.Setenv("RUNCLUB_GROUP", "")
	t.Setenv("RUNCLUB_REMOTE", "")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatal(err)
	}
	tempo := 280.0
	cfg.Paces.TempoMin = &tempo
	cfg.RunnerGroup = "Running Club"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	again, err := LoadFrom(dir)
	if err != nil {
		t.Fatal(err)
	}
	if again.RunnerGroup != "Running Club" {
		t.Errorf("RunnerGroup = %q", again.RunnerGroup)
	}
	if again.Paces.TempoMin == nil || *again.Paces.TempoMin != 280 {
		t.Errorf("TempoMin = %v", again.Paces.TempoMin)
	}
	if again.DBPath != filepath.Join(dir, "runclub.db") {
		t.Errorf("DBPath = %q", again.DBPath)
	}
}
