package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/robalobadob/mastermind/internal/game"
)

// inDir runs the test from an empty directory so no stray .mastermind.yaml
// or .env is picked up.
func inDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	inDir(t)
	if err := Init(""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Colors != game.DefaultColors || cfg.Positions != game.DefaultPositions || !cfg.Duplicates {
		t.Errorf("rules = %d/%d/%v", cfg.Colors, cfg.Positions, cfg.Duplicates)
	}
	if cfg.Server.Port != 5175 {
		t.Errorf("Server.Port = %d, want 5175", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 10*time.Second {
		t.Errorf("Server.RequestTimeout = %v", cfg.Server.RequestTimeout)
	}
	if cfg.Auth.CookieName != "mastermind_token" {
		t.Errorf("Auth.CookieName = %q", cfg.Auth.CookieName)
	}
	if cfg.Simulate.Games != 1000 || cfg.Simulate.Workers != 4 {
		t.Errorf("Simulate = %+v", cfg.Simulate)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	inDir(t)
	t.Setenv("MASTERMIND_COLORS", "8")
	t.Setenv("MASTERMIND_DUPLICATES", "false")
	t.Setenv("MASTERMIND_SERVER_PORT", "9090")
	t.Setenv("MASTERMIND_DB_PATH", "/tmp/x.db")

	if err := Init(""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Colors != 8 || cfg.Duplicates {
		t.Errorf("Colors=%d Duplicates=%v", cfg.Colors, cfg.Duplicates)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.DB.Path != "/tmp/x.db" {
		t.Errorf("DB.Path = %q", cfg.DB.Path)
	}
}

func TestLoadConfigFile(t *testing.T) {
	viper.Reset()
	dir := inDir(t)
	path := filepath.Join(dir, "custom.yaml")
	body := "positions: 5\nserver:\n  max_guesses: 12\ndaily:\n  salt: pepper\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Init(path); err != nil {
		t.Fatalf("Init: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Positions != 5 || cfg.Server.MaxGuesses != 12 || cfg.Daily.Salt != "pepper" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestInitMissingExplicitFile(t *testing.T) {
	viper.Reset()
	dir := inDir(t)
	if err := Init(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Fatal("Init with a missing explicit file should fail")
	}
}

func TestLoadInvalidRules(t *testing.T) {
	viper.Reset()
	inDir(t)
	viper.Set("positions", 0)
	if _, err := Load(); !errors.Is(err, game.ErrInvalidRules) {
		t.Fatalf("Load err = %v, want ErrInvalidRules", err)
	}
}
