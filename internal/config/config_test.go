package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Buttons.Debounce != 500*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Buttons.Debounce)
	}
	if cfg.Buttons.PollInterval != 50*time.Millisecond {
		t.Errorf("poll interval = %v", cfg.Buttons.PollInterval)
	}
	if cfg.Objects.ConfidenceThreshold != 0.5 {
		t.Errorf("confidence = %v", cfg.Objects.ConfidenceThreshold)
	}
	if cfg.Objects.ChangeThreshold != 0.3 {
		t.Errorf("change threshold = %v", cfg.Objects.ChangeThreshold)
	}
	if cfg.Distance.WarningDistance != 100 {
		t.Errorf("warning distance = %v", cfg.Distance.WarningDistance)
	}
	if cfg.Distance.EchoTimeout != 100*time.Millisecond {
		t.Errorf("echo timeout = %v", cfg.Distance.EchoTimeout)
	}
	if cfg.Pins.ModeButton != "GPIO16" {
		t.Errorf("mode button pin = %q", cfg.Pins.ModeButton)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glass.toml")
	data := `
log_level = "debug"

[buttons]
debounce = "750ms"

[distance]
warning_distance_cm = 80.0

[pins]
mode_button = "GPIO5"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	if cfg.Buttons.Debounce != 750*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Buttons.Debounce)
	}
	if cfg.Distance.WarningDistance != 80 {
		t.Errorf("warning distance = %v", cfg.Distance.WarningDistance)
	}
	if cfg.Pins.ModeButton != "GPIO5" {
		t.Errorf("mode button pin = %q", cfg.Pins.ModeButton)
	}
	// Untouched sections keep their defaults.
	if cfg.Buttons.PollInterval != 50*time.Millisecond {
		t.Errorf("poll interval = %v", cfg.Buttons.PollInterval)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glass.toml")
	if err := os.WriteFile(path, []byte("[buttons]\ndebounce = \"750ms\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GLASS_DEBOUNCE", "250ms")
	t.Setenv("GLASS_WARNING_DISTANCE", "60")
	t.Setenv("GLASS_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Buttons.Debounce != 250*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Buttons.Debounce)
	}
	if cfg.Distance.WarningDistance != 60 {
		t.Errorf("warning distance = %v", cfg.Distance.WarningDistance)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load("/does/not/exist.toml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("GLASS_DEBOUNCE", "not-a-duration")
	t.Setenv("GLASS_WARNING_DISTANCE", "not-a-float")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Buttons.Debounce != 500*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Buttons.Debounce)
	}
	if cfg.Distance.WarningDistance != 100 {
		t.Errorf("warning distance = %v", cfg.Distance.WarningDistance)
	}
}
