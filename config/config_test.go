package config

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Cadence != 20*time.Millisecond {
		t.Errorf("expected 20ms cadence, got %v", cfg.Cadence)
	}
	if cfg.ASCIILength != 64 || cfg.AlnumLength != 64 || cfg.HexLength != 64 {
		t.Errorf("expected 64 character defaults, got %d/%d/%d", cfg.ASCIILength, cfg.AlnumLength, cfg.HexLength)
	}
	if cfg.ResultBuffer != 8 {
		t.Errorf("expected result buffer 8, got %d", cfg.ResultBuffer)
	}
	if cfg != Default() {
		t.Errorf("env defaults %+v drifted from constants %+v", cfg, Default())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENTROPASS_CADENCE", "50ms")
	t.Setenv("ENTROPASS_HEX_LENGTH", "32")
	t.Setenv("ENTROPASS_DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Cadence != 50*time.Millisecond || cfg.HexLength != 32 || !cfg.Debug {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if l := cfg.Lengths(); l.Hex != 32 || l.ASCII != 64 {
		t.Errorf("unexpected lengths %+v", l)
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("ENTROPASS_ASCII_LENGTH", "not-an-int")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cadence", func(c *Config) { c.Cadence = 0 }},
		{"zero ascii", func(c *Config) { c.ASCIILength = 0 }},
		{"negative alnum", func(c *Config) { c.AlnumLength = -1 }},
		{"zero hex", func(c *Config) { c.HexLength = 0 }},
		{"zero buffer", func(c *Config) { c.ResultBuffer = 0 }},
		{"zero print interval", func(c *Config) { c.PrintInterval = 0 }},
		{"zero stats interval", func(c *Config) { c.StatsInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("ENTROPASS_RESULT_BUFFER", "0")
	if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
