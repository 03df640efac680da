package config

import (
	"Entropass/constants"
	"Entropass/generator"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds mixer and console settings
type Config struct {
	Cadence       time.Duration `env:"ENTROPASS_CADENCE" envDefault:"20ms"`
	ASCIILength   int           `env:"ENTROPASS_ASCII_LENGTH" envDefault:"64"`
	AlnumLength   int           `env:"ENTROPASS_ALNUM_LENGTH" envDefault:"64"`
	HexLength     int           `env:"ENTROPASS_HEX_LENGTH" envDefault:"64"`
	ResultBuffer  int           `env:"ENTROPASS_RESULT_BUFFER" envDefault:"8"`
	PrintInterval time.Duration `env:"ENTROPASS_PRINT_INTERVAL" envDefault:"1s"`
	StatsInterval time.Duration `env:"ENTROPASS_STATS_INTERVAL" envDefault:"30s"`
	Debug         bool          `env:"ENTROPASS_DEBUG"`
}

// Default returns the compiled-in settings from constants.
func Default() Config {
	return Config{
		Cadence:       constants.MixCadence,
		ASCIILength:   constants.ASCIILength,
		AlnumLength:   constants.AlnumLength,
		HexLength:     constants.HexLength,
		ResultBuffer:  constants.ResultBuffer,
		PrintInterval: constants.PrintInterval,
		StatsInterval: constants.StatsLogInterval,
	}
}

// Load reads the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the mixer can not run with.
func (c Config) Validate() error {
	switch {
	case c.Cadence <= 0:
		return errors.Wrapf(ErrInvalidConfig, "cadence %v must be positive", c.Cadence)
	case c.ASCIILength < 1:
		return errors.Wrapf(ErrInvalidConfig, "ascii length %d must be at least 1", c.ASCIILength)
	case c.AlnumLength < 1:
		return errors.Wrapf(ErrInvalidConfig, "alphanumeric length %d must be at least 1", c.AlnumLength)
	case c.HexLength < 1:
		return errors.Wrapf(ErrInvalidConfig, "hex length %d must be at least 1", c.HexLength)
	case c.ResultBuffer < 1:
		return errors.Wrapf(ErrInvalidConfig, "result buffer %d must be at least 1", c.ResultBuffer)
	case c.PrintInterval <= 0:
		return errors.Wrapf(ErrInvalidConfig, "print interval %v must be positive", c.PrintInterval)
	case c.StatsInterval <= 0:
		return errors.Wrapf(ErrInvalidConfig, "stats interval %v must be positive", c.StatsInterval)
	}
	return nil
}

// Lengths returns the password lengths in the form the deriver expects.
func (c Config) Lengths() generator.Lengths {
	return generator.Lengths{
		ASCII:        c.ASCIILength,
		Alphanumeric: c.AlnumLength,
		Hex:          c.HexLength,
	}
}
