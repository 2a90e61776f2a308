// Package logger configures zerolog for the whole process.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls level and output of the process logger.
type Config struct {
	Level  string `yaml:"level"`
	Debug  bool   `yaml:"debug"`
	Output string `yaml:"output"`
}

var root = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Init replaces the process logger. Output is "stdout" or "stderr" (default).
func Init(cfg Config) error {
	var out io.Writer = os.Stderr
	if cfg.Output == "stdout" {
		out = os.Stdout
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	} else if cfg.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	root = zerolog.New(out).Level(level).With().Timestamp().Logger()
	log.Logger = root
	return nil
}

// Discard silences all logging; used by the terminal dashboard, which owns the screen.
func Discard() {
	root = zerolog.Nop()
	log.Logger = root
}

func Get() zerolog.Logger { return root }

// WithComponent returns the process logger tagged with a component name.
func WithComponent(name string) zerolog.Logger {
	return root.With().Str("component", name).Logger()
}
