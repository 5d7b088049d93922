// Package config reads cupv defaults from the environment and an optional
// .env file. Command-line flags override every value loaded here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsingConfig wraps failures to decode environment values.
var ErrParsingConfig = errors.New("failed to parse config")

// Config holds environment-provided defaults.
type Config struct {
	RulesFile string `env:"CUPV_RULES_FILE"`
	Format    string `env:"CUPV_FORMAT" envDefault:"text"`
	Color     bool   `env:"CUPV_COLOR" envDefault:"true"`
	LogLevel  string `env:"CUPV_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"CUPV_LOG_FORMAT" envDefault:"text"`
	Jobs      int    `env:"CUPV_JOBS" envDefault:"1"`
	ReportDir string `env:"CUPV_REPORT_DIR" envDefault:"."`
}

// Load reads the given .env files (".env" when none are named) into the
// process environment, then parses Config. Missing .env files are ignored.
func Load(dotenv ...string) (Config, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, path := range dotenv {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return FromEnvironment(nil)
}

// FromEnvironment parses Config from environ, or from the process
// environment when environ is nil.
func FromEnvironment(environ map[string]string) (Config, error) {
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	return cfg, nil
}

// ReportDirOrCwd returns the configured report directory, falling back to the
// working directory when it is unset or unusable.
func (c Config) ReportDirOrCwd() string {
	if c.ReportDir != "" && c.ReportDir != "." {
		if info, err := os.Stat(c.ReportDir); err == nil && info.IsDir() {
			return c.ReportDir
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
