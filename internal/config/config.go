// Package config resolves flashquiz settings from defaults, an optional
// flashquiz.yaml, a .env file, FLASHQUIZ_* environment variables and command
// line flags, in increasing order of priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Progress backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

const (
	appName   = "flashquiz"
	envPrefix = "FLASHQUIZ"
)

// Config is the resolved application configuration.
type Config struct {
	QuestionsPath string   `mapstructure:"questions_path" validate:"required"`
	Extractor     string   `mapstructure:"extractor" validate:"oneof=native pdftotext"`
	ShuffleSeed   uint64   `mapstructure:"shuffle_seed"` // 0 means time-based
	Progress      Progress `mapstructure:"progress"`
	Log           Log      `mapstructure:"log"`
}

// Progress selects where the correct-set is stored.
type Progress struct {
	Backend string `mapstructure:"backend" validate:"oneof=file sqlite"`
	Path    string `mapstructure:"path"` // empty means the XDG default for Backend
}

// Log configures the zap logger.
type Log struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	File   string `mapstructure:"file"` // empty means stderr
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// ConfigFile is an explicit config file. When empty, flashquiz.yaml is
	// searched in the working directory and $XDG_CONFIG_HOME/flashquiz.
	ConfigFile string

	// EnvFile is loaded with godotenv before reading the environment.
	// Defaults to ".env"; a missing file is ignored.
	EnvFile string

	// Flags are bound on top of everything else. Flag names use dashes for
	// the dots and underscores of config keys (progress-path, log-level).
	Flags *pflag.FlagSet
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"questions":  "questions_path",
	"backend":    "progress.backend",
	"progress":   "progress.path",
	"extractor":  "extractor",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-file":   "log.file",
	"seed":       "shuffle_seed",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load resolves and validates the configuration.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetDefault("questions_path", "questions.json")
	v.SetDefault("extractor", "native")
	v.SetDefault("shuffle_seed", 0)
	v.SetDefault("progress.backend", BackendFile)
	v.SetDefault("progress.path", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configHome(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appName))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Progress.Backend = strings.ToLower(cfg.Progress.Backend)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// ProgressPath returns the configured progress location, falling back to the
// default for the backend. The parent directory is created.
func (c *Config) ProgressPath() (string, error) {
	if c.Progress.Path != "" {
		return c.Progress.Path, ensureDir(c.Progress.Path)
	}
	return DefaultProgressPath(c.Progress.Backend)
}

// DefaultProgressPath resolves the progress file for backend:
// $XDG_DATA_HOME/flashquiz/correct_answers.json (or flashquiz.db for
// sqlite), falling back to ~/.local/share when XDG_DATA_HOME is unset.
func DefaultProgressPath(backend string) (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	name := "correct_answers.json"
	if backend == BackendSQLite {
		name = appName + ".db"
	}
	p := filepath.Join(dataHome, appName, name)
	return p, ensureDir(p)
}

// DefaultLogFile is where the quiz screen sends logs when log.file is unset:
// $XDG_STATE_HOME/flashquiz/flashquiz.log, falling back to ~/.local/state.
// The parent directory is created.
func DefaultLogFile() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	p := filepath.Join(stateHome, appName, appName+".log")
	return p, ensureDir(p)
}

// ScreenLogFile returns the log destination for full-screen commands, which
// must never write to the terminal.
func (c *Config) ScreenLogFile() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, ensureDir(c.Log.File)
	}
	return DefaultLogFile()
}

func configHome() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	return os.UserConfigDir()
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
