package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/conorfennell/flashquiz/internal/domain"
	"github.com/conorfennell/flashquiz/internal/quiz"
)

// EnvPrefix prefixes every environment override, e.g. FLASHQUIZ_LOG_LEVEL.
const EnvPrefix = "FLASHQUIZ_"

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "flashquiz.yaml"

// Config holds the application settings.
type Config struct {
	DB      string   `koanf:"db" validate:"required"`
	Repos   string   `koanf:"repos" validate:"required"`
	Topics  []string `koanf:"topics" validate:"dive,required"`
	Sources []string `koanf:"sources" validate:"dive,required"`
	Log     Log      `koanf:"log"`
	Quiz    Quiz     `koanf:"quiz"`
}

// Log configures the slog handler.
type Log struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	File  string `koanf:"file"`
}

// Quiz configures session behaviour.
type Quiz struct {
	Countdown int `koanf:"countdown" validate:"min=1,max=3600"`
}

// RegisterFlags adds every config key to fs with its default value.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", DefaultPath, "Path to the YAML config file")
	flags.String("db", "quiz_game.db", "Path to the SQLite database file")
	flags.String("repos", "repos", "Directory where git question packs are checked out")
	flags.StringSlice("topics", domain.DefaultTopics, "Topics offered on the home screen")
	flags.StringSlice("sources", nil, "Question pack sources (directories or git URLs)")
	flags.String("log.level", "info", "Log level: debug, info, warn or error")
	flags.String("log.file", "flashquiz.log", "File that receives logs while the UI is running")
	flags.Int("quiz.countdown", quiz.DefaultCountdown, "Seconds allowed per question")
}

// Load builds the configuration from, in increasing priority, the YAML file
// named by --config, FLASHQUIZ_* environment variables and command-line
// flags. A missing config file is only an error when --config was set
// explicitly.
func Load(flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	path, _ := flags.GetString("config")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || flags.Changed("config") {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (l Log) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// listKeys hold comma-separated lists when set through the environment.
var listKeys = map[string]bool{"topics": true, "sources": true}

// envValue maps an environment variable to its config key, splitting list
// values on commas.
func envValue(name, value string) (string, any) {
	key := envKey(name)
	if !listKeys[key] {
		return key, value
	}
	items := make([]string, 0, strings.Count(value, ",")+1)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// envKey turns FLASHQUIZ_LOG_LEVEL into log.level.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
}
