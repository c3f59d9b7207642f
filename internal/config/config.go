package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. QUIZLET_DB_PATH.
const EnvPrefix = "QUIZLET"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env      string `mapstructure:"env"`       // current application environment (local, production)
	DBPath   string `mapstructure:"db_path"`   // SQLite catalog path; empty uses the XDG default
	BankFile string `mapstructure:"bank_file"` // bank file played when no --bank/--file flag is given
	Quiz     Quiz   `mapstructure:"quiz"`      // engine options
	Log      Log    `mapstructure:"log"`       // logging section
}

// Quiz contains engine behaviour options.
type Quiz struct {
	Shuffle     bool          `mapstructure:"shuffle"`      // randomize question order per section
	AutoDismiss time.Duration `mapstructure:"auto_dismiss"` // retry feedback auto-dismiss delay; 0 disables
	TrimSpace   bool          `mapstructure:"trim_space"`   // ignore surrounding whitespace in typed answers
}

// Log contains logging configuration.
type Log struct {
	File  string `mapstructure:"file"`  // log destination while the TUI owns the terminal
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// Load reads configuration from an optional config file, a .env file and
// environment variables. An empty path searches ./config.yaml and
// $HOME/.config/quizlet/config.yaml.
func Load(path string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/quizlet")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("db_path", "")
	v.SetDefault("bank_file", "")
	v.SetDefault("quiz.shuffle", false)
	v.SetDefault("quiz.auto_dismiss", "1200ms")
	v.SetDefault("quiz.trim_space", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Validate reports configuration values that cannot be used.
func (c *Config) Validate() error {
	if c.Quiz.AutoDismiss < 0 {
		return fmt.Errorf("%w: quiz.auto_dismiss must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// IsProduction reports whether the production environment is selected.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
