package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/robalobadob/mastermind/internal/game"
)

// ServerConfig holds settings for `mastermind serve`.
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ClientOrigin   string        `mapstructure:"client_origin"`
	MaxGuesses     int           `mapstructure:"max_guesses"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

// AuthConfig holds account token settings.
type AuthConfig struct {
	JWTSecret      string `mapstructure:"jwt_secret"`
	JWTExpiresDays int    `mapstructure:"jwt_expires_days"`
	CookieName     string `mapstructure:"cookie_name"`
	SecureCookies  bool   `mapstructure:"secure_cookies"`
}

type DailyConfig struct {
	Salt string `mapstructure:"salt"`
}

type SimulateConfig struct {
	Games   int `mapstructure:"games"`
	Workers int `mapstructure:"workers"`
}

// Config holds all runtime configuration.
// Values are populated from .mastermind.yaml, MASTERMIND_* env vars, and CLI flags.
type Config struct {
	Colors     int    `mapstructure:"colors"`
	Positions  int    `mapstructure:"positions"`
	Duplicates bool   `mapstructure:"duplicates"`
	Seed       uint64 `mapstructure:"seed"`
	LogLevel   string `mapstructure:"log_level"`

	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"db"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Daily    DailyConfig    `mapstructure:"daily"`
	Simulate SimulateConfig `mapstructure:"simulate"`
}

// EnvPrefix namespaces environment overrides, e.g. MASTERMIND_SERVER_PORT.
const EnvPrefix = "MASTERMIND"

// Init points viper at the config sources. An explicit cfgFile must exist;
// otherwise .mastermind.yaml is looked up in the working directory and home,
// and it's fine if none is found. A .env file, when present, is loaded into
// the environment first.
func Init(cfgFile string) error {
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".mastermind")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// SetDefaults registers built-in defaults on viper.
func SetDefaults() {
	viper.SetDefault("colors", game.DefaultColors)
	viper.SetDefault("positions", game.DefaultPositions)
	viper.SetDefault("duplicates", true)
	viper.SetDefault("seed", 0)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("server.port", 5175)
	viper.SetDefault("server.client_origin", "http://localhost:5173")
	viper.SetDefault("server.max_guesses", 10)
	viper.SetDefault("server.request_timeout", 10*time.Second)
	viper.SetDefault("db.path", "./data/mastermind.db")
	viper.SetDefault("auth.jwt_secret", "dev_secret_change_me")
	viper.SetDefault("auth.jwt_expires_days", 14)
	viper.SetDefault("auth.cookie_name", "mastermind_token")
	viper.SetDefault("auth.secure_cookies", false)
	viper.SetDefault("daily.salt", "local_dev_salt")
	viper.SetDefault("simulate.games", 1000)
	viper.SetDefault("simulate.workers", 4)
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags. The game rules are
// validated before Load returns.
func Load() (Config, error) {
	SetDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if _, err := cfg.Rules(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Rules builds the game configuration.
func (c Config) Rules() (game.Rules, error) {
	return game.NewRules(c.Colors, c.Positions, c.Duplicates)
}
