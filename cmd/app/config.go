package main

import (
	"errors"
	"fmt"
	"strings"

	"pp_quest/internal/gemini"
	"pp_quest/internal/repository"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Storage repository.Config `mapstructure:"storage"`
	Server  ServerConfig      `mapstructure:"server"`
	Gemini  gemini.Config     `mapstructure:"gemini"`

	LogLevel string `mapstructure:"logLevel"`
}

type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         string   `mapstructure:"port"`
	ShareBaseURL string   `mapstructure:"shareBaseURL"`
	CorsOrigins  []string `mapstructure:"corsOrigins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8888")
	v.SetDefault("server.shareBaseURL", "http://localhost:5173")
	v.SetDefault("server.corsOrigins", []string{})

	v.SetDefault("storage.driver", repository.DriverSQLite)
	v.SetDefault("storage.path", "data/pp_quest.db")
	v.SetDefault("storage.host", "localhost")
	v.SetDefault("storage.port", "5432")
	v.SetDefault("storage.redisAddr", "localhost:6379")

	v.SetDefault("gemini.apiKey", "")
	v.SetDefault("gemini.model", gemini.DefaultModel)
	v.SetDefault("gemini.baseURL", gemini.DefaultBaseURL)
	v.SetDefault("gemini.timeout", gemini.DefaultTimeout)

	v.SetDefault("logLevel", "info")
}

// LoadConfig reads .env, then config.yaml, then APP_* environment overrides. Both files are
// optional.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName(configName)
	v.AddConfigPath(configPath)
	v.SetConfigType(configFormat)

	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
