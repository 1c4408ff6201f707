// Package config provides configuration for the review service.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the service configuration.
type Config struct {
	HTTP struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"http"`

	Database struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`

	// Mode set to MOCK swaps both hosted models for local fakes.
	Mode string `mapstructure:"mode"`

	Classifier struct {
		Backend   string `mapstructure:"backend"`
		URL       string `mapstructure:"url"`
		Model     string `mapstructure:"model"`
		Token     string `mapstructure:"token"`
		TimeoutMS int    `mapstructure:"timeout_ms"`
	} `mapstructure:"classifier"`

	LLM struct {
		BaseURL   string `mapstructure:"base_url"`
		APIKey    string `mapstructure:"api_key"`
		Model     string `mapstructure:"model"`
		TimeoutMS int    `mapstructure:"timeout_ms"`
	} `mapstructure:"llm"`

	Log struct {
		Level string `mapstructure:"level"`
		Dir   string `mapstructure:"dir"`
	} `mapstructure:"log"`

	Upload struct {
		MaxBytes int64 `mapstructure:"max_bytes"`
		MaxRows  int   `mapstructure:"max_rows"`
		// PolicyFile replaces the built-in upload policy when set.
		PolicyFile string `mapstructure:"policy_file"`
	} `mapstructure:"upload"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", 8080)
	v.SetDefault("database.url", ":memory:")
	v.SetDefault("mode", "")
	v.SetDefault("classifier.backend", "huggingface")
	v.SetDefault("classifier.url", "https://api-inference.huggingface.co")
	v.SetDefault("classifier.model", "nlptown/bert-base-multilingual-uncased-sentiment")
	v.SetDefault("classifier.token", "")
	v.SetDefault("classifier.timeout_ms", 30000)
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gpt-3.5-turbo")
	v.SetDefault("llm.timeout_ms", 60000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "Logs")
	v.SetDefault("upload.max_bytes", 10<<20)
	v.SetDefault("upload.max_rows", 50000)
	v.SetDefault("upload.policy_file", "")
}

// Load reads config.yml from the given directories (current directory when none),
// then applies environment overrides such as HTTP_PORT or LLM_API_KEY.
// A missing config file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", "LLM_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("classifier.token", "CLASSIFIER_TOKEN", "HUGGINGFACE_TOKEN"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		slog.Debug("config file not found, relying on environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Mode = strings.ToUpper(strings.TrimSpace(cfg.Mode))
	return &cfg, nil
}

// Validate checks the fields the service cannot start without.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http.port %d", c.HTTP.Port)
	}
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.Upload.MaxBytes < 0 || c.Upload.MaxRows < 0 {
		return errors.New("upload limits must not be negative")
	}
	if c.Mode == "MOCK" {
		return nil
	}
	if c.LLM.APIKey == "" {
		return errors.New("llm.api_key is required (set LLM_API_KEY or OPENAI_API_KEY, or MODE=MOCK)")
	}
	return nil
}

// ClassifierTimeout returns the classifier request timeout.
func (c *Config) ClassifierTimeout() time.Duration {
	return time.Duration(c.Classifier.TimeoutMS) * time.Millisecond
}

// LLMTimeout returns the chat completion timeout.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutMS) * time.Millisecond
}
