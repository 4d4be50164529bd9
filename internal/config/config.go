package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Telegram struct {
		Token string `yaml:"token"`
		// WebhookBaseURL is the public https base the bot is reachable at;
		// the webhook path is <base>/<token>. Empty disables registration.
		WebhookBaseURL string `yaml:"webhook_base_url"`
	} `yaml:"telegram"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Bank struct {
		ID  string `yaml:"id"`
		TTL string `yaml:"ttl"`
	} `yaml:"bank"`
	Session struct {
		// TTL bounds abandoned sessions in the Redis store. Empty or zero
		// keeps sessions forever, matching the original bot.
		TTL string `yaml:"ttl"`
	} `yaml:"session"`
}

// Load reads YAML config from path. Environment variables override the file
// for the two secrets that hosting platforms inject.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if token := os.Getenv("BOT_API_KEY"); token != "" {
		cfg.Telegram.Token = token
	}
	if base := os.Getenv("RENDER_EXTERNAL_URL"); base != "" {
		cfg.Telegram.WebhookBaseURL = base
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
