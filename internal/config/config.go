package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	LogLevel           string
	Debug              bool
	ServiceName        string
	Environment        string
	Port               string
	NotionToken        string
	NotionVersion      string
	NotionBaseURL      string
	WebhookURL         string
	UpstreamTimeout    time.Duration
	WebhookTimeout     time.Duration
	MaxBlockDepth      int
	StrictIDValidation bool
	WorkerCount        int
	QueueCapacity      int
	AllowedOrigins     []string
}

// LoadConfig reads the process environment. NOTION_TOKEN is not checked here:
// a missing token is reported per request as a misconfiguration.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DEBUG", "false")
	v.SetDefault("SERVICE_NAME", "notion-converter")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("NOTION_VERSION", "2022-06-28")
	v.SetDefault("NOTION_BASE_URL", "https://api.notion.com")
	v.SetDefault("UPSTREAM_TIMEOUT", "30s")
	v.SetDefault("WEBHOOK_TIMEOUT", "10s")
	v.SetDefault("MAX_BLOCK_DEPTH", "3")
	v.SetDefault("STRICT_ID_VALIDATION", "true")
	v.SetDefault("WORKER_COUNT", "2")
	v.SetDefault("QUEUE_CAPACITY", "100")
	v.SetDefault("ALLOWED_ORIGINS", "*")

	debug, err := parseBool(v, "DEBUG")
	if err != nil {
		return nil, err
	}
	strict, err := parseBool(v, "STRICT_ID_VALIDATION")
	if err != nil {
		return nil, err
	}
	upstreamTimeout, err := parseDuration(v, "UPSTREAM_TIMEOUT")
	if err != nil {
		return nil, err
	}
	webhookTimeout, err := parseDuration(v, "WEBHOOK_TIMEOUT")
	if err != nil {
		return nil, err
	}
	maxDepth, err := parseInt(v, "MAX_BLOCK_DEPTH")
	if err != nil {
		return nil, err
	}
	workerCount, err := parseInt(v, "WORKER_COUNT")
	if err != nil {
		return nil, err
	}
	if workerCount <= 0 {
		workerCount = 1
	}
	queueCapacity, err := parseInt(v, "QUEUE_CAPACITY")
	if err != nil {
		return nil, err
	}
	if queueCapacity <= 0 {
		queueCapacity = 100
	}

	allowedOrigins := []string{}
	for _, origin := range strings.Split(v.GetString("ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowedOrigins = append(allowedOrigins, origin)
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	return &Config{
		LogLevel:           v.GetString("LOG_LEVEL"),
		Debug:              debug,
		ServiceName:        v.GetString("SERVICE_NAME"),
		Environment:        v.GetString("ENVIRONMENT"),
		Port:               v.GetString("PORT"),
		NotionToken:        strings.TrimSpace(v.GetString("NOTION_TOKEN")),
		NotionVersion:      v.GetString("NOTION_VERSION"),
		NotionBaseURL:      strings.TrimRight(v.GetString("NOTION_BASE_URL"), "/"),
		WebhookURL:         strings.TrimSpace(v.GetString("INTERNAL_WEBHOOK_URL")),
		UpstreamTimeout:    upstreamTimeout,
		WebhookTimeout:     webhookTimeout,
		MaxBlockDepth:      maxDepth,
		StrictIDValidation: strict,
		WorkerCount:        workerCount,
		QueueCapacity:      queueCapacity,
		AllowedOrigins:     allowedOrigins,
	}, nil
}

// WebhookEnabled reports whether post-conversion notifications are configured.
func (c *Config) WebhookEnabled() bool {
	return c.WebhookURL != ""
}

func parseBool(v *viper.Viper, key string) (bool, error) {
	b, err := strconv.ParseBool(v.GetString(key))
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func parseInt(v *viper.Viper, key string) (int, error) {
	n, err := strconv.Atoi(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
