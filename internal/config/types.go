package config

import "time"

// Config is the on-disk configuration. Secrets never live here; they come
// from the environment (see Secrets).
type Config struct {
	Poll     PollConfig     `json:"poll"`
	Telegram TelegramConfig `json:"telegram"`
	Logging  LoggingConfig  `json:"logging"`
}

// PollConfig controls the status poll loop.
//
// Schedule accepts either a Go duration string ("10m", "600s") or a
// five-field cron spec ("*/10 * * * *"). Timeout is a Go duration string
// bounding a single HTTP request.
type PollConfig struct {
	Endpoint string `json:"endpoint,omitempty"`
	Schedule string `json:"schedule,omitempty"`
	Timeout  string `json:"timeout,omitempty"`
}

type TelegramConfig struct {
	// ThreadID targets a forum topic inside the chat (0 = main thread).
	ThreadID int `json:"thread_id,omitempty"`
	// RatePerSec caps outbound sends. The poller sends at most one message
	// per cycle, so this only matters right after a config-driven burst.
	RatePerSec int `json:"rate_per_sec,omitempty"`
}

type LoggingConfig struct {
	Level   string     `json:"level,omitempty"`
	Console *bool      `json:"console,omitempty"`
	File    FileConfig `json:"file,omitempty"`
}

type FileConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

const (
	DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultSchedule = "600s"
	DefaultTimeout  = 15 * time.Second
)

// Default returns the configuration used when no config file exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Poll.Endpoint == "" {
		c.Poll.Endpoint = DefaultEndpoint
	}
	if c.Poll.Schedule == "" {
		c.Poll.Schedule = DefaultSchedule
	}
	if c.Telegram.RatePerSec <= 0 {
		c.Telegram.RatePerSec = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Console == nil {
		on := true
		c.Logging.Console = &on
	}
}

// HTTPTimeout resolves poll.timeout with its default.
func (c *Config) HTTPTimeout() (time.Duration, error) {
	return ParseDurationOrDefault("poll.timeout", c.Poll.Timeout, DefaultTimeout)
}
