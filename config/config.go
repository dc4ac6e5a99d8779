package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"lilmail/mailbox"
)

type ServerConfig struct {
	Port       int           `toml:"port"`
	RateLimit  int           `toml:"rate_limit"`  // requests per window and IP, 0 disables
	RateWindow time.Duration `toml:"rate_window"` // e.g. "1m"
	Assets     string        `toml:"assets"`      // directory served under /assets
}

type SessionConfig struct {
	TTL          time.Duration `toml:"ttl"` // idle time before a mailbox is dropped
	CookieSecure bool          `toml:"cookie_secure"`
}

type LocaleConfig struct {
	Default   string   `toml:"default"`
	Supported []string `toml:"supported"`
}

type MailboxConfig struct {
	SenderAddress string `toml:"sender_address"` // From of composed messages
	NowLabel      string `toml:"now_label"`      // date label of composed messages
	PreviewLength int    `toml:"preview_length"` // runes of body kept in the preview
}

type ComposeConfig struct {
	KeepDraftOnCancel bool `toml:"keep_draft_on_cancel"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Session SessionConfig `toml:"session"`
	Locale  LocaleConfig  `toml:"locale"`
	Mailbox MailboxConfig `toml:"mailbox"`
	Compose ComposeConfig `toml:"compose"`
	Log     LogConfig     `toml:"log"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	var config Config

	config.Server.Port = 3000
	config.Server.RateLimit = 100
	config.Server.RateWindow = time.Minute
	config.Server.Assets = "./assets"

	config.Session.TTL = 24 * time.Hour

	config.Locale.Default = "es"
	config.Locale.Supported = []string{"es", "en"}

	opts := mailbox.DefaultOptions()
	config.Mailbox.SenderAddress = opts.SenderAddress
	config.Mailbox.NowLabel = opts.NowLabel
	config.Mailbox.PreviewLength = opts.PreviewLength

	config.Log.Level = "info"

	return &config
}

// LoadConfig reads a TOML file over the defaults and validates the result
func LoadConfig(filepath string) (*Config, error) {
	config := Default()

	if _, err := toml.DecodeFile(filepath, config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks value ranges and cross-field consistency
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateWindow <= 0 {
		return fmt.Errorf("server.rate_window must be positive when rate limiting is enabled")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.Mailbox.PreviewLength <= 0 {
		return fmt.Errorf("mailbox.preview_length must be positive")
	}
	if c.Mailbox.SenderAddress == "" {
		return fmt.Errorf("mailbox.sender_address is required")
	}
	if !c.SupportsLocale(c.Locale.Default) {
		return fmt.Errorf("locale.default %q is not in locale.supported", c.Locale.Default)
	}
	return nil
}

// SupportsLocale reports whether lang is one of the configured languages
func (c *Config) SupportsLocale(lang string) bool {
	for _, l := range c.Locale.Supported {
		if l == lang {
			return true
		}
	}
	return false
}

// MailboxOptions converts the mailbox and compose sections for new sessions
func (c *Config) MailboxOptions() mailbox.Options {
	return mailbox.Options{
		SenderAddress:     c.Mailbox.SenderAddress,
		NowLabel:          c.Mailbox.NowLabel,
		PreviewLength:     c.Mailbox.PreviewLength,
		KeepDraftOnCancel: c.Compose.KeepDraftOnCancel,
	}
}
