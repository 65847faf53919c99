package fetcher

import "time"

// Default configuration values.
const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	defaultRequestTimeout = 15 * time.Second
	defaultMaxRetries     = 2
	defaultRetryDelay     = 500 * time.Millisecond
	defaultMaxBodySize    = 10 * 1024 * 1024 // 10 MB
	defaultMaxRedirects   = 5
)

// Config holds static fetcher configuration.
type Config struct {
	UserAgent      string
	RequestTimeout time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	MaxBodySize    int
	AcceptLanguage string
	MaxRedirects   int
}

// WithDefaults returns a copy of the config with default values applied for zero-value fields.
func (c Config) WithDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = defaultRetryDelay
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = defaultMaxBodySize
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = defaultMaxRedirects
	}
	if c.AcceptLanguage == "" {
		c.AcceptLanguage = "es-ES,es;q=0.9,pt;q=0.8,en;q=0.7"
	}
	return c
}
