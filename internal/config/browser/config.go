// Package browser provides configuration for the headless browser sessions
// used to render marketplace pages.
package browser

import (
	"errors"
	"time"
)

// Default configuration values
const (
	DefaultWindowWidth  = 1366
	DefaultWindowHeight = 900
	DefaultPageTimeout  = 45 * time.Second
	DefaultSettleDelay  = 3 * time.Second
	DefaultScrollDelay  = 2 * time.Second
	DefaultMaxScrolls   = 10
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds browser launch and pacing settings. It is passed by value so
// a session never observes a mutation made after it was opened.
type Config struct {
	// Headless runs the browser without a window
	Headless bool `mapstructure:"headless" yaml:"headless"`
	// NoSandbox disables the Chrome sandbox (needed in most containers)
	NoSandbox bool `mapstructure:"no_sandbox" yaml:"no_sandbox"`
	// DisableDevShm stops Chrome from using /dev/shm
	DisableDevShm bool `mapstructure:"disable_dev_shm" yaml:"disable_dev_shm"`
	// DisableGPU disables hardware acceleration
	DisableGPU bool `mapstructure:"disable_gpu" yaml:"disable_gpu"`
	// Stealth injects the evasion scripts into each page
	Stealth bool `mapstructure:"stealth" yaml:"stealth"`
	// WindowWidth is the viewport width in pixels
	WindowWidth int `mapstructure:"window_width" yaml:"window_width"`
	// WindowHeight is the viewport height in pixels
	WindowHeight int `mapstructure:"window_height" yaml:"window_height"`
	// UserAgent overrides the browser user agent
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
	// RemoteURL connects to an already running browser instead of launching one
	RemoteURL string `mapstructure:"remote_url" yaml:"remote_url"`
	// Bin is the browser executable; empty lets the launcher find or download one
	Bin string `mapstructure:"bin" yaml:"bin"`
	// PageTimeout bounds a single navigation
	PageTimeout time.Duration `mapstructure:"page_timeout" yaml:"page_timeout"`
	// SettleDelay is the wait after a navigation before the page is read
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
	// ScrollDelay is the wait after each scroll of the lazy-load pump
	ScrollDelay time.Duration `mapstructure:"scroll_delay" yaml:"scroll_delay"`
	// MaxScrolls caps the lazy-load pump iterations
	MaxScrolls int `mapstructure:"max_scrolls" yaml:"max_scrolls"`
}

// NewConfig returns the default browser configuration.
func NewConfig() Config {
	return Config{
		Headless:      true,
		NoSandbox:     true,
		DisableDevShm: true,
		DisableGPU:    true,
		Stealth:       true,
		WindowWidth:   DefaultWindowWidth,
		WindowHeight:  DefaultWindowHeight,
		UserAgent:     DefaultUserAgent,
		PageTimeout:   DefaultPageTimeout,
		SettleDelay:   DefaultSettleDelay,
		ScrollDelay:   DefaultScrollDelay,
		MaxScrolls:    DefaultMaxScrolls,
	}
}

// WithDefaults fills unset numeric and string fields with their defaults.
// Boolean switches are left as configured.
func (c Config) WithDefaults() Config {
	if c.WindowWidth <= 0 {
		c.WindowWidth = DefaultWindowWidth
	}
	if c.WindowHeight <= 0 {
		c.WindowHeight = DefaultWindowHeight
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.PageTimeout <= 0 {
		c.PageTimeout = DefaultPageTimeout
	}
	if c.SettleDelay < 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	if c.ScrollDelay < 0 {
		c.ScrollDelay = DefaultScrollDelay
	}
	if c.MaxScrolls <= 0 {
		c.MaxScrolls = DefaultMaxScrolls
	}
	return c
}

// Validate checks the browser configuration.
func (c Config) Validate() error {
	if c.MaxScrolls < 0 {
		return errors.New("max_scrolls must not be negative")
	}
	if c.SettleDelay < 0 || c.ScrollDelay < 0 {
		return errors.New("delays must not be negative")
	}
	if c.PageTimeout < 0 {
		return errors.New("page_timeout must not be negative")
	}
	return nil
}
