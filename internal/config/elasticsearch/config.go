// Package elasticsearch provides Elasticsearch configuration management.
package elasticsearch

import (
	"fmt"
	"strings"
	"time"
)

// Default configuration values
const (
	DefaultAddresses    = "http://127.0.0.1:9200"
	DefaultIndexName    = "reviews"
	DefaultRetryEnabled = true
	DefaultInitialWait  = 1 * time.Second
	DefaultMaxWait      = 5 * time.Second
	DefaultMaxRetries   = 3
	MinPasswordLength   = 8
)

// Error codes for configuration validation
const (
	ErrCodeEmptyAddresses = "EMPTY_ADDRESSES"
	ErrCodeEmptyIndexName = "EMPTY_INDEX_NAME"
	ErrCodeMissingAPIKey  = "MISSING_API_KEY"
	ErrCodeInvalidFormat  = "INVALID_FORMAT"
	ErrCodeWeakPassword   = "WEAK_PASSWORD"
	ErrCodeInvalidRetry   = "INVALID_RETRY"
	ErrCodeInvalidTLS     = "INVALID_TLS"
)

// ConfigError represents a configuration validation error
type ConfigError struct {
	Code    string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Config represents Elasticsearch configuration settings.
type Config struct {
	// Addresses is a list of Elasticsearch node addresses
	Addresses []string `mapstructure:"addresses" yaml:"addresses"`
	// APIKey is the API key for authentication, in the form id:key
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	// Username is the username for authentication
	Username string `mapstructure:"username" yaml:"username"`
	// Password is the password for authentication (minimum 8 characters)
	Password string `mapstructure:"password" yaml:"password"`
	// IndexName is the index review documents are written to
	IndexName string `mapstructure:"index_name" yaml:"index_name"`
	// TLS contains TLS configuration
	TLS *TLSConfig `mapstructure:"tls" yaml:"tls"`
	// Retry contains retry configuration
	Retry RetryConfig `mapstructure:"retry" yaml:"retry"`
}

// TLSConfig represents TLS configuration settings.
type TLSConfig struct {
	CertFile           string `mapstructure:"cert_file"            yaml:"cert_file"`
	KeyFile            string `mapstructure:"key_file"             yaml:"key_file"`
	CAFile             string `mapstructure:"ca_file"              yaml:"ca_file"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	Enabled            bool   `mapstructure:"enabled"              yaml:"enabled"`
}

// RetryConfig controls transport level retries.
type RetryConfig struct {
	Enabled     bool          `mapstructure:"enabled"      yaml:"enabled"`
	InitialWait time.Duration `mapstructure:"initial_wait" yaml:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"     yaml:"max_wait"`
	MaxRetries  int           `mapstructure:"max_retries"  yaml:"max_retries"`
}

// validateTLS validates the TLS configuration
func (c *Config) validateTLS() error {
	if c.TLS != nil {
		if (c.TLS.CertFile != "" && c.TLS.KeyFile == "") || (c.TLS.CertFile == "" && c.TLS.KeyFile != "") {
			return &ConfigError{
				Code:    ErrCodeInvalidTLS,
				Message: "both cert file and key file must be provided for TLS",
			}
		}
	}
	return nil
}

// isLocalAddress reports whether addr points at a local development node.
func isLocalAddress(addr string) bool {
	for _, prefix := range []string{"http://localhost", "http://127.0.0.1", "http://elasticsearch"} {
		if strings.HasPrefix(addr, prefix) {
			return true
		}
	}
	return false
}

// validateRequiredFields validates required configuration fields
func (c *Config) validateRequiredFields() error {
	if len(c.Addresses) == 0 {
		return &ConfigError{
			Code:    ErrCodeEmptyAddresses,
			Message: "at least one address is required",
		}
	}

	if c.IndexName == "" {
		return &ConfigError{
			Code:    ErrCodeEmptyIndexName,
			Message: "index name is required",
		}
	}

	// Local development nodes may run without authentication
	if c.APIKey == "" && (c.Username == "" || c.Password == "") {
		for _, addr := range c.Addresses {
			if isLocalAddress(addr) {
				return nil
			}
		}
		return &ConfigError{
			Code:    ErrCodeMissingAPIKey,
			Message: "either API key or username/password is required",
		}
	}

	return nil
}

// validatePassword validates the password configuration
func (c *Config) validatePassword() error {
	if c.Password != "" && len(c.Password) < MinPasswordLength {
		return &ConfigError{
			Code:    ErrCodeWeakPassword,
			Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength),
		}
	}
	return nil
}

// validateRetry validates the retry configuration
func (c *Config) validateRetry() error {
	if c.Retry.Enabled {
		if c.Retry.InitialWait < 0 || c.Retry.MaxWait < 0 || c.Retry.MaxRetries < 0 {
			return &ConfigError{
				Code:    ErrCodeInvalidRetry,
				Message: "retry configuration must be non-negative",
			}
		}
	}
	return nil
}

// validateAPIKeyFormat validates the API key format
func (c *Config) validateAPIKeyFormat() error {
	if c.APIKey != "" {
		parts := strings.Split(c.APIKey, ":")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return &ConfigError{
				Code:    ErrCodeInvalidFormat,
				Message: "API key must be in the format 'id:key'",
			}
		}
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c == nil {
		return &ConfigError{
			Code:    ErrCodeEmptyAddresses,
			Message: "configuration is required",
		}
	}

	validators := []func() error{
		c.validateTLS,
		c.validateRequiredFields,
		c.validatePassword,
		c.validateRetry,
		c.validateAPIKeyFormat,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}

	return nil
}

// NewConfig creates a new Config instance with default values.
func NewConfig() *Config {
	return &Config{
		Addresses: []string{DefaultAddresses},
		IndexName: DefaultIndexName,
		Retry: RetryConfig{
			Enabled:     DefaultRetryEnabled,
			InitialWait: DefaultInitialWait,
			MaxWait:     DefaultMaxWait,
			MaxRetries:  DefaultMaxRetries,
		},
		TLS: &TLSConfig{},
	}
}

// ParseAddressesFromString parses comma-separated addresses from a string.
func ParseAddressesFromString(addrStr string) []string {
	addresses := strings.Split(addrStr, ",")
	filtered := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if addr = strings.TrimSpace(addr); addr != "" {
			filtered = append(filtered, addr)
		}
	}
	return filtered
}
