// Package extraction provides configuration for review card location and
// field extraction.
package extraction

import (
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
)

// Default configuration values
const (
	DefaultMaxContentLength  = 500
	DefaultMinCardTextLength = 10
	DefaultDedupPrefixLength = 50
	DefaultMaxCards          = 50
	DefaultStaticTimeout     = 15 * time.Second
	DefaultStaticRedirects   = 5
)

// Config holds the thresholds used by the card locator, the field extractor
// and the deduplicator.
type Config struct {
	// MaxContentLength truncates review content, in characters
	MaxContentLength int `mapstructure:"max_content_length" yaml:"max_content_length"`
	// MinCardTextLength is the minimum visible text a candidate card must carry
	MinCardTextLength int `mapstructure:"min_card_text_length" yaml:"min_card_text_length"`
	// DedupPrefixLength is the number of normalized content characters forming the dedup key
	DedupPrefixLength int `mapstructure:"dedup_prefix_length" yaml:"dedup_prefix_length"`
	// MaxCards caps the number of cards examined per page
	MaxCards int `mapstructure:"max_cards" yaml:"max_cards"`
	// EnabledMarketplaces lists marketplace tags that may be extracted; empty enables all
	EnabledMarketplaces []string `mapstructure:"enabled_marketplaces" yaml:"enabled_marketplaces"`
	// StaticFirst tries a plain HTTP fetch before the browser where the profile allows it
	StaticFirst bool `mapstructure:"static_first" yaml:"static_first"`
	// StaticTimeout bounds the static pre-pass
	StaticTimeout time.Duration `mapstructure:"static_timeout" yaml:"static_timeout"`
	// StaticMaxRedirects caps redirects followed by the static pre-pass
	StaticMaxRedirects int `mapstructure:"static_max_redirects" yaml:"static_max_redirects"`
}

// NewConfig returns the default extraction configuration.
func NewConfig() Config {
	return Config{
		MaxContentLength:  DefaultMaxContentLength,
		MinCardTextLength: DefaultMinCardTextLength,
		DedupPrefixLength: DefaultDedupPrefixLength,
		MaxCards:          DefaultMaxCards,
		EnabledMarketplaces: []string{
			domain.MarketplaceMercadoLibre.String(),
			domain.MarketplaceAmazon.String(),
			domain.MarketplaceGeneric.String(),
		},
		StaticFirst:        true,
		StaticTimeout:      DefaultStaticTimeout,
		StaticMaxRedirects: DefaultStaticRedirects,
	}
}

// WithDefaults fills unset thresholds with their defaults.
func (c Config) WithDefaults() Config {
	if c.MaxContentLength <= 0 {
		c.MaxContentLength = DefaultMaxContentLength
	}
	if c.MinCardTextLength <= 0 {
		c.MinCardTextLength = DefaultMinCardTextLength
	}
	if c.DedupPrefixLength <= 0 {
		c.DedupPrefixLength = DefaultDedupPrefixLength
	}
	if c.MaxCards <= 0 {
		c.MaxCards = DefaultMaxCards
	}
	if c.StaticTimeout <= 0 {
		c.StaticTimeout = DefaultStaticTimeout
	}
	if c.StaticMaxRedirects <= 0 {
		c.StaticMaxRedirects = DefaultStaticRedirects
	}
	return c
}

// Validate checks the extraction configuration.
func (c Config) Validate() error {
	for _, tag := range c.EnabledMarketplaces {
		if _, ok := domain.ParseMarketplace(tag); !ok {
			return fmt.Errorf("unknown marketplace %q in enabled_marketplaces", tag)
		}
	}
	if c.MaxContentLength < 0 || c.MinCardTextLength < 0 || c.DedupPrefixLength < 0 || c.MaxCards < 0 {
		return fmt.Errorf("extraction thresholds must not be negative")
	}
	return nil
}

// MarketplaceEnabled reports whether extraction is allowed for m.
func (c Config) MarketplaceEnabled(m domain.Marketplace) bool {
	if len(c.EnabledMarketplaces) == 0 {
		return true
	}
	for _, tag := range c.EnabledMarketplaces {
		if parsed, ok := domain.ParseMarketplace(tag); ok && parsed == m {
			return true
		}
	}
	return false
}
