// Package run provides configuration for batch runs over a product sheet.
package run

import (
	"errors"
	"fmt"
	"time"
)

// Sink names accepted in Sinks.
const (
	SinkJSON          = "json"
	SinkElasticsearch = "elasticsearch"
	SinkPostgres      = "postgres"
)

// Default configuration values
const (
	DefaultProductTimeout = 3 * time.Minute
	DefaultPauseMin       = 2 * time.Second
	DefaultPauseMax       = 5 * time.Second
	DefaultOutputDir      = "output"
)

// Config holds the settings of a batch run.
type Config struct {
	// ProductTimeout bounds the extraction of a single product
	ProductTimeout time.Duration `mapstructure:"product_timeout" yaml:"product_timeout"`
	// PauseMin is the lower bound of the pause between products
	PauseMin time.Duration `mapstructure:"pause_min" yaml:"pause_min"`
	// PauseMax is the upper bound of the pause between products
	PauseMax time.Duration `mapstructure:"pause_max" yaml:"pause_max"`
	// OutputDir is where the JSON sink writes one document per product
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	// Sinks lists the writers each product's records are sent to
	Sinks []string `mapstructure:"sinks" yaml:"sinks"`
}

// NewConfig returns the default run configuration.
func NewConfig() Config {
	return Config{
		ProductTimeout: DefaultProductTimeout,
		PauseMin:       DefaultPauseMin,
		PauseMax:       DefaultPauseMax,
		OutputDir:      DefaultOutputDir,
		Sinks:          []string{SinkJSON},
	}
}

// WithDefaults fills unset fields with their defaults.
func (c Config) WithDefaults() Config {
	if c.ProductTimeout <= 0 {
		c.ProductTimeout = DefaultProductTimeout
	}
	if c.PauseMin < 0 {
		c.PauseMin = DefaultPauseMin
	}
	if c.PauseMax < c.PauseMin {
		c.PauseMax = c.PauseMin
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if len(c.Sinks) == 0 {
		c.Sinks = []string{SinkJSON}
	}
	return c
}

// Validate checks the run configuration.
func (c Config) Validate() error {
	if c.PauseMin < 0 || c.PauseMax < 0 {
		return errors.New("pauses must not be negative")
	}
	if c.PauseMax < c.PauseMin {
		return fmt.Errorf("pause_max %s is lower than pause_min %s", c.PauseMax, c.PauseMin)
	}
	for _, sink := range c.Sinks {
		switch sink {
		case SinkJSON, SinkElasticsearch, SinkPostgres:
		default:
			return fmt.Errorf("unsupported sink %q", sink)
		}
	}
	return nil
}

// HasSink reports whether the named sink is enabled.
func (c Config) HasSink(name string) bool {
	for _, sink := range c.Sinks {
		if sink == name {
			return true
		}
	}
	return false
}
