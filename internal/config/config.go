// Package config provides configuration management for the review extraction
// service. It handles loading, validation, and access to configuration values
// from YAML files and environment variables through Viper.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/jonesrussell/north-cloud/reviews/internal/config/app"
	"github.com/jonesrussell/north-cloud/reviews/internal/config/browser"
	dbconfig "github.com/jonesrussell/north-cloud/reviews/internal/config/database"
	"github.com/jonesrussell/north-cloud/reviews/internal/config/elasticsearch"
	"github.com/jonesrussell/north-cloud/reviews/internal/config/extraction"
	"github.com/jonesrussell/north-cloud/reviews/internal/config/run"
	"github.com/jonesrussell/north-cloud/reviews/internal/config/sheet"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
)

// DefaultSchedule runs the batch once a day at 03:00.
const DefaultSchedule = "0 3 * * *"

// ScheduleConfig configures the schedule command.
type ScheduleConfig struct {
	// Cron is a standard five-field cron expression
	Cron string `mapstructure:"cron" yaml:"cron"`
	// RunOnStart triggers one run immediately when the scheduler starts
	RunOnStart bool `mapstructure:"run_on_start" yaml:"run_on_start"`
}

// Config represents the application configuration.
type Config struct {
	App           *app.Config           `mapstructure:"app"           yaml:"app"`
	Logger        *logger.Config        `mapstructure:"logger"        yaml:"logger"`
	Browser       browser.Config        `mapstructure:"browser"       yaml:"browser"`
	Extraction    extraction.Config     `mapstructure:"extraction"    yaml:"extraction"`
	Run           run.Config            `mapstructure:"run"           yaml:"run"`
	Sheet         sheet.Config          `mapstructure:"sheet"         yaml:"sheet"`
	Elasticsearch *elasticsearch.Config `mapstructure:"elasticsearch" yaml:"elasticsearch"`
	Database      *dbconfig.Config      `mapstructure:"database"      yaml:"database"`
	Schedule      ScheduleConfig        `mapstructure:"schedule"      yaml:"schedule"`
}

// Load builds a Config from v. Values missing from v fall back to the
// section defaults.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		return nil, &ViperError{Operation: "load", Err: errors.New("viper instance is nil")}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, &ViperError{Operation: "unmarshal", Err: err}
	}

	// Database credentials honour the DB_* environment variables first
	cfg.Database = dbconfig.LoadFromViper(v)

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App == nil {
		c.App = app.NewConfig()
	}
	if c.Logger == nil {
		c.Logger = &logger.Config{
			Level:    logger.DefaultLevel,
			Encoding: logger.DefaultEncoding,
			Output:   logger.DefaultOutput,
		}
	}
	if c.Elasticsearch == nil {
		c.Elasticsearch = elasticsearch.NewConfig()
	}
	if c.Database == nil {
		c.Database = dbconfig.NewConfig()
	}
	c.Browser = c.Browser.WithDefaults()
	c.Extraction = c.Extraction.WithDefaults()
	c.Run = c.Run.WithDefaults()
	c.Sheet = c.Sheet.WithDefaults()
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = DefaultSchedule
	}
}

// Validate validates every section. Sink backends are only checked when the
// run enables them.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Browser.Validate(); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	if err := c.Extraction.Validate(); err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	if err := c.Run.Validate(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if err := c.Sheet.Validate(); err != nil {
		return fmt.Errorf("sheet: %w", err)
	}
	if c.Run.HasSink(run.SinkElasticsearch) {
		if err := c.Elasticsearch.Validate(); err != nil {
			return fmt.Errorf("elasticsearch: %w", err)
		}
	}
	if c.Run.HasSink(run.SinkPostgres) {
		if err := c.Database.Validate(); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	return nil
}
