package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jonesrussell/north-cloud/reviews/internal/config/browser"
	"github.com/jonesrussell/north-cloud/reviews/internal/config/elasticsearch"
	"github.com/jonesrussell/north-cloud/reviews/internal/config/extraction"
	"github.com/jonesrussell/north-cloud/reviews/internal/config/run"
	"github.com/jonesrussell/north-cloud/reviews/internal/config/sheet"
)

// InitializeViper initializes v from the .env file, the config file and
// environment variables. cfgFile overrides the config search path when set.
// It must be called before Load.
func InitializeViper(v *viper.Viper, cfgFile string) error {
	loadEnvFile()
	setupViper(v, cfgFile)
	setDefaults(v)

	if err := readConfigFile(v, cfgFile); err != nil {
		return err
	}

	if err := bindEnvironmentVariables(v); err != nil {
		return fmt.Errorf("failed to bind environment variables: %w", err)
	}

	setupDevelopmentLogging(v)
	return nil
}

// loadEnvFile loads .env file (ignores error if file doesn't exist).
func loadEnvFile() {
	_ = godotenv.Load()
}

// setupViper configures Viper for environment variable and config file reading.
func setupViper(v *viper.Viper, cfgFile string) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		return
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
}

// readConfigFile reads the config file. A missing file is only an error when
// it was named explicitly.
func readConfigFile(v *viper.Viper, cfgFile string) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return nil
	}
	return &LoadError{File: cfgFile, Err: fmt.Errorf("%w: %w", ErrConfigLoadFailed, err)}
}

// bindEnvironmentVariables binds environment variables that do not follow
// the section_key naming to config keys.
func bindEnvironmentVariables(v *viper.Viper) error {
	bindings := map[string][]string{
		"app.environment":          {"APP_ENV"},
		"app.debug":                {"APP_DEBUG"},
		"logger.level":             {"LOG_LEVEL"},
		"logger.encoding":          {"LOG_FORMAT"},
		"logger.output":            {"LOG_OUTPUT"},
		"browser.remote_url":       {"BROWSER_REMOTE_URL", "CHROME_REMOTE_URL"},
		"browser.bin":              {"BROWSER_BIN", "CHROME_BIN"},
		"sheet.path":               {"SHEET_PATH"},
		"elasticsearch.addresses":  {"ELASTICSEARCH_HOSTS", "ELASTICSEARCH_ADDRESSES"},
		"elasticsearch.password":   {"ELASTIC_PASSWORD", "ELASTICSEARCH_PASSWORD"},
		"elasticsearch.api_key":    {"ELASTICSEARCH_API_KEY"},
		"elasticsearch.index_name": {"ELASTICSEARCH_INDEX_NAME"},
		"schedule.cron":            {"SCHEDULE_CRON"},
	}
	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return &ViperError{Operation: "bind " + key, Err: err}
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults - production safe
	v.SetDefault("app", map[string]any{
		"name":        "reviews",
		"version":     "1.0.0",
		"environment": "production",
		"debug":       false,
	})

	v.SetDefault("logger", map[string]any{
		"level":        "info",
		"development":  false,
		"encoding":     "json",
		"enable_color": false,
		"output":       "stderr",
	})

	b := browser.NewConfig()
	v.SetDefault("browser", map[string]any{
		"headless":        b.Headless,
		"no_sandbox":      b.NoSandbox,
		"disable_dev_shm": b.DisableDevShm,
		"disable_gpu":     b.DisableGPU,
		"stealth":         b.Stealth,
		"window_width":    b.WindowWidth,
		"window_height":   b.WindowHeight,
		"user_agent":      b.UserAgent,
		"page_timeout":    b.PageTimeout.String(),
		"settle_delay":    b.SettleDelay.String(),
		"scroll_delay":    b.ScrollDelay.String(),
		"max_scrolls":     b.MaxScrolls,
	})

	e := extraction.NewConfig()
	v.SetDefault("extraction", map[string]any{
		"max_content_length":   e.MaxContentLength,
		"min_card_text_length": e.MinCardTextLength,
		"dedup_prefix_length":  e.DedupPrefixLength,
		"max_cards":            e.MaxCards,
		"enabled_marketplaces": e.EnabledMarketplaces,
		"static_first":         e.StaticFirst,
		"static_timeout":       e.StaticTimeout.String(),
		"static_max_redirects": e.StaticMaxRedirects,
	})

	r := run.NewConfig()
	v.SetDefault("run", map[string]any{
		"product_timeout": r.ProductTimeout.String(),
		"pause_min":       r.PauseMin.String(),
		"pause_max":       r.PauseMax.String(),
		"output_dir":      r.OutputDir,
		"sinks":           r.Sinks,
	})

	s := sheet.NewConfig()
	v.SetDefault("sheet", map[string]any{
		"path":          s.Path,
		"name_column":   s.NameColumn,
		"url_column":    s.URLColumn,
		"status_column": s.StatusColumn,
		"write_status":  s.WriteStatus,
	})

	v.SetDefault("elasticsearch", map[string]any{
		"addresses":  []string{elasticsearch.DefaultAddresses},
		"index_name": elasticsearch.DefaultIndexName,
		"retry": map[string]any{
			"enabled":      elasticsearch.DefaultRetryEnabled,
			"initial_wait": elasticsearch.DefaultInitialWait.String(),
			"max_wait":     elasticsearch.DefaultMaxWait.String(),
			"max_retries":  elasticsearch.DefaultMaxRetries,
		},
	})

	v.SetDefault("schedule", map[string]any{
		"cron":         DefaultSchedule,
		"run_on_start": false,
	})
}

// setupDevelopmentLogging separates debug level (APP_DEBUG) from development
// formatting (APP_ENV=development).
func setupDevelopmentLogging(v *viper.Viper) {
	if v.GetBool("app.debug") {
		v.Set("logger.level", "debug")
	}

	if v.GetString("app.environment") == "development" {
		v.Set("logger.development", true)
		v.Set("logger.enable_color", true)
		v.Set("logger.encoding", "console")
	}
}
