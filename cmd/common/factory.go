package common

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jonesrussell/north-cloud/reviews/internal/config"
	"github.com/jonesrussell/north-cloud/reviews/internal/engine"
	"github.com/jonesrussell/north-cloud/reviews/internal/logger"
	"github.com/jonesrussell/north-cloud/reviews/internal/metrics"
)

// NewCommandDeps creates CommandDeps by loading config and creating logger.
func NewCommandDeps() (CommandDeps, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return CommandDeps{}, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return CommandDeps{}, fmt.Errorf("create logger: %w", err)
	}

	deps := CommandDeps{
		Logger: log,
		Config: cfg,
	}

	if validateErr := deps.Validate(); validateErr != nil {
		return CommandDeps{}, fmt.Errorf("validate deps: %w", validateErr)
	}

	return deps, nil
}

// NewEngine builds the production extraction engine.
func NewEngine(deps CommandDeps, m *metrics.Metrics) *engine.Engine {
	return engine.NewDefault(
		deps.Config.Browser,
		deps.Config.Extraction,
		deps.Logger,
		engine.WithMetrics(m),
	)
}
