package run_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/reviews/internal/config/run"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     run.Config
		wantErr bool
	}{
		{name: "defaults", cfg: run.NewConfig()},
		{
			name: "all sinks",
			cfg:  run.Config{Sinks: []string{run.SinkJSON, run.SinkElasticsearch, run.SinkPostgres}},
		},
		{name: "unknown sink", cfg: run.Config{Sinks: []string{"kafka"}}, wantErr: true},
		{name: "inverted pauses", cfg: run.Config{PauseMin: 3 * time.Second, PauseMax: time.Second}, wantErr: true},
		{name: "negative pause", cfg: run.Config{PauseMin: -time.Second}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	t.Parallel()

	cfg := run.Config{PauseMin: 4 * time.Second}.WithDefaults()

	assert.Equal(t, 4*time.Second, cfg.PauseMax)
	assert.Equal(t, run.DefaultProductTimeout, cfg.ProductTimeout)
	assert.Equal(t, []string{run.SinkJSON}, cfg.Sinks)
	assert.True(t, cfg.HasSink(run.SinkJSON))
	assert.False(t, cfg.HasSink(run.SinkPostgres))
}
