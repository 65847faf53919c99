package sheet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/north-cloud/reviews/internal/config/sheet"
)

func TestConfig_WithDefaults(t *testing.T) {
	t.Parallel()

	cfg := sheet.Config{}.WithDefaults()
	assert.Equal(t, sheet.DefaultPath, cfg.Path)
	assert.Equal(t, sheet.DefaultNameColumn, cfg.NameColumn)
	assert.Equal(t, sheet.DefaultURLColumn, cfg.URLColumn)
	assert.Equal(t, sheet.DefaultStatusColumn, cfg.StatusColumn)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*sheet.Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(*sheet.Config) {}},
		{name: "name equals url", modify: func(c *sheet.Config) { c.NameColumn = "URL" }, wantErr: true},
		{name: "status overwrites url", modify: func(c *sheet.Config) { c.StatusColumn = "URL" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := sheet.NewConfig()
			tt.modify(&cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
				return
			}
			assert.NoError(t, cfg.Validate())
		})
	}
}
