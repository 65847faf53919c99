package extraction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/reviews/internal/config/extraction"
	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
)

func TestConfig_MarketplaceEnabled(t *testing.T) {
	t.Parallel()

	all := extraction.NewConfig()
	assert.True(t, all.MarketplaceEnabled(domain.MarketplaceAmazon))
	assert.True(t, all.MarketplaceEnabled(domain.MarketplaceGeneric))

	onlyML := extraction.Config{EnabledMarketplaces: []string{"mercadolibre"}}
	assert.True(t, onlyML.MarketplaceEnabled(domain.MarketplaceMercadoLibre))
	assert.False(t, onlyML.MarketplaceEnabled(domain.MarketplaceGeneric))

	empty := extraction.Config{}
	assert.True(t, empty.MarketplaceEnabled(domain.MarketplaceAmazon))
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, extraction.NewConfig().Validate())

	bad := extraction.Config{EnabledMarketplaces: []string{"ebay"}}
	require.Error(t, bad.Validate())

	negative := extraction.Config{MaxCards: -1}
	require.Error(t, negative.Validate())
}

func TestConfig_WithDefaults(t *testing.T) {
	t.Parallel()

	cfg := extraction.Config{MaxContentLength: 120}.WithDefaults()
	assert.Equal(t, 120, cfg.MaxContentLength)
	assert.Equal(t, extraction.DefaultMinCardTextLength, cfg.MinCardTextLength)
	assert.Equal(t, extraction.DefaultDedupPrefixLength, cfg.DedupPrefixLength)
	assert.Equal(t, extraction.DefaultMaxCards, cfg.MaxCards)
	assert.Equal(t, extraction.DefaultStaticRedirects, cfg.StaticMaxRedirects)
}
