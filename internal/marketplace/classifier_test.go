package marketplace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
	"github.com/jonesrussell/north-cloud/reviews/internal/marketplace"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want domain.Marketplace
	}{
		{"mercadolibre argentina", "https://articulo.mercadolibre.com.ar/MLA-123-producto", domain.MarketplaceMercadoLibre},
		{"mercadolivre brazil", "https://produto.mercadolivre.com.br/MLB-9", domain.MarketplaceMercadoLibre},
		{"uppercase host", "HTTPS://WWW.MERCADOLIBRE.COM.MX/p/MLM1", domain.MarketplaceMercadoLibre},
		{"amazon us", "https://www.amazon.com/dp/B000123", domain.MarketplaceAmazon},
		{"amazon spain", "https://www.amazon.es/gp/product/B0", domain.MarketplaceAmazon},
		{"missing scheme", "www.amazon.com/dp/B000123", domain.MarketplaceAmazon},
		{"fragment only in path", "https://shop.example.com/amazon/mercadolibre", domain.MarketplaceGeneric},
		{"other shop", "https://www.example-marketplace.com/p/123", domain.MarketplaceGeneric},
		{"empty", "", domain.MarketplaceGeneric},
		{"garbage", "http://[::1", domain.MarketplaceGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, marketplace.Classify(tt.url))
		})
	}
}

func TestFor(t *testing.T) {
	t.Parallel()

	ml := marketplace.For(domain.MarketplaceMercadoLibre)
	assert.Equal(t, "Mercado Libre", ml.Name())
	assert.True(t, ml.StaticFirst)

	generic := marketplace.For(domain.Marketplace("ebay"))
	assert.Equal(t, domain.MarketplaceGeneric, generic.Marketplace)
	assert.False(t, generic.StaticFirst)

	assert.Equal(t, domain.MarketplaceAmazon, marketplace.ForURL("https://amazon.de/x").Marketplace)
}

func TestProfilePatterns(t *testing.T) {
	t.Parallel()

	p := marketplace.For(domain.MarketplaceGeneric)

	assert.True(t, p.ReviewPath.MatchString("/product-reviews/B000"))
	assert.True(t, p.ReviewPath.MatchString("/MLA-1/opiniones"))
	assert.False(t, p.ReviewPath.MatchString("/checkout"))
	assert.True(t, p.SeeAll.MatchString("Ver todas las opiniones"))
	assert.True(t, p.SeeAll.MatchString("See all reviews"))
	assert.True(t, p.LoadMore.MatchString("Cargar más"))
	assert.True(t, p.FillClass.MatchString("star star--filled"))
	assert.True(t, p.FillClass.MatchString("icon active"))
	assert.False(t, p.FillClass.MatchString("star-empty"))
	assert.False(t, p.FillClass.MatchString("icon-moon"), "keyword must be a whole token")
}

func TestProfileRatingPattern(t *testing.T) {
	t.Parallel()

	rating := marketplace.For(domain.MarketplaceGeneric).Rating

	tests := []struct {
		value string
		want  bool
	}{
		{"ui-review__rating", true},
		{"a-icon a-icon-star a-star-4", true},
		{"review-star-rating", true},
		{"ratingValue", true},
		{"reviewRating", true},
		{"Calificación 4 de 5", true},
		{"4 estrellas", true},
		{"Rated 4.5 out of 5", true},
		{"start-date", false},
		{"started", false},
		{"mustard", false},
		{"operating-hours", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, rating.MatchString(tt.value), tt.value)
	}
}
