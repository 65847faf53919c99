package navigator_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
	"github.com/jonesrussell/north-cloud/reviews/internal/marketplace"
	"github.com/jonesrussell/north-cloud/reviews/internal/navigator"
)

func parse(t *testing.T, page string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestFindReviewLink(t *testing.T) {
	t.Parallel()

	profile := marketplace.For(domain.MarketplaceMercadoLibre)
	base := "https://articulo.mercadolibre.com.ar/MLA-1-producto"

	tests := []struct {
		name string
		page string
		want string
	}{
		{
			name: "see all text wins over earlier path match",
			page: `<a href="/noindex/catalog/reviews/MLA1?page=3">3</a>
				<a href="https://www.mercadolibre.com.ar/noindex/catalog/reviews/MLA1">Mostrar todas las opiniones</a>`,
			want: "https://www.mercadolibre.com.ar/noindex/catalog/reviews/MLA1",
		},
		{
			name: "first path match without see all text",
			page: `<a href="/help">Ayuda</a><a href="/opiniones/MLA1#top">Opiniones</a>`,
			want: "https://articulo.mercadolibre.com.ar/opiniones/MLA1",
		},
		{
			name: "aria label counts as link text",
			page: `<a href="/reviews/1"></a><a href="/reviews/all" aria-label="See all reviews"><svg></svg></a>`,
			want: "https://articulo.mercadolibre.com.ar/reviews/all",
		},
		{
			name: "no review links",
			page: `<a href="/cart">Carrito</a><a href="javascript:void(0)">opiniones</a><a href="#reviews">Ver todas</a>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := parse(t, "<html><body>"+tt.page+"</body></html>")
			assert.Equal(t, tt.want, navigator.FindReviewLink(doc, base, profile))
		})
	}
}

func TestFindReviewLink_AmazonProductReviews(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<html><body>
<a data-hook="see-all-reviews-link-foot" href="/Kettle/product-reviews/B000ABC/ref=cm_cr_dp_d_show_all_btm">See more reviews</a>
</body></html>`)

	got := navigator.FindReviewLink(doc, "https://www.amazon.com/dp/B000ABC", marketplace.For(domain.MarketplaceAmazon))
	assert.Equal(t, "https://www.amazon.com/Kettle/product-reviews/B000ABC/ref=cm_cr_dp_d_show_all_btm", got)
}

func TestIsReviewListing(t *testing.T) {
	t.Parallel()

	profile := marketplace.For(domain.MarketplaceAmazon)
	assert.True(t, navigator.IsReviewListing("https://www.amazon.com/product-reviews/B0", profile))
	assert.False(t, navigator.IsReviewListing("https://www.amazon.com/dp/B0", profile))
}
