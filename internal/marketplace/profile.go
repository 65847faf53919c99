package marketplace

import (
	"regexp"

	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
)

// Profile is the configuration one marketplace contributes to the shared
// navigation and extraction pipeline.
type Profile struct {
	Marketplace domain.Marketplace

	// ReviewPath matches href paths of links leading to the full review listing.
	ReviewPath *regexp.Regexp
	// SeeAll matches the visible text of the preferred "see all reviews" link.
	SeeAll *regexp.Regexp
	// LoadMore matches the text of controls that append more reviews.
	LoadMore *regexp.Regexp

	// Rating matches class/style/aria-label/data-hook/itemprop values of rating widgets.
	Rating *regexp.Regexp
	// Container matches class names of card-like review containers.
	Container *regexp.Regexp

	// Content, Title, Author and Date match class or attribute values of the
	// elements carrying each field.
	Content *regexp.Regexp
	Title   *regexp.Regexp
	Author  *regexp.Regexp
	Date    *regexp.Regexp

	// FillClass matches class keywords marking a filled rating icon.
	FillClass *regexp.Regexp
	// HalfClass matches class keywords marking a half-filled icon.
	HalfClass *regexp.Regexp
	// FillColors are colour tokens (lowercase) that mark a filled icon in
	// fill, style or color attributes.
	FillColors []string

	// StaticFirst enables a plain HTTP fetch before the browser.
	StaticFirst bool
}

// Name returns the human readable marketplace name.
func (p Profile) Name() string {
	return p.Marketplace.DisplayName()
}

var (
	reviewPathPattern = regexp.MustCompile(`(?i)opiniones|reviews|product-reviews|comentarios|opinions|avaliacoes`)
	seeAllPattern     = regexp.MustCompile(`(?i)ver todas|see all|view all|mostrar todas|ver más opiniones|ver mas opiniones|all reviews|ver todas as`)
	loadMorePattern   = regexp.MustCompile(`(?i)ver más|ver mas|cargar más|cargar mas|mostrar más|load more|show more|more reviews|next page|siguiente`)
	ratingPattern     = regexp.MustCompile(`(?:^|[^a-zA-Z])(?i:ratings?|rated|stars?|estrellas?|(?:calificaci|puntuaci|avalia)\p{L}*)(?:$|[^a-z])|` +
		`[a-z](?:Ratings?|Rated|Stars?|Estrellas?)(?:$|[^a-z])`)
	containerPattern = regexp.MustCompile(`(?i)card|review|content|opinion|comment`)
	contentPattern   = regexp.MustCompile(`(?i)content|body|comment|comentario|text|description|descripcion|conteudo`)
	titlePattern     = regexp.MustCompile(`(?i)title|titulo|heading|headline|summary`)
	authorPattern    = regexp.MustCompile(`(?i)author|autor|reviewer|profile-name|user|usuario|nombre|name`)
	datePattern      = regexp.MustCompile(`(?i)date|fecha|time|posted|published`)
	fillClassPattern = regexp.MustCompile(`(?i)(^|[-_\s])(filled|full|active|on|checked|selected|rated)($|[-_\s])`)
	halfClassPattern = regexp.MustCompile(`(?i)half`)

	amazonContentPattern = regexp.MustCompile(`(?i)review-body|review-text|content|body|text`)
	amazonTitlePattern   = regexp.MustCompile(`(?i)review-title|title`)
	amazonAuthorPattern  = regexp.MustCompile(`(?i)profile-name|author|reviewer`)
	amazonDatePattern    = regexp.MustCompile(`(?i)review-date|date`)
)

var profiles = map[domain.Marketplace]Profile{
	domain.MarketplaceMercadoLibre: {
		Marketplace: domain.MarketplaceMercadoLibre,
		ReviewPath:  reviewPathPattern,
		SeeAll:      seeAllPattern,
		LoadMore:    loadMorePattern,
		Rating:      ratingPattern,
		Container:   containerPattern,
		Content:     contentPattern,
		Title:       titlePattern,
		Author:      authorPattern,
		Date:        datePattern,
		FillClass:   fillClassPattern,
		HalfClass:   halfClassPattern,
		FillColors:  []string{"#3483fa", "rgb(52, 131, 250)", "#2968c8"},
		StaticFirst: true,
	},
	domain.MarketplaceAmazon: {
		Marketplace: domain.MarketplaceAmazon,
		ReviewPath:  reviewPathPattern,
		SeeAll:      seeAllPattern,
		LoadMore:    loadMorePattern,
		Rating:      ratingPattern,
		Container:   containerPattern,
		Content:     amazonContentPattern,
		Title:       amazonTitlePattern,
		Author:      amazonAuthorPattern,
		Date:        amazonDatePattern,
		FillClass:   fillClassPattern,
		HalfClass:   halfClassPattern,
		FillColors:  []string{"#ffa41c", "#de7921", "rgb(255, 164, 28)"},
		StaticFirst: true,
	},
	domain.MarketplaceGeneric: {
		Marketplace: domain.MarketplaceGeneric,
		ReviewPath:  reviewPathPattern,
		SeeAll:      seeAllPattern,
		LoadMore:    loadMorePattern,
		Rating:      ratingPattern,
		Container:   containerPattern,
		Content:     contentPattern,
		Title:       titlePattern,
		Author:      authorPattern,
		Date:        datePattern,
		FillClass:   fillClassPattern,
		HalfClass:   halfClassPattern,
		FillColors:  []string{"#ffc107", "#ffd700", "gold", "#f5a623", "orange"},
		StaticFirst: false,
	},
}

// For returns the profile of m. Unknown marketplaces get the generic profile.
func For(m domain.Marketplace) Profile {
	if p, ok := profiles[m]; ok {
		return p
	}
	return profiles[domain.MarketplaceGeneric]
}

// ForURL classifies rawURL and returns its profile.
func ForURL(rawURL string) Profile {
	return For(Classify(rawURL))
}
