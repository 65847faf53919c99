// Package domain provides domain models used across the application.
package domain

// Marketplace identifies which marketplace branch produced a review.
type Marketplace string

const (
	// MarketplaceMercadoLibre covers the MercadoLibre / MercadoLivre family of sites.
	MarketplaceMercadoLibre Marketplace = "mercadolibre"
	// MarketplaceAmazon covers every Amazon storefront.
	MarketplaceAmazon Marketplace = "amazon"
	// MarketplaceGeneric is the fallback for hosts no profile recognises.
	MarketplaceGeneric Marketplace = "generic"
)

// String returns the marketplace tag.
func (m Marketplace) String() string {
	return string(m)
}

// DisplayName returns the human readable marketplace name.
func (m Marketplace) DisplayName() string {
	switch m {
	case MarketplaceMercadoLibre:
		return "Mercado Libre"
	case MarketplaceAmazon:
		return "Amazon"
	default:
		return "Generic"
	}
}

// ParseMarketplace converts a tag back into a Marketplace.
// Unknown tags return false.
func ParseMarketplace(tag string) (Marketplace, bool) {
	switch Marketplace(tag) {
	case MarketplaceMercadoLibre, MarketplaceAmazon, MarketplaceGeneric:
		return Marketplace(tag), true
	default:
		return "", false
	}
}
