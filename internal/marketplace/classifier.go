// Package marketplace classifies product URLs and holds the per-marketplace
// extraction profiles.
package marketplace

import (
	"net/url"
	"strings"

	"github.com/jonesrussell/north-cloud/reviews/internal/domain"
)

// hostRule maps a host fragment to a marketplace. Rules are checked in order.
type hostRule struct {
	fragment    string
	marketplace domain.Marketplace
}

var hostRules = []hostRule{
	{fragment: "mercadolibre", marketplace: domain.MarketplaceMercadoLibre},
	{fragment: "mercadolivre", marketplace: domain.MarketplaceMercadoLibre},
	{fragment: "amazon", marketplace: domain.MarketplaceAmazon},
}

// Classify maps a product URL to its marketplace. Only the host is inspected.
// Unknown hosts and unparseable URLs are Generic.
func Classify(rawURL string) domain.Marketplace {
	host := hostOf(rawURL)
	if host == "" {
		return domain.MarketplaceGeneric
	}

	for _, rule := range hostRules {
		if strings.Contains(host, rule.fragment) {
			return rule.marketplace
		}
	}
	return domain.MarketplaceGeneric
}

// hostOf returns the lowercased host of rawURL. A missing scheme is treated
// as https so that sheet entries like "www.amazon.com/dp/X" still classify.
func hostOf(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
