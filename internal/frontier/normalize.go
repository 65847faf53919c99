// Package frontier normalizes and hashes product URLs so that the same
// product listed twice in a sheet, or linked with different tracking
// decorations, is extracted once and indexed under one stable key.
package frontier

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
)

// trackingParams lists query parameters that are stripped during normalization.
// None of them change which product a page shows.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"fbclid":       {},
	"gclid":        {},
	"gclsrc":       {},
	"dclid":        {},
	"msclkid":      {},
	// MercadoLibre search and ad attribution
	"tracking_id":   {},
	"matt_tool":     {},
	"matt_word":     {},
	"position":      {},
	"search_layout": {},
	// Amazon recommendation attribution
	"ref":        {},
	"ref_":       {},
	"pf_rd_r":    {},
	"pf_rd_p":    {},
	"pd_rd_r":    {},
	"pd_rd_w":    {},
	"pd_rd_wg":   {},
	"content-id": {},
}

// defaultPorts maps schemes to their default port strings.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

var (
	errEmptyInput          = errors.New("normalize url: empty input")
	errMissingSchemeOrHost = errors.New("normalize url: missing scheme or host")
)

// NormalizeURL applies deterministic transformations to a raw product URL so
// that equivalent URLs produce identical strings: lowercase scheme and host,
// http upgraded to https, default ports removed, dot-segments resolved,
// trailing slashes and Amazon "/ref=" path suffixes removed, fragments
// dropped, query parameters sorted and tracking parameters stripped.
func NormalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", errEmptyInput
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("normalize url: %w", err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errMissingSchemeOrHost
	}

	originalScheme := strings.ToLower(parsed.Scheme)
	parsed.Scheme = "https"
	parsed.Host = normalizeHost(parsed, originalScheme)
	parsed.Fragment = ""
	parsed.RawFragment = ""
	parsed.RawQuery = buildCleanQuery(parsed.Query())
	parsed.Path = normalizePath(parsed.Path)
	parsed.RawPath = ""

	return parsed.String(), nil
}

// URLHash normalizes the given URL and returns its SHA-256 hex digest.
// The returned string is always 64 characters long.
func URLHash(rawURL string) (string, error) {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return "", fmt.Errorf("url hash: %w", err)
	}

	sum := sha256.Sum256([]byte(normalized))

	return hex.EncodeToString(sum[:]), nil
}

// normalizeHost lowercases the hostname and removes default ports.
// originalScheme is the scheme before the upgrade to https.
func normalizeHost(u *url.URL, originalScheme string) string {
	hostname := strings.ToLower(u.Hostname())
	port := u.Port()

	if port == "" {
		return hostname
	}

	for _, scheme := range []string{originalScheme, u.Scheme} {
		if defaultPort, ok := defaultPorts[scheme]; ok && port == defaultPort {
			return hostname
		}
	}

	return hostname + ":" + port
}

// buildCleanQuery strips tracking parameters, sorts the remaining keys
// and returns the encoded query string.
func buildCleanQuery(values url.Values) string {
	keys := make([]string, 0, len(values))

	for key := range values {
		if _, isTracking := trackingParams[strings.ToLower(key)]; !isTracking {
			keys = append(keys, key)
		}
	}

	if len(keys) == 0 {
		return ""
	}

	sort.Strings(keys)

	var b strings.Builder

	for i, key := range keys {
		if i > 0 {
			b.WriteByte('&')
		}

		vals := values[key]
		for j, val := range vals {
			if j > 0 {
				b.WriteByte('&')
			}

			b.WriteString(url.QueryEscape(key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(val))
		}
	}

	return b.String()
}

// normalizePath drops an Amazon "/ref=..." suffix, resolves dot-segments and
// removes trailing slashes while preserving the root "/".
func normalizePath(p string) string {
	if idx := strings.Index(p, "/ref="); idx >= 0 {
		p = p[:idx]
	}

	if p == "" || p == "/" {
		return "/"
	}

	cleaned := path.Clean(p)

	return strings.TrimRight(cleaned, "/")
}
