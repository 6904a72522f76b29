package fetch

import (
	"net/url"
	"strings"
)

// HostAllowed reports whether rawURL points at one of allowedHosts or at a
// subdomain of one. Matching is case-insensitive. A reference that cannot be
// parsed into a host is never allowed.
func HostAllowed(rawURL string, allowedHosts []string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false
	}

	for _, allowed := range allowedHosts {
		a := strings.ToLower(strings.TrimSpace(allowed))
		if a == "" {
			continue
		}
		if host == a || strings.HasSuffix(host, "."+a) {
			return true
		}
	}

	return false
}
