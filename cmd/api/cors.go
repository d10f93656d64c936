package main

import (
	"net/url"
	"strings"
)

// matchCORSOrigin reports whether origin is allowed by any of patterns.
// Patterns are exact origins, "*", or a scheme plus "*." host wildcard
// (https://*.club.test) which matches subdomains but not the bare domain.
func matchCORSOrigin(origin string, patterns []string) bool {
	o, err := url.Parse(origin)
	if err != nil || o.Host == "" {
		return false
	}
	for _, p := range patterns {
		if p == "*" || p == origin {
			return true
		}
		if !strings.Contains(p, "*.") {
			continue
		}
		u, err := url.Parse(strings.Replace(p, "*.", "wildcard.", 1))
		if err != nil || u.Scheme != o.Scheme {
			continue
		}
		suffix := strings.TrimPrefix(u.Host, "wildcard")
		if strings.HasSuffix(o.Host, suffix) && len(o.Host) > len(suffix) {
			return true
		}
	}
	return false
}
