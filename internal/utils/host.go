package utils

import (
	"net/url"
	"strings"
)

// NormalizeHost lowercases a Host header value and strips any port suffix.
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.LastIndex(host, ":"); i != -1 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	return host
}

// NormalizeDomain extracts a bare hostname from operator input, which may be
// a full URL or a hostname with stray slashes or a port.
func NormalizeDomain(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.TrimRight(s, "/")
	if s == "" {
		return s
	}

	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}

	parsed, err := url.Parse(s)
	if err != nil || parsed.Hostname() == "" {
		return NormalizeHost(strings.TrimPrefix(strings.TrimPrefix(input, "https://"), "http://"))
	}
	return parsed.Hostname()
}
