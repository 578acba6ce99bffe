package offline

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
)

type Strategy int

const (
	// Bypass always goes to the network.
	Bypass Strategy = iota
	// CacheFirst serves a cached copy when there is one.
	CacheFirst
	// NetworkFirst falls back to the cache when the network fails.
	NetworkFirst
)

func (s Strategy) String() string {
	switch s {
	case Bypass:
		return "bypass"
	case CacheFirst:
		return "cache_first"
	case NetworkFirst:
		return "network_first"
	default:
		return "unknown"
	}
}

type Policy struct {
	BustParam       string
	ThirdPartyHosts []string
}

// Decide picks the strategy for a request. It looks only at the request.
func (p Policy) Decide(request *http.Request) Strategy {
	if p.BustParam != "" && request.URL.Query().Has(p.BustParam) {
		return Bypass
	}

	if request.Method != http.MethodGet {
		return Bypass
	}

	if slices.Contains(p.ThirdPartyHosts, request.URL.Hostname()) {
		return CacheFirst
	}

	return NetworkFirst
}

func IsNavigation(request *http.Request) bool {
	if request.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}

	return request.Method == http.MethodGet && strings.Contains(request.Header.Get("Accept"), "text/html")
}

// CacheKey identifies a stored response: the absolute URL without fragment.
func CacheKey(target *url.URL) string {
	key := *target
	key.Fragment = ""
	key.RawFragment = ""

	return key.String()
}
