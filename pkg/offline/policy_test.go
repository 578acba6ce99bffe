package offline_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"droscher.com/Portafilter/pkg/offline"
)

func TestPolicyDecide(t *testing.T) {
	policy := offline.Policy{BustParam: "v", ThirdPartyHosts: []string{"cdn.example.com"}}

	tests := []struct {
		name     string
		method   string
		target   string
		expected offline.Strategy
	}{
		{"cache busting marker", http.MethodGet, "https://app.local/app.js?v=12", offline.Bypass},
		{"post", http.MethodPost, "https://app.local/api/beans", offline.Bypass},
		{"third party post", http.MethodPost, "https://cdn.example.com/lib.js", offline.Bypass},
		{"third party asset", http.MethodGet, "https://cdn.example.com/lib.js", offline.CacheFirst},
		{"third party busted", http.MethodGet, "https://cdn.example.com/lib.js?v=1", offline.Bypass},
		{"same origin", http.MethodGet, "https://app.local/index.html", offline.NetworkFirst},
		{"other query", http.MethodGet, "https://app.local/app.js?x=1", offline.NetworkFirst},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			request := httptest.NewRequest(test.method, test.target, nil)

			assert.Equal(t, test.expected, policy.Decide(request))
		})
	}
}

func TestIsNavigation(t *testing.T) {
	navigate := httptest.NewRequest(http.MethodGet, "https://app.local/beans", nil)
	navigate.Header.Set("Sec-Fetch-Mode", "navigate")
	assert.True(t, offline.IsNavigation(navigate))

	html := httptest.NewRequest(http.MethodGet, "https://app.local/beans", nil)
	html.Header.Set("Accept", "text/html,application/xhtml+xml")
	assert.True(t, offline.IsNavigation(html))

	script := httptest.NewRequest(http.MethodGet, "https://app.local/app.js", nil)
	assert.False(t, offline.IsNavigation(script))
}

func TestCacheKeyDropsFragment(t *testing.T) {
	target, _ := url.Parse("https://app.local/index.html#beans")

	assert.Equal(t, "https://app.local/index.html", offline.CacheKey(target))
}
