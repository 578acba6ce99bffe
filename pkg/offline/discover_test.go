package offline_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"droscher.com/Portafilter/pkg/offline"
)

const shell = `<!doctype html>
<html>
<head>
  <link rel="stylesheet" href="/styles.css">
  <link rel="manifest" href="manifest.json">
  <link rel="canonical" href="https://portafilter.example/">
  <script src="https://cdn.example.com/chart.js"></script>
</head>
<body><script src="/app.js"></script></body>
</html>`

func TestDiscover_FindsReferencedAssets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, shell)
	}))
	defer server.Close()

	assets, err := offline.Discover(context.Background(), server.URL+"/", zaptest.NewLogger(t))

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		server.URL + "/styles.css",
		server.URL + "/manifest.json",
		"https://cdn.example.com/chart.js",
		server.URL + "/app.js",
	}, assets)
}
