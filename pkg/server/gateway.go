package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"
)

var ErrInvalidOrigin = errors.New("invalid asset origin")

// NewGateway proxies everything outside the API to the asset origin through
// the given transport, normally the offline cache controller.
func NewGateway(origin string, transport http.RoundTripper, logger *zap.Logger) (http.Handler, error) {
	target, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOrigin, err)
	}

	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrigin, origin)
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(request *httputil.ProxyRequest) {
			request.SetURL(target)
			request.SetXForwarded()
		},
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn("asset unavailable", zap.String("path", r.URL.Path), zap.Error(err))
			http.Error(w, "asset unavailable offline", http.StatusBadGateway)
		},
	}

	return proxy, nil
}
