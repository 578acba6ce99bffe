package offline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	ErrFetchFailed  = errors.New("asset fetch failed")
	ErrNotInstalled = errors.New("cache generation is not installed")
	ErrInProgress   = errors.New("cache state transition in progress")
)

type State int

const (
	NoCache State = iota
	Installing
	Installed
	Activating
	Active
)

func (s State) String() string {
	return [...]string{"no_cache", "installing", "installed", "activating", "active"}[s]
}

// Fetcher performs network requests. *http.Client satisfies it.
type Fetcher interface {
	Do(request *http.Request) (*http.Response, error)
}

type Config struct {
	Name            string
	Version         string
	Origin          string
	Assets          []string
	ThirdPartyHosts []string
	BustParam       string
	RootDocument    string
	Discover        bool
}

type InstallResult struct {
	Cached int
	Failed int
	Errors error
}

// Controller owns one cache generation. It installs the asset manifest,
// evicts older generations on activation and then intercepts fetches.
type Controller struct {
	config  Config
	policy  Policy
	origin  *url.URL
	storage Storage
	fetcher Fetcher
	metrics *Metrics
	logger  *zap.Logger
	now     func() time.Time

	mu    sync.RWMutex
	state State
}

func NewController(config Config, storage Storage, fetcher Fetcher, metrics *Metrics, logger *zap.Logger) (*Controller, error) {
	origin, err := url.Parse(config.Origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin %q: %w", config.Origin, err)
	}

	return &Controller{
		config:  config,
		policy:  Policy{BustParam: config.BustParam, ThirdPartyHosts: config.ThirdPartyHosts},
		origin:  origin,
		storage: storage,
		fetcher: fetcher,
		metrics: metrics,
		logger:  logger.With(zap.String("cache", config.Name+"-"+config.Version)),
		now:     time.Now,
	}, nil
}

func (c *Controller) CacheName() string {
	return c.config.Name + "-" + c.config.Version
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state
}

func (c *Controller) setState(state State) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()

	c.logger.Info("cache state changed", zap.Stringer("state", state))
}

// Manifest resolves the configured assets against the origin.
func (c *Controller) Manifest() []string {
	assets := make([]string, 0, len(c.config.Assets))
	seen := make(map[string]struct{}, len(c.config.Assets))

	for _, asset := range c.config.Assets {
		resolved, err := c.origin.Parse(asset)
		if err != nil {
			c.logger.Warn("skipping invalid manifest entry", zap.String("asset", asset), zap.Error(err))

			continue
		}

		key := CacheKey(resolved)
		if _, found := seen[key]; !found {
			seen[key] = struct{}{}
			assets = append(assets, key)
		}
	}

	return assets
}

// Install populates the generation cache. Assets that fail are logged and
// skipped; install itself only fails when the context is done.
// beginInstall returns the state Install started from. An active controller
// keeps serving while its generation is refilled.
func (c *Controller) beginInstall() (State, error) {
	c.mu.Lock()
	previous := c.state

	switch previous {
	case Installing, Activating:
		c.mu.Unlock()

		return previous, ErrInProgress
	case Active:
		c.mu.Unlock()

		return previous, nil
	}

	c.state = Installing
	c.mu.Unlock()

	c.logger.Info("cache state changed", zap.Stringer("state", Installing))

	return previous, nil
}

func (c *Controller) Install(ctx context.Context) (InstallResult, error) {
	previous, err := c.beginInstall()
	if err != nil {
		return InstallResult{}, err
	}

	assets := c.Manifest()

	if c.config.Discover {
		discovered, err := Discover(ctx, c.rootURL(), c.logger)
		if err != nil {
			c.logger.Warn("asset discovery failed", zap.Error(err))
		}

		assets = appendMissing(assets, discovered)
	}

	var (
		result InstallResult
		mu     sync.Mutex
		wg     sync.WaitGroup
	)

	for _, asset := range assets {
		wg.Add(1)

		go func(asset string) {
			defer wg.Done()

			err := c.add(ctx, asset)

			mu.Lock()
			defer mu.Unlock()

			if multierr.AppendInto(&result.Errors, err) {
				result.Failed++
				c.metrics.InstallFailures.Inc()
				c.logger.Warn("failed to cache asset", zap.String("asset", asset), zap.Error(err))

				return
			}

			result.Cached++
		}(asset)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		if previous != Active {
			c.setState(previous)
		}

		return result, err
	}

	c.logger.Info("installed cache", zap.Int("cached", result.Cached), zap.Int("failed", result.Failed))

	if previous != Active {
		c.setState(Installed)
	}

	return result, nil
}

// Activate deletes every other generation and starts intercepting fetches
// for all clients at once.
func (c *Controller) Activate(ctx context.Context) error {
	if c.State() < Installed {
		return ErrNotInstalled
	}

	c.setState(Activating)

	caches, err := c.storage.Caches(ctx)
	if err != nil {
		c.setState(Installed)

		return err
	}

	var errs error

	for _, cache := range caches {
		if cache == c.CacheName() {
			continue
		}

		if err := c.storage.Delete(ctx, cache); err != nil {
			multierr.AppendInto(&errs, err)

			continue
		}

		c.logger.Info("evicted stale cache", zap.String("stale", cache))
	}

	if errs != nil {
		c.setState(Installed)

		return errs
	}

	c.setState(Active)

	return nil
}

// Fetch answers a request according to the fetch policy. Until the
// generation is active every request goes straight to the network.
func (c *Controller) Fetch(request *http.Request) (*http.Response, error) {
	if c.State() != Active {
		return c.fetcher.Do(request)
	}

	strategy := c.policy.Decide(request)
	c.metrics.Decisions.WithLabelValues(strategy.String()).Inc()

	switch strategy {
	case CacheFirst:
		return c.cacheFirst(request)
	case NetworkFirst:
		return c.networkFirst(request)
	default:
		return c.fetcher.Do(request)
	}
}

func (c *Controller) Transport() http.RoundTripper {
	return &Transport{controller: c}
}

func (c *Controller) cacheFirst(request *http.Request) (*http.Response, error) {
	if response, found := c.match(request, CacheKey(request.URL)); found {
		c.metrics.CacheResults.WithLabelValues("hit").Inc()

		return response, nil
	}

	c.metrics.CacheResults.WithLabelValues("miss").Inc()

	response, err := c.fetcher.Do(request)
	if err != nil {
		c.metrics.NetworkFailures.Inc()

		return nil, err
	}

	return c.store(request, response), nil
}

func (c *Controller) networkFirst(request *http.Request) (*http.Response, error) {
	response, err := c.fetcher.Do(request)
	if err == nil {
		return c.store(request, response), nil
	}

	c.metrics.NetworkFailures.Inc()
	c.logger.Debug("network failed, trying cache", zap.String("url", request.URL.String()), zap.Error(err))

	if cached, found := c.match(request, CacheKey(request.URL)); found {
		c.metrics.CacheResults.WithLabelValues("fallback").Inc()

		return cached, nil
	}

	if IsNavigation(request) {
		if cached, found := c.match(request, c.rootURL()); found {
			c.metrics.CacheResults.WithLabelValues("root_fallback").Inc()

			return cached, nil
		}
	}

	c.metrics.CacheResults.WithLabelValues("miss").Inc()

	return nil, err
}

func (c *Controller) match(request *http.Request, key string) (*http.Response, bool) {
	entry, found, err := c.storage.Match(request.Context(), c.CacheName(), key)
	if err != nil {
		c.logger.Warn("cache lookup failed", zap.String("url", key), zap.Error(err))

		return nil, false
	}

	if !found {
		return nil, false
	}

	return entry.Response(request), true
}

// store keeps successful GET responses and hands back an unread copy.
func (c *Controller) store(request *http.Request, response *http.Response) *http.Response {
	if request.Method != http.MethodGet || response.StatusCode != http.StatusOK {
		return response
	}

	body, err := io.ReadAll(response.Body)
	_ = response.Body.Close()

	if err != nil {
		c.logger.Warn("failed to read response for caching", zap.String("url", request.URL.String()), zap.Error(err))

		response.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), errorReader{err: err}))

		return response
	}

	response.Body = io.NopCloser(bytes.NewReader(body))

	entry := Entry{
		URL:      CacheKey(request.URL),
		Status:   response.StatusCode,
		Header:   response.Header.Clone(),
		Body:     body,
		StoredAt: c.now().UTC(),
	}

	if err := c.storage.Put(request.Context(), c.CacheName(), entry); err != nil {
		c.logger.Warn("failed to cache response", zap.String("url", entry.URL), zap.Error(err))
	}

	return response
}

func (c *Controller) add(ctx context.Context, asset string) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, asset, nil)
	if err != nil {
		return err
	}

	response, err := c.fetcher.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFetchFailed, asset, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %s returned %d", ErrFetchFailed, asset, response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFetchFailed, asset, err)
	}

	return c.storage.Put(ctx, c.CacheName(), Entry{
		URL:      asset,
		Status:   response.StatusCode,
		Header:   response.Header.Clone(),
		Body:     body,
		StoredAt: c.now().UTC(),
	})
}

func (c *Controller) rootURL() string {
	root, err := c.origin.Parse(c.config.RootDocument)
	if err != nil {
		return CacheKey(c.origin)
	}

	return CacheKey(root)
}

func appendMissing(assets []string, extra []string) []string {
	seen := make(map[string]struct{}, len(assets))
	for _, asset := range assets {
		seen[asset] = struct{}{}
	}

	for _, asset := range extra {
		if _, found := seen[asset]; !found {
			seen[asset] = struct{}{}
			assets = append(assets, asset)
		}
	}

	return assets
}

type errorReader struct {
	err error
}

func (e errorReader) Read([]byte) (int, error) {
	return 0, e.err
}

// Transport routes requests of an http.Client or reverse proxy through the
// controller.
type Transport struct {
	controller *Controller
}

func (t *Transport) RoundTrip(request *http.Request) (*http.Response, error) {
	// Proxied server requests still carry RequestURI, which clients reject.
	if request.RequestURI != "" {
		request = request.Clone(request.Context())
		request.RequestURI = ""
	}

	return t.controller.Fetch(request)
}
