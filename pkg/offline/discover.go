package offline

import (
	"context"
	"net/url"
	"slices"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

var discoverableRels = []string{"stylesheet", "icon", "manifest", "modulepreload", "preload", "apple-touch-icon"}

// Discover scans the root document for scripts, styles and icons it
// references, so they can be cached next to the fixed manifest.
func Discover(ctx context.Context, root string, logger *zap.Logger) ([]string, error) {
	collector := colly.NewCollector(colly.StdlibContext(ctx))

	var assets []string

	add := func(element *colly.HTMLElement, attribute string) {
		link := element.Request.AbsoluteURL(element.Attr(attribute))
		if link == "" {
			return
		}

		parsed, err := url.Parse(link)
		if err != nil {
			return
		}

		key := CacheKey(parsed)
		if !slices.Contains(assets, key) {
			assets = append(assets, key)
		}
	}

	collector.OnHTML("script[src]", func(element *colly.HTMLElement) {
		add(element, "src")
	})

	collector.OnHTML("link[href]", func(element *colly.HTMLElement) {
		if slices.Contains(discoverableRels, element.Attr("rel")) {
			add(element, "href")
		}
	})

	collector.OnError(func(response *colly.Response, err error) {
		logger.Error("error while scanning root document", zap.String("url", response.Request.URL.String()), zap.Error(err))
	})

	if err := collector.Visit(root); err != nil {
		return assets, err
	}

	logger.Info("discovered assets", zap.Int("count", len(assets)))

	return assets, nil
}
