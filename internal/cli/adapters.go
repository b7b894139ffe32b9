package cli

import (
	"context"

	"github.com/rcski77/aes-results-scraping/internal/config"
	"github.com/rcski77/aes-results-scraping/internal/logger"
	"github.com/rcski77/aes-results-scraping/internal/source"
	"github.com/rcski77/aes-results-scraping/internal/source/aes"
	"github.com/rcski77/aes-results-scraping/internal/source/sportwrench"
	"github.com/rcski77/aes-results-scraping/internal/source/vbschedule"
)

// fetcherConfig maps the fetch settings onto the HTTP client options
func fetcherConfig(f config.Fetch) source.FetcherConfig {
	return source.FetcherConfig{
		Timeout:           f.Timeout,
		RequestsPerSecond: f.RequestsPerSecond,
		MaxRetries:        f.MaxRetries,
		UserAgent:         f.UserAgent,
	}
}

// usesSource reports whether any configured event reads from name
func usesSource(events []config.Event, name string) bool {
	for _, e := range events {
		if e.Source == name {
			return true
		}
	}
	return false
}

// buildAdapters creates one adapter per source. The SportWrench adapters
// share a fetcher so the rate limit applies to the host as a whole. A browser
// is started only when an event needs the rendered adapter; if it cannot be
// started those events fail and the rest of the run continues. The returned
// func releases the browser.
func buildAdapters(ctx context.Context, cfg *config.Config) (map[string]source.Adapter, func()) {
	fc := fetcherConfig(cfg.Fetch)
	sw := source.NewFetcher(sportwrench.Name, fc)

	adapters := map[string]source.Adapter{
		aes.Name:                aes.New(source.NewFetcher(aes.Name, fc)),
		sportwrench.Name:        sportwrench.New(sw),
		sportwrench.GraphQLName: sportwrench.NewGraphQL(sw, source.NewFetcher(sportwrench.GraphQLName, fc)),
		vbschedule.Name:         vbschedule.New(source.NewFetcher(vbschedule.Name, fc)),
	}

	release := func() {}
	if usesSource(cfg.Events, sportwrench.RenderedName) {
		renderer, err := sportwrench.NewChromeRenderer(ctx, cfg.Fetch.RenderTimeout)
		if err != nil {
			logger.Error("Could not start browser, rendered events will fail", logger.Fields{
				"source": sportwrench.RenderedName,
			}, err)
			return adapters, release
		}
		adapters[sportwrench.RenderedName] = sportwrench.NewRendered(renderer, sw)
		release = renderer.Close
	}

	return adapters, release
}
