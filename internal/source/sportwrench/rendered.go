package sportwrench

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/rcski77/aes-results-scraping/internal/logger"
	"github.com/rcski77/aes-results-scraping/internal/source"
	"github.com/rcski77/aes-results-scraping/internal/standing"
)

const (
	RenderedName = "sportwrench-rendered"

	// DefaultPageTimeout bounds one page load including the selector wait
	DefaultPageTimeout = 20 * time.Second

	titleSelector     = ".esw_title"
	divisionSelector  = "a[href*='/divisions/']"
	standingsSelector = ".standings-team-name"
)

var divisionHrefPattern = regexp.MustCompile(`/divisions/(\d+)$`)

// Renderer loads a page in a browser, waits until waitSelector matches and
// returns the rendered HTML.
type Renderer interface {
	Render(ctx context.Context, url, waitSelector string) (string, error)
}

// ChromeRenderer renders pages in a headless Chrome controlled by chromedp.
// One browser is shared by every Render call; each call opens its own tab.
type ChromeRenderer struct {
	browserCtx  context.Context
	cancel      context.CancelFunc
	pageTimeout time.Duration
}

// NewChromeRenderer starts a headless browser. Close releases it.
func NewChromeRenderer(ctx context.Context, pageTimeout time.Duration) (*ChromeRenderer, error) {
	if pageTimeout <= 0 {
		pageTimeout = DefaultPageTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Run with no actions launches the browser
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &ChromeRenderer{
		browserCtx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
		pageTimeout: pageTimeout,
	}, nil
}

// Render implements Renderer
func (r *ChromeRenderer) Render(ctx context.Context, url, waitSelector string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.pageTimeout)
	defer cancelTimeout()

	// Propagate cancellation of the caller's context to the tab
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(waitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}
	return html, nil
}

// Close shuts the browser down
func (r *ChromeRenderer) Close() {
	r.cancel()
}

// RenderedAdapter scrapes standings from the SportWrench single-page app.
// The start date is not shown on the rendered pages and is read from the
// event metadata when a fetcher is configured.
type RenderedAdapter struct {
	renderer Renderer
	baseURL  string
	meta     *metadata
}

// NewRendered creates an adapter that loads pages through renderer. fetcher
// may be nil, in which case records carry no event date.
func NewRendered(renderer Renderer, fetcher *source.Fetcher) *RenderedAdapter {
	a := &RenderedAdapter{renderer: renderer, baseURL: BaseURL}
	if fetcher != nil {
		a.meta = &metadata{fetcher: fetcher, baseURL: BaseURL}
	}
	return a
}

// Name implements source.Adapter
func (a *RenderedAdapter) Name() string {
	return RenderedName
}

// FetchStandings implements source.Adapter
func (a *RenderedAdapter) FetchStandings(ctx context.Context, eventID string) ([]standing.Record, error) {
	eventID = ParseEventID(eventID)
	eventURL := fmt.Sprintf("%s/#/events/%s", a.baseURL, eventID)

	html, err := a.render(ctx, eventURL, titleSelector)
	if err != nil {
		return nil, err
	}
	eventName, err := parseEventTitle(html)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", eventID, err)
	}

	eventDate := a.eventDate(ctx, eventID)

	html, err = a.render(ctx, eventURL+"/divisions", divisionSelector)
	if err != nil {
		return nil, err
	}
	divs, err := parseDivisionLinks(html)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", eventID, err)
	}

	logger.Info("Processing event", logger.Fields{
		"source":    RenderedName,
		"event_id":  eventID,
		"event":     eventName,
		"divisions": len(divs),
	})

	var records []standing.Record
	for _, div := range divs {
		divID := div.ID.String()
		u := fmt.Sprintf("%s/divisions/%s/standings", eventURL, divID)
		html, err := a.render(ctx, u, standingsSelector)
		if err != nil {
			skipDivision(RenderedName, eventID, divID, err)
			continue
		}
		rows, err := parseStandingsTable(html)
		if err != nil {
			skipDivision(RenderedName, eventID, divID, err)
			continue
		}
		logger.IncrCounter("divisions.fetched")

		for _, row := range rows {
			records = append(records, standing.Record{
				TeamName:     row.name,
				TeamCode:     row.code,
				Finish:       row.finish,
				FinishLabel:  standing.Label(row.finish, div.Name),
				DivisionName: div.Name,
				EventName:    eventName,
				EventID:      eventID,
				EventDate:    eventDate,
				Source:       RenderedName,
			})
		}
	}

	return source.Clean(RenderedName, records), nil
}

// eventDate returns the normalized start date, or "" when it cannot be loaded
func (a *RenderedAdapter) eventDate(ctx context.Context, eventID string) string {
	if a.meta == nil {
		return ""
	}
	info, err := a.meta.event(ctx, eventID)
	if err != nil {
		logger.Warn("Event date unavailable", logger.Fields{
			"source":   RenderedName,
			"event_id": eventID,
			"error":    err.Error(),
		})
		return ""
	}
	return info.DateStart
}

func (a *RenderedAdapter) render(ctx context.Context, url, waitSelector string) (string, error) {
	start := time.Now()
	html, err := a.renderer.Render(ctx, url, waitSelector)
	logger.RecordTiming("render."+RenderedName, time.Since(start))
	if err != nil {
		return "", &source.UnavailableError{Source: RenderedName, URL: url, Err: err}
	}
	return html, nil
}

type tableRow struct {
	finish string
	name   string
	code   string
}

func parseEventTitle(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("%w: parsing HTML: %v", source.ErrParseFailure, err)
	}
	title := strings.TrimSpace(doc.Find(titleSelector).First().Text())
	if title == "" {
		return "", fmt.Errorf("%w: event title not found", source.ErrParseFailure)
	}
	return title, nil
}

// parseDivisionLinks extracts division ids and names from the division list.
// Repeated links to the same division are collapsed.
func parseDivisionLinks(html string) ([]division, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing HTML: %v", source.ErrParseFailure, err)
	}

	var divs []division
	seen := make(map[string]bool)
	doc.Find(divisionSelector).Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		m := divisionHrefPattern.FindStringSubmatch(strings.TrimSpace(href))
		if m == nil || seen[m[1]] {
			return
		}
		seen[m[1]] = true
		divs = append(divs, division{
			ID:   source.FlexString(m[1]),
			Name: strings.Join(strings.Fields(s.Text()), " "),
		})
	})
	return divs, nil
}

// parseStandingsTable reads the standings rows after the header. Rows with
// fewer than three cells are ignored. The team code sits in the
// second-to-last column.
func parseStandingsTable(html string) ([]tableRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing HTML: %v", source.ErrParseFailure, err)
	}

	var rows []tableRow
	doc.Find("table tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := tr.Find("td")
		n := cells.Length()
		if n < 3 {
			return
		}
		rows = append(rows, tableRow{
			finish: strings.TrimSpace(cells.Eq(0).Text()),
			name:   strings.TrimSpace(cells.Eq(1).Text()),
			code:   strings.TrimSpace(cells.Eq(n - 2).Text()),
		})
	})
	return rows, nil
}
