package scraper

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"upscout/internal/config"
	"upscout/internal/logging"
	"upscout/internal/scraper/extract"
	"upscout/pkg/models"
	"upscout/pkg/utils"
)

// PageFetcher is the slice of a browser session the runner needs. The
// session manager's Session satisfies it.
type PageFetcher interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	HTML() (string, error)
}

// Runner drives the keyword-by-page scrape loop over an authenticated
// session.
type Runner struct {
	config *config.Config
	pacer  Pacer
	logger logging.Logger
}

// NewRunner creates a new scrape runner
func NewRunner(cfg *config.Config, pacer Pacer) *Runner {
	return &Runner{
		config: cfg,
		pacer:  pacer,
		logger: logging.GetGlobalLogger(),
	}
}

// Run visits every (keyword, page) combination in request order and
// returns the listings extracted along the way. A page that fails to
// load or read is logged and skipped; one bad page never aborts the
// run. Every record is stamped with its source keyword, a Yes/No
// keyword-in-description flag and the run's capture date.
func (r *Runner) Run(ctx context.Context, req models.ScrapeRequest, page PageFetcher) []models.Listing {
	var results []models.Listing
	captureDate := time.Now().Format("2006-01-02")

	for _, keyword := range req.Keywords {
		for pageNum := 1; pageNum <= req.Pages; pageNum++ {
			if ctx.Err() != nil {
				r.logger.Warn("Scrape run cancelled", map[string]interface{}{
					"collected": len(results),
				})
				return results
			}

			pageURL := r.searchURL(keyword, pageNum)

			r.logger.Info("Loading results page", map[string]interface{}{
				"keyword": keyword,
				"page":    pageNum,
			})

			if err := page.Navigate(ctx, pageURL, r.config.Scraper.NavigationTimeout); err != nil {
				r.logger.Warn("Results page failed to load, skipping", map[string]interface{}{
					"keyword": keyword,
					"page":    pageNum,
					"error":   err.Error(),
				})
				continue
			}

			if err := r.pacer.Settle(ctx); err != nil {
				return results
			}

			html, err := page.HTML()
			if err != nil {
				r.logger.Warn("Results page could not be read, skipping", map[string]interface{}{
					"keyword": keyword,
					"page":    pageNum,
					"error":   err.Error(),
				})
				continue
			}

			count := 0
			for listing := range extract.Listings(html) {
				listing.Keyword = keyword
				listing.MatchesInDescription = matchLabel(listing.Description, keyword)
				listing.CaptureDate = captureDate
				results = append(results, listing)
				count++
			}

			r.logger.Info("Extracted listings from page", map[string]interface{}{
				"keyword": keyword,
				"page":    pageNum,
				"count":   count,
			})

			if err := r.pacer.NextPage(ctx); err != nil {
				return results
			}
		}
	}

	return results
}

// searchURL builds the filtered search URL for one keyword and page.
// The filter set mirrors a saved search: minimum client spend, top
// contractor tier, verified payment, sorted by client total charge.
func (r *Runner) searchURL(keyword string, page int) string {
	q := url.Values{}
	q.Set("amount", "2000-")
	q.Set("contractor_tier", "3")
	q.Set("from_recent_search", "true")
	q.Set("payment_verified", "1")
	q.Set("q", keyword)
	q.Set("sort", "client_total_charge+desc")
	q.Set("t", "0,1")
	q.Set("page", strconv.Itoa(page))

	return r.config.Scraper.SearchBaseURL + "?" + q.Encode()
}

// matchLabel reports whether the keyword appears in the description,
// as a Yes/No string for the exported record.
func matchLabel(description, keyword string) string {
	if utils.ContainsFold(description, keyword) {
		return "Yes"
	}
	return "No"
}
