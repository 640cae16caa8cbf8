package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upscout/internal/config"
	"upscout/pkg/models"
)

// fakePage scripts one response per navigation, in order.
type fakePage struct {
	responses []pageResponse
	visited   []string
	call      int
	html      string
}

type pageResponse struct {
	navErr error
	html   string
}

func (f *fakePage) Navigate(_ context.Context, url string, _ time.Duration) error {
	f.visited = append(f.visited, url)

	resp := pageResponse{}
	if f.call < len(f.responses) {
		resp = f.responses[f.call]
	}
	f.call++

	if resp.navErr != nil {
		return resp.navErr
	}
	f.html = resp.html
	return nil
}

func (f *fakePage) HTML() (string, error) {
	return f.html, nil
}

func testConfig() *config.Config {
	cfg, _ := config.LoadConfig("")
	return cfg
}

func instantPacer() Pacer {
	return NewPacer(0, 0)
}

func listingPage(titles ...string) string {
	page := ""
	for i, title := range titles {
		page += fmt.Sprintf(`<article><h2><a href="/jobs/~%d">%s</a></h2>
			<div data-test="UpCLineClamp JobDescription">Looking for AWS Lambda experience.</div>
			</article>`, i, title)
	}
	return page
}

func TestRunSkipsFailedPages(t *testing.T) {
	page := &fakePage{responses: []pageResponse{
		{navErr: errors.New("net::ERR_TIMED_OUT")},
		{html: listingPage("One", "Two", "Three")},
	}}

	runner := NewRunner(testConfig(), instantPacer())
	results := runner.Run(context.Background(), models.ScrapeRequest{
		Keywords: []string{"aws lambda"},
		Pages:    2,
	}, page)

	require.Len(t, page.visited, 2, "the failed page must not abort the run")
	require.Len(t, results, 3)
	for _, l := range results {
		assert.Equal(t, "aws lambda", l.Keyword)
	}
}

func TestRunStampsRecords(t *testing.T) {
	page := &fakePage{responses: []pageResponse{
		{html: listingPage("Serverless build")},
	}}

	runner := NewRunner(testConfig(), instantPacer())
	results := runner.Run(context.Background(), models.ScrapeRequest{
		Keywords: []string{"AWS Lambda"},
		Pages:    1,
	}, page)

	require.Len(t, results, 1)
	l := results[0]
	assert.Equal(t, "AWS Lambda", l.Keyword)
	assert.Equal(t, "Yes", l.MatchesInDescription, "match is case-insensitive")
	assert.Equal(t, time.Now().Format("2006-01-02"), l.CaptureDate)
}

func TestRunKeywordNotInDescription(t *testing.T) {
	page := &fakePage{responses: []pageResponse{
		{html: listingPage("Unrelated gig")},
	}}

	runner := NewRunner(testConfig(), instantPacer())
	results := runner.Run(context.Background(), models.ScrapeRequest{
		Keywords: []string{"terraform"},
		Pages:    1,
	}, page)

	require.Len(t, results, 1)
	assert.Equal(t, "No", results[0].MatchesInDescription)
}

func TestRunVisitsKeywordsAndPagesInOrder(t *testing.T) {
	page := &fakePage{}

	runner := NewRunner(testConfig(), instantPacer())
	runner.Run(context.Background(), models.ScrapeRequest{
		Keywords: []string{"golang", "node.js"},
		Pages:    2,
	}, page)

	require.Len(t, page.visited, 4)
	assert.Contains(t, page.visited[0], "q=golang")
	assert.Contains(t, page.visited[0], "page=1")
	assert.Contains(t, page.visited[1], "q=golang")
	assert.Contains(t, page.visited[1], "page=2")
	assert.Contains(t, page.visited[2], "q=node.js")
	assert.Contains(t, page.visited[3], "page=2")
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	page := &fakePage{}
	runner := NewRunner(testConfig(), instantPacer())
	results := runner.Run(ctx, models.ScrapeRequest{
		Keywords: []string{"golang"},
		Pages:    5,
	}, page)

	assert.Empty(t, results)
	assert.Empty(t, page.visited)
}

func TestSearchURLCarriesFilterSet(t *testing.T) {
	runner := NewRunner(testConfig(), instantPacer())
	url := runner.searchURL("aws lambda", 4)

	assert.Contains(t, url, "https://www.upwork.com/nx/search/jobs/?")
	assert.Contains(t, url, "amount=2000-")
	assert.Contains(t, url, "contractor_tier=3")
	assert.Contains(t, url, "payment_verified=1")
	assert.Contains(t, url, "q=aws+lambda")
	assert.Contains(t, url, "page=4")
}

func TestPacerSettleHonorsContext(t *testing.T) {
	pacer := NewPacer(time.Minute, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := pacer.Settle(ctx)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPacerNextPageBlocksForFullInterval(t *testing.T) {
	const interval = 100 * time.Millisecond
	pacer := NewPacer(50*time.Millisecond, interval)
	ctx := context.Background()

	require.NoError(t, pacer.Settle(ctx))

	// Time already spent settling and extracting must not shorten the
	// pause before the next navigation.
	start := time.Now()
	require.NoError(t, pacer.NextPage(ctx))
	assert.GreaterOrEqual(t, time.Since(start), interval)

	start = time.Now()
	require.NoError(t, pacer.NextPage(ctx))
	assert.GreaterOrEqual(t, time.Since(start), interval)
}

func TestPacerNextPageHonorsContext(t *testing.T) {
	pacer := NewPacer(0, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := pacer.NextPage(ctx)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPacerZeroDelaysReturnImmediately(t *testing.T) {
	pacer := NewPacer(0, 0)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, pacer.Settle(ctx))
	require.NoError(t, pacer.NextPage(ctx))
	assert.Less(t, time.Since(start), time.Second)
}
