package extract

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upscout/pkg/models"
)

const fullContainer = `
<article>
  <h2><a href="https://www.upwork.com/jobs/~012345">Senior   Go
	Developer</a></h2>
  <span data-test="total-spent">$50K+ spent</span>
  <div data-test="JobInfo">Hourly: $60-$90  -  Expert  -  Est. time: 3+ months</div>
  <div data-test="UpCLineClamp JobDescription">We need a Go developer
	to build   a scraping pipeline.</div>
  <small>Payment verified</small>
  <div class="air3-token-container">
    <span class="air3-token-wrap"><button>Go</button></span>
    <span class="air3-token-wrap"><button>Redis</button></span>
    <span class="air3-token-wrap"><button>Docker</button></span>
  </div>
</article>`

func collect(html string) []models.Listing {
	return slices.Collect(Listings(html))
}

func TestListingsFullContainer(t *testing.T) {
	listings := collect(fullContainer)
	require.Len(t, listings, 1)

	l := listings[0]
	assert.Equal(t, "Senior Go Developer", l.Title)
	assert.Equal(t, "https://www.upwork.com/jobs/~012345", l.Link)
	assert.Equal(t, "$50K+ spent", l.ClientSpent)
	assert.Equal(t, "Hourly: $60-$90 - Expert - Est. time: 3+ months", l.EstimatedBudget)
	assert.Equal(t, "We need a Go developer to build a scraping pipeline.", l.Description)
	assert.Equal(t, "Yes", l.PaymentVerified)
	assert.Equal(t, "Go, Redis, Docker", l.TechStack)
}

func TestListingsDefaults(t *testing.T) {
	tests := []struct {
		name string
		html string
		want models.Listing
	}{
		{
			name: "bare container",
			html: `<article><p>nothing useful here</p></article>`,
			want: models.Listing{
				Title:           "N/A",
				Link:            "N/A",
				ClientSpent:     "Not listed",
				EstimatedBudget: "Not listed",
				Description:     "Not listed",
				PaymentVerified: "No",
				TechStack:       "Not listed",
			},
		},
		{
			name: "heading without href",
			html: `<article><h2><a>Untitled gig</a></h2></article>`,
			want: models.Listing{
				Title:           "Untitled gig",
				Link:            "N/A",
				ClientSpent:     "Not listed",
				EstimatedBudget: "Not listed",
				Description:     "Not listed",
				PaymentVerified: "No",
				TechStack:       "Not listed",
			},
		},
		{
			name: "empty token container",
			html: `<article><h2><a href="/jobs/~09">Job</a></h2><div class="air3-token-container"></div></article>`,
			want: models.Listing{
				Title:           "Job",
				Link:            "https://www.upwork.com/jobs/~09",
				ClientSpent:     "Not listed",
				EstimatedBudget: "Not listed",
				Description:     "Not listed",
				PaymentVerified: "No",
				TechStack:       "Not listed",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listings := collect(tt.html)
			require.Len(t, listings, 1)
			assert.Equal(t, tt.want, listings[0])
		})
	}
}

func TestListingsEmptyPage(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no containers", `<html><body><div>no results found</div></body></html>`},
		{"empty document", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, collect(tt.html))
		})
	}
}

func TestListingsMultipleContainersKeepOrder(t *testing.T) {
	html := `
<article><h2><a href="/jobs/~1">First</a></h2></article>
<article><h2><a href="/jobs/~2">Second</a></h2></article>
<article><h2><a href="/jobs/~3">Third</a></h2></article>`

	listings := collect(html)
	require.Len(t, listings, 3)
	assert.Equal(t, "First", listings[0].Title)
	assert.Equal(t, "Second", listings[1].Title)
	assert.Equal(t, "Third", listings[2].Title)
}

func TestListingsLazySequenceStopsEarly(t *testing.T) {
	html := `
<article><h2><a href="/jobs/~1">First</a></h2></article>
<article><h2><a href="/jobs/~2">Second</a></h2></article>`

	var got []string
	for l := range Listings(html) {
		got = append(got, l.Title)
		break
	}

	assert.Equal(t, []string{"First"}, got)
}

func TestPaymentVerifiedPhraseMustMatchExactly(t *testing.T) {
	html := `<article><h2><a href="/jobs/~1">Job</a></h2><small>payment pending verification</small></article>`

	listings := collect(html)
	require.Len(t, listings, 1)
	assert.Equal(t, "No", listings[0].PaymentVerified)
}
