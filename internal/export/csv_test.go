package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upscout/pkg/models"
)

func sampleListings() []models.Listing {
	return []models.Listing{
		{
			Title:                "Go scraper build",
			ClientSpent:          "$50K+ spent",
			EstimatedBudget:      "Hourly: $60-$90",
			PaymentVerified:      "Yes",
			TechStack:            "Go, Redis",
			Link:                 "https://www.upwork.com/jobs/~1",
			Description:          "Build a scraping pipeline, with \"quotes\" and, commas.",
			Keyword:              "golang",
			MatchesInDescription: "No",
			CaptureDate:          "2026-09-01",
			Proposal:             "Hi,\nI can help.",
		},
		{
			Title:       "Lambda migration",
			Link:        "https://www.upwork.com/jobs/~2",
			CaptureDate: "2026-09-01",
			Keyword:     "aws lambda",
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleListings(), true))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleListings(), got)
}

func TestWriteHeaderColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, true))

	header := strings.TrimSpace(buf.String())
	assert.Equal(t,
		"title,clientSpent,estimatedBudget,paymentVerified,techStack,link,jobDescription,keyword,matchesInDescription,date,proposal",
		header)
}

func TestReadStripsByteOrderMark(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleListings()[:1], true))

	withBOM := "\ufeff" + buf.String()

	got, err := Read(strings.NewReader(withBOM))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Go scraper build", got[0].Title)
}

func TestReadEmptyInput(t *testing.T) {
	got, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAppendFileWritesHeaderOnlyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "jobs.csv")
	listings := sampleListings()

	require.NoError(t, AppendFile(path, listings[:1]))
	require.NoError(t, AppendFile(path, listings[1:]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "title,clientSpent"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := Read(f)
	require.NoError(t, err)
	assert.Equal(t, listings, got)
}
