package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upscout/pkg/models"
)

func sampleListing(title string) models.Listing {
	return models.Listing{
		Title:       title,
		Link:        "https://www.upwork.com/jobs/~01",
		CaptureDate: "2026-09-01",
		ClientSpent: "$10K+ spent",
		Keyword:     "golang",
	}
}

func TestPersistBatchInsertsNewRecords(t *testing.T) {
	st := NewMemoryStore()
	p := NewPersister(st)

	batch := []models.Listing{sampleListing("Job A"), sampleListing("Job B")}
	inserted, duplicates := p.PersistBatch(context.Background(), "user-1", batch)

	require.Len(t, inserted, 2)
	assert.Equal(t, "Job A", inserted[0].Title)
	assert.Equal(t, "user-1", inserted[0].UserID)
	assert.Equal(t, 0, duplicates)

	stored, err := st.Query(context.Background(), "user-1", 0)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestPersistBatchIsIdempotent(t *testing.T) {
	st := NewMemoryStore()
	p := NewPersister(st)
	ctx := context.Background()

	batch := []models.Listing{sampleListing("Job A"), sampleListing("Job B")}

	inserted, duplicates := p.PersistBatch(ctx, "user-1", batch)
	assert.Len(t, inserted, 2)
	assert.Equal(t, 0, duplicates)

	inserted, duplicates = p.PersistBatch(ctx, "user-1", batch)
	assert.Empty(t, inserted)
	assert.Equal(t, 2, duplicates)

	stored, err := st.Query(ctx, "user-1", 0)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestPersistBatchInBatchCollisionFirstSeenWins(t *testing.T) {
	st := NewMemoryStore()
	p := NewPersister(st)
	ctx := context.Background()

	first := sampleListing("Job A")
	first.ClientSpent = "$50K+ spent"
	second := sampleListing("Job A")
	second.ClientSpent = "$1K+ spent"

	inserted, duplicates := p.PersistBatch(ctx, "user-1", []models.Listing{first, second})
	assert.Len(t, inserted, 1)
	assert.Equal(t, 0, duplicates, "an in-batch collision is not a store duplicate")

	stored, err := st.Query(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "$50K+ spent", stored[0].ClientSpent)
}

func TestPersistBatchNeverOverwritesProposal(t *testing.T) {
	st := NewMemoryStore()
	p := NewPersister(st)
	ctx := context.Background()

	listing := sampleListing("Job A")
	p.PersistBatch(ctx, "user-1", []models.Listing{listing})

	scoped := listing
	scoped.UserID = "user-1"
	key := ListingKey("user-1", &scoped)
	require.NoError(t, st.Update(ctx, key, map[string]interface{}{"proposal": "Hi there"}))

	// A later scrape finds the same posting again.
	p.PersistBatch(ctx, "user-1", []models.Listing{listing})

	stored, exists, err := st.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, "Hi there", stored.Proposal)
}

func TestPersistBatchScopesRecordsToCaller(t *testing.T) {
	st := NewMemoryStore()
	p := NewPersister(st)
	ctx := context.Background()

	p.PersistBatch(ctx, "user-1", []models.Listing{sampleListing("Job A")})
	p.PersistBatch(ctx, "user-2", []models.Listing{sampleListing("Job A")})

	one, err := st.Query(ctx, "user-1", 0)
	require.NoError(t, err)
	two, err := st.Query(ctx, "user-2", 0)
	require.NoError(t, err)

	assert.Len(t, one, 1)
	assert.Len(t, two, 1)
	assert.Equal(t, "user-1", one[0].UserID)
	assert.Equal(t, "user-2", two[0].UserID)
}

func TestQueryOrdersNewestFirstAndHonorsLimit(t *testing.T) {
	st := NewMemoryStore()
	p := NewPersister(st)
	ctx := context.Background()

	older := sampleListing("Old job")
	older.CaptureDate = "2026-08-20"
	newer := sampleListing("New job")
	newer.CaptureDate = "2026-09-01"

	p.PersistBatch(ctx, "user-1", []models.Listing{older, newer})

	stored, err := st.Query(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "New job", stored[0].Title)

	limited, err := st.Query(ctx, "user-1", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "New job", limited[0].Title)
}

func TestIdentityHashDependsOnIdentityFieldsOnly(t *testing.T) {
	a := sampleListing("Job A")
	b := sampleListing("Job A")
	b.ClientSpent = "different"
	b.TechStack = "different"

	assert.Equal(t, IdentityHash(&a), IdentityHash(&b))

	c := sampleListing("Job A")
	c.CaptureDate = "2026-09-02"
	assert.NotEqual(t, IdentityHash(&a), IdentityHash(&c))
}
