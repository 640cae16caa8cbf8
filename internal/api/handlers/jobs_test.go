package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upscout/internal/export"
	"upscout/internal/store"
	"upscout/pkg/models"
)

func seedStore(t *testing.T, userID string, titles ...string) *store.MemoryStore {
	t.Helper()

	st := store.NewMemoryStore()
	for _, title := range titles {
		listing := models.Listing{
			Title:       title,
			Link:        "https://www.upwork.com/jobs/~" + title,
			CaptureDate: "2026-09-01",
			UserID:      userID,
		}
		key := store.ListingKey(userID, &listing)
		require.NoError(t, st.Set(context.Background(), key, &listing))
	}
	return st
}

func request(method, target string, body string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req, httptest.NewRecorder()
}

func TestListJobsHandlerReturnsCallerListings(t *testing.T) {
	st := seedStore(t, "user-1", "Job A", "Job B")

	e := echo.New()
	req, rec := request(http.MethodGet, "/api/v1/jobs", "")
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")

	require.NoError(t, ListJobsHandler(st)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.JobListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.NotEmpty(t, resp.RequestID)
}

func TestListJobsHandlerRejectsBadLimit(t *testing.T) {
	st := seedStore(t, "user-1", "Job A")

	e := echo.New()
	req, rec := request(http.MethodGet, "/api/v1/jobs?limit=nope", "")
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")

	require.NoError(t, ListJobsHandler(st)(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportJobsHandlerProducesCSVDownload(t *testing.T) {
	st := seedStore(t, "user-1", "Job A")

	e := echo.New()
	req, rec := request(http.MethodGet, "/api/v1/jobs/export", "")
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")

	require.NoError(t, ExportJobsHandler(st)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")

	listings, err := export.Read(rec.Body)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Job A", listings[0].Title)
}

func TestExportJobsHandlerEmptyStoreStillReturnsHeader(t *testing.T) {
	st := store.NewMemoryStore()

	e := echo.New()
	req, rec := request(http.MethodGet, "/api/v1/jobs/export", "")
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")

	require.NoError(t, ExportJobsHandler(st)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "title,clientSpent")
}
