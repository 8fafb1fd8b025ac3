package scraper_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realmeupdater/realme-updates-tracker/internal/scraper"
)

func TestCollyFetcherFetch(t *testing.T) {
	t.Parallel()

	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.UserAgent()
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	t.Cleanup(server.Close)

	fetcher := scraper.NewCollyFetcher(scraper.CollyConfig{
		UserAgent: "tracker-test/1.0",
		Timeout:   5 * time.Second,
	})

	body, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ok")
	assert.Equal(t, "tracker-test/1.0", gotAgent)
}

func TestCollyFetcherFetchServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	fetcher := scraper.NewCollyFetcher(scraper.CollyConfig{Timeout: 5 * time.Second})

	_, err := fetcher.Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}
