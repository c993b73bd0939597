// internal/infrastructure/api/nbk_feed_client_test.go
package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainservice "github.com/damon-houk/nbk-rate-viewer/internal/domain/service"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/logger"
)

func testLogger() logger.Logger {
	return logger.NewJSONLogger(&bytes.Buffer{}, logger.DebugLevel)
}

func TestFetchRates(t *testing.T) {
	fixture, err := os.ReadFile("testdata/get_rates.xml")
	require.NoError(t, err)

	// Setup a mock server
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rss/get_rates.cfm", r.URL.Path)

		if r.URL.Query().Get("fdate") != "15.01.2024" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(fixture)
	}))
	defer mockServer.Close()

	client := NewNBKClient(mockServer.URL+"/rss/get_rates.cfm", nil, testLogger())

	ctx := context.Background()
	snapshot, err := client.FetchRates(ctx, "15.01.2024")

	require.NoError(t, err)
	assert.Equal(t, "15.01.2024", snapshot.Date)
	assert.Len(t, snapshot.Items, 4)

	eur, ok := snapshot.Find("EUR")
	assert.True(t, ok)
	assert.Equal(t, "496.37", eur.Description)

	// Unexpected date makes the mock answer 400
	_, err = client.FetchRates(ctx, "16.01.2024")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainservice.ErrFeedUnavailable))
	assert.Contains(t, err.Error(), "status 400")
}

func TestFetchRatesMalformedBody(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>maintenance"))
	}))
	defer mockServer.Close()

	client := NewNBKClient(mockServer.URL, nil, testLogger())

	_, err := client.FetchRates(context.Background(), "15.01.2024")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainservice.ErrMalformedFeed))
}

func TestFetchRatesTransportError(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := mockServer.URL
	mockServer.Close()

	client := NewNBKClient(serverURL, &http.Client{Timeout: time.Second}, testLogger())

	_, err := client.FetchRates(context.Background(), "15.01.2024")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainservice.ErrFeedUnavailable))
}

func TestFetchRatesHonoursContext(t *testing.T) {
	release := make(chan struct{})
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer mockServer.Close()
	defer close(release)

	client := NewNBKClient(mockServer.URL, nil, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchRates(ctx, "15.01.2024")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, domainservice.ErrFeedUnavailable))
}

func TestNewNBKClientDefaults(t *testing.T) {
	client := NewNBKClient("", nil, nil)

	assert.Equal(t, DefaultFeedURL, client.baseURL)
	assert.Equal(t, 10*time.Second, client.httpClient.Timeout)
	assert.NotNil(t, client.logger)

	reqURL, err := client.requestURL("01.02.2024")
	require.NoError(t, err)
	assert.Equal(t, DefaultFeedURL+"?fdate=01.02.2024", reqURL)
}
