package exchangerate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchLatestRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"KRW","date":"2026-03-01","rates":{"JPY":0.1,"USD":0.00075}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	rates, err := client.FetchLatestRates(context.Background())

	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.True(t, rates["JPY"].Equal(decimal.RequireFromString("0.1")))
	assert.True(t, rates["USD"].Equal(decimal.RequireFromString("0.00075")))
}

func TestFetchLatestRates_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.FetchLatestRates(context.Background())

	assert.ErrorContains(t, err, "status 503")
}

func TestFetchLatestRates_EmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"KRW","rates":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.FetchLatestRates(context.Background())

	assert.ErrorContains(t, err, "no rates")
}
