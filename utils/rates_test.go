package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const currentRateFixture = `{
	"Realtime Currency Exchange Rate": {
		"1. From_Currency Code": "USD",
		"3. To_Currency Code": "KRW",
		"5. Exchange Rate": "1350.25000000"
	}
}`

const fxDailyFixture = `{
	"Time Series FX (Daily)": {
		"2024-03-05": {"4. close": "1335.10"},
		"2024-03-06": {"4. close": "1340.40"},
		"2024-03-07": {"4. close": "1338.90"},
		"2024-03-08": {"4. close": "1345.70"}
	}
}`

func TestCurrentRate(t *testing.T) {
	t.Run("Parses Realtime Rate", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/query", r.URL.Path)
			assert.Equal(t, "CURRENCY_EXCHANGE_RATE", r.URL.Query().Get("function"))
			assert.Equal(t, "USD", r.URL.Query().Get("from_currency"))
			assert.Equal(t, "KRW", r.URL.Query().Get("to_currency"))
			assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
			w.Write([]byte(currentRateFixture))
		}))
		defer srv.Close()

		client := NewRateClient(srv.URL, "test-key")
		rate, err := client.CurrentRate()
		assert.NoError(t, err)
		assert.Equal(t, 1350.25, rate)
	})

	t.Run("Upstream Error Status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewRateClient(srv.URL, "test-key")
		_, err := client.CurrentRate()
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrUpstream))
	})

	t.Run("Missing Rate Field", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"Note": "rate limited"}`))
		}))
		defer srv.Close()

		client := NewRateClient(srv.URL, "test-key")
		_, err := client.CurrentRate()
		assert.True(t, errors.Is(err, ErrUpstream))
	})

	t.Run("Unreachable Host", func(t *testing.T) {
		client := NewRateClient("http://127.0.0.1:1", "test-key")
		_, err := client.CurrentRate()
		assert.True(t, errors.Is(err, ErrUpstream))
	})
}

func TestHistoricalRates(t *testing.T) {
	newServer := func() *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "FX_DAILY", r.URL.Query().Get("function"))
			w.Write([]byte(fxDailyFixture))
		}))
	}

	t.Run("Oldest First", func(t *testing.T) {
		srv := newServer()
		defer srv.Close()

		client := NewRateClient(srv.URL, "test-key")
		rates, err := client.HistoricalRates(30)
		assert.NoError(t, err)
		assert.Equal(t, []float64{1335.10, 1340.40, 1338.90, 1345.70}, rates)
	})

	t.Run("Truncates To Most Recent Days", func(t *testing.T) {
		srv := newServer()
		defer srv.Close()

		client := NewRateClient(srv.URL, "test-key")
		rates, err := client.HistoricalRates(2)
		assert.NoError(t, err)
		assert.Equal(t, []float64{1338.90, 1345.70}, rates)
	})

	t.Run("Empty Series", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		client := NewRateClient(srv.URL, "test-key")
		_, err := client.HistoricalRates(30)
		assert.True(t, errors.Is(err, ErrUpstream))
	})
}
