package exchangerate

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbook/finance-service/internal/config"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testClient(url string) *Client {
	return NewClient(&config.Config{
		RatesAPIURL:  url,
		RatesAPIKey:  "testkey",
		BaseCurrency: "PLN",
	}, testLogger())
}

const successBody = `{
	"result": "success",
	"time_last_update_unix": 1712102400,
	"conversion_rates": {
		"PLN": 1,
		"EUR": 0.25, "USD": 0.2532, "GBP": 0.1980, "CZK": 5.8824, "CHF": 0.2247,
		"NOK": 2.7027, "SEK": 2.6316, "DKK": 1.7241, "CNY": 1.8182, "HUF": 90.9091
	}
}`

func TestFetchRates_InvertsConversionRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/testkey/latest/PLN", r.URL.Path)
		fmt.Fprint(w, successBody)
	}))
	defer srv.Close()

	rate, err := testClient(srv.URL).FetchRates()

	require.NoError(t, err)
	assert.InDelta(t, 4.0, rate.EUR, 1e-9)
	assert.InDelta(t, 1/0.2532, rate.USD, 1e-9)
	assert.InDelta(t, 1/5.8824, rate.CZK, 1e-9)
	assert.InDelta(t, 1/90.9091, rate.HUF, 1e-9)
	assert.Equal(t, time.Unix(1712102400, 0).Truncate(24*time.Hour), rate.InsertDate)
}

func TestFetchRates_ErrorResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": "error", "error-type": "invalid-key"}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchRates()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid-key")
}

func TestFetchRates_MissingCurrency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"result": "success",
			"time_last_update_unix": 1712102400,
			"conversion_rates": {"EUR": 0.25}
		}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchRates()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing conversion rate")
}

func TestFetchRates_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchRates()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
