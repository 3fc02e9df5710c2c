// Package exchangerate fetches currency multipliers from the
// exchangerate-api.com v6 JSON endpoint.
package exchangerate

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/finbook/finance-service/internal/config"
	"github.com/finbook/finance-service/internal/models"
	"github.com/sirupsen/logrus"
)

// Client handles integration with exchangerate-api.com
type Client struct {
	url    string
	apiKey string
	base   string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new exchange-rate API client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url:    cfg.RatesAPIURL,
		apiKey: cfg.RatesAPIKey,
		base:   cfg.BaseCurrency,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// response mirrors the v6 "latest" payload. conversion_rates holds base->X
// rates; the snapshot stores the inverse (X->base multipliers).
type response struct {
	Result             string             `json:"result"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	ConversionRates    map[string]float64 `json:"conversion_rates"`
	ErrorType          string             `json:"error-type,omitempty"`
}

// FetchRates retrieves the latest quotes and converts them into a snapshot
// of ten currency-to-base multipliers.
func (c *Client) FetchRates() (*models.ExchangeRate, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", c.url, c.apiKey, c.base)

	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if body.Result != "success" {
		return nil, fmt.Errorf("API returned result=%q (%s)", body.Result, body.ErrorType)
	}

	rate := &models.ExchangeRate{
		InsertDate: time.Unix(body.TimeLastUpdateUnix, 0).Truncate(24 * time.Hour),
	}
	for code, dst := range map[string]*float64{
		"EUR": &rate.EUR, "USD": &rate.USD, "GBP": &rate.GBP, "CZK": &rate.CZK,
		"CHF": &rate.CHF, "NOK": &rate.NOK, "SEK": &rate.SEK, "DKK": &rate.DKK,
		"CNY": &rate.CNY, "HUF": &rate.HUF,
	} {
		v, ok := body.ConversionRates[code]
		if !ok || v <= 0 {
			return nil, fmt.Errorf("missing conversion rate for %s", code)
		}
		*dst = 1 / v
	}

	c.log.Infof("Fetched exchange rates dated %s", rate.InsertDate.Format("2006-01-02"))
	return rate, nil
}
