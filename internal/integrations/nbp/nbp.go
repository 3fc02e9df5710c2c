// Package nbp fetches currency multipliers from the National Bank of Poland
// table-A XML feed. It is the fallback quote source when no API key for the
// primary JSON provider is configured; NBP mid rates are already expressed
// relative to the base currency.
package nbp

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"github.com/finbook/finance-service/internal/config"
	"github.com/finbook/finance-service/internal/models"
	"github.com/sirupsen/logrus"
)

// Client handles integration with the NBP exchange-rate feed
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new NBP client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.NBPURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetch downloads the raw table-A XML document.
func (c *Client) fetch() ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("NBP XML response: %s", string(body))
	return body, nil
}

// parse extracts the effective date and the ten mid rates from the XML body.
func (c *Client) parse(rawBody []byte) (*models.ExchangeRate, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	table := doc.FindElement("//ExchangeRatesTable")
	if table == nil {
		return nil, fmt.Errorf("no exchange-rate table found in XML")
	}

	dateElement := table.FindElement("./EffectiveDate")
	if dateElement == nil {
		return nil, fmt.Errorf("effective date not found in XML")
	}
	insertDate, err := time.Parse("2006-01-02", dateElement.Text())
	if err != nil {
		return nil, fmt.Errorf("failed to parse effective date: %w", err)
	}

	mids := make(map[string]float64)
	for _, rateElement := range table.FindElements("./Rates/Rate") {
		codeElement := rateElement.FindElement("./Code")
		midElement := rateElement.FindElement("./Mid")
		if codeElement == nil || midElement == nil {
			continue
		}
		var mid float64
		if _, err := fmt.Sscanf(midElement.Text(), "%f", &mid); err != nil {
			return nil, fmt.Errorf("failed to parse mid rate for %s: %w", codeElement.Text(), err)
		}
		mids[codeElement.Text()] = mid
	}

	rate := &models.ExchangeRate{InsertDate: insertDate}
	for code, dst := range map[string]*float64{
		"EUR": &rate.EUR, "USD": &rate.USD, "GBP": &rate.GBP, "CZK": &rate.CZK,
		"CHF": &rate.CHF, "NOK": &rate.NOK, "SEK": &rate.SEK, "DKK": &rate.DKK,
		"CNY": &rate.CNY, "HUF": &rate.HUF,
	} {
		mid, ok := mids[code]
		if !ok || mid <= 0 {
			return nil, fmt.Errorf("missing mid rate for %s", code)
		}
		*dst = mid
	}
	return rate, nil
}

// FetchRates retrieves the current table-A snapshot.
func (c *Client) FetchRates() (*models.ExchangeRate, error) {
	body, err := c.fetch()
	if err != nil {
		return nil, err
	}

	rate, err := c.parse(body)
	if err != nil {
		return nil, err
	}

	c.log.Infof("Fetched NBP rates dated %s", rate.InsertDate.Format("2006-01-02"))
	return rate, nil
}
