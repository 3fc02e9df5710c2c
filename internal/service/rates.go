package service

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/finbook/finance-service/internal/apperr"
	"github.com/finbook/finance-service/internal/models"
	"github.com/finbook/finance-service/internal/repository"
)

// RateService maintains the two-row exchange-rate cache: the previous and
// the current snapshot.
type RateService struct {
	repo   *repository.Repository
	source RateSource
	log    *logrus.Logger
}

// NewRateService initializes a new rate service
func NewRateService(repo *repository.Repository, source RateSource, log *logrus.Logger) *RateService {
	return &RateService{repo: repo, source: source, log: log}
}

// Refresh fetches the latest quotes and applies the cache update rule: an
// empty cache is bootstrapped by storing the fetch twice; a fetch dated the
// same as the current row is a no-op; otherwise the oldest row is replaced.
// A fetch failure leaves the cache untouched.
func (s *RateService) Refresh() error {
	latest, err := s.source.FetchRates()
	if err != nil {
		return fmt.Errorf("failed to fetch exchange rates: %w", err)
	}

	return s.repo.WithTx(func(tx *repository.Repository) error {
		rates, err := tx.ListExchangeRates()
		if err != nil {
			return err
		}

		if len(rates) == 0 {
			if err := tx.CreateExchangeRate(latest); err != nil {
				return err
			}
			clone := *latest
			clone.ID = 0
			if err := tx.CreateExchangeRate(&clone); err != nil {
				return err
			}
			s.log.Infof("Exchange-rate cache bootstrapped with rates dated %s",
				latest.InsertDate.Format("2006-01-02"))
			return nil
		}

		if len(rates) > 2 {
			return fmt.Errorf("exchange-rate cache holds %d rows, expected at most 2", len(rates))
		}

		current := rates[len(rates)-1]
		if latest.SameDate(&current) {
			return nil
		}

		if err := tx.DeleteExchangeRate(rates[0].ID); err != nil {
			return err
		}
		if err := tx.CreateExchangeRate(latest); err != nil {
			return err
		}

		s.log.Infof("Exchange rates updated: %s -> %s",
			current.InsertDate.Format("2006-01-02"), latest.InsertDate.Format("2006-01-02"))
		return nil
	})
}

// RatePair is the currency-rates response: the previous and current cached
// snapshots.
type RatePair struct {
	Prev    models.ExchangeRate `json:"prevRateList"`
	Current models.ExchangeRate `json:"currentRateList"`
}

// CurrentRates returns the two cached snapshots, NotFound when the cache has
// not been populated yet.
func (s *RateService) CurrentRates() (*RatePair, error) {
	rates, err := s.repo.ListExchangeRates()
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, apperr.New(apperr.NotFound, "no exchange rates cached yet")
	}
	return &RatePair{Prev: rates[0], Current: rates[len(rates)-1]}, nil
}
