package repository

import (
	"fmt"

	"github.com/finbook/finance-service/internal/models"
)

// ListExchangeRates returns all cached rate snapshots, oldest first.
// At steady state that is exactly two rows: previous, then current.
func (r *Repository) ListExchangeRates() ([]models.ExchangeRate, error) {
	query := `
		SELECT id, eur, usd, gbp, czk, chf, nok, sek, dkk, cny, huf, insert_date
		FROM exchange_rates
		ORDER BY id`
	rows, err := r.q.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	defer rows.Close()

	var rates []models.ExchangeRate
	for rows.Next() {
		var rate models.ExchangeRate
		if err := rows.Scan(&rate.ID, &rate.EUR, &rate.USD, &rate.GBP, &rate.CZK,
			&rate.CHF, &rate.NOK, &rate.SEK, &rate.DKK, &rate.CNY, &rate.HUF,
			&rate.InsertDate); err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read exchange rates: %w", err)
	}
	return rates, nil
}

// CreateExchangeRate inserts a new rate snapshot
func (r *Repository) CreateExchangeRate(rate *models.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (eur, usd, gbp, czk, chf, nok, sek, dkk, cny, huf, insert_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(query, rate.EUR, rate.USD, rate.GBP, rate.CZK, rate.CHF,
		rate.NOK, rate.SEK, rate.DKK, rate.CNY, rate.HUF, rate.InsertDate).
		Scan(&rate.ID)
	if err != nil {
		return fmt.Errorf("failed to create exchange rate: %w", err)
	}
	return nil
}

// DeleteExchangeRate removes one rate snapshot by id
func (r *Repository) DeleteExchangeRate(id int64) error {
	if _, err := r.q.Exec(`DELETE FROM exchange_rates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete exchange rate: %w", err)
	}
	return nil
}
