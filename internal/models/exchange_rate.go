package models

import "time"

// ExchangeRate is one cached snapshot of ten currency-to-base multipliers
// plus the date the quote API produced them. At steady state exactly two
// snapshots exist: previous (lowest id) and current (highest id).
type ExchangeRate struct {
	ID         int64     `json:"id"`
	EUR        float64   `json:"eur"`
	USD        float64   `json:"usd"`
	GBP        float64   `json:"gbp"`
	CZK        float64   `json:"czk"`
	CHF        float64   `json:"chf"`
	NOK        float64   `json:"nok"`
	SEK        float64   `json:"sek"`
	DKK        float64   `json:"dkk"`
	CNY        float64   `json:"cny"`
	HUF        float64   `json:"huf"`
	InsertDate time.Time `json:"insertDate"`
}

// SameDate reports whether both snapshots carry the same quote date.
func (r *ExchangeRate) SameDate(other *ExchangeRate) bool {
	ry, rm, rd := r.InsertDate.Date()
	oy, om, od := other.InsertDate.Date()
	return ry == oy && rm == om && rd == od
}
