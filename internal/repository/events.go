package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/finbook/finance-service/internal/models"
)

// CreateEvent creates a new event in the database
func (r *Repository) CreateEvent(event *models.Event) error {
	query := `
		INSERT INTO events (user_id, title, category, amount, date, receipt_image, invoice_number, payment_type, nip, description, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	var paymentType *string
	if event.PaymentType != nil {
		s := string(*event.PaymentType)
		paymentType = &s
	}
	err := r.q.QueryRow(query, event.UserID, event.Title, string(event.Category),
		event.Amount, event.Date, event.ReceiptImage, event.InvoiceNumber,
		paymentType, event.NIP, event.Description, string(event.Type)).
		Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// FindEventsByUserAndDateRange returns the user's events with date in
// [start, end], both ends inclusive, oldest first.
func (r *Repository) FindEventsByUserAndDateRange(userID int64, start, end time.Time) ([]models.Event, error) {
	query := `
		SELECT id, user_id, title, category, amount, date, receipt_image, invoice_number, payment_type, nip, description, type
		FROM events
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date, id`
	rows, err := r.q.Query(query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		var paymentType *string
		var description sql.NullString
		if err := rows.Scan(&event.ID, &event.UserID, &event.Title, &event.Category,
			&event.Amount, &event.Date, &event.ReceiptImage, &event.InvoiceNumber,
			&paymentType, &event.NIP, &description, &event.Type); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if paymentType != nil {
			pt := models.PaymentType(*paymentType)
			event.PaymentType = &pt
		}
		event.Description = description.String
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}

// FindFirstEventDate returns the date of the user's earliest event, or nil
// when the user has no events.
func (r *Repository) FindFirstEventDate(userID int64) (*time.Time, error) {
	var date time.Time
	query := `SELECT date FROM events WHERE user_id = $1 ORDER BY date LIMIT 1`
	err := r.q.QueryRow(query, userID).Scan(&date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find first event date: %w", err)
	}
	return &date, nil
}
