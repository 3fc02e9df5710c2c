package service

import (
	"encoding/base64"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/finbook/finance-service/internal/apperr"
	"github.com/finbook/finance-service/internal/models"
	"github.com/finbook/finance-service/internal/repository"
)

// EventService orchestrates creation and listing of financial events scoped
// to the authenticated user.
type EventService struct {
	repo *repository.Repository
	log  *logrus.Logger
}

// NewEventService initializes a new event service
func NewEventService(repo *repository.Repository, log *logrus.Logger) *EventService {
	return &EventService{repo: repo, log: log}
}

// EventInput is the add-event payload. A receipt image travels base64-encoded
// in Base64String and is decoded to bytes before persisting.
type EventInput struct {
	Title         string              `json:"title"`
	Category      models.Category     `json:"category"`
	Amount        float64             `json:"amount"`
	Date          string              `json:"date"`
	Base64String  string              `json:"base64String,omitempty"`
	InvoiceNumber *int64              `json:"invoiceNumber,omitempty"`
	PaymentType   *models.PaymentType `json:"paymentType,omitempty"`
	NIP           *int64              `json:"nip,omitempty"`
	Description   string              `json:"description,omitempty"`
	Type          models.EventType    `json:"type"`
}

// CreateEvent validates and persists an event for the given identity.
// Anonymous callers are rejected. When a receipt image is attached, invoice
// number, payment type and NIP must all be present.
func (s *EventService) CreateEvent(user *models.User, in EventInput) (*models.Event, error) {
	if user == nil {
		return nil, apperr.New(apperr.Unauthorized, "no authenticated session")
	}

	fields := map[string]string{}
	if in.Title == "" {
		fields["title"] = "this field is required"
	}
	if !in.Category.Valid() {
		fields["category"] = "unknown category"
	}
	if !in.Type.Valid() {
		fields["type"] = "unknown event type"
	}
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		fields["date"] = "expected format YYYY-MM-DD"
	}
	if in.PaymentType != nil && !in.PaymentType.Valid() {
		fields["paymentType"] = "unknown payment type"
	}

	var receipt []byte
	if in.Base64String != "" {
		if in.InvoiceNumber == nil {
			fields["invoiceNumber"] = "required when a receipt image is attached"
		}
		if in.PaymentType == nil {
			fields["paymentType"] = "required when a receipt image is attached"
		}
		if in.NIP == nil {
			fields["nip"] = "required when a receipt image is attached"
		}
		receipt, err = base64.StdEncoding.DecodeString(in.Base64String)
		if err != nil {
			fields["base64String"] = "invalid base64 encoding"
		}
	}
	if len(fields) > 0 {
		return nil, apperr.NewValidation(fields)
	}

	event := &models.Event{
		UserID:        user.ID,
		Title:         in.Title,
		Category:      in.Category,
		Amount:        in.Amount,
		Date:          date,
		ReceiptImage:  receipt,
		InvoiceNumber: in.InvoiceNumber,
		PaymentType:   in.PaymentType,
		NIP:           in.NIP,
		Description:   in.Description,
		Type:          in.Type,
	}
	if err := s.repo.CreateEvent(event); err != nil {
		return nil, err
	}

	s.log.Infof("Event created for user %s: %s", user.Username, event.Title)
	return event, nil
}

// EventList is the get-events response: the events in range plus the date of
// the user's earliest-ever event, nil when the user has none.
type EventList struct {
	FirstEventDate *time.Time     `json:"firstEventDate"`
	Events         []models.Event `json:"events"`
}

// ListEvents returns the identity's events with date in [start, end], both
// ends inclusive.
func (s *EventService) ListEvents(user *models.User, start, end time.Time) (*EventList, error) {
	if user == nil {
		return nil, apperr.New(apperr.Unauthorized, "no authenticated session")
	}

	firstDate, err := s.repo.FindFirstEventDate(user.ID)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.FindEventsByUserAndDateRange(user.ID, start, end)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.Event{}
	}
	return &EventList{FirstEventDate: firstDate, Events: events}, nil
}
