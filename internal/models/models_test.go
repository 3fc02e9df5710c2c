package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryDailyShopping.Valid())
	assert.True(t, CategoryOthers.Valid())
	assert.False(t, Category("GROCERIES").Valid())
	assert.False(t, Category("").Valid())
}

func TestPaymentTypeValid(t *testing.T) {
	assert.True(t, PaymentBlik.Valid())
	assert.False(t, PaymentType("CHEQUE").Valid())
}

func TestEventTypeValid(t *testing.T) {
	assert.True(t, EventExpense.Valid())
	assert.True(t, EventIncome.Valid())
	assert.False(t, EventType("TRANSFER").Valid())
}

func TestExchangeRateSameDate(t *testing.T) {
	morning := ExchangeRate{InsertDate: time.Date(2024, 4, 3, 8, 0, 0, 0, time.UTC)}
	evening := ExchangeRate{InsertDate: time.Date(2024, 4, 3, 22, 30, 0, 0, time.UTC)}
	nextDay := ExchangeRate{InsertDate: time.Date(2024, 4, 4, 8, 0, 0, 0, time.UTC)}

	assert.True(t, morning.SameDate(&evening))
	assert.False(t, morning.SameDate(&nextDay))
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()

	live := Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, live.Expired(now))

	dead := Session{ExpiresAt: now.Add(-time.Minute)}
	assert.True(t, dead.Expired(now))

	boundary := Session{ExpiresAt: now}
	assert.True(t, boundary.Expired(now))
}
