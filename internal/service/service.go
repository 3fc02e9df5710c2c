// Package service holds the orchestration logic: account lifecycle and
// sessions, financial events, and the exchange-rate cache. External
// collaborators (email delivery, the quote API, password hashing) are
// consumed through the narrow interfaces below.
package service

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/finbook/finance-service/internal/models"
)

// Mailer renders and dispatches the notification emails.
type Mailer interface {
	SendRegistrationConfirmation(to, url, firstName string) error
	SendPasswordReset(to, url, firstName string) error
	SendAccountDeletionConfirmation(to, firstName string) error
}

// RateSource returns the latest ten currency multipliers and their quote date.
type RateSource interface {
	FetchRates() (*models.ExchangeRate, error)
}

// PasswordHasher is an opaque one-way hash-and-verify capability.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// BcryptHasher hashes passwords with bcrypt at the default cost.
type BcryptHasher struct{}

// Hash returns the bcrypt digest of plain.
func (BcryptHasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plain matches digest.
func (BcryptHasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
