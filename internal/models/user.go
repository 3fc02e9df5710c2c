package models

import "time"

// User represents a registered (or still unconfirmed) account.
type User struct {
	ID                     int64      `json:"id"`
	Username               string     `json:"username"`
	Email                  string     `json:"email"`
	PasswordHash           string     `json:"-"` // Not serialized
	FirstName              string     `json:"firstName"`
	ConfirmationCode       *int       `json:"-"`
	ConfirmationCodeExpiry *time.Time `json:"-"`
	IsAuthorized           bool       `json:"isAuthorized"`
}

// AnonymousUser is the sentinel identity for "no authenticated session".
// Registering under this name is rejected.
const AnonymousUser = "anonymousUser"
