package service

import (
	"github.com/lib/pq"

	"github.com/finbook/finance-service/internal/models"
)

var pqUniqueViolation = pq.Error{Code: "23505"}

func userFixture() *models.User {
	return &models.User{
		ID:           1,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed:Password1",
		FirstName:    "Alice",
		IsAuthorized: true,
	}
}
