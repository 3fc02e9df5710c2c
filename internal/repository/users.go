package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/finbook/finance-service/internal/models"
)

const userColumns = `id, username, email, password_hash, first_name, confirmation_code, confirmation_code_expiry, is_authorized`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.ConfirmationCode, &user.ConfirmationCodeExpiry, &user.IsAuthorized)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, first_name, confirmation_code, confirmation_code_expiry, is_authorized)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(query, user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.ConfirmationCode, user.ConfirmationCodeExpiry, user.IsAuthorized).
		Scan(&user.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUser persists the mutable fields of an existing user.
func (r *Repository) UpdateUser(user *models.User) error {
	query := `
		UPDATE users
		SET password_hash = $1, confirmation_code = $2, confirmation_code_expiry = $3, is_authorized = $4
		WHERE id = $5`
	res, err := r.q.Exec(query, user.PasswordHash, user.ConfirmationCode,
		user.ConfirmationCodeExpiry, user.IsAuthorized, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindUserByID retrieves a user by primary key
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.q.QueryRow(query, id))
}

// FindUserByUsername retrieves a user by username
func (r *Repository) FindUserByUsername(username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.q.QueryRow(query, username))
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.q.QueryRow(query, email))
}

// FindUserByConfirmationCode retrieves a user by its live confirmation code.
// Consumed codes (set to NULL) never match again.
func (r *Repository) FindUserByConfirmationCode(code int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE confirmation_code = $1`
	return scanUser(r.q.QueryRow(query, code))
}

// FindUserByEmailAndCode retrieves a user by the (email, code) compound key
// used by the password-reset links.
func (r *Repository) FindUserByEmailAndCode(email string, code int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND confirmation_code = $2`
	return scanUser(r.q.QueryRow(query, email, code))
}

// FindExpiredUnconfirmed returns all users that never confirmed their
// registration and whose confirmation code expired before now.
func (r *Repository) FindExpiredUnconfirmed(now time.Time) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_authorized = false AND confirmation_code_expiry < $1`
	rows, err := r.q.Query(query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
			&user.FirstName, &user.ConfirmationCode, &user.ConfirmationCodeExpiry, &user.IsAuthorized); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expired users: %w", err)
	}
	return users, nil
}

// DeleteUserByUsername removes a user; events and sessions cascade.
func (r *Repository) DeleteUserByUsername(username string) error {
	res, err := r.q.Exec(`DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
