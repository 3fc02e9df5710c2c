package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/finbook/finance-service/internal/models"
)

// CreateSession inserts a new login session
func (r *Repository) CreateSession(session *models.Session) error {
	query := `INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`
	if _, err := r.q.Exec(query, session.Token, session.UserID, session.ExpiresAt); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindSessionByToken retrieves a session by its token
func (r *Repository) FindSessionByToken(token string) (*models.Session, error) {
	session := &models.Session{}
	query := `SELECT token, user_id, expires_at FROM sessions WHERE token = $1`
	err := r.q.QueryRow(query, token).Scan(&session.Token, &session.UserID, &session.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return session, nil
}

// FindLiveSessionByUser returns the user's non-expired session, if any.
func (r *Repository) FindLiveSessionByUser(userID int64, now time.Time) (*models.Session, error) {
	session := &models.Session{}
	query := `SELECT token, user_id, expires_at FROM sessions WHERE user_id = $1 AND expires_at > $2`
	err := r.q.QueryRow(query, userID, now).Scan(&session.Token, &session.UserID, &session.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session by token
func (r *Repository) DeleteSession(token string) error {
	if _, err := r.q.Exec(`DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all sessions past their expiry.
func (r *Repository) DeleteExpiredSessions(now time.Time) error {
	if _, err := r.q.Exec(`DELETE FROM sessions WHERE expires_at <= $1`, now); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}
