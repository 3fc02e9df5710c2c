package service

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/finbook/finance-service/internal/apperr"
	"github.com/finbook/finance-service/internal/config"
	"github.com/finbook/finance-service/internal/models"
	"github.com/finbook/finance-service/internal/repository"
)

// UserService orchestrates the account lifecycle: registration with emailed
// confirmation codes, login sessions, password resets, deletion, and the
// purge of registrations that were never confirmed.
type UserService struct {
	repo     *repository.Repository
	mail     Mailer
	hasher   PasswordHasher
	validate *validator.Validate
	log      *logrus.Logger
	cfg      *config.Config
}

// NewUserService initializes a new user service
func NewUserService(repo *repository.Repository, mail Mailer, hasher PasswordHasher,
	log *logrus.Logger, cfg *config.Config) *UserService {
	return &UserService{
		repo:     repo,
		mail:     mail,
		hasher:   hasher,
		validate: newValidator(),
		log:      log,
		cfg:      cfg,
	}
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	Username    string `json:"username" validate:"required,username"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,passwordchars"`
	ConPassword string `json:"conPassword" validate:"required"`
	FirstName   string `json:"firstName" validate:"required,alpha"`
}

const (
	confirmationTTL = 24 * time.Hour
	resetTTL        = time.Hour
)

// Register creates a new unconfirmed account and emails the activation link.
// All validation happens before storage is touched.
func (s *UserService) Register(in RegisterInput) error {
	fields := map[string]string{}
	if err := s.validate.Struct(in); err != nil {
		fields = fieldErrors(err)
	}
	if _, ok := fields["conPassword"]; !ok && in.Password != in.ConPassword {
		fields["conPassword"] = "passwords do not match"
	}
	if len(fields) > 0 {
		return apperr.NewValidation(fields)
	}

	if in.Username == models.AnonymousUser {
		return &apperr.Error{Kind: apperr.Conflict, Message: "username is not allowed",
			Fields: map[string]string{"username": "username is not allowed"}}
	}

	return s.repo.WithTx(func(tx *repository.Repository) error {
		if _, err := tx.FindUserByUsername(in.Username); err == nil {
			return &apperr.Error{Kind: apperr.Conflict, Message: "username already taken",
				Fields: map[string]string{"username": "username already taken"}}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if _, err := tx.FindUserByEmail(in.Email); err == nil {
			return &apperr.Error{Kind: apperr.Conflict, Message: "email already registered",
				Fields: map[string]string{"email": "email already registered"}}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		code := sixDigitCode()
		expiry := time.Now().Add(confirmationTTL)
		user := &models.User{
			Username:               in.Username,
			Email:                  in.Email,
			PasswordHash:           hash,
			FirstName:              capitalizeFirst(in.FirstName),
			ConfirmationCode:       &code,
			ConfirmationCodeExpiry: &expiry,
			IsAuthorized:           false,
		}

		url := fmt.Sprintf("%s/user/registration/authorize-registration?pincode=%d",
			s.cfg.FrontendBaseURL, code)
		if err := s.mail.SendRegistrationConfirmation(user.Email, url, user.FirstName); err != nil {
			return apperr.Wrap(apperr.Delivery, "failed to send confirmation email", err)
		}

		if err := tx.CreateUser(user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.New(apperr.Conflict, "username or email already taken")
			}
			return err
		}

		s.log.Infof("User registered: %s", user.Email)
		return nil
	})
}

// AuthorizeRegistration confirms a registration by its emailed code. The
// code is single-use: a consumed or unknown code reports an expired link.
func (s *UserService) AuthorizeRegistration(code int) error {
	return s.repo.WithTx(func(tx *repository.Repository) error {
		user, err := tx.FindUserByConfirmationCode(code)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.Expired, "activation link expired")
		}
		if err != nil {
			return err
		}

		user.IsAuthorized = true
		user.ConfirmationCode = nil
		user.ConfirmationCodeExpiry = nil
		if err := tx.UpdateUser(user); err != nil {
			return err
		}

		s.log.Infof("User authorized: %s", user.Username)
		return nil
	})
}

// RequestPasswordReset issues a fresh one-hour code and emails a reset link.
// Only confirmed accounts may reset their password.
func (s *UserService) RequestPasswordReset(email string) error {
	var user *models.User
	err := s.repo.WithTx(func(tx *repository.Repository) error {
		var err error
		user, err = tx.FindUserByEmail(email)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.NotFound, "email address is not registered")
		}
		if err != nil {
			return err
		}
		if !user.IsAuthorized {
			return apperr.New(apperr.Conflict, "cannot reset password, authorize your profile first")
		}

		code := sixDigitCode()
		expiry := time.Now().Add(resetTTL)
		user.ConfirmationCode = &code
		user.ConfirmationCodeExpiry = &expiry
		return tx.UpdateUser(user)
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/user/login/reset-password?pincode=%d&email=%s",
		s.cfg.FrontendBaseURL, *user.ConfirmationCode, user.Email)
	if err := s.mail.SendPasswordReset(user.Email, url, user.FirstName); err != nil {
		return apperr.Wrap(apperr.Delivery, "failed to send password reset email", err)
	}

	s.log.Infof("Password reset link sent to %s", user.Email)
	return nil
}

// VerifyResetLink checks that a reset link's (email, code) pair is valid and
// not yet expired.
func (s *UserService) VerifyResetLink(code int, email string) error {
	user, err := s.repo.FindUserByEmailAndCode(email, code)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.New(apperr.NotFound, "invalid link, please generate a new one")
	}
	if err != nil {
		return err
	}
	if resetExpired(user, time.Now()) {
		return apperr.New(apperr.Expired, "link expired, please generate a new one")
	}
	return nil
}

// ResetPasswordInput is the new-password payload of the reset flow.
type ResetPasswordInput struct {
	Password    string `json:"password" validate:"required,min=8,passwordchars"`
	ConPassword string `json:"conPassword" validate:"required"`
}

// ResetPassword stores a new password hash after checking the (email, code)
// pair and its expiry, consuming the code.
func (s *UserService) ResetPassword(code int, email string, in ResetPasswordInput) error {
	fields := map[string]string{}
	if err := s.validate.Struct(in); err != nil {
		fields = fieldErrors(err)
	}
	if _, ok := fields["conPassword"]; !ok && in.Password != in.ConPassword {
		fields["conPassword"] = "passwords do not match"
	}
	if len(fields) > 0 {
		return apperr.NewValidation(fields)
	}

	return s.repo.WithTx(func(tx *repository.Repository) error {
		user, err := tx.FindUserByEmailAndCode(email, code)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.NotFound, "invalid link, please generate a new one")
		}
		if err != nil {
			return err
		}
		if resetExpired(user, time.Now()) {
			return apperr.New(apperr.Expired, "link expired, please generate a new one")
		}

		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
		user.ConfirmationCode = nil
		user.ConfirmationCodeExpiry = nil
		if err := tx.UpdateUser(user); err != nil {
			return err
		}

		s.log.Infof("Password reset for %s", user.Username)
		return nil
	})
}

// DeleteAccount removes the authenticated user's account (events and
// sessions cascade) and sends a deletion confirmation. The deletion commits
// before the email goes out, so a delivery failure is reported even though
// the account is already gone.
func (s *UserService) DeleteAccount(user *models.User) error {
	if user == nil {
		return apperr.New(apperr.Unauthorized, "no authenticated session")
	}

	if err := s.repo.DeleteUserByUsername(user.Username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.NotFound, "user not found")
		}
		return err
	}
	s.log.Infof("Account deleted: %s", user.Username)

	if err := s.mail.SendAccountDeletionConfirmation(user.Email, user.FirstName); err != nil {
		return apperr.Wrap(apperr.Delivery, "failed to send deletion confirmation email", err)
	}
	return nil
}

// Login authenticates a user and opens a session. At most one live session
// exists per user; a second concurrent login is rejected, not evicting the
// first.
func (s *UserService) Login(username, password string) (*models.Session, error) {
	user, err := s.repo.FindUserByUsername(username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.New(apperr.Unauthorized, "unknown username")
	}
	if err != nil {
		return nil, err
	}
	if !user.IsAuthorized {
		return nil, apperr.New(apperr.Unauthorized, "profile has not been authorized")
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperr.New(apperr.Unauthorized, "invalid username or password")
	}

	now := time.Now()
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	// The live-session check and the insert share one transaction so two
	// concurrent logins cannot both pass the check.
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		if _, err := tx.FindLiveSessionByUser(user.ID, now); err == nil {
			return apperr.New(apperr.Conflict, "user already has an active session")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return tx.CreateSession(session)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("User logged in: %s", user.Username)
	return session, nil
}

// Logout closes the session identified by token.
func (s *UserService) Logout(token string) error {
	return s.repo.DeleteSession(token)
}

// CheckUsername reports a conflict when the username is already taken.
func (s *UserService) CheckUsername(username string) error {
	if _, err := s.repo.FindUserByUsername(username); err == nil {
		return apperr.New(apperr.Conflict, "username already taken")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// CheckEmail reports a conflict when the email is already registered.
func (s *UserService) CheckEmail(email string) error {
	if _, err := s.repo.FindUserByEmail(email); err == nil {
		return apperr.New(apperr.Conflict, "email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// PurgeExpired deletes every account that never confirmed its registration
// and whose confirmation code expired before now. Authorized accounts are
// never touched. Expired sessions are swept in the same transaction.
func (s *UserService) PurgeExpired(now time.Time) (int, error) {
	deleted := 0
	err := s.repo.WithTx(func(tx *repository.Repository) error {
		users, err := tx.FindExpiredUnconfirmed(now)
		if err != nil {
			return err
		}
		for _, user := range users {
			if err := tx.DeleteUserByUsername(user.Username); err != nil {
				return err
			}
			s.log.Infof("Deleted expired unconfirmed user: %s", user.Username)
			deleted++
		}
		return tx.DeleteExpiredSessions(now)
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func resetExpired(user *models.User, now time.Time) bool {
	return user.ConfirmationCodeExpiry == nil || user.ConfirmationCodeExpiry.Before(now)
}

// sixDigitCode returns a random confirmation code in [100000, 999999].
func sixDigitCode() int {
	return rand.Intn(900000) + 100000
}

// capitalizeFirst upper-cases the first letter and lower-cases the rest.
func capitalizeFirst(input string) string {
	if input == "" {
		return input
	}
	runes := []rune(strings.ToLower(input))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
