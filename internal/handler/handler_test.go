package handler

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbook/finance-service/internal/config"
	"github.com/finbook/finance-service/internal/middleware"
	"github.com/finbook/finance-service/internal/models"
	"github.com/finbook/finance-service/internal/repository"
	"github.com/finbook/finance-service/internal/service"
)

type noopMailer struct{}

func (noopMailer) SendRegistrationConfirmation(to, url, firstName string) error { return nil }
func (noopMailer) SendPasswordReset(to, url, firstName string) error            { return nil }
func (noopMailer) SendAccountDeletionConfirmation(to, firstName string) error   { return nil }

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }
func (plainHasher) Verify(plain, digest string) bool  { return digest == "hashed:"+plain }

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{
		FrontendBaseURL: "http://localhost:3000",
		SessionTTL:      24 * time.Hour,
	}
	repo := repository.NewRepository(db)
	users := service.NewUserService(repo, noopMailer{}, plainHasher{}, log, cfg)
	events := service.NewEventService(repo, log)
	rates := service.NewRateService(repo, nil, log)
	return NewHandler(users, events, rates, log, cfg), mock
}

func TestRegister_RejectsMalformedBody(t *testing.T) {
	h, mock := newTestHandler(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/user/registration", strings.NewReader("{broken"))
	h.Register(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"invalid request body"}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorizeRegistration_NonNumericPincode(t *testing.T) {
	h, mock := newTestHandler(t)

	router := mux.NewRouter()
	router.HandleFunc("/api/user/authorize-registration/{pincode}", h.AuthorizeRegistration)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/user/authorize-registration/abc", nil))

	assert.Equal(t, http.StatusGone, w.Code)
	assert.JSONEq(t, `{"message":"activation link expired"}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyReset_NonNumericPincode(t *testing.T) {
	h, mock := newTestHandler(t)

	router := mux.NewRouter()
	router.HandleFunc("/api/user/reset-password/{pincode}/{email}", h.VerifyReset)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/user/reset-password/xyz/a@b.com", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`FROM users WHERE username = \$1`).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash",
			"first_name", "confirmation_code", "confirmation_code_expiry", "is_authorized"}).
			AddRow(int64(1), "alice", "alice@example.com", "hashed:Password1", "Alice", nil, nil, true))
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM sessions WHERE user_id = \$1`).WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO sessions`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/user/login",
		strings.NewReader(`{"username":"alice","password":"Password1"}`))
	h.Login(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, int((24 * time.Hour).Seconds()), cookies[0].MaxAge)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_SecondSessionConflicts(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`FROM users WHERE username = \$1`).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash",
			"first_name", "confirmation_code", "confirmation_code_expiry", "is_authorized"}).
			AddRow(int64(1), "alice", "alice@example.com", "hashed:Password1", "Alice", nil, nil, true))
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM sessions WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"token", "user_id", "expires_at"}).
			AddRow("live", int64(1), time.Now().Add(time.Hour)))
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/user/login",
		strings.NewReader(`{"username":"alice","password":"Password1"}`))
	h.Login(w, r)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, w.Result().Cookies())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMe(t *testing.T) {
	h, mock := newTestHandler(t)

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Me(w, httptest.NewRequest(http.MethodGet, "/api/user/me", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"username":"anonymousUser"}`, w.Body.String())
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEvents_RejectsBadDates(t *testing.T) {
	h, mock := newTestHandler(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/event/get-events?startDate=03-04-2024&endDate=2024-05-01", nil)
	h.GetEvents(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEvents_NoHistoryReports404(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT date FROM events`).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`FROM events`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "category", "amount",
			"date", "receipt_image", "invoice_number", "payment_type", "nip", "description", "type"}))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/event/get-events?startDate=2024-04-01&endDate=2024-05-01", nil)
	user := &models.User{ID: 1, Username: "alice", IsAuthorized: true}
	h.GetEvents(w, r.WithContext(middleware.ContextWithUser(r.Context(), user)))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"no events recorded yet"}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
