package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/finbook/finance-service/internal/apperr"
	"github.com/finbook/finance-service/internal/middleware"
	"github.com/finbook/finance-service/internal/models"
	"github.com/finbook/finance-service/internal/service"
)

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if !h.decode(w, r, &in) {
		return
	}
	if err := h.users.Register(in); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// CheckUsername reports username availability (200 free, 409 taken)
func (h *Handler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
	}
	if !h.decode(w, r, &in) {
		return
	}
	if err := h.users.CheckUsername(in.Username); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// CheckEmail reports email availability (200 free, 409 taken)
func (h *Handler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if !h.decode(w, r, &in) {
		return
	}
	if err := h.users.CheckEmail(in.Email); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// AuthorizeRegistration confirms a registration via the emailed pincode.
// A malformed pincode can never match a live code, so it reports the same
// expired-link outcome as an unknown one.
func (h *Handler) AuthorizeRegistration(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(mux.Vars(r)["pincode"])
	if err != nil {
		h.respondError(w, apperr.New(apperr.Expired, "activation link expired"))
		return
	}
	if err := h.users.AuthorizeRegistration(code); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "authorization successful"})
}

// ForgotPassword sends a password-reset link to the given email
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if !h.decode(w, r, &in) {
		return
	}
	if err := h.users.RequestPasswordReset(in.Email); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK,
		map[string]string{"message": "activation link has been sent to " + in.Email})
}

// VerifyReset validates a reset link before the new password form is shown
func (h *Handler) VerifyReset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	code, err := strconv.Atoi(vars["pincode"])
	if err != nil {
		h.respondError(w, apperr.New(apperr.NotFound, "invalid link, please generate a new one"))
		return
	}
	if err := h.users.VerifyResetLink(code, vars["email"]); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ResetPassword stores the new password carried by a valid reset link
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	code, err := strconv.Atoi(vars["pincode"])
	if err != nil {
		h.respondError(w, apperr.New(apperr.NotFound, "invalid link, please generate a new one"))
		return
	}
	var in service.ResetPasswordInput
	if !h.decode(w, r, &in) {
		return
	}
	if err := h.users.ResetPassword(code, vars["email"], in); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Login authenticates a user and sets the session cookie
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !h.decode(w, r, &in) {
		return
	}
	session, err := h.users.Login(in.Username, in.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusOK)
}

// Logout closes the current session and clears the cookie
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.users.Logout(cookie.Value); err != nil {
			h.respondError(w, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusOK)
}

// Me returns the current identity's username, or the anonymous sentinel.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	username := models.AnonymousUser
	if user := middleware.UserFromContext(r.Context()); user != nil {
		username = user.Username
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"username": username})
}

// DeleteAccount removes the authenticated user's account
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if err := h.users.DeleteAccount(user); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
