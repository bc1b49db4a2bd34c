package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrcars/backend/internal/apierrors"
	"github.com/mrcars/backend/internal/model"
	"github.com/mrcars/backend/internal/repository"
)

// ResetMailer sends password reset emails.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, email string) error
}

// Handler exposes HTTP endpoints for authentication.
type Handler struct {
	tokens     *TokenManager
	userRepo   repository.UserRepository
	mailer     ResetMailer
	cookieName string
	secure     bool
	logger     *slog.Logger
}

// NewHandler creates a new auth Handler. secure controls the cookie's
// Secure flag and should be true everywhere except local development.
func NewHandler(tokens *TokenManager, userRepo repository.UserRepository, mailer ResetMailer, cookieName string, secure bool, logger *slog.Logger) *Handler {
	return &Handler{
		tokens:     tokens,
		userRepo:   userRepo,
		mailer:     mailer,
		cookieName: cookieName,
		secure:     secure,
		logger:     logger,
	}
}

// --- Request / Response types ------------------------------------------------

// LoginRequest is the payload for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the payload for POST /api/v1/auth/signup.
type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// ResetPasswordRequest is the payload for POST /api/v1/auth/reset-password.
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// SessionResponse is the standard response for login and signup.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// UserInfo is a safe subset of user data returned in API responses.
type UserInfo struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Phone       string  `json:"phone,omitempty"`
	Role        string  `json:"role"`
	LastLoginAt *string `json:"last_login_at,omitempty"`
}

// --- Handlers ----------------------------------------------------------------

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.NewBadRequestError("invalid request body").Write(w, r)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		apierrors.NewValidationError("email and password are required", nil).Write(w, r)
		return
	}

	user, err := h.userRepo.GetByEmail(r.Context(), req.Email)
	if err != nil || user == nil {
		apierrors.NewUnauthorizedError("invalid email or password").Write(w, r)
		return
	}

	if !user.Active {
		apierrors.NewForbiddenError("account is deactivated").Write(w, r)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		apierrors.NewUnauthorizedError("invalid email or password").Write(w, r)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		apierrors.NewInternalError("failed to generate token").Write(w, r)
		return
	}

	// Update last login timestamp (best effort).
	now := time.Now().UTC()
	_ = h.userRepo.UpdateLastLogin(r.Context(), user.ID, now)

	h.setSessionCookie(w, token, now.Add(h.tokens.expiry))
	writeJSON(w, http.StatusOK, SessionResponse{
		Token:     token,
		ExpiresAt: now.Add(h.tokens.expiry),
		User:      toUserInfo(user),
	})
}

// Signup handles POST /api/v1/auth/signup. New accounts always start as
// customers; staff and admin roles are granted through user management.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.NewBadRequestError("invalid request body").Write(w, r)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		apierrors.NewValidationError("email, password, first_name and last_name are required", nil).Write(w, r)
		return
	}

	if len(req.Password) < 8 {
		apierrors.NewValidationError("password must be at least 8 characters", nil).Write(w, r)
		return
	}

	existing, _ := h.userRepo.GetByEmail(r.Context(), req.Email)
	if existing != nil {
		apierrors.NewConflictError("a user with this email already exists").Write(w, r)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		apierrors.NewInternalError("failed to hash password").Write(w, r)
		return
	}

	user := &model.User{
		BaseEntity:   model.NewBaseEntity(),
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         model.RoleCustomer,
		Active:       true,
	}
	if err := h.userRepo.Create(r.Context(), user); err != nil {
		apierrors.NewInternalError("failed to create user").Write(w, r)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		apierrors.NewInternalError("failed to generate token").Write(w, r)
		return
	}

	expiresAt := time.Now().UTC().Add(h.tokens.expiry)
	h.setSessionCookie(w, token, expiresAt)
	writeJSON(w, http.StatusCreated, SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserInfo(user),
	})
}

// Logout handles POST /api/v1/auth/logout by clearing the session cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// ResetPassword handles POST /api/v1/auth/reset-password. The response is
// always accepted so the endpoint cannot be used to probe which emails
// have accounts; the email is sent in the background.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.NewBadRequestError("invalid request body").Write(w, r)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" {
		apierrors.NewValidationError("email is required", nil).Write(w, r)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		user, err := h.userRepo.GetByEmail(ctx, req.Email)
		if err != nil || user == nil {
			return
		}
		if err := h.mailer.SendPasswordReset(ctx, user.Email); err != nil {
			h.logger.Error("password reset email failed", "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// Me handles GET /api/v1/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.NewUnauthorizedError("authentication required").Write(w, r)
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), claims.UserID)
	if err != nil || user == nil {
		apierrors.NewNotFoundError("user", claims.UserID.String()).Write(w, r)
		return
	}

	writeJSON(w, http.StatusOK, toUserInfo(user))
}

// --- Helpers -----------------------------------------------------------------

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func toUserInfo(u *model.User) UserInfo {
	info := UserInfo{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      string(u.Role),
	}
	if u.LastLoginAt != nil {
		s := u.LastLoginAt.Format(time.RFC3339)
		info.LastLoginAt = &s
	}
	return info
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
