package handler

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/TechLionDev/InviStar/internal/auth"
	"github.com/TechLionDev/InviStar/internal/database"
	"github.com/TechLionDev/InviStar/internal/logging"
	"github.com/TechLionDev/InviStar/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// AuthStore defines the database methods needed by auth handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type AuthStore interface {
	CreateUser(ctx context.Context, arg database.CreateUserParams) (database.User, error)
	GetUserByEmail(ctx context.Context, email string) (database.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error)
	UpdateUserPassword(ctx context.Context, arg database.UpdateUserPasswordParams) (database.User, error)
}

// ResetSender delivers password reset tokens to their owner.
type ResetSender interface {
	SendPasswordReset(ctx context.Context, user database.User, token string) error
}

// logResetSender writes reset tokens to the request log at debug level.
type logResetSender struct{}

func (logResetSender) SendPasswordReset(ctx context.Context, user database.User, token string) error {
	logging.FromContext(ctx).Debug("password reset token issued",
		zap.Stringer("user_id", user.ID),
		zap.String("token", token),
	)
	return nil
}

// AuthHandler handles signup, login, token refresh and password resets.
type AuthHandler struct {
	store     AuthStore
	jwtSecret string
	sessions  *auth.SessionNotifier
	resets    ResetSender
}

// NewAuthHandler creates a new AuthHandler. sessions may be nil.
func NewAuthHandler(store AuthStore, jwtSecret string, sessions *auth.SessionNotifier) *AuthHandler {
	return &AuthHandler{store: store, jwtSecret: jwtSecret, sessions: sessions, resets: logResetSender{}}
}

// SetResetSender replaces the default sender, which only logs reset tokens.
func (h *AuthHandler) SetResetSender(s ResetSender) {
	h.resets = s
}

// RegisterRoutes registers the public auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/signup", h.Signup)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)
	r.Post("/auth/forgot", h.Forgot)
	r.Post("/auth/reset", h.Reset)
}

// RegisterProtectedRoutes registers endpoints that need a valid access token.
func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/logout", h.Logout)
}

// --- Request / Response types ---

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         userResponse `json:"user"`
}

type userResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	AddressStreet string    `json:"address_street"`
	AddressCity   string    `json:"address_city"`
	AddressState  string    `json:"address_state"`
	AddressZip    string    `json:"address_zip"`
	Avatar        *string   `json:"avatar"`
	Verified      bool      `json:"verified"`
	SetupComplete bool      `json:"setup_complete"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toUserResponse(u database.User) userResponse {
	resp := userResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Phone:         u.Phone,
		AddressStreet: u.AddressStreet,
		AddressCity:   u.AddressCity,
		AddressState:  u.AddressState,
		AddressZip:    u.AddressZip,
		Verified:      u.Verified,
		SetupComplete: setupComplete(u),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	if u.Avatar.Valid {
		resp.Avatar = &u.Avatar.String
	}
	return resp
}

// setupComplete reports whether the profile has a phone and a full address.
func setupComplete(u database.User) bool {
	for _, v := range []string{u.Phone, u.AddressStreet, u.AddressCity, u.AddressState, u.AddressZip} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// --- Handlers ---

// Signup creates an account and logs it in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		writeError(w, http.StatusBadRequest, "invalid email")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		serverError(w, r, "hash password", err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), database.CreateUserParams{
		Email:          email,
		HashedPassword: hashed,
		Name:           strings.TrimSpace(req.Name),
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		serverError(w, r, "create user", err)
		return
	}

	h.respondWithTokens(w, r, http.StatusCreated, user)
}

// Login handles email + password authentication.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		serverError(w, r, "get user by email", err)
		return
	}

	if !auth.CheckPassword(user.HashedPassword, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.respondWithTokens(w, r, http.StatusOK, user)
}

// Refresh exchanges a valid refresh token for a new access + refresh token pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	userID, err := auth.ValidateRefreshToken(h.jwtSecret, req.RefreshToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusUnauthorized, "user not found")
			return
		}
		serverError(w, r, "get user by id", err)
		return
	}

	h.respondWithTokens(w, r, http.StatusOK, user)
}

// Logout tells the user's other connections that the session ended. Tokens
// are stateless, so clients drop them locally.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == uuid.Nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.sessions.Notify(auth.SessionEvent{UserID: userID, Change: auth.SessionLogout})
	w.WriteHeader(http.StatusNoContent)
}

// Forgot issues a reset token for the account with the given email. The
// response is the same whether or not the account exists.
func (h *AuthHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), email)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		serverError(w, r, "get user by email", err)
		return
	default:
		token, err := auth.GenerateResetToken(h.jwtSecret, user.ID, user.HashedPassword)
		if err != nil {
			serverError(w, r, "generate reset token", err)
			return
		}
		if err := h.resets.SendPasswordReset(r.Context(), user, token); err != nil {
			serverError(w, r, "send reset token", err)
			return
		}
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// Reset sets a new password using a token from Forgot. Tokens are single use:
// the new hash no longer matches the token's fingerprint.
func (h *AuthHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Token == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "token and password are required")
		return
	}

	userID, fingerprint, err := auth.ValidateResetToken(h.jwtSecret, req.Token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid reset token")
		return
	}

	user, err := h.store.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusUnauthorized, "invalid reset token")
			return
		}
		serverError(w, r, "get user by id", err)
		return
	}
	if auth.PasswordFingerprint(user.HashedPassword) != fingerprint {
		writeError(w, http.StatusUnauthorized, "invalid reset token")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		serverError(w, r, "hash password", err)
		return
	}

	if _, err := h.store.UpdateUserPassword(r.Context(), database.UpdateUserPasswordParams{ID: user.ID, HashedPassword: hashed}); err != nil {
		serverError(w, r, "update password", err)
		return
	}

	h.sessions.Notify(auth.SessionEvent{UserID: user.ID, Change: auth.SessionPassword})
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, r *http.Request, status int, user database.User) {
	accessToken, err := auth.GenerateToken(h.jwtSecret, user.ID, user.Email)
	if err != nil {
		serverError(w, r, "generate access token", err)
		return
	}

	refreshToken, err := auth.GenerateRefreshToken(h.jwtSecret, user.ID)
	if err != nil {
		serverError(w, r, "generate refresh token", err)
		return
	}

	h.sessions.Notify(auth.SessionEvent{UserID: user.ID, Change: auth.SessionLogin})

	writeJSON(w, status, tokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         toUserResponse(user),
	})
}
