package handler

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/TechLionDev/InviStar/internal/auth"
	"github.com/TechLionDev/InviStar/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ProfileStore defines the database methods needed by profile handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ProfileStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error)
	UpdateUserProfile(ctx context.Context, arg database.UpdateUserProfileParams) (database.User, error)
	SetUserVerified(ctx context.Context, id uuid.UUID) (database.User, error)
	UpdateUserPassword(ctx context.Context, arg database.UpdateUserPasswordParams) (database.User, error)
	UpdateUserEmail(ctx context.Context, arg database.UpdateUserEmailParams) (database.User, error)
}

// ProfileHandler serves the signed-in user's own account.
type ProfileHandler struct {
	store    ProfileStore
	sessions *auth.SessionNotifier
}

// NewProfileHandler creates a new ProfileHandler. sessions may be nil.
func NewProfileHandler(store ProfileStore, sessions *auth.SessionNotifier) *ProfileHandler {
	return &ProfileHandler{store: store, sessions: sessions}
}

// RegisterRoutes registers /me endpoints on the given Chi router.
func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.Get)
	r.Put("/me", h.Update)
	r.Post("/me/verify", h.Verify)
	r.Put("/me/password", h.ChangePassword)
	r.Put("/me/email", h.ChangeEmail)
}

// --- Request / Response types ---

type updateProfileRequest struct {
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	AddressStreet string  `json:"address_street"`
	AddressCity   string  `json:"address_city"`
	AddressState  string  `json:"address_state"`
	AddressZip    string  `json:"address_zip"`
	Avatar        *string `json:"avatar"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type changeEmailRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Handlers ---

// Get returns the current user.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}

	user, err := h.store.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		serverError(w, r, "get user", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Update replaces the profile fields of the current user.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var avatar pgtype.Text
	if req.Avatar != nil && *req.Avatar != "" {
		avatar = pgtype.Text{String: *req.Avatar, Valid: true}
	}

	user, err := h.store.UpdateUserProfile(r.Context(), database.UpdateUserProfileParams{
		ID:            userID,
		Name:          strings.TrimSpace(req.Name),
		Phone:         strings.TrimSpace(req.Phone),
		AddressStreet: strings.TrimSpace(req.AddressStreet),
		AddressCity:   strings.TrimSpace(req.AddressCity),
		AddressState:  strings.TrimSpace(req.AddressState),
		AddressZip:    strings.TrimSpace(req.AddressZip),
		Avatar:        avatar,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		serverError(w, r, "update profile", err)
		return
	}

	h.sessions.Notify(auth.SessionEvent{UserID: userID, Change: auth.SessionProfile})
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Verify marks the current user's email as verified.
func (h *ProfileHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}

	user, err := h.store.SetUserVerified(r.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		serverError(w, r, "verify user", err)
		return
	}

	h.sessions.Notify(auth.SessionEvent{UserID: userID, Change: auth.SessionProfile})
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// ChangePassword replaces the password after checking the current one.
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "current_password and new_password are required")
		return
	}

	user, ok := h.confirmPassword(w, r, userID, req.CurrentPassword)
	if !ok {
		return
	}

	hashed, err := auth.HashPassword(req.NewPassword)
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

	h.sessions.Notify(auth.SessionEvent{UserID: userID, Change: auth.SessionPassword})
	w.WriteHeader(http.StatusNoContent)
}

// ChangeEmail moves the account to a new address and clears verification.
func (h *ProfileHandler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req changeEmailRequest
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

	if _, ok := h.confirmPassword(w, r, userID, req.Password); !ok {
		return
	}

	user, err := h.store.UpdateUserEmail(r.Context(), database.UpdateUserEmailParams{ID: userID, Email: email})
	if err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		serverError(w, r, "update email", err)
		return
	}

	h.sessions.Notify(auth.SessionEvent{UserID: userID, Change: auth.SessionEmail})
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// confirmPassword loads the user and checks password against their hash,
// writing the error response on failure.
func (h *ProfileHandler) confirmPassword(w http.ResponseWriter, r *http.Request, userID uuid.UUID, password string) (database.User, bool) {
	user, err := h.store.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user not found")
			return database.User{}, false
		}
		serverError(w, r, "get user", err)
		return database.User{}, false
	}
	if !auth.CheckPassword(user.HashedPassword, password) {
		writeError(w, http.StatusUnauthorized, "incorrect password")
		return database.User{}, false
	}
	return user, true
}
