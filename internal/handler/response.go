package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/TechLionDev/InviStar/internal/listquery"
	"github.com/TechLionDev/InviStar/internal/logging"
	"github.com/TechLionDev/InviStar/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// listResponse wraps a page of records with the total before paging.
type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("failed to encode JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// serverError logs err on the request logger and replies with a generic 500.
func serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logging.FromContext(r.Context()).Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// ownerID returns the authenticated user, writing 401 when there is none.
func ownerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id := middleware.UserIDFromContext(r.Context())
	if id == uuid.Nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	return id, true
}

func urlID(w http.ResponseWriter, r *http.Request, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// parseList reads the shared filter/sort/page parameters.
func parseList(w http.ResponseWriter, r *http.Request) (listquery.Query, bool) {
	q, err := listquery.Parse(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return listquery.Query{}, false
	}
	return q, true
}

// intParam parses a positive integer query parameter, clamped to max.
func intParam(r *http.Request, name string, def, max int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, errors.New("invalid " + name)
	}
	if v > max {
		v = max
	}
	return v, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
