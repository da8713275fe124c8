package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/franalderete7/expenzo-sub000/internal/auth"
	"github.com/franalderete7/expenzo-sub000/internal/core"
	applog "github.com/franalderete7/expenzo-sub000/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses. Validation errors
// become 400, missing-or-foreign rows 404, duplicates 409, everything
// else 500 without leaking internals.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, core.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "conflict"})
	case errors.Is(err, core.ErrInvalidPeriod),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidPercentage),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyDescription):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			applog.FieldRequestID, requestIDFrom(r.Context()),
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// decodeJSON decodes a request body strictly: unknown fields are
// rejected so typos surface as 400s instead of silent zero values.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// identity pulls the authenticated admin from the request context. The
// auth middleware guarantees it is present on protected routes.
func identity(r *http.Request) auth.Identity {
	id, _ := auth.IdentityFrom(r.Context())
	return id
}

// periodFromQuery reads year and month query parameters.
func periodFromQuery(r *http.Request) (core.Period, error) {
	return parsePeriodPair(r.URL.Query().Get("year"), r.URL.Query().Get("month"))
}

func parsePeriodPair(yearStr, monthStr string) (core.Period, error) {
	year, err := strconv.Atoi(strings.TrimSpace(yearStr))
	if err != nil {
		return core.Period{}, fmt.Errorf("year %q: %w", yearStr, core.ErrInvalidPeriod)
	}
	month, err := strconv.Atoi(strings.TrimSpace(monthStr))
	if err != nil {
		return core.Period{}, fmt.Errorf("month %q: %w", monthStr, core.ErrInvalidPeriod)
	}
	p := core.Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return core.Period{}, err
	}
	return p, nil
}

type requestIDKey struct{}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// requestIDFrom returns the request ID the logging middleware attached,
// or "" outside a request.
func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
