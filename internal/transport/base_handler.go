package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/budget-tracker/internal"
	"github.com/frahmantamala/budget-tracker/internal/core/common/types"
	"github.com/frahmantamala/budget-tracker/pkg/logger"
	"github.com/go-chi/chi"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
	maxBodyBytes = 1 << 20
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response with a detail message
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, internal.ErrorResponse{Detail: message})
}

// HandleServiceError maps service errors onto HTTP responses. Anything that is
// not an AppError is logged and reported as a generic 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok || appErr.StatusCode >= http.StatusInternalServerError {
		logger.From(r.Context()).Error("unhandled error",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		h.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if appErr.StatusCode >= http.StatusBadRequest {
		logger.From(r.Context()).Debug("request rejected",
			"status", appErr.StatusCode,
			"code", appErr.Code,
			"detail", appErr.GetDetailedMessage())
	}

	status, body := appErr.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// DecodeJSON reads a JSON body into dst. Malformed input is a validation error.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return internal.ErrInvalidBody
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return internal.NewValidationFieldError(typeErr.Field,
				fmt.Sprintf("%s has an invalid type", typeErr.Field), internal.ErrCodeInvalidBody)
		case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return internal.ErrInvalidBody
		default:
			return internal.NewValidationError(fmt.Sprintf("Invalid request body: %v", err), internal.ErrCodeInvalidBody)
		}
	}
	return nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// IDParam parses a positive integer URL parameter.
func (h *BaseHandler) IDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationFieldError(name, fmt.Sprintf("%s must be a positive integer", name), internal.ErrCodeValidationFailed)
	}
	return id, nil
}

// QueryInt64 parses an optional integer query parameter.
func QueryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, internal.NewValidationFieldError(name, fmt.Sprintf("%s must be an integer", name), internal.ErrCodeValidationFailed)
	}
	return &v, nil
}

// QueryTime parses an optional date or timestamp query parameter. dateOnly
// reports whether the caller passed a bare YYYY-MM-DD value.
func QueryTime(r *http.Request, name string) (t *time.Time, dateOnly bool, err error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, false, nil
	}
	parsed, dateOnly, perr := types.ParseTime(raw)
	if perr != nil {
		return nil, false, internal.NewValidationFieldError(name, fmt.Sprintf("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", name), internal.ErrCodeInvalidDate)
	}
	return &parsed, dateOnly, nil
}

type Pagination struct {
	Skip  int
	Limit int
}

// ParsePagination reads skip (>= 0) and limit (1..MaxLimit, default DefaultLimit).
func ParsePagination(r *http.Request) (Pagination, error) {
	p := Pagination{Skip: 0, Limit: DefaultLimit}

	skip, err := QueryInt64(r, "skip")
	if err != nil {
		return p, err
	}
	if skip != nil {
		if *skip < 0 {
			return p, internal.NewValidationFieldError("skip", "skip must be greater than or equal to 0", internal.ErrCodeValidationFailed)
		}
		p.Skip = int(*skip)
	}

	limit, err := QueryInt64(r, "limit")
	if err != nil {
		return p, err
	}
	if limit != nil {
		if *limit < 1 || *limit > MaxLimit {
			return p, internal.NewValidationFieldError("limit", fmt.Sprintf("limit must be between 1 and %d", MaxLimit), internal.ErrCodeValidationFailed)
		}
		p.Limit = int(*limit)
	}

	return p, nil
}
