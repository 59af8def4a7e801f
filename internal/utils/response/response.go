// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Rather than repeating the same three lines (set header, set status,
// encode JSON) in every handler, we centralise them here.
//
// Every body uses the same envelope, success or failure:
//
//	{ "status": "ok",    "data": ... }
//	{ "status": "error", "error": "field name is required" }
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Sonukathat/shiwansh-project/internal/storage"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the envelope returned for every request.
//
// Data is omitted on errors and Error is omitted on success, so a client
// only has to look at Status to know which one to read.
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string `json:"status"`          // "ok" or "error"
	Data   any    `json:"data,omitempty"`  // payload on success
	Error  string `json:"error,omitempty"` // human-readable error detail
}

// Status string constants — use these instead of raw string literals so
// a typo is caught by the compiler rather than silently sending "eroor".
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// OK wraps a payload in the success envelope.
func OK(data any) Response {
	return Response{Status: StatusOK, Data: data}
}

// GeneralError wraps any Go error into our standard Response shape.
//
//	response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts a slice of validator.FieldError values into
// a single human-readable Response.
//
// Example output:
//
//	{ "status": "error", "error": "field name is required, field email must be a valid email address" }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "oneof":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be one of: %s", e.Field(), strings.ReplaceAll(e.Param(), " ", ", ")))
		case "unique":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must not contain duplicates", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error writes the response matching err:
//
//	validator.ValidationErrors     → 400, one sentence per field
//	storage.ErrInvalidReference    → 400, with the offending reference
//	storage.ErrNotFound            → 404  "<what> not found"
//	storage.ErrConflict            → 409  "<what> already exists"
//	anything else                  → 500  "internal server error"
//
// what names the resource in client-facing messages ("student", "country").
// The cause of a 500 is logged and never sent to the client.
// ─────────────────────────────────────────────────────────────────────────────
func Error(w http.ResponseWriter, r *http.Request, err error, what string) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		WriteJSON(w, http.StatusBadRequest, ValidationError(verrs))
	case errors.Is(err, storage.ErrInvalidReference):
		WriteJSON(w, http.StatusBadRequest, GeneralError(err))
	case errors.Is(err, storage.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, GeneralError(fmt.Errorf("%s not found", what)))
	case errors.Is(err, storage.ErrConflict):
		WriteJSON(w, http.StatusConflict, GeneralError(fmt.Errorf("%s already exists", what)))
	default:
		slog.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		WriteJSON(w, http.StatusInternalServerError, GeneralError(errors.New("internal server error")))
	}
}

// BadRequest writes a 400 with err's message. Use it for input that never
// reached validation (malformed JSON, broken multipart forms). A body cut
// off by http.MaxBytesReader gets a 413 instead.
func BadRequest(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteJSON(w, http.StatusRequestEntityTooLarge,
			GeneralError(fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)))
		return
	}
	WriteJSON(w, http.StatusBadRequest, GeneralError(err))
}
