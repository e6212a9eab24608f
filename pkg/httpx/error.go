package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	validation "github.com/ARUMANDESU/validation"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/verimail/otp-backend/pkg/apperr"
	"gitlab.com/verimail/otp-backend/pkg/otelx"
)

// HandleError maps an error from the application layer to an HTTP response
// with the `{"success": false, "message": ...}` body shape. apperr errors
// carry their own status hint, validation errors become 400, everything
// else is a server fault and carries the underlying fault description.
func HandleError(w http.ResponseWriter, r *http.Request, span trace.Span, err error, desc string) {
	otelx.RecordSpanError(span, err, desc)
	slog.ErrorContext(r.Context(), "HTTP error response", "error", err.Error(), "desc", desc)

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		writeError(w, r, appErr.HTTPStatusCode(), appErr.Message)
		return
	}

	var valErrs validation.Errors
	if errors.As(err, &valErrs) {
		var msg strings.Builder
		for field, fieldErr := range valErrs {
			fmt.Fprintf(&msg, "%s: %s; ", field, fieldErr.Error())
		}
		writeError(w, r, http.StatusBadRequest, strings.TrimSuffix(msg.String(), "; "))
		return
	}

	var valErr validation.Error
	if errors.As(err, &valErr) {
		writeError(w, r, http.StatusBadRequest, valErr.Error())
		return
	}

	writeError(w, r, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	response := Envelope{
		"success": false,
		"message": message,
	}

	if err := WriteJSON(w, status, response, nil); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write error response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
