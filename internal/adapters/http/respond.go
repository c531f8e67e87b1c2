package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"dojohub/internal/application/console"
	"dojohub/internal/application/orchestrators"
	"dojohub/internal/application/session"
	"dojohub/internal/domain/identity"
	"dojohub/internal/domain/instructor"
	"dojohub/internal/domain/payment"
	"dojohub/internal/domain/post"
	"dojohub/internal/domain/product"
	"dojohub/internal/domain/settings"
	"dojohub/internal/domain/snapshot"
	"dojohub/internal/domain/student"
	"dojohub/internal/domain/subscription"
	"dojohub/internal/domain/task"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// maxBodyBytes bounds request bodies. Logos and photos arrive as data URLs.
const maxBodyBytes = 8 << 20

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response_encode_failed", "error", err.Error())
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

// validationErrors are client mistakes: the request is rejected and nothing changed.
var validationErrors = []error{
	console.ErrDuplicateID, console.ErrMissingID, console.ErrUnknownPayer,
	snapshot.ErrMalformedRecord,
	orchestrators.ErrUnknownProfile, orchestrators.ErrImportMissingColumn,
	identity.ErrEmptyRole, identity.ErrEmptyProfile,
	student.ErrEmptyName, student.ErrNameTooLong, student.ErrNotesTooLong, student.ErrInvalidEmail,
	student.ErrInvalidBelt, student.ErrInvalidStripe, student.ErrInvalidStatus, student.ErrNegativeFee,
	instructor.ErrEmptyName, instructor.ErrNameTooLong, instructor.ErrEmptyRole,
	instructor.ErrInvalidEmail, instructor.ErrNegativeCompensation,
	payment.ErrEmptyPayer, payment.ErrInvalidPayerKind, payment.ErrNegativeAmount, payment.ErrInvalidStatus,
	product.ErrEmptyName, product.ErrNegativePrice, product.ErrNegativeStock,
	post.ErrEmptyAuthor, post.ErrEmptyContent, post.ErrContentTooLong, post.ErrMissingPostedAt,
	task.ErrEmptyTitle, task.ErrInvalidStatus, task.ErrInvalidPriority,
	subscription.ErrEmptyPlan, subscription.ErrInvalidLimit, subscription.ErrNegativePrice,
	settings.ErrNegativePrice,
}

// statusFor maps an application error to its HTTP status.
// 0 means the error is not a known client error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, console.ErrPersist):
		return 0
	case errors.Is(err, console.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrUnauthenticated), errors.Is(err, orchestrators.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, subscription.ErrStudentLimitReached):
		return http.StatusConflict
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusBadRequest
		}
	}
	return 0
}

// writeError answers with the mapped status, or a generic 500.
// A failed save answers 500: the change is live in memory but not durable.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == 0 {
		internalError(w, err)
		return
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}
