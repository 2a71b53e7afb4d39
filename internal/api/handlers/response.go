package handlers

import (
	"canteen-service/internal/auth"
	"canteen-service/internal/canteen"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, apiError{
		Error:   code,
		Message: message,
		Details: details,
	})
}

// decodeJSON reads a single JSON object into dst and validates its struct
// tags. It writes the error response itself and reports whether the caller
// may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json body", map[string]any{"error": err.Error()})
		return false
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json body", map[string]any{"error": "extra data after json"})
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var validationErr validator.ValidationErrors
		if errors.As(err, &validationErr) {
			fields := make(map[string]string, len(validationErr))
			for _, fe := range validationErr {
				fields[strings.ToLower(fe.Field())] = fe.Tag()
			}
			writeError(w, http.StatusBadRequest, "invalid_input", "validation failed", fields)
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		return false
	}

	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid id", nil)
		return 0, false
	}
	return id, true
}

func actorFrom(w http.ResponseWriter, r *http.Request) (canteen.Actor, bool) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
	}
	return actor, ok
}

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{canteen.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{canteen.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{canteen.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{canteen.ErrForbidden, http.StatusForbidden, "forbidden"},
	{canteen.ErrInsufficientFunds, http.StatusPaymentRequired, "insufficient_funds"},
	{canteen.ErrItemNotFound, http.StatusNotFound, "item_not_found"},
	{canteen.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},
	{canteen.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{canteen.ErrRequestNotFound, http.StatusNotFound, "request_not_found"},
	{canteen.ErrReviewNotFound, http.StatusNotFound, "review_not_found"},
	{canteen.ErrDuplicateOrder, http.StatusConflict, "duplicate_order"},
	{canteen.ErrUsernameTaken, http.StatusConflict, "username_taken"},
	{canteen.ErrAlreadyReviewed, http.StatusConflict, "already_reviewed"},
	{canteen.ErrAlreadyReceived, http.StatusConflict, "already_received"},
	{canteen.ErrOrderClosed, http.StatusConflict, "order_closed"},
	{canteen.ErrRequestClosed, http.StatusConflict, "request_closed"},
	{canteen.ErrNotYetServed, http.StatusConflict, "not_yet_served"},
	{canteen.ErrNotOrdered, http.StatusUnprocessableEntity, "not_ordered"},
}

// writeServiceError turns a domain error into its status and machine code.
// It reports false when the error was unrecognised and answered with a
// generic internal error.
func writeServiceError(w http.ResponseWriter, err error, fallback string) bool {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, err.Error(), nil)
			return true
		}
	}
	writeError(w, http.StatusInternalServerError, "internal_error", fallback, nil)
	return false
}
