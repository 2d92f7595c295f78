package utils

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// fallbackBody is sent when the real payload cannot be encoded.
var fallbackBody = []byte(`{"status":false,"message":"Internal server error"}` + "\n")

// ResponseJSON encodes the envelope before touching the status line, so a payload
// that fails to marshal becomes a 500 instead of a truncated success.
func ResponseJSON(w http.ResponseWriter, code int, status bool, message string, data, errors any) {
	body, err := json.Marshal(Response{
		Status:  status,
		Message: message,
		Data:    data,
		Errors:  errors,
	})
	if err != nil {
		code, body = http.StatusInternalServerError, fallbackBody
	} else {
		body = append(body, '\n')
	}

	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, true, message, data, nil)
}

func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, true, message, data, nil)
}

// ResponseBadRequest carries field level validation messages in errors.
func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	ResponseJSON(w, http.StatusBadRequest, false, message, nil, errors)
}

// ResponseUnauthorized names the bearer scheme the API expects.
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="barbershop-booking"`)
	ResponseJSON(w, http.StatusUnauthorized, false, message, nil, nil)
}

// ResponseTooManyRequests sets Retry-After, rounded up to whole seconds.
func ResponseTooManyRequests(w http.ResponseWriter, message string, retryAfter time.Duration) {
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
	}
	ResponseJSON(w, http.StatusTooManyRequests, false, message, nil, nil)
}

// ResponseError writes a failure whose status comes from an error classification.
func ResponseError(w http.ResponseWriter, code int, message string) {
	ResponseJSON(w, code, false, message, nil, nil)
}
