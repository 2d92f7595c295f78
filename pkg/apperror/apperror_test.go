package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFound("booking %d not found", 1), KindNotFound},
		{"wrapped conflict", fmt.Errorf("create: %w", Conflict("slot taken")), KindConflict},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), KindUnavailable},
		{"plain", errors.New("boom"), KindInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	if HTTPStatus(KindConflict) != http.StatusConflict {
		t.Fatalf("conflict should map to 409")
	}
	if HTTPStatus(KindInvalidConfiguration) != http.StatusInternalServerError {
		t.Fatalf("invalid configuration should map to 500")
	}
	if HTTPStatus(KindUnavailable) != http.StatusServiceUnavailable {
		t.Fatalf("unavailable should map to 503")
	}
}

func TestMessageHidesInternalDetail(t *testing.T) {
	err := Unavailable("directory lookup failed", errors.New("dial tcp 10.0.0.1:8080: refused"))
	if got := Message(err); got != "Service temporarily unavailable" {
		t.Fatalf("unexpected message %q", got)
	}

	err = InvalidRequest("appointment extends past closing time")
	if got := Message(err); got != "appointment extends past closing time" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Wrap(KindUnavailable, "store", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable")
	}
}

func TestValidationFields(t *testing.T) {
	err := fmt.Errorf("create booking: %w", Validation("Date: bad", map[string]string{"Date": "bad"}))
	if !Is(err, KindInvalidRequest) || HTTPStatus(KindOf(err)) != http.StatusBadRequest {
		t.Fatalf("validation must be an invalid request, got %v", err)
	}
	if FieldsOf(err)["Date"] != "bad" {
		t.Fatalf("fields lost through wrapping: %v", FieldsOf(err))
	}
	if FieldsOf(Conflict("taken")) != nil || FieldsOf(errors.New("plain")) != nil {
		t.Fatalf("only validation errors carry fields")
	}
}
