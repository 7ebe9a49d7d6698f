package httputil

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "yojanamitra/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid input"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "bad_request" {
			t.Fatalf("expected error code bad_request, got %q", body["error"])
		}
		if body["error_description"] != "invalid input" {
			t.Fatalf("expected error_description to be returned for bad request")
		}
	})
}

type greetRequest struct {
	Name string `json:"name"`
}

func (r *greetRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("valid body is decoded", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Asha"}`))
		w := httptest.NewRecorder()

		req, ok := DecodeAndPrepare[greetRequest](w, r, logger, r.Context(), "req-1")
		if !ok {
			t.Fatalf("expected decode to succeed, got status %d", w.Code)
		}
		if req.Name != "Asha" {
			t.Fatalf("expected name Asha, got %q", req.Name)
		}
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		w := httptest.NewRecorder()

		if _, ok := DecodeAndPrepare[greetRequest](w, r, logger, r.Context(), "req-2"); ok {
			t.Fatalf("expected decode to fail")
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})

	t.Run("validation failure maps to unprocessable entity", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":""}`))
		w := httptest.NewRecorder()

		if _, ok := DecodeAndPrepare[greetRequest](w, r, logger, r.Context(), "req-3"); ok {
			t.Fatalf("expected validation to fail")
		}
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, w.Code)
		}
	})
}

func TestStatusFor(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeBadRequest:         http.StatusBadRequest,
		dErrors.CodeInvalidInput:       http.StatusBadRequest,
		dErrors.CodeValidation:         http.StatusUnprocessableEntity,
		dErrors.CodeNotFound:           http.StatusNotFound,
		dErrors.CodeConflict:           http.StatusConflict,
		dErrors.CodeNotEligible:        http.StatusConflict,
		dErrors.CodeUnsupported:        http.StatusConflict,
		dErrors.CodeInvariantViolation: http.StatusConflict,
		dErrors.CodeCaptureFailed:      http.StatusBadGateway,
		dErrors.CodeTimeout:            http.StatusGatewayTimeout,
		dErrors.CodeRateLimited:        http.StatusTooManyRequests,
		dErrors.CodeInternal:           http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := StatusFor(code); got != want {
			t.Errorf("StatusFor(%s) = %d, want %d", code, got, want)
		}
	}
}

func TestWriteErrorHidesNonDomainErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, io.ErrUnexpectedEOF)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if strings.Contains(w.Body.String(), "unexpected EOF") {
		t.Fatalf("expected the cause to stay hidden, got %s", w.Body.String())
	}
}
