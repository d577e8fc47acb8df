package handling

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"restoran_server/lib"
	"testing"

	"github.com/MonkyMars/gecho"
)

func quietLogger() *gecho.Logger {
	return gecho.NewLogger(gecho.NewConfig(
		gecho.WithLogLevel(gecho.ParseLogLevel("error")),
		gecho.WithOutput(io.Discard),
		gecho.WithErrorOutput(io.Discard),
	))
}

func TestHandleErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", lib.NewValidationError("party_size", "must be at most 20"), http.StatusBadRequest, "party_size must be at most 20"},
		{"not found", fmt.Errorf("booking 9: %w", lib.ErrNotFound), http.StatusNotFound, "Resource not found"},
		{"no table", lib.ErrNoTableAvailable, http.StatusBadRequest, lib.ErrNoTableAvailable.Error()},
		{"table taken", lib.ErrTableUnavailable, http.StatusBadRequest, lib.ErrTableUnavailable.Error()},
		{"duplicate", lib.ErrConflict, http.StatusConflict, "Resource already exists"},
		{"credentials", lib.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{"expired", lib.ErrExpiredToken, http.StatusUnauthorized, "Invalid or expired token"},
		{"forbidden", lib.ErrForbidden, http.StatusForbidden, "Access denied"},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "Failed to create booking"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			HandleError(tt.err, "Failed to create booking", quietLogger(), rec)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}

			var body struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Success {
				t.Errorf("success = true for an error response")
			}
			if body.Message != tt.message {
				t.Errorf("message = %q, want %q", body.Message, tt.message)
			}
		})
	}
}
