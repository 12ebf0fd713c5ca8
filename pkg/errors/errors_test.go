package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("mongo connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: mongo connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Internal("wrapped", originalErr)

	if unwrapped := errors.Unwrap(appErr); unwrapped != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestCapacityExceeded(t *testing.T) {
	err := CapacityExceeded(15, 12)

	if err.Code != CodeCapacityExceeded {
		t.Errorf("expected code %s, got %s", CodeCapacityExceeded, err.Code)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
	if err.Details["attendees"] != 15 || err.Details["capacity"] != 12 {
		t.Errorf("expected attendees/capacity details, got %v", err.Details)
	}
}

func TestTransactionAborted_IsRetryableStatus(t *testing.T) {
	err := TransactionAborted(errors.New("write conflict"))

	if err.Code != CodeTransactionAborted {
		t.Errorf("expected code %s, got %s", CodeTransactionAborted, err.Code)
	}
	if err.HTTPStatus != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, err.HTTPStatus)
	}
}

func TestAsAppError(t *testing.T) {
	t.Run("passes through app errors", func(t *testing.T) {
		original := Forbidden("not the owner")
		if got := AsAppError(original); got != original {
			t.Errorf("expected identical AppError back")
		}
	})

	t.Run("wraps plain errors as internal", func(t *testing.T) {
		got := AsAppError(errors.New("boom"))
		if got.Code != CodeInternal {
			t.Errorf("expected code %s, got %s", CodeInternal, got.Code)
		}
	})
}
