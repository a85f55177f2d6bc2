package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := Wrap(ErrInternalServer, cause)

	if err.Code != "INTERNAL_ERROR" || err.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected sentinel code and status, got %s/%d", err.Code, err.StatusCode)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Error() != ErrInternalServer.Message {
		t.Errorf("expected public message, got %q", err.Error())
	}
}

func TestWithMessage(t *testing.T) {
	err := WithMessage(ErrBudgetConflict, "food already exists for 2024-03")
	if err.Code != "BUDGET_CONFLICT" || err.StatusCode != http.StatusConflict {
		t.Errorf("expected conflict sentinel fields, got %s/%d", err.Code, err.StatusCode)
	}
	if err.Message != "food already exists for 2024-03" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if ErrBudgetConflict.Message == err.Message {
		t.Error("sentinel must not be mutated")
	}
}

func TestFrom(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		if From(nil) != nil {
			t.Error("expected nil for nil error")
		}
	})

	t.Run("app_error_passes_through", func(t *testing.T) {
		if got := From(ErrBudgetNotFound); got != ErrBudgetNotFound {
			t.Errorf("expected sentinel, got %v", got)
		}
	})

	t.Run("plain_error_becomes_internal", func(t *testing.T) {
		cause := stderrors.New("disk full")
		got := From(cause)
		if got.Code != ErrInternalServer.Code || !stderrors.Is(got, cause) {
			t.Errorf("expected internal error wrapping cause, got %+v", got)
		}
	})
}
