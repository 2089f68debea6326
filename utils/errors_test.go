package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err      error
		expected int
	}{
		{NotFoundf("vehicle %s", "abc"), http.StatusNotFound},
		{InvalidInputf("end date must not be before start date"), http.StatusBadRequest},
		{Conflictf("attendance already paid"), http.StatusConflict},
		{InvalidStatef("completed maintenance cannot change"), http.StatusUnprocessableEntity},
		{errors.New("database unreachable"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.expected {
			t.Fatalf("HTTPStatus(%v) expected %d, got %d", tc.err, tc.expected, got)
		}
	}
}

func TestErrorKindsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("while committing payment: %w", Conflictf("row already paid"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected wrapped error to still match ErrConflict")
	}
	if HTTPStatus(err) != http.StatusConflict {
		t.Fatalf("expected 409 for wrapped conflict, got %d", HTTPStatus(err))
	}
}

func TestErrorMessagesKeepContext(t *testing.T) {
	err := NotFoundf("assignment %s", "1234")
	want := "assignment 1234: not found"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
