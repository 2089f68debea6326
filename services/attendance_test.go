package services

import (
	"testing"

	"github.com/google/uuid"
)

func TestSameProject(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	cases := []struct {
		name     string
		x, y     *uuid.UUID
		expected bool
	}{
		{"both nil", nil, nil, true},
		{"one nil", &a, nil, false},
		{"same id", &a, &a, true},
		{"different ids", &a, &b, false},
	}
	for _, tc := range cases {
		if got := sameProject(tc.x, tc.y); got != tc.expected {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.expected, got)
		}
	}
}
