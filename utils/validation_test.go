package utils

import "testing"

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		phone    string
		expected bool
	}{
		{"+14155552671", true},
		{"+44 20 7946 0958", true},
		{"98765432", true},
		{"+0 123", false},
		{"not-a-phone", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidatePhone(tc.phone); got != tc.expected {
			t.Fatalf("ValidatePhone(%q) expected %v, got %v", tc.phone, tc.expected, got)
		}
	}
}

func TestValidatePlateNumber(t *testing.T) {
	cases := []struct {
		plate    string
		expected bool
	}{
		{"KA01-AB-1234", true},
		{"abc 123", true},
		{"B 1", false},
		{"-AB12", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidatePlateNumber(tc.plate); got != tc.expected {
			t.Fatalf("ValidatePlateNumber(%q) expected %v, got %v", tc.plate, tc.expected, got)
		}
	}
}
