// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	// Regular expression for international phone numbers
	// Allows + prefix followed by 7-15 digits
	regex := `^\+?[1-9]\d{1,14}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}

// ValidatePlateNumber checks a vehicle registration plate: 4-12 characters,
// uppercase letters, digits, hyphens and spaces
func ValidatePlateNumber(plate string) bool {
	plate = strings.TrimSpace(plate)
	regex := `^[A-Z0-9][A-Z0-9 \-]{2,10}[A-Z0-9]$`
	match, _ := regexp.MatchString(regex, strings.ToUpper(plate))
	return match
}
