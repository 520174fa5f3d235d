package models

import (
	"regexp"
	"strings"

	"github.com/Joao8430/CBS-Coding-Branding-Selling/pkg/phone"
)

// Messages shown to the visitor, one per failed rule
const (
	MsgNameRequired  = "fill in your name"
	MsgNameTooShort  = "name too short"
	MsgEmailRequired = "fill in your email"
	MsgEmailInvalid  = "invalid email"
	MsgPhoneRequired = "fill in your phone"
	MsgPhoneLength   = "phone must have 10 or 11 digits"
)

// whitespace here includes Unicode separators and the BOM, as browsers do
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// ValidationResult is a visitor-facing message, empty when the input is valid
type ValidationResult string

// OK reports whether validation passed
func (v ValidationResult) OK() bool {
	return v == ""
}

// Validate checks the rules in order and returns the first failure
func Validate(name, email, tel string) ValidationResult {
	if name == "" {
		return MsgNameRequired
	}
	// length is counted in UTF-16 units, like the browser form
	if phone.UTF16Len(strings.TrimSpace(name)) < 2 {
		return MsgNameTooShort
	}
	if email == "" {
		return MsgEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return MsgEmailInvalid
	}
	digits := phone.Digits(tel)
	if digits == "" {
		return MsgPhoneRequired
	}
	if len(digits) < 10 || len(digits) > phone.MaxDigits {
		return MsgPhoneLength
	}
	return ""
}

// Validate checks the form fields
func (f LandingForm) Validate() ValidationResult {
	return Validate(f.Name, f.Email, f.Phone)
}
