package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// Shared input policy for register, login and profile update. Each input
// shape gets its own validator returning a structured Result; nothing here
// panics on bad input.

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Result struct {
	Errors []FieldError
}

func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Error joins all field messages; Result satisfies error so handlers can
// log it, but callers should inspect Errors for per-field reporting.
func (r *Result) Error() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	return strings.Join(msgs, "; ")
}

// NormalizeEmail lowercases and trims an email address. The normalized
// form is the uniqueness key throughout the system.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateRegister(name, email, password string) *Result {
	r := &Result{}
	checkName(r, name)
	checkEmail(r, email)
	checkPassword(r, "password", password)
	return r
}

func ValidateLogin(email, password string) *Result {
	r := &Result{}
	checkEmail(r, email)
	if password == "" {
		r.add("password", "password is required")
	}
	return r
}

type ProfileUpdate struct {
	Name            string
	Email           string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// WantsPasswordChange reports whether any password-change field was sent.
func (p ProfileUpdate) WantsPasswordChange() bool {
	return p.CurrentPassword != "" || p.NewPassword != "" || p.ConfirmPassword != ""
}

func ValidateProfileUpdate(p ProfileUpdate) *Result {
	r := &Result{}
	checkName(r, p.Name)
	checkEmail(r, p.Email)

	if p.WantsPasswordChange() {
		if p.CurrentPassword == "" || p.NewPassword == "" || p.ConfirmPassword == "" {
			r.add("password", "all password fields are required when changing password")
			return r
		}
		if p.NewPassword != p.ConfirmPassword {
			r.add("confirmPassword", "passwords do not match")
			return r
		}
		checkPassword(r, "newPassword", p.NewPassword)
	}
	return r
}

func checkName(r *Result, name string) {
	name = strings.TrimSpace(name)
	switch {
	case len(name) < 2:
		r.add("name", "name must be at least 2 characters")
	case len(name) > 50:
		r.add("name", "name is too long")
	}
}

func checkEmail(r *Result, email string) {
	email = NormalizeEmail(email)
	if email == "" {
		r.add("email", "email is required")
		return
	}
	if !emailRegex.MatchString(email) {
		r.add("email", "invalid email address")
	}
}

func checkPassword(r *Result, field, password string) {
	if len(password) < 8 {
		r.add(field, "password must be at least 8 characters")
		return
	}
	// bcrypt only hashes the first 72 bytes and rejects anything longer.
	if len(password) > 72 {
		r.add(field, "password is too long")
		return
	}
	var upper, lower, digit bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		r.add(field, "password must contain at least one uppercase letter, one lowercase letter, and one number")
	}
}
