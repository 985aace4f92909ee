package domain

import (
	"unicode"
	"unicode/utf8"
)

const MinPasswordLength = 8

// PasswordRequirements holds the outcome of each independent password check.
type PasswordRequirements struct {
	Length    bool
	Uppercase bool
	Lowercase bool
	Digit     bool
	Special   bool
}

// CheckPassword evaluates every requirement against password.
func CheckPassword(password string) PasswordRequirements {
	r := PasswordRequirements{Length: utf8.RuneCountInString(password) >= MinPasswordLength}
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			r.Uppercase = true
		case unicode.IsLower(c):
			r.Lowercase = true
		}
		if unicode.IsDigit(c) {
			r.Digit = true
		}
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			r.Special = true
		}
	}
	return r
}

func (r PasswordRequirements) Satisfied() bool {
	return r.Length && r.Uppercase && r.Lowercase && r.Digit && r.Special
}

// Checklist renders one line per requirement, in a fixed order.
func (r PasswordRequirements) Checklist() []string {
	line := func(ok bool, pass, fail string) string {
		if ok {
			return "✓ " + pass
		}
		return "✗ " + fail
	}
	return []string{
		line(r.Length, "8+ caracteres", "Mínimo 8 caracteres"),
		line(r.Uppercase, "Mayúscula", "Mayúscula"),
		line(r.Lowercase, "Minúscula", "Minúscula"),
		line(r.Digit, "Número", "Número"),
		line(r.Special, "Símbolo", "Símbolo"),
	}
}
