// Package validate checks user credentials format before they reach the store.
package validate

import (
	"regexp"
	"strings"
)

const (
	usernameMessage = "Username must be 3-30 characters long, can only contain alphanumeric characters, " +
		"underscores, or dots, and must not start or end with a dot or underscore."
	passwordMessage = "Password must be 8-128 characters long, contain at least one lowercase letter, " +
		"one uppercase letter, one digit, and one special character."

	usernameMissingMessage = "Username is missing"
	passwordMissingMessage = "Password is missing"

	// Special characters a password may (and must) contain
	PasswordSpecials = "@#$%^&*!"
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.]{3,30}$`)
	passwordRe = regexp.MustCompile(`^[A-Za-z0-9` + regexp.QuoteMeta(PasswordSpecials) + `]{8,128}$`)

	lowerRe   = regexp.MustCompile(`[a-z]`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[` + regexp.QuoteMeta(PasswordSpecials) + `]`)
)

// Error is returned when credentials do not match the format rules.
// Message is safe to show to the client as is
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Username(username string) error {
	if !usernameRe.MatchString(username) || strings.ContainsAny(username[:1], "_.") || strings.ContainsAny(username[len(username)-1:], "_.") {
		return &Error{Field: "username", Message: usernameMessage}
	}
	return nil
}

func Password(password string) error {
	switch {
	case !passwordRe.MatchString(password),
		!lowerRe.MatchString(password),
		!upperRe.MatchString(password),
		!digitRe.MatchString(password),
		!specialRe.MatchString(password):
		return &Error{Field: "password", Message: passwordMessage}
	default:
		return nil
	}
}

// Present checks only that both fields are set, username first
func Present(username string, password string) error {
	if username == "" {
		return &Error{Field: "username", Message: usernameMissingMessage}
	}
	if password == "" {
		return &Error{Field: "password", Message: passwordMissingMessage}
	}
	return nil
}

// Credentials checks both fields and stops on the first failure.
// Presence is checked before format, username before password
func Credentials(username string, password string) error {
	if err := Present(username, password); err != nil {
		return err
	}

	if err := Username(username); err != nil {
		return err
	}

	return Password(password)
}
