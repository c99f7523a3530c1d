// Package validation holds the input checks shared by the backend and the
// setup wizard.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Error is a field-scoped validation failure.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Messages shown inline next to the offending field.
const (
	MsgNameRequired  = "Name is required"
	MsgEmailRequired = "Email is required"
	MsgEmailInvalid  = "Please enter a valid email address"
	MsgRPCRequired   = "RPC URL is required"
	MsgRPCScheme     = "RPC URL must start with http:// or https://"
	MsgURLScheme     = "URL must start with http:// or https://"
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// HasHTTPScheme reports whether s starts with http:// or https://.
func HasHTTPScheme(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Identity checks a name/email pair and returns the first failure, or nil.
func Identity(name, email string) *Error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	switch {
	case name == "":
		return &Error{Field: "name", Message: MsgNameRequired}
	case email == "":
		return &Error{Field: "email", Message: MsgEmailRequired}
	case !ValidEmail(email):
		return &Error{Field: "email", Message: MsgEmailInvalid}
	}
	return nil
}

// RPC checks that url is present and carries an http(s) scheme.
func RPC(url string) *Error {
	url = strings.TrimSpace(url)
	if url == "" {
		return &Error{Field: "rpcUrl", Message: MsgRPCRequired}
	}
	if !HasHTTPScheme(url) {
		return &Error{Field: "rpcUrl", Message: MsgRPCScheme}
	}
	return nil
}

// URL checks that a non-empty url carries an http(s) scheme. Presence is the
// form's concern.
func URL(field, url string) *Error {
	if strings.TrimSpace(url) == "" || HasHTTPScheme(url) {
		return nil
	}
	return &Error{Field: field, Message: MsgURLScheme}
}
