// Package validate holds the field rules applied to request data before any
// store access. Every function is pure.
package validate

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule identifies a single failed constraint.
type Rule int

const (
	Required Rule = iota
	LoginIdentifier
	UsernameLength
	UsernameCharset
	EmailFormat
	EmailLength
	PasswordLength
	PasswordUppercase
	PasswordLowercase
	PasswordDigit
	PasswordSpecial
	CommentTextLength
)

var messages = map[Rule]string{
	Required:          "Missing data for required field.",
	LoginIdentifier:   "Username or email is required to login.",
	UsernameLength:    "Username must be between 5 to 20 characters.",
	UsernameCharset:   "Username must be alphanumeric.",
	EmailFormat:       "Invalid email format.",
	EmailLength:       "Email must be at most 255 characters.",
	PasswordLength:    "Password must be between 8 and 20 characters.",
	PasswordUppercase: "Password must contain at least one uppercase letter.",
	PasswordLowercase: "Password must contain at least one lowercase letter.",
	PasswordDigit:     "Password must contain at least one digit.",
	PasswordSpecial:   "Password must contain at least one special character.",
	CommentTextLength: "Comment text must be between 3 to 200 characters.",
}

// Message returns the user-facing text for r.
func (r Rule) Message() string {
	return messages[r]
}

const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

var emailPattern = regexp.MustCompile(`^[\w.-]+@[a-zA-Z\d.-]+\.[a-zA-Z]{2,}$`)

// Failure is returned by the field validators.
type Failure struct {
	Field string
	Rule  Rule
}

func (f *Failure) Error() string {
	return f.Field + ": " + f.Rule.Message()
}

func fail(field string, rule Rule) error {
	return &Failure{Field: field, Rule: rule}
}

// Username requires 5-20 letters or digits.
func Username(s string) error {
	if n := utf8.RuneCountInString(s); n < 5 || n > 20 {
		return fail("username", UsernameLength)
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fail("username", UsernameCharset)
		}
	}
	return nil
}

// maxEmailLength matches the users.email column.
const maxEmailLength = 255

// Email requires local-part@domain.tld with an alphabetic TLD of 2+ letters.
func Email(s string) error {
	if utf8.RuneCountInString(s) > maxEmailLength {
		return fail("email", EmailLength)
	}
	if !emailPattern.MatchString(s) {
		return fail("email", EmailFormat)
	}
	return nil
}

// Password requires 8-20 characters with upper, lower, digit and special classes.
func Password(s string) error {
	if n := utf8.RuneCountInString(s); n < 8 || n > 20 {
		return fail("password", PasswordLength)
	}
	if !strings.ContainsFunc(s, inRange('A', 'Z')) {
		return fail("password", PasswordUppercase)
	}
	if !strings.ContainsFunc(s, inRange('a', 'z')) {
		return fail("password", PasswordLowercase)
	}
	if !strings.ContainsFunc(s, inRange('0', '9')) {
		return fail("password", PasswordDigit)
	}
	if !strings.ContainsAny(s, passwordSpecials) {
		return fail("password", PasswordSpecial)
	}
	return nil
}

func inRange(lo, hi rune) func(rune) bool {
	return func(r rune) bool { return r >= lo && r <= hi }
}

// CommentText requires 3-200 characters.
func CommentText(s string) error {
	if n := utf8.RuneCountInString(s); n < 3 || n > 200 {
		return fail("text", CommentTextLength)
	}
	return nil
}

// Errors collects failures across fields, keeping the first one per field.
type Errors struct {
	failures map[string]*Failure
}

// Check records err when it is a *Failure and the field has no failure yet.
// Any other non-nil error is recorded under the "_schema" key.
func (e *Errors) Check(err error) {
	if err == nil {
		return
	}
	f, ok := err.(*Failure)
	if !ok {
		f = &Failure{Field: "_schema", Rule: Required}
	}
	if e.failures == nil {
		e.failures = make(map[string]*Failure)
	}
	if _, seen := e.failures[f.Field]; !seen {
		e.failures[f.Field] = f
	}
}

// Missing records a Required failure for field.
func (e *Errors) Missing(field string) {
	e.Check(fail(field, Required))
}

// Err returns e as an error, or nil when nothing failed.
func (e *Errors) Err() error {
	if len(e.failures) == 0 {
		return nil
	}
	return e
}

// Messages renders the failures as field -> messages.
func (e *Errors) Messages() map[string][]string {
	out := make(map[string][]string, len(e.failures))
	for field, f := range e.failures {
		out[field] = []string{f.Rule.Message()}
	}
	return out
}

func (e *Errors) Error() string {
	fields := make([]string, 0, len(e.failures))
	for field := range e.failures {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = e.failures[field].Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
