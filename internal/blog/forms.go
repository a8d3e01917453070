package blog

import (
	"net/mail"
	"strings"
)

// FieldErrors maps form field names to validation messages. Validation is pure;
// persistence and dispatch only happen after a form validates cleanly.
type FieldErrors map[string]string

// Valid reports whether the form passed validation.
func (e FieldErrors) Valid() bool {
	return len(e) == 0
}

// CommentForm carries a reader's comment submission for a post.
type CommentForm struct {
	Name  string
	Email string
	Body  string
}

// Validate checks required fields and email syntax.
func (f CommentForm) Validate() FieldErrors {
	errs := FieldErrors{}

	requireField(errs, "name", f.Name, "Please enter your name.")
	requireEmail(errs, "email", f.Email)
	requireField(errs, "body", f.Body, "Please enter a comment.")

	return errs
}

// ShareForm carries a request to email a post link to someone.
type ShareForm struct {
	Name     string
	Email    string
	To       string
	Comments string
}

// Validate checks required fields and both email addresses. Comments are optional.
func (f ShareForm) Validate() FieldErrors {
	errs := FieldErrors{}

	requireField(errs, "name", f.Name, "Please enter your name.")
	requireEmail(errs, "email", f.Email)
	requireEmail(errs, "to", f.To)

	return errs
}

// ContactForm carries a message submitted through the contact page.
type ContactForm struct {
	Name    string
	Email   string
	Message string
}

// Validate checks required fields and email syntax.
func (f ContactForm) Validate() FieldErrors {
	errs := FieldErrors{}

	requireField(errs, "name", f.Name, "Please enter your name.")
	requireEmail(errs, "email", f.Email)
	requireField(errs, "message", f.Message, "Please enter a message.")

	return errs
}

func requireField(errs FieldErrors, field, value, message string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = message
	}
}

func requireEmail(errs FieldErrors, field, value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		errs[field] = "Please enter an email address."
		return
	}

	parsed, err := mail.ParseAddress(trimmed)
	if err != nil || parsed.Address != trimmed {
		errs[field] = "Please enter a valid email address."
	}
}
