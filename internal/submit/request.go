// Package submit sends contact, demo and signup form submissions. A Submitter does
// the delivery, either simulated or over HTTP; Service validates the input,
// calls the submitter and turns the outcome into a toast for the visitor.
package submit

import (
	"fmt"
	"strings"
)

// Kind names a form
type Kind string

const (
	KindContact Kind = "contact"
	KindDemo    Kind = "demo"
	KindSignup  Kind = "signup"
)

// Request is a form payload
type Request interface {
	Kind() Kind
	Validate() error
}

// ContactRequest is the contact page form
type ContactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

func (ContactRequest) Kind() Kind { return KindContact }

// Validate requires every field
func (r ContactRequest) Validate() error {
	return required(
		field{"name", r.Name},
		field{"email", r.Email},
		field{"subject", r.Subject},
		field{"message", r.Message},
	)
}

// DemoRequest is the demo booking form. Message is optional.
type DemoRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Company  string `json:"company" form:"company"`
	TeamSize string `json:"teamSize" form:"teamSize"`
	Message  string `json:"message,omitempty" form:"message"`
}

func (DemoRequest) Kind() Kind { return KindDemo }

func (r DemoRequest) Validate() error {
	return required(
		field{"name", r.Name},
		field{"email", r.Email},
		field{"company", r.Company},
		field{"teamSize", r.TeamSize},
	)
}

// SignupRequest is the quick trial signup, an email address only
type SignupRequest struct {
	Email string `json:"email" form:"email"`
}

func (SignupRequest) Kind() Kind { return KindSignup }

func (r SignupRequest) Validate() error {
	return required(field{"email", r.Email})
}

// ValidationError lists the required fields that were empty
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

type field struct {
	name  string
	value string
}

func required(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
