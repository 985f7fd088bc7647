// Package validate holds the client-side form checks that run before any
// network call. Failures are reported per field and never sent to the server.
package validate

import (
	"fmt"
	"strings"

	"github.com/tobiusaolo/Cariya-wallet/models"
)

// FieldErrors maps an offending field name to an inline message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// Login checks a login form. Returns nil when the form is acceptable.
func Login(mobileNumber, password string) error {
	errs := FieldErrors{}
	if !ValidPhone(mobileNumber) {
		errs["mobile_number"] = "Phone number must be in format +256XXXXXXXXX"
	}
	if strings.TrimSpace(password) == "" {
		errs["password"] = "Password is required"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParseChildrenAges splits an ages list like "2/4/6" (commas also accepted)
// into its entries, dropping blanks.
func ParseChildrenAges(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '/' || r == ','
	})
	ages := make([]string, 0, len(fields))
	for _, f := range fields {
		if s := strings.TrimSpace(f); s != "" {
			ages = append(ages, s)
		}
	}
	return ages
}

// Registration checks a registration form, including the child-count/age-list
// agreement the server also enforces.
func Registration(form models.Registration) error {
	errs := FieldErrors{}
	if strings.TrimSpace(form.FirstName) == "" {
		errs["first_name"] = "First name is required"
	}
	if strings.TrimSpace(form.Surname) == "" {
		errs["surname"] = "Surname is required"
	}
	if !ValidPhone(form.MobileNumber) {
		errs["mobile_number"] = "Phone number must be in format +256XXXXXXXXX"
	}
	if form.NumChildren < 0 {
		errs["num_children"] = "Number of children cannot be negative"
	} else if ages := ParseChildrenAges(form.AgesOfChildren); len(ages) != form.NumChildren {
		errs["ages_of_children"] = fmt.Sprintf("Please provide exactly %d ages", form.NumChildren)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
