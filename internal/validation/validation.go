package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/menuadmin/types"
)

// Field names used as keys in Errors
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
)

// Errors maps a form field to a human-readable message. An empty map means
// the draft is valid.
type Errors map[string]string

// Error implements the error interface
func (e Errors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	parts := make([]string, 0, len(e))
	for _, field := range e.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e[field]))
	}
	return "invalid menu item: " + strings.Join(parts, "; ")
}

// Fields returns the failing field names in sorted order
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Err returns nil for an empty map so callers can write
// `if err := Validate(d).Err(); err != nil`.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Validate checks a draft before it is sent upstream. Only name,
// description and price are checked; everything else has a default.
func Validate(d types.MenuItemDraft) Errors {
	errs := Errors{}

	if d.Name == nil || strings.TrimSpace(*d.Name) == "" {
		errs[FieldName] = "Name is required"
	}

	if d.Description == nil || strings.TrimSpace(*d.Description) == "" {
		errs[FieldDescription] = "Description is required"
	}

	// NaN fails the comparison as well
	if d.Price == nil || !(*d.Price > 0) {
		errs[FieldPrice] = "Valid price is required"
	}

	return errs
}
