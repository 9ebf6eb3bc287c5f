package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/menuadmin/api"
	"github.com/arthur-debert/menuadmin/dashboard"
	"github.com/arthur-debert/menuadmin/internal/validation"
)

// CLIError represents a user-friendly CLI error with context and suggestions
type CLIError struct {
	Operation   string   // The operation that failed (e.g., "add item", "log in")
	Cause       string   // The underlying cause (e.g., "item not found")
	Details     string   // Additional technical details
	Suggestions []string // Helpful suggestions for the user
	Underlying  error    // Original error for debugging
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var msg strings.Builder

	if e.Operation != "" {
		msg.WriteString(fmt.Sprintf("Failed to %s", e.Operation))
	} else {
		msg.WriteString("Operation failed")
	}

	if e.Cause != "" {
		msg.WriteString(fmt.Sprintf(": %s", e.Cause))
	}

	if e.Details != "" {
		msg.WriteString(fmt.Sprintf(" (%s)", e.Details))
	}

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			msg.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return msg.String()
}

// Unwrap returns the underlying error for error chain compatibility
func (e *CLIError) Unwrap() error {
	return e.Underlying
}

// NewValidationError reports every failing form field at once
func NewValidationError(operation string, errs validation.Errors) *CLIError {
	msgs := make([]string, 0, len(errs))
	for _, field := range errs.Fields() {
		msgs = append(msgs, errs[field])
	}
	return &CLIError{
		Operation:   operation,
		Cause:       strings.Join(msgs, ", "),
		Suggestions: []string{CommonSuggestions.CheckFlags},
		Underlying:  errs,
	}
}

// NewFlagError creates an error for a flag value that cannot be parsed
func NewFlagError(operation, flag string, err error) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("invalid --%s", flag),
		Details:     err.Error(),
		Suggestions: []string{CommonSuggestions.RunHelp},
		Underlying:  err,
	}
}

// NewNotFoundError creates an error for an item id missing from the menu
func NewNotFoundError(operation, id string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("menu item with ID %q not found", id),
		Suggestions: []string{CommonSuggestions.CheckID},
	}
}

// NewConfigError creates an error for configuration issues
func NewConfigError(issue string, underlying error, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   "load configuration",
		Cause:       issue,
		Suggestions: append(suggestions, CommonSuggestions.CheckConfig),
		Underlying:  underlying,
	}
}

// NewAuthRequiredError is returned when a command needs a session and there
// is none
func NewAuthRequiredError(operation string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       "not logged in",
		Suggestions: []string{CommonSuggestions.Login},
	}
}

// NewAPIError creates an error for a failed backend call. message is what the
// administrator sees; the server's own message wins when it sent one.
func NewAPIError(operation, message string, underlying error) *CLIError {
	cliErr := &CLIError{
		Operation:  operation,
		Cause:      message,
		Underlying: underlying,
	}

	var apiErr *api.APIError
	var netErr *api.NetworkError
	switch {
	case api.IsUnauthorized(underlying):
		cliErr.Cause = "session expired or was revoked"
		cliErr.Suggestions = []string{CommonSuggestions.Login}
	case errors.As(underlying, &apiErr):
		cliErr.Details = fmt.Sprintf("HTTP %d", apiErr.Status)
	case errors.As(underlying, &netErr):
		cliErr.Details = netErr.Err.Error()
		cliErr.Suggestions = []string{CommonSuggestions.CheckAPI}
	}
	return cliErr
}

// WrapError wraps an existing error with CLI-friendly context
func WrapError(operation string, op dashboard.Op, err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Operation == "" {
			cliErr.Operation = operation
		}
		return cliErr
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return NewValidationError(operation, verrs)
	}

	return NewAPIError(operation, dashboard.NoticeFor(op, err).Message, err)
}

// CommonSuggestions holds suggestion texts shared across commands
var CommonSuggestions = struct {
	Login       string
	CheckID     string
	CheckAPI    string
	CheckConfig string
	CheckFlags  string
	RunHelp     string
}{
	Login:       "Run 'menuadmin login' to sign in",
	CheckID:     "Verify the item ID exists (try 'menuadmin list' first)",
	CheckAPI:    "Verify --api-url points to a running backend",
	CheckConfig: "Check your configuration file or MENUADMIN_* environment variables",
	CheckFlags:  "Check command line flags and their values",
	RunHelp:     "Run command with --help for usage information",
}
