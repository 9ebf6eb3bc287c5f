package formats

import (
	"io"
	"strings"
	"testing"

	"github.com/arthur-debert/menuadmin/types"
	"github.com/google/go-cmp/cmp"
)

func noopItems(io.Writer, []types.MenuItem) error { return nil }
func noopItem(io.Writer, types.MenuItem) error     { return nil }

func TestRegister(t *testing.T) {
	// Save original registry
	originalRegistry := registry
	defer func() { registry = originalRegistry }()

	registry = make(map[string]*OutputFormat)

	tests := []struct {
		name      string
		format    *OutputFormat
		wantError bool
		errorMsg  string
	}{
		{
			name:   "valid format",
			format: &OutputFormat{Name: "test-format", Items: noopItems, Item: noopItem},
		},
		{
			name:      "invalid name with uppercase",
			format:    &OutputFormat{Name: "TestFormat", Items: noopItems, Item: noopItem},
			wantError: true,
			errorMsg:  "invalid format name",
		},
		{
			name:      "invalid name with special chars",
			format:    &OutputFormat{Name: "test@format", Items: noopItems, Item: noopItem},
			wantError: true,
			errorMsg:  "invalid format name",
		},
		{
			name:      "empty name",
			format:    &OutputFormat{Name: "", Items: noopItems, Item: noopItem},
			wantError: true,
			errorMsg:  "invalid format name",
		},
		{
			name:      "missing item renderer",
			format:    &OutputFormat{Name: "half", Items: noopItems},
			wantError: true,
			errorMsg:  "must render",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Register(tt.format)

			if tt.wantError {
				if err == nil {
					t.Errorf("expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	t.Run("duplicate format", func(t *testing.T) {
		format := &OutputFormat{Name: "duplicate", Items: noopItems, Item: noopItem}

		if err := Register(format); err != nil {
			t.Fatalf("first registration failed: %v", err)
		}

		err := Register(format)
		if err == nil {
			t.Error("expected error for duplicate registration")
		} else if !strings.Contains(err.Error(), "already registered") {
			t.Errorf("expected 'already registered' error, got %q", err.Error())
		}
	})
}

func TestGet(t *testing.T) {
	for _, name := range []string{"table", "json", "yaml", "markdown"} {
		format, err := Get(name)
		if err != nil {
			t.Errorf("Get(%q): %v", name, err)
			continue
		}
		if format.Name != name {
			t.Errorf("Get(%q) returned %q", name, format.Name)
		}
	}

	if _, err := Get("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestList(t *testing.T) {
	want := []string{"json", "markdown", "table", "yaml"}
	if diff := cmp.Diff(want, List()); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestIsValidFormatName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"lowercase letters", "test", true},
		{"with numbers", "test123", true},
		{"with dashes", "test-format", true},
		{"with underscores", "test_format", true},
		{"uppercase letters", "Test", false},
		{"special chars", "test@format", false},
		{"spaces", "test format", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidFormatName(tt.input); got != tt.want {
				t.Errorf("isValidFormatName(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
