// Package formats renders menu items for the terminal. Renderers register
// themselves by name and are looked up with Get.
package formats

import (
	"fmt"
	"io"
	"sort"

	"github.com/arthur-debert/menuadmin/types"
)

// OutputFormat defines how menu items are written out
type OutputFormat struct {
	// Name is the format identifier (alphanumeric, dashes, underscores, lowercase)
	Name string

	// Items writes a list of items. An empty list still produces valid
	// output for structured formats.
	Items func(w io.Writer, items []types.MenuItem) error

	// Item writes a single item
	Item func(w io.Writer, item types.MenuItem) error
}

// registry holds all available output formats
var registry = make(map[string]*OutputFormat)

// Register adds a new output format to the registry
func Register(format *OutputFormat) error {
	// Validate format name (alphanumeric, dashes, underscores, lowercase)
	if !isValidFormatName(format.Name) {
		return fmt.Errorf("invalid format name %q: must be lowercase alphanumeric with dashes and underscores only", format.Name)
	}

	if format.Items == nil || format.Item == nil {
		return fmt.Errorf("format %q must render both lists and single items", format.Name)
	}

	// Check if format already exists
	if _, exists := registry[format.Name]; exists {
		return fmt.Errorf("format %q already registered", format.Name)
	}

	registry[format.Name] = format
	return nil
}

// Get returns an output format by name
func Get(name string) (*OutputFormat, error) {
	format, exists := registry[name]
	if !exists {
		return nil, fmt.Errorf("unknown format %q (available: %v)", name, List())
	}
	return format, nil
}

// List returns all registered format names, sorted
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isValidFormatName checks if a format name is valid
func isValidFormatName(name string) bool {
	if name == "" {
		return false
	}

	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return false
		}
	}
	return true
}

func mustRegister(format *OutputFormat) {
	if err := Register(format); err != nil {
		panic(fmt.Sprintf("failed to register %s format: %v", format.Name, err))
	}
}
