// Package testutil provides shared fixtures and a fake REST backend for
// tests across the module.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/arthur-debert/menuadmin/types"
)

// MenuData provides typed access to the menu fixture
type MenuData struct {
	Samosa        types.MenuItem // Starter, matches "potato"
	PaneerTikka   types.MenuItem // Starter, Spicy
	ButterChicken types.MenuItem // Main Course, name and description contain "butter"
	DalMakhani    types.MenuItem // Main Course, unavailable, description contains "BUTTER"
	GulabJamun    types.MenuItem // Sweets
	MangoLassi    types.MenuItem // Beverages, description contains "yoghurt"
	MasalaChai    types.MenuItem // Drinks

	// All items in fixture order
	All []types.MenuItem

	// ByID indexes All
	ByID map[string]types.MenuItem
}

type fixtureData struct {
	Items []types.MenuItem `json:"items"`
}

// LoadMenu reads testdata/menu.json
func LoadMenu(t testing.TB) *MenuData {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate fixture directory")
	}
	data, err := os.ReadFile(filepath.Join(filepath.Dir(file), "testdata", "menu.json"))
	if err != nil {
		t.Fatalf("failed to read fixture file: %v", err)
	}

	var fixture fixtureData
	if err := json.Unmarshal(data, &fixture); err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	menu := &MenuData{
		All:  fixture.Items,
		ByID: make(map[string]types.MenuItem, len(fixture.Items)),
	}
	for _, item := range fixture.Items {
		menu.ByID[item.ID] = item
	}

	named := map[string]*types.MenuItem{
		"m-samosa":         &menu.Samosa,
		"m-paneer-tikka":   &menu.PaneerTikka,
		"m-butter-chicken": &menu.ButterChicken,
		"m-dal-makhani":    &menu.DalMakhani,
		"m-gulab-jamun":    &menu.GulabJamun,
		"m-mango-lassi":    &menu.MangoLassi,
		"m-masala-chai":    &menu.MasalaChai,
	}
	for id, dst := range named {
		item, ok := menu.ByID[id]
		if !ok {
			t.Fatalf("fixture is missing %s", id)
		}
		*dst = item
	}

	return menu
}

// IDs returns the identifiers of items in order
func IDs(items []types.MenuItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
