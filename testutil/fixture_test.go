package testutil

import (
	"testing"

	"github.com/arthur-debert/menuadmin/types"
)

func TestLoadMenu(t *testing.T) {
	menu := LoadMenu(t)

	if len(menu.All) != 7 {
		t.Fatalf("expected 7 items, got %d", len(menu.All))
	}
	if len(menu.ByID) != len(menu.All) {
		t.Errorf("duplicate ids in fixture: %d unique of %d", len(menu.ByID), len(menu.All))
	}

	if menu.ButterChicken.Category != types.MainCourse {
		t.Errorf("ButterChicken category incorrect: got %q", menu.ButterChicken.Category)
	}
	if menu.DalMakhani.IsAvailable {
		t.Error("DalMakhani should be unavailable")
	}
	if menu.PaneerTikka.SpiceLevel != types.Spicy {
		t.Errorf("PaneerTikka spice level incorrect: got %q", menu.PaneerTikka.SpiceLevel)
	}

	for _, item := range menu.All {
		if _, err := types.ParseCategory(string(item.Category)); err != nil {
			t.Errorf("%s has unknown category %q", item.ID, item.Category)
		}
	}
}
