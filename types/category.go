package types

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is the facet a dish is listed under
type Category string

const (
	Starter    Category = "Starter"
	MainCourse Category = "Main Course"
	Sweets     Category = "Sweets"
	Drinks     Category = "Drinks"
	Desserts   Category = "Desserts"
	Beverages  Category = "Beverages"
)

// Categories lists every category in menu order
var Categories = []Category{Starter, MainCourse, Sweets, Drinks, Desserts, Beverages}

// SpiceLevel describes how hot a dish is
type SpiceLevel string

const (
	Mild   SpiceLevel = "Mild"
	Medium SpiceLevel = "Medium"
	Spicy  SpiceLevel = "Spicy"
)

// SpiceLevels lists every spice level from mildest to hottest
var SpiceLevels = []SpiceLevel{Mild, Medium, Spicy}

// normalize collapses whitespace and title-cases user input so that
// "main   course" and "MAIN COURSE" both become "Main Course".
func normalize(s string) string {
	// Casers carry state and cannot be shared between goroutines
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}

// ParseCategory resolves user input to a Category
func ParseCategory(s string) (Category, error) {
	n := normalize(s)
	for _, c := range Categories {
		if string(c) == n {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (valid: %s)", s, joinCategories(Categories))
}

// ParseFacet resolves user input to a category filter value. Empty input
// and "all" select every category.
func ParseFacet(s string) (string, error) {
	n := normalize(s)
	if n == "" || n == AllCategories {
		return AllCategories, nil
	}
	c, err := ParseCategory(s)
	if err != nil {
		return "", err
	}
	return string(c), nil
}

// ParseSpiceLevel resolves user input to a SpiceLevel
func ParseSpiceLevel(s string) (SpiceLevel, error) {
	n := normalize(s)
	for _, l := range SpiceLevels {
		if string(l) == n {
			return l, nil
		}
	}
	names := make([]string, len(SpiceLevels))
	for i, l := range SpiceLevels {
		names[i] = string(l)
	}
	return "", fmt.Errorf("unknown spice level %q (valid: %s)", s, strings.Join(names, ", "))
}

func joinCategories(cs []Category) string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
