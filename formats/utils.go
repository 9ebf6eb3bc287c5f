package formats

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/menuadmin/types"
)

// Price formats an amount in rupees without trailing zeros, e.g. "₹30" or "₹12.5"
func Price(p float64) string {
	return "₹" + strconv.FormatFloat(p, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// imageSummary keeps data: URLs from flooding the terminal
func imageSummary(image string) string {
	switch {
	case image == "":
		return "-"
	case strings.HasPrefix(image, "data:"):
		mediaType, _, _ := strings.Cut(strings.TrimPrefix(image, "data:"), ";")
		return "(embedded " + mediaType + ")"
	default:
		return image
	}
}

// record is the field-per-key view of an item used by the structured
// encoders that do not go through MenuItem's JSON methods
type record struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Price       float64          `yaml:"price"`
	Category    types.Category   `yaml:"category"`
	Image       string           `yaml:"image,omitempty"`
	IsAvailable bool             `yaml:"isAvailable"`
	SpiceLevel  types.SpiceLevel `yaml:"spiceLevel"`
	Vegetarian  bool             `yaml:"vegetarian"`
}

func toRecord(item types.MenuItem) record {
	return record{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Category:    item.Category,
		Image:       item.Image,
		IsAvailable: item.IsAvailable,
		SpiceLevel:  item.SpiceLevel,
		Vegetarian:  item.Vegetarian,
	}
}
