package types

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// MenuItemDraft is a menu item being composed in a form. Every field is
// optional while editing; nil means the user has not set it.
type MenuItemDraft struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *Category
	Image       *string
	IsAvailable *bool
	SpiceLevel  *SpiceLevel
	Vegetarian  *bool
}

// Defaults returns the draft an empty "add dish" form starts with
func Defaults() MenuItemDraft {
	return MenuItemDraft{
		Category:    Ptr(MainCourse),
		Image:       Ptr(""),
		IsAvailable: Ptr(true),
		SpiceLevel:  Ptr(Medium),
		Vegetarian:  Ptr(false),
	}
}

// DraftFrom seeds an edit form with an existing item's values
func DraftFrom(item MenuItem) MenuItemDraft {
	d := Defaults()
	d.Name = Ptr(item.Name)
	d.Description = Ptr(item.Description)
	d.Price = Ptr(item.Price)
	if item.Category != "" {
		d.Category = Ptr(item.Category)
	}
	d.Image = Ptr(item.Image)
	d.IsAvailable = Ptr(item.IsAvailable)
	if item.SpiceLevel != "" {
		d.SpiceLevel = Ptr(item.SpiceLevel)
	}
	d.Vegetarian = Ptr(item.Vegetarian)
	return d
}

// DraftPayload is the body sent upstream for create and replace. It never
// carries an identifier.
type DraftPayload struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Category    Category   `json:"category"`
	Image       string     `json:"image"`
	IsAvailable bool       `json:"isAvailable"`
	SpiceLevel  SpiceLevel `json:"spiceLevel"`
	Vegetarian  bool       `json:"vegetarian"`
}

// Payload flattens the draft, filling unset optional fields from Defaults.
// Callers validate before sending.
func (d MenuItemDraft) Payload() DraftPayload {
	def := Defaults()
	return DraftPayload{
		Name:        strings.TrimSpace(deref(d.Name, "")),
		Description: strings.TrimSpace(deref(d.Description, "")),
		Price:       deref(d.Price, 0),
		Category:    deref(d.Category, *def.Category),
		Image:       deref(d.Image, ""),
		IsAvailable: deref(d.IsAvailable, *def.IsAvailable),
		SpiceLevel:  deref(d.SpiceLevel, *def.SpiceLevel),
		Vegetarian:  deref(d.Vegetarian, *def.Vegetarian),
	}
}

// ErrNotAnImage is returned by ImageDataURL for non-image content
var ErrNotAnImage = errors.New("Please upload an image file")

// ImageDataURL encodes raw image bytes as a base64 data: URL
func ImageDataURL(data []byte) (string, error) {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", ErrNotAnImage
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

func deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
