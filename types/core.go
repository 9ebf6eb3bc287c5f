package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MenuItem is a dish as the backend reports it
type MenuItem struct {
	ID          string     // Server-assigned identifier, wire name "_id"
	Name        string     // Dish name
	Description string     // Free text shown on the card
	Price       float64    // Always > 0 for records that passed validation
	Category    Category   // One of Categories
	Image       string     // URI, data: URL, or empty
	IsAvailable bool       // Whether the dish can be ordered
	SpiceLevel  SpiceLevel // One of SpiceLevels
	Vegetarian  bool
}

// menuItemWire is the JSON shape of a MenuItem. The backend names the
// identifier "_id"; "id" is accepted on decode.
type menuItemWire struct {
	MongoID     string     `json:"_id,omitempty"`
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Category    Category   `json:"category"`
	Image       string     `json:"image"`
	IsAvailable bool       `json:"isAvailable"`
	SpiceLevel  SpiceLevel `json:"spiceLevel"`
	Vegetarian  bool       `json:"vegetarian"`
}

// MarshalJSON encodes the item with the identifier under "_id"
func (m MenuItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(menuItemWire{
		MongoID:     m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Category:    m.Category,
		Image:       m.Image,
		IsAvailable: m.IsAvailable,
		SpiceLevel:  m.SpiceLevel,
		Vegetarian:  m.Vegetarian,
	})
}

// UnmarshalJSON decodes an item, preferring "_id" over "id"
func (m *MenuItem) UnmarshalJSON(data []byte) error {
	var w menuItemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id := w.MongoID
	if id == "" {
		id = w.ID
	}
	*m = MenuItem{
		ID:          id,
		Name:        w.Name,
		Description: w.Description,
		Price:       w.Price,
		Category:    w.Category,
		Image:       w.Image,
		IsAvailable: w.IsAvailable,
		SpiceLevel:  w.SpiceLevel,
		Vegetarian:  w.Vegetarian,
	}
	return nil
}

// UserID is a user identifier that the backend may send as a number or a string
type UserID string

// UnmarshalJSON accepts both JSON numbers and strings
func (id *UserID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*id = UserID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or number: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

// UserRecord is the signed-in administrator. Only used for display.
type UserRecord struct {
	ID    UserID `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// Session pairs a bearer token with the user it was issued to
type Session struct {
	Token string     `json:"token"`
	User  UserRecord `json:"user"`
}

// FilterState narrows the visible list. Category is AllCategories or a
// Category value.
type FilterState struct {
	Query    string
	Category string
}

// AllCategories is the facet value that disables category filtering
const AllCategories = "All"
