package formats

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/menuadmin/types"
)

// cellEscaper keeps pipes and newlines from breaking table rows
var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

// Markdown renders a pipe table for lists and a heading with a field list
// for single items
var Markdown = &OutputFormat{
	Name: "markdown",
	Items: func(w io.Writer, items []types.MenuItem) error {
		var b strings.Builder
		b.WriteString("| Name | Category | Price | Spice | Vegetarian | Available |\n")
		b.WriteString("|------|----------|------:|-------|------------|-----------|\n")
		for _, item := range items {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				cellEscaper.Replace(item.Name),
				item.Category,
				Price(item.Price),
				item.SpiceLevel,
				yesNo(item.Vegetarian),
				yesNo(item.IsAvailable))
		}
		_, err := io.WriteString(w, b.String())
		return err
	},
	Item: func(w io.Writer, item types.MenuItem) error {
		var b strings.Builder
		b.WriteString("# " + item.Name + "\n\n")
		if item.Description != "" {
			b.WriteString(item.Description + "\n\n")
		}
		fmt.Fprintf(&b, "- **ID**: %s\n", item.ID)
		fmt.Fprintf(&b, "- **Price**: %s\n", Price(item.Price))
		fmt.Fprintf(&b, "- **Category**: %s\n", item.Category)
		fmt.Fprintf(&b, "- **Spice level**: %s\n", item.SpiceLevel)
		fmt.Fprintf(&b, "- **Vegetarian**: %s\n", yesNo(item.Vegetarian))
		fmt.Fprintf(&b, "- **Available**: %s\n", yesNo(item.IsAvailable))
		if item.Image != "" && !strings.HasPrefix(item.Image, "data:") {
			fmt.Fprintf(&b, "\n![%s](%s)\n", item.Name, item.Image)
		}
		_, err := io.WriteString(w, b.String())
		return err
	},
}

func init() {
	mustRegister(Markdown)
}
