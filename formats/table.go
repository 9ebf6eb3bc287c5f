package formats

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/arthur-debert/menuadmin/types"
)

// Table renders aligned columns for interactive use
var Table = &OutputFormat{
	Name: "table",
	Items: func(w io.Writer, items []types.MenuItem) error {
		if len(items) == 0 {
			_, err := fmt.Fprintln(w, "No items found\nTry adjusting your search or filters")
			return err
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSPICE\tVEG\tAVAILABLE")
		for _, item := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				item.ID, item.Name, item.Category, Price(item.Price),
				item.SpiceLevel, yesNo(item.Vegetarian), yesNo(item.IsAvailable))
		}
		return tw.Flush()
	},
	Item: func(w io.Writer, item types.MenuItem) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		rows := [][2]string{
			{"ID", item.ID},
			{"Name", item.Name},
			{"Description", item.Description},
			{"Price", Price(item.Price)},
			{"Category", string(item.Category)},
			{"Spice level", string(item.SpiceLevel)},
			{"Vegetarian", yesNo(item.Vegetarian)},
			{"Available", yesNo(item.IsAvailable)},
			{"Image", imageSummary(item.Image)},
		}
		for _, row := range rows {
			fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
		}
		return tw.Flush()
	},
}

func init() {
	mustRegister(Table)
}
